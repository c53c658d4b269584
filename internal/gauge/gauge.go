// Package gauge animates the decorative approval meter.
//
// The gauge is purely presentational: it visualizes a percent that was already
// decided elsewhere and never influences a decision.
package gauge

import (
	"math"
	"time"
)

const (
	// DashTotal is the stroke length of the full half-circle arc.
	DashTotal = 565
	// Duration is the length of the sweep animation.
	Duration = 2 * time.Second
	// FrameInterval targets roughly 60 frames per second.
	FrameInterval = time.Second / 60
)

// EaseInOutQuad is the easing curve shared by the arc, needle and readout.
func EaseInOutQuad(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// ArcOffset maps a percent to the arc's stroke dash offset.
func ArcOffset(percent float64) int {
	return int(math.Round(DashTotal - percent/100*DashTotal))
}

// NeedleAngle maps a percent to a needle rotation in degrees,
// from -90 at 0% to +90 at 100%.
func NeedleAngle(percent float64) float64 {
	return -90 + percent/100*180
}

// Frame is the gauge geometry at one instant.
type Frame struct {
	Progress float64
	Eased    float64
	Value    float64
	Angle    float64
	Percent  int
	Offset   int
	Done     bool
}

// Fill is the fraction of the arc that is drawn.
func (f Frame) Fill() float64 {
	return clamp01(float64(DashTotal-f.Offset) / DashTotal)
}

// Animation sweeps the gauge from 0 to Target.
type Animation struct {
	Start  time.Time
	Target int
}

// NewAnimation starts a sweep to target. A nil target animates to 0.
func NewAnimation(target *int, start time.Time) Animation {
	a := Animation{Start: start}
	if target != nil {
		a.Target = *target
	}
	return a
}

// Frame samples the animation at now.
func (a Animation) Frame(now time.Time) Frame {
	elapsed := now.Sub(a.Start)
	t := clamp01(float64(elapsed) / float64(Duration))
	return FrameAt(t, a.Target)
}

// FrameAt computes the frame at normalized time t for target percent.
func FrameAt(t float64, target int) Frame {
	t = clamp01(t)
	eased := EaseInOutQuad(t)
	value := eased * float64(target)
	return Frame{
		Progress: t,
		Eased:    eased,
		Value:    value,
		Percent:  int(math.Round(value)),
		Offset:   ArcOffset(value),
		Angle:    NeedleAngle(value),
		Done:     t >= 1,
	}
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
