package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Veraticus/loanwise/internal/gauge"
	"github.com/schollz/progressbar/v3"
)

// GaugeBar plays the approval gauge sweep on a plain progress bar.
type GaugeBar struct {
	bar      *progressbar.ProgressBar
	writer   io.Writer
	Duration time.Duration
	Interval time.Duration
	last     int
}

// NewGaugeBar creates a 0-100 bar writing to w.
func NewGaugeBar(w io.Writer) *GaugeBar {
	g := &GaugeBar{
		writer:   w,
		Duration: gauge.Duration,
		Interval: gauge.FrameInterval,
	}
	g.bar = progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetDescription("[cyan][bold]Approval Meter[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]█[reset]",
			SaucerPadding: "░",
			BarStart:      "|",
			BarEnd:        "|",
		}),
	)
	return g
}

// Value is the last percent drawn.
func (g *GaugeBar) Value() int {
	return g.last
}

// Animate sweeps the bar from 0 to target with the gauge easing.
// A nil target sweeps to 0. It returns the last frame drawn.
func (g *GaugeBar) Animate(ctx context.Context, target *int) (gauge.Frame, error) {
	anim := gauge.NewAnimation(target, time.Now())
	if err := g.bar.RenderBlank(); err != nil {
		slog.Debug("Failed to render gauge bar", "error", err)
	}
	if g.Duration <= 0 {
		frame := gauge.FrameAt(1, anim.Target)
		return frame, g.finish(frame)
	}

	interval := g.Interval
	if interval <= 0 {
		interval = gauge.FrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return gauge.FrameAt(0, anim.Target), ctx.Err()
		case now := <-ticker.C:
			t := float64(now.Sub(anim.Start)) / float64(g.Duration)
			frame := gauge.FrameAt(t, anim.Target)
			if frame.Done {
				return frame, g.finish(frame)
			}
			g.draw(frame)
		}
	}
}

func (g *GaugeBar) draw(frame gauge.Frame) {
	if frame.Percent == g.last {
		return
	}
	if err := g.bar.Set(frame.Percent); err != nil {
		slog.Debug("Failed to update gauge bar", "error", err)
		return
	}
	g.last = frame.Percent
}

func (g *GaugeBar) finish(frame gauge.Frame) error {
	g.draw(frame)
	if _, err := fmt.Fprintf(g.writer, " %d%%\n", frame.Percent); err != nil {
		return fmt.Errorf("failed to write gauge readout: %w", err)
	}
	return nil
}
