// Package popup computes and times the decorative confidence popup.
//
// Nothing here is a prediction. DisplayBlend mixes the server's percent with a
// fixed client-side heuristic purely for the popup readout, and its result must
// never be used to decide approval styling.
package popup

import (
	"math"

	"github.com/Veraticus/loanwise/internal/model"
)

// Heuristic coefficients.
const (
	heuristicBase       = 0.45
	marriedBonus        = 0.08
	educationBonus      = 0.06
	creditHistoryBonus  = 0.35
	loanPenaltyMax      = 0.15
	loanPenaltyCeiling  = 200000.0
	serverWeight        = 0.6
	heuristicWeight     = 0.4
	likelyApprovedFloor = 50
)

// Captions shown under the popup percent.
const (
	CaptionLikely = "Likely approved"
	CaptionAtRisk = "At risk / needs review"
)

// Blend is the popup's display-only confidence.
type Blend struct {
	Heuristic float64
	Final     float64
	Percent   int
}

// Caption describes the blended percent.
func (b Blend) Caption() string {
	if b.Percent >= likelyApprovedFloor {
		return CaptionLikely
	}
	return CaptionAtRisk
}

// Heuristic scores the form fields. Gender carries no weight.
func Heuristic(input model.FormInput) float64 {
	h := heuristicBase
	if input.Married == 1 {
		h += marriedBonus
	}
	if input.Education == 1 {
		h += educationBonus
	}
	if input.CreditHistory == 1 {
		h += creditHistoryBonus
	}
	loanFactor := clamp01(input.LoanAmount / loanPenaltyCeiling)
	h -= loanFactor * loanPenaltyMax
	return clamp01(h)
}

// DisplayBlend weights the server percent 60/40 against the heuristic.
// Without a server percent the heuristic is used alone.
func DisplayBlend(input model.FormInput, serverPercent *int) Blend {
	h := Heuristic(input)
	final := h
	if serverPercent != nil {
		final = clamp01(float64(*serverPercent)/100*serverWeight + h*heuristicWeight)
	}
	return Blend{
		Heuristic: h,
		Final:     final,
		Percent:   int(math.Floor(final*100 + 0.5)),
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
