package render

import (
	"fmt"
	"strings"

	"github.com/Veraticus/loanwise/internal/model"
	"github.com/Veraticus/loanwise/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// Glyphs used in pills.
const (
	GlyphApproved = "✅"
	GlyphRejected = "❌"
	GlyphWarning  = "⚠️"
	GlyphPending  = "⏳"
)

// Renderer draws display states as pills.
type Renderer struct {
	theme themes.Theme
}

// NewRenderer creates a renderer using theme.
func NewRenderer(theme themes.Theme) Renderer {
	return Renderer{theme: theme}
}

// PillText returns the unstyled pill content for a state.
func PillText(state model.DisplayState) string {
	switch state.Kind {
	case model.DisplayPending:
		return GlyphPending + " Predicting..."
	case model.DisplayApproved:
		return GlyphApproved + " " + state.Label
	case model.DisplayRejected:
		return GlyphRejected + " " + state.Label
	case model.DisplayValidationError:
		return GlyphWarning + " " + state.Message
	case model.DisplayTransportError, model.DisplayHTTPError, model.DisplayDomainError:
		return GlyphRejected + " " + state.Message
	default:
		return ""
	}
}

// Pill renders the styled pill, followed by a muted detail line for HTTP errors
// and server notes.
func (r Renderer) Pill(state model.DisplayState) string {
	text := PillText(state)
	if text == "" {
		return ""
	}

	var pill string
	switch state.Kind {
	case model.DisplayPending:
		pill = r.theme.PillPending.Render(text)
	case model.DisplayApproved:
		pill = r.theme.PillApproved.Render(text)
	default:
		pill = r.theme.PillRejected.Render(text)
	}

	detail := strings.TrimSpace(state.Detail)
	if detail == "" || state.Kind == model.DisplayTransportError {
		return pill
	}
	return lipgloss.JoinVertical(lipgloss.Left, pill, r.theme.Detail.Render(detail))
}

// Summary is a one-line plain description of the state for logs and scripts.
func Summary(state model.DisplayState) string {
	switch state.Kind {
	case model.DisplayApproved, model.DisplayRejected:
		if state.Percent != nil {
			return fmt.Sprintf("%s (%d%%)", state.Label, *state.Percent)
		}
		return state.Label
	case model.DisplayHTTPError:
		if state.Detail != "" {
			return state.Message + ": " + state.Detail
		}
		return state.Message
	case model.DisplayPending:
		return "Predicting..."
	default:
		return state.Message
	}
}
