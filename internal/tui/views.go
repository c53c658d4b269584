package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/loanwise/internal/form"
	"github.com/Veraticus/loanwise/internal/model"
	"github.com/Veraticus/loanwise/internal/popup"
	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("🏦 Loan Approval"),
		m.theme.Subtitle.Render("Enter the applicant details and press Enter to predict."),
		m.renderFields(),
		"",
		m.renderResult(),
	)

	if decorations := m.renderDecorations(); decorations != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", decorations)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.RoundedBox.Render(body),
		m.help.View(m.keymap),
	)
}

func (m Model) renderFields() string {
	rows := make([]string, len(form.Fields))
	for i, f := range form.Fields {
		label := m.theme.Label
		if i == m.focus {
			label = m.theme.FocusedLabel
		}

		marker := "  "
		if m.invalid != nil && m.invalid.Has(f.ID) {
			marker = lipgloss.NewStyle().Foreground(m.theme.Warning).Render("! ")
		}

		rows[i] = lipgloss.JoinHorizontal(lipgloss.Top,
			marker,
			label.Render(f.Label),
			m.inputs[i].View(),
		)
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderResult() string {
	if m.state.Kind == model.DisplayPending {
		return m.spinner.View() + " " + m.theme.PillPending.Render("Predicting...")
	}
	return m.renderer.Pill(m.state)
}

// renderDecorations places the popup beside the gauge.
func (m Model) renderDecorations() string {
	var parts []string
	if m.anim != nil {
		parts = append(parts, m.gaugeView.Render(m.frame))
	}
	if m.popup.Visible() {
		if len(parts) > 0 {
			parts = append(parts, "  ")
		}
		parts = append(parts, m.renderPopup())
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m Model) renderPopup() string {
	style := m.theme.Popup
	if m.popup.Phase == popup.PhaseFading {
		style = m.theme.PopupFading
	}
	blend := m.popup.Blend
	return style.Render(fmt.Sprintf("%d%%\n%s", blend.Percent, blend.Caption()))
}
