// Package themes holds the lipgloss palettes shared by the TUI and renderers.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Label         lipgloss.Style
	FocusedLabel  lipgloss.Style
	Pill          lipgloss.Style
	PillApproved  lipgloss.Style
	PillRejected  lipgloss.Style
	PillWarning   lipgloss.Style
	PillPending   lipgloss.Style
	Detail        lipgloss.Style
	RoundedBox    lipgloss.Style
	BorderedBox   lipgloss.Style
	Popup         lipgloss.Style
	PopupFading   lipgloss.Style
	GaugeLow      lipgloss.Color
	GaugeHigh     lipgloss.Color
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Success       lipgloss.Color
	Warning       lipgloss.Color
	Error         lipgloss.Color
	Needle        lipgloss.Color
}

func newTheme(p palette) Theme {
	pill := lipgloss.NewStyle().Padding(0, 1).Bold(true)

	return Theme{
		Primary:    p.primary,
		Muted:      p.muted,
		Border:     p.border,
		Foreground: p.foreground,
		Success:    p.success,
		Warning:    p.warning,
		Error:      p.error,
		GaugeLow:   p.gaugeLow,
		GaugeHigh:  p.gaugeHigh,
		Needle:     p.foreground,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.muted).
			MarginBottom(1),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Label: lipgloss.NewStyle().
			Foreground(p.muted).
			Width(16),
		FocusedLabel: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			Width(16),

		Pill: pill.
			Foreground(p.foreground).
			Background(p.border),
		PillApproved: pill.
			Foreground(p.background).
			Background(p.success),
		PillRejected: pill.
			Foreground(p.background).
			Background(p.error),
		PillWarning: pill.
			Foreground(p.background).
			Background(p.warning),
		PillPending: pill.
			Foreground(p.muted).
			Italic(true),
		Detail: lipgloss.NewStyle().
			Foreground(p.muted).
			MarginTop(1),

		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(1, 2),
		BorderedBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.border).
			Padding(1, 2),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Foreground(p.foreground).
			Padding(0, 2).
			Align(lipgloss.Center),
		PopupFading: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Foreground(p.muted).
			Padding(0, 2).
			Align(lipgloss.Center),
	}
}

type palette struct {
	primary    lipgloss.Color
	muted      lipgloss.Color
	border     lipgloss.Color
	foreground lipgloss.Color
	background lipgloss.Color
	success    lipgloss.Color
	warning    lipgloss.Color
	error      lipgloss.Color
	gaugeLow   lipgloss.Color
	gaugeHigh  lipgloss.Color
}

// Default is the default theme.
var Default = newTheme(palette{
	primary:    lipgloss.Color("#7c3aed"),
	muted:      lipgloss.Color("#9aa5b1"),
	border:     lipgloss.Color("#404040"),
	foreground: lipgloss.Color("#fafafa"),
	background: lipgloss.Color("#0b1720"),
	success:    lipgloss.Color("#12b886"),
	warning:    lipgloss.Color("#f59e0b"),
	error:      lipgloss.Color("#f43f5e"),
	gaugeLow:   lipgloss.Color("#f43f5e"),
	gaugeHigh:  lipgloss.Color("#12b886"),
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(palette{
	primary:    lipgloss.Color("#cba6f7"),
	muted:      lipgloss.Color("#6c7086"),
	border:     lipgloss.Color("#45475a"),
	foreground: lipgloss.Color("#cdd6f4"),
	background: lipgloss.Color("#1e1e2e"),
	success:    lipgloss.Color("#a6e3a1"),
	warning:    lipgloss.Color("#f9e2af"),
	error:      lipgloss.Color("#f38ba8"),
	gaugeLow:   lipgloss.Color("#f38ba8"),
	gaugeHigh:  lipgloss.Color("#a6e3a1"),
})

// Plain renders without colors or decoration, for pipes and tests.
var Plain = Theme{
	Title:        lipgloss.NewStyle(),
	Subtitle:     lipgloss.NewStyle(),
	Normal:       lipgloss.NewStyle(),
	Bold:         lipgloss.NewStyle(),
	Label:        lipgloss.NewStyle().Width(16),
	FocusedLabel: lipgloss.NewStyle().Width(16),
	Pill:         lipgloss.NewStyle(),
	PillApproved: lipgloss.NewStyle(),
	PillRejected: lipgloss.NewStyle(),
	PillWarning:  lipgloss.NewStyle(),
	PillPending:  lipgloss.NewStyle(),
	Detail:       lipgloss.NewStyle(),
	RoundedBox:   lipgloss.NewStyle(),
	BorderedBox:  lipgloss.NewStyle(),
	Popup:        lipgloss.NewStyle(),
	PopupFading:  lipgloss.NewStyle(),
}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	case "plain":
		return Plain
	default:
		return Default
	}
}
