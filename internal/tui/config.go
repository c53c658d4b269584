package tui

import (
	"time"

	"github.com/Veraticus/loanwise/internal/popup"
	"github.com/Veraticus/loanwise/internal/predict"
	"github.com/Veraticus/loanwise/internal/render"
	"github.com/Veraticus/loanwise/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Predictor   predict.Predictor
	Theme       themes.Theme
	Mode        render.DecisionMode
	PopupTTL    time.Duration
	Width       int
	Height      int
	GaugeRadius int
	ShowGauge   bool
	ShowPopup   bool
	AltScreen   bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:       themes.Default,
		Mode:        render.ModeProbability,
		PopupTTL:    popup.DefaultTTL,
		Width:       80,
		Height:      24,
		GaugeRadius: 6,
		ShowGauge:   true,
		ShowPopup:   true,
		AltScreen:   true,
	}
}

// WithPredictor sets the prediction client.
func WithPredictor(p predict.Predictor) Option {
	return func(c *Config) {
		c.Predictor = p
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithMode sets how responses are classified as approved.
func WithMode(mode render.DecisionMode) Option {
	return func(c *Config) {
		c.Mode = mode
	}
}

// WithPopupTTL sets how long the confidence popup stays visible.
func WithPopupTTL(ttl time.Duration) Option {
	return func(c *Config) {
		c.PopupTTL = ttl
	}
}

// WithGauge toggles the approval gauge.
func WithGauge(enabled bool) Option {
	return func(c *Config) {
		c.ShowGauge = enabled
	}
}

// WithPopup toggles the confidence popup.
func WithPopup(enabled bool) Option {
	return func(c *Config) {
		c.ShowPopup = enabled
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithAltScreen controls whether the program takes over the full terminal.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
