// Package config loads runtime settings for loanwise.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/loanwise/internal/common"
	"github.com/spf13/viper"
)

// Config holds all runtime settings.
type Config struct {
	Predict PredictConfig
	Logging LoggingConfig
	Stub    StubConfig
	UI      UIConfig
	Render  RenderConfig
}

// PredictConfig locates the prediction service.
type PredictConfig struct {
	BaseURL  string
	Endpoint string
	// CAFile is a PEM bundle trusted instead of the system roots.
	CAFile   string
	Timeout  time.Duration
}

// RenderConfig controls result styling.
type RenderConfig struct {
	Mode string
}

// UIConfig controls the decorative parts of the interface.
type UIConfig struct {
	Theme    string
	PopupTTL time.Duration
	Gauge    bool
	Popup    bool
}

// LoggingConfig controls slog output.
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// StubConfig configures the development stub server.
type StubConfig struct {
	Addr      string
	Scenarios string
	CertDir   string
	TLS       bool
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Predict: PredictConfig{
			BaseURL:  "http://127.0.0.1:5000",
			Endpoint: "/predict",
			Timeout:  30 * time.Second,
		},
		Render: RenderConfig{
			Mode: "probability",
		},
		UI: UIConfig{
			Theme:    "default",
			Gauge:    true,
			Popup:    true,
			PopupTTL: 3000 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Stub: StubConfig{
			Addr:    "127.0.0.1:5000",
			CertDir: "~/.config/loanwise/certs",
		},
	}
}

// SetDefaults registers every default with v so env vars and files can override them.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("predict.base_url", d.Predict.BaseURL)
	v.SetDefault("predict.endpoint", d.Predict.Endpoint)
	v.SetDefault("predict.timeout", d.Predict.Timeout)
	v.SetDefault("predict.ca_file", d.Predict.CAFile)
	v.SetDefault("render.mode", d.Render.Mode)
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.gauge", d.UI.Gauge)
	v.SetDefault("ui.popup", d.UI.Popup)
	v.SetDefault("ui.popup_ttl", d.UI.PopupTTL)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("stub.addr", d.Stub.Addr)
	v.SetDefault("stub.scenarios", d.Stub.Scenarios)
	v.SetDefault("stub.tls", d.Stub.TLS)
	v.SetDefault("stub.cert_dir", d.Stub.CertDir)
}

// Load reads the configuration from Viper.
// Precedence: flags, LOANWISE_ env vars, config file, defaults.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Predict: PredictConfig{
			BaseURL:  strings.TrimSpace(v.GetString("predict.base_url")),
			Endpoint: strings.TrimSpace(v.GetString("predict.endpoint")),
			Timeout:  v.GetDuration("predict.timeout"),
			CAFile:   ExpandPath(v.GetString("predict.ca_file")),
		},
		Render: RenderConfig{
			Mode: strings.ToLower(strings.TrimSpace(v.GetString("render.mode"))),
		},
		UI: UIConfig{
			Theme:    v.GetString("ui.theme"),
			Gauge:    v.GetBool("ui.gauge"),
			Popup:    v.GetBool("ui.popup"),
			PopupTTL: popupTTL(v),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
			File:   ExpandPath(v.GetString("logging.file")),
		},
		Stub: StubConfig{
			Addr:      v.GetString("stub.addr"),
			Scenarios: ExpandPath(v.GetString("stub.scenarios")),
			TLS:       v.GetBool("stub.tls"),
			CertDir:   ExpandPath(v.GetString("stub.cert_dir")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// popupTTL accepts durations ("3s") or bare integers in milliseconds.
func popupTTL(v *viper.Viper) time.Duration {
	raw := strings.TrimSpace(v.GetString("ui.popup_ttl"))
	if raw == "" {
		return Default().UI.PopupTTL
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return v.GetDuration("ui.popup_ttl")
}

// Validate checks the configuration for values that cannot work.
func (c Config) Validate() error {
	if c.Predict.Endpoint == "" {
		return fmt.Errorf("%w: predict.endpoint must not be empty", common.ErrInvalidConfig)
	}
	if c.Predict.Timeout < 0 {
		return fmt.Errorf("%w: predict.timeout must not be negative", common.ErrInvalidConfig)
	}
	switch c.Render.Mode {
	case "probability", "label":
	default:
		return fmt.Errorf("%w: render.mode must be probability or label, got %q", common.ErrInvalidConfig, c.Render.Mode)
	}
	if c.UI.PopupTTL <= 0 {
		return fmt.Errorf("%w: ui.popup_ttl must be positive", common.ErrInvalidConfig)
	}
	if c.Stub.TLS && c.Stub.CertDir == "" {
		return fmt.Errorf("%w: stub.cert_dir is required when stub.tls is set", common.ErrInvalidConfig)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: invalid log level %q", common.ErrInvalidConfig, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: invalid log format %q", common.ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// ExpandPath expands a leading ~ and any $VAR references in path.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return os.ExpandEnv(path)
}
