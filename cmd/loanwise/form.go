package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/loanwise/internal/common"
	"github.com/Veraticus/loanwise/internal/render"
	"github.com/Veraticus/loanwise/internal/tui"
	"github.com/Veraticus/loanwise/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func formCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Fill in a loan application interactively",
		Long: `Open the interactive loan application form.

Move between fields with Tab, press Enter to get a prediction and Esc to quit.
Log output goes to logging.file when set, so it never draws over the form.`,
		RunE: runForm,
	}

	cmd.Flags().String("theme", "default", "Color theme (default, catppuccin-mocha, plain)")
	cmd.Flags().Bool("no-gauge", false, "Hide the approval gauge")
	cmd.Flags().Bool("no-popup", false, "Hide the confidence popup")

	// Bind to viper (errors are rare and can be ignored in practice)
	_ = viper.BindPFlag("ui.theme", cmd.Flags().Lookup("theme"))

	return cmd
}

func runForm(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mode, err := render.ParseMode(cfg.Render.Mode)
	if err != nil {
		return common.NewUserError("Invalid decision mode", err)
	}

	logOut, closeLog, err := tuiLogWriter(cfg.Logging.File)
	if err != nil {
		return err
	}
	defer closeLog()
	if err := setupLogging(logOut); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	client, err := newPredictor(cfg)
	if err != nil {
		return err
	}
	slog.Info("Starting form", "url", client.URL(), "mode", mode)

	noGauge, _ := cmd.Flags().GetBool("no-gauge")
	noPopup, _ := cmd.Flags().GetBool("no-popup")

	return tui.Run(cmd.Context(),
		tui.WithPredictor(client),
		tui.WithTheme(themes.GetTheme(cfg.UI.Theme)),
		tui.WithMode(mode),
		tui.WithGauge(cfg.UI.Gauge && !noGauge),
		tui.WithPopup(cfg.UI.Popup && !noPopup),
		tui.WithPopupTTL(cfg.UI.PopupTTL),
	)
}

// tuiLogWriter opens the log file, or discards logs when none is configured.
func tuiLogWriter(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, common.NewUserError("Cannot open log file", err)
	}
	return f, func() {
		if closeErr := f.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to close log file: %v\n", closeErr)
		}
	}, nil
}
