package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Veraticus/loanwise/internal/cli"
	"github.com/Veraticus/loanwise/internal/common"
	"github.com/Veraticus/loanwise/internal/controller"
	"github.com/Veraticus/loanwise/internal/form"
	"github.com/Veraticus/loanwise/internal/model"
	"github.com/Veraticus/loanwise/internal/popup"
	"github.com/Veraticus/loanwise/internal/render"
	"github.com/Veraticus/loanwise/internal/tui/themes"
	"github.com/spf13/cobra"
)

// fieldFlags maps each form field to its command-line flag.
var fieldFlags = []struct {
	id   model.FieldID
	flag string
}{
	{model.FieldGender, "gender"},
	{model.FieldMarried, "married"},
	{model.FieldEducation, "education"},
	{model.FieldCreditHistory, "credit-history"},
	{model.FieldLoanAmount, "loan-amount"},
}

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Submit one loan application",
		Long: `Submit a single loan application and print the result.

Fields are passed as flags and validated before anything is sent. Codes are
0 or 1: gender (0 female, 1 male), married, education (1 graduate),
credit-history (1 meets guidelines). The loan amount is any decimal number.

Examples:
  loanwise predict --gender 1 --married 1 --education 1 --credit-history 1 --loan-amount 128
  loanwise predict --prompt               # ask for each field
  loanwise predict ... --json             # machine-readable result`,
		RunE: runPredict,
	}

	for _, f := range fieldFlags {
		field, _ := form.Lookup(f.id)
		cmd.Flags().String(f.flag, "", fmt.Sprintf("%s (%s)", field.Label, field.Placeholder))
	}
	cmd.Flags().Bool("prompt", false, "Ask for fields not given as flags")
	cmd.Flags().Bool("json", false, "Print the result as JSON")
	cmd.Flags().Bool("no-gauge", false, "Skip the approval gauge animation")
	cmd.Flags().Bool("no-popup", false, "Skip the confidence popup")

	return cmd
}

// presentOptions controls how an outcome is printed.
type presentOptions struct {
	theme    themes.Theme
	popupTTL time.Duration
	json     bool
	gauge    bool
	popup    bool
}

func runPredict(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mode, err := render.ParseMode(cfg.Render.Mode)
	if err != nil {
		return common.NewUserError("Invalid decision mode", err)
	}

	values := form.Values{}
	for _, f := range fieldFlags {
		values[f.id], _ = cmd.Flags().GetString(f.flag)
	}

	ctx := cli.NewInterruptHandler(cmd.ErrOrStderr()).HandleInterrupts(cmd.Context(), "Prediction")

	if prompt, _ := cmd.Flags().GetBool("prompt"); prompt {
		values, err = cli.NewFieldPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).Fill(ctx, values)
		if err != nil {
			return err
		}
	}

	client, err := newPredictor(cfg)
	if err != nil {
		return err
	}
	slog.Debug("Submitting application", "url", client.URL(), "mode", mode)

	ctrl := controller.New(client, mode)
	defer ctrl.Close()
	outcome := ctrl.Submit(ctx, values)

	asJSON, _ := cmd.Flags().GetBool("json")
	noGauge, _ := cmd.Flags().GetBool("no-gauge")
	noPopup, _ := cmd.Flags().GetBool("no-popup")

	opts := presentOptions{
		theme:    themes.GetTheme(cfg.UI.Theme),
		popupTTL: cfg.UI.PopupTTL,
		json:     asJSON,
		gauge:    cfg.UI.Gauge && !noGauge,
		popup:    cfg.UI.Popup && !noPopup,
	}
	if err := presentOutcome(ctx, cmd.OutOrStdout(), outcome, opts); err != nil {
		return err
	}

	return outcomeError(outcome)
}

// presentOutcome prints the result pill, then the gauge and popup for results.
func presentOutcome(ctx context.Context, w io.Writer, out controller.Outcome, opts presentOptions) error {
	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out.State); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return nil
	}

	if _, err := fmt.Fprintln(w, render.NewRenderer(opts.theme).Pill(out.State)); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	if !out.State.IsResult() {
		return nil
	}

	if opts.gauge {
		if _, err := cli.NewGaugeBar(w).Animate(ctx, out.Decision.Percent); err != nil {
			// Only cancellation stops the gauge; the interrupt notice covers it.
			return fmt.Errorf("%w: %w", errReported, err)
		}
	}
	if opts.popup {
		blend := popup.DisplayBlend(out.Input, out.Decision.Percent)
		if err := cli.ShowPopup(ctx, w, blend, opts.popupTTL); err != nil {
			slog.Debug("Popup cut short", "error", err)
		}
	}
	return nil
}

// outcomeError turns a failed outcome into the command's error.
// The pill already told the user what happened.
func outcomeError(out controller.Outcome) error {
	if !out.State.IsError() {
		return nil
	}
	sentinel := common.ErrPredictionFailed
	if !out.Valid {
		sentinel = common.ErrIncompleteForm
	}
	return fmt.Errorf("%w: %w", errReported,
		common.NewUserError(render.Summary(out.State), fmt.Errorf("%w: %w", sentinel, out.Err)))
}
