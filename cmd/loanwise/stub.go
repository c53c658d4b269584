package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/loanwise/internal/certs"
	"github.com/Veraticus/loanwise/internal/cli"
	"github.com/Veraticus/loanwise/internal/common"
	"github.com/Veraticus/loanwise/internal/stubserver"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func stubServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stub-server",
		Short: "Run a scripted stand-in for the prediction service",
		Long: `Run a local HTTP server that answers POST /predict with scripted replies.

It performs no prediction. Without a scenario file every valid request gets
{"result": "Approved", "probability": 0.72}. A scenario file can match on
request fields and return any status, body or delay, which is handy for
reproducing server errors and slow responses.

With --tls the stub serves HTTPS using a self-signed localhost certificate
kept in stub.cert_dir. Point clients at it with --ca-file.

Examples:
  loanwise stub-server
  loanwise stub-server --addr 127.0.0.1:5050 --scenarios ./scenarios.yaml
  loanwise stub-server --tls`,
		RunE: runStubServer,
	}

	cmd.Flags().String("addr", "127.0.0.1:5000", "Listen address")
	cmd.Flags().String("scenarios", "", "YAML file with scripted replies")
	cmd.Flags().Bool("tls", false, "Serve HTTPS with a self-signed localhost certificate")

	// Bind to viper (errors are rare and can be ignored in practice)
	_ = viper.BindPFlag("stub.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("stub.scenarios", cmd.Flags().Lookup("scenarios"))
	_ = viper.BindPFlag("stub.tls", cmd.Flags().Lookup("tls"))

	return cmd
}

func runStubServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	scenarios := stubserver.DefaultScenarios()
	if cfg.Stub.Scenarios != "" {
		scenarios, err = stubserver.LoadScenarios(cfg.Stub.Scenarios)
		if err != nil {
			return common.NewUserError("Cannot load scenarios", err)
		}
	}

	ctx := cli.NewInterruptHandler(cmd.ErrOrStderr()).HandleInterrupts(cmd.Context(), "Stub server")
	server := stubserver.New(scenarios)
	slog.Debug("Loaded stub scenarios", "count", len(scenarios.Scenarios), "file", cfg.Stub.Scenarios)

	if !cfg.Stub.TLS {
		fmt.Fprintln(cmd.OutOrStdout(), stubBanner(cfg.Stub.Addr, len(scenarios.Scenarios), ""))
		return server.ListenAndServe(ctx, cfg.Stub.Addr)
	}

	manager := certs.NewFileManager(cfg.Stub.CertDir)
	cert, err := manager.GetOrCreate()
	if err != nil {
		return common.NewUserError("Cannot prepare TLS certificate", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), stubBanner(cfg.Stub.Addr, len(scenarios.Scenarios), manager.CertFile()))
	return server.ListenAndServeTLS(ctx, cfg.Stub.Addr, cert)
}

// stubBanner describes the running stub. A non-empty certFile means HTTPS.
func stubBanner(addr string, scenarioCount int, certFile string) string {
	scheme := "http"
	if certFile != "" {
		scheme = "https"
	}

	lines := []string{
		cli.FormatInfo(fmt.Sprintf("Listening on %s://%s", scheme, addr)),
		cli.SubtleStyle.Render(fmt.Sprintf("%d scripted scenarios plus the default reply", scenarioCount)),
	}
	if certFile != "" {
		lines = append(lines,
			cli.FormatSuccess("Self-signed certificate ready"),
			cli.SubtleStyle.Render("Trust it with --ca-file "+certFile),
		)
	}

	return cli.FormatTitle("Stub prediction server") + "\n" +
		cli.RenderBox("POST /predict", strings.Join(lines, "\n"))
}
