// Package main contains the loanwise CLI commands.
package main

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Veraticus/loanwise/internal/certs"
	"github.com/Veraticus/loanwise/internal/cli"
	"github.com/Veraticus/loanwise/internal/common"
	"github.com/Veraticus/loanwise/internal/config"
	"github.com/Veraticus/loanwise/internal/predict"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errReported marks failures the command already showed to the user.
var errReported = errors.New("already reported")

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "loanwise",
		Short: "🏦 Loan approval prediction client",
		Long: `loanwise: collects a loan application, sends it to a prediction service
and shows whether it is likely to be approved.

The prediction itself happens on the server; loanwise never computes one.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/loanwise/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("base-url", predict.DefaultBaseURL, "prediction service base URL")
	rootCmd.PersistentFlags().String("endpoint", predict.DefaultEndpoint, "prediction endpoint path or absolute URL")
	rootCmd.PersistentFlags().String("mode", "probability", "approval rule (probability, label)")
	rootCmd.PersistentFlags().String("ca-file", "", "PEM certificates to trust for HTTPS endpoints")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("predict.base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("predict.endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))
	_ = viper.BindPFlag("render.mode", rootCmd.PersistentFlags().Lookup("mode"))
	_ = viper.BindPFlag("predict.ca_file", rootCmd.PersistentFlags().Lookup("ca-file"))

	// Add commands
	rootCmd.AddCommand(formCmd())
	rootCmd.AddCommand(predictCmd())
	rootCmd.AddCommand(stubServerCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel() // Always cleanup

	os.Exit(exitCode(os.Stderr, err))
}

// exitCode prints err for the user and maps it to a process exit status.
func exitCode(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	slog.Debug("Command failed", "error", err)
	if !errors.Is(err, errReported) {
		fmt.Fprintln(w, cli.FormatError(common.UserMessage(err)))
	}
	return 1
}

func initConfig(_ *cobra.Command, _ []string) error {
	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(fmt.Sprintf("%s/.config/loanwise", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	config.SetDefaults(viper.GetViper())

	// Environment variables, e.g. LOANWISE_PREDICT_BASE_URL
	viper.SetEnvPrefix("LOANWISE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// Set up logging
	if err := setupLogging(nil); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

// setupLogging configures slog from viper. A nil writer logs to stderr.
func setupLogging(w io.Writer) error {
	return common.SetupLogger(
		viper.GetString("logging.level"),
		viper.GetString("logging.format"),
		w,
	)
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, common.NewUserError("Invalid configuration", err)
	}
	return cfg, nil
}

func newPredictor(cfg config.Config) (*predict.Client, error) {
	var roots *x509.CertPool
	if cfg.Predict.CAFile != "" {
		pool, err := certs.LoadCertPool(cfg.Predict.CAFile)
		if err != nil {
			return nil, common.NewUserError("Cannot load CA file", err)
		}
		roots = pool
	}

	client, err := predict.NewClient(predict.Config{
		BaseURL:   cfg.Predict.BaseURL,
		Endpoint:  cfg.Predict.Endpoint,
		Timeout:   cfg.Predict.Timeout,
		UserAgent: "loanwise/" + version,
		RootCAs:   roots,
	})
	if err != nil {
		return nil, common.NewUserError("Invalid prediction endpoint", err)
	}
	return client, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "loanwise %s\n", version)
		},
	}
}
