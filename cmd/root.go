package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glbter/fund-advisor/config"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:          "fund-advisor",
	Short:        "Mutual fund catalog, recommendation and prediction API",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd, ExecuteServe)
	},
}

var workerCmd = &cobra.Command{
	Use:   "predict-worker",
	Short: "Answer prediction requests from RabbitMQ",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd, ExecuteWorker)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides LOG_LEVEL")

	rootCmd.AddCommand(serveCmd, workerCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type executor func(ctx context.Context, cfg config.Config, logger *zap.Logger) error

func run(cmd *cobra.Command, exec executor) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger, err := InitLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := exec(ctx, cfg, logger); err != nil {
		logger.Error(err.Error())
		return err
	}

	return nil
}
