package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"caregiver-aptitude-service/internal/config"
	"caregiver-aptitude-service/internal/logger"
)

var (
	port       string
	configPath string
	jsonLogs   bool
	debugLogs  bool
)

// Execute runs the CLI. SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:          "aptitude-service",
		Short:        "Caregiver job aptitude diagnosis over HTTP and WebSocket",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&port, "port", envPort, "port to listen on")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "log in JSON format")
	cmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "enable debug logs")
	cmd.AddCommand(NewStartCmd(&configPath, &port))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewSeedCmd(&configPath))
	cmd.AddCommand(NewScoreCmd())
	cmd.AddCommand(NewVersionCmd())
	return cmd
}

// newLogger merges the log flags with the config file; either one can turn an option on.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logger.New(jsonLogs || cfg.Log.JSON, debugLogs || cfg.Log.Debug)
}
