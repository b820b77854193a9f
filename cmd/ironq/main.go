package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RustMQ/rusted-iron/internal/app"
	"github.com/RustMQ/rusted-iron/internal/config"

	_ "github.com/RustMQ/rusted-iron/docs/swagger" // Import generated swagger docs
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

// @title Rusted Iron Message Queue API
// @version 1.0
// @description Pull and push message queues backed by Redis
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@rusted-iron.local

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1

// @schemes http https
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ironq",
		Short:         "Redis backed message queue broker",
		Long:          "ironq serves pull and push message queues over HTTP, storing all state in Redis.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().String("redis-url", "", "Redis connection URL (overrides REDIS_URL)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug|info|warn|error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: json|text (overrides LOG_FORMAT)")

	serverCmd := &cobra.Command{
		Use:     "server",
		Short:   "Start the HTTP API",
		Aliases: []string{"serve"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			withPusher, _ := cmd.Flags().GetBool("with-pusher")

			return run(cmd.Context(), cfg, logger, "server", func(ctx context.Context, a *app.App) error {
				return a.RunServer(ctx, withPusher)
			})
		},
	}
	serverCmd.Flags().Int("port", 0, "HTTP listen port (overrides SERVER_PORT)")
	serverCmd.Flags().Bool("with-pusher", config.DefaultPushEnabled, "Also run the push delivery engine in this process")
	rootCmd.AddCommand(serverCmd)

	pusherCmd := &cobra.Command{
		Use:   "pusher",
		Short: "Start only the push delivery engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return run(cmd.Context(), cfg, logger, "pusher", func(ctx context.Context, a *app.App) error {
				return a.RunPusher(ctx)
			})
		},
	}
	pusherCmd.Flags().Int("workers", 0, "Concurrent deliveries (overrides PUSH_WORKERS)")
	rootCmd.AddCommand(pusherCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	})

	return rootCmd
}

// loadConfig reads the environment, applies flag overrides and builds the logger
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if v, _ := cmd.Flags().GetString("redis-url"); v != "" {
		cfg.Redis.URL = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}
	if cmd.Flags().Lookup("port") != nil {
		if v, _ := cmd.Flags().GetInt("port"); v > 0 {
			cfg.Server.Port = v
		}
	}
	if cmd.Flags().Lookup("workers") != nil {
		if v, _ := cmd.Flags().GetInt("workers"); v > 0 {
			cfg.Push.Workers = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := cfg.Log.NewLogger()
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// run connects the app and executes fn until SIGINT or SIGTERM
func run(parent context.Context, cfg *config.Config, logger *slog.Logger, service string, fn func(context.Context, *app.App) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting ironq",
		slog.String("service", service),
		slog.String("version", Version),
	)

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := fn(ctx, a); err != nil {
		logger.Error("Service stopped with error", slog.String("service", service), slog.String("error", err.Error()))
		return err
	}

	logger.Info("Service stopped gracefully", slog.String("service", service))
	return nil
}
