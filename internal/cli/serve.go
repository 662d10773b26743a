package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mcoot/gemfall/internal/api"
	"github.com/mcoot/gemfall/internal/factory"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API server",
		Long: `Run the JSON API server. Logs are written as JSON to stdout.

Storage is configured with --storage, --redis-url and --badger-dir, or the
STORAGE_TYPE, REDIS_URL, BADGER_DIR and PORT environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return Serve(ctx, cfg, serverLogger(cfg.Verbose))
		},
	}

	cmd.Flags().Int("port", 8080, "Listen port (env: PORT)")

	return cmd
}

func serverLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}

// Serve wires the application and runs the API until ctx is done
func Serve(ctx context.Context, c *Config, logger zerolog.Logger) error {
	fc, err := c.FactoryConfig(logger)
	if err != nil {
		return err
	}
	app, err := factory.New(fc)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error().Err(err).Msg("close storage")
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		ProfileService:    app.ProfileService,
		SimulationService: app.SimulationService,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", router)

	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = c.Port
	server := api.NewServer(mux, serverConfig, logger)
	if err := server.Listen(); err != nil {
		return err
	}

	logger.Info().Str("addr", server.Addr()).Str("storage", c.StorageType).Msg("server started")
	return server.Run(ctx)
}
