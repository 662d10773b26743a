package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	logger zerolog.Logger
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()
	logger = zerolog.Nop()
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "gemfall",
		Short: "Computer opponents for a falling-pair matching game",
		Long: `gemfall drives computer opponents for a falling-pair tile matching game.

It runs headless seeded games to compare AI profiles, manages custom profiles,
and serves the JSON API. Commands run in-process against the configured storage
unless --server points at a running API.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := LoadConfig(cmd, configFile)
			if err != nil {
				return err
			}
			cfg = loaded
			logger = newLogger(cfg.Verbose)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (yaml, json or toml)")
	flags.String("server", "", "API server URL; commands run in-process when empty (env: GEMFALL_SERVER)")
	flags.StringP("output", "o", cfg.Output, "Output format: text, json")
	flags.BoolP("verbose", "v", false, "Verbose output")
	flags.String("storage", cfg.StorageType, "Storage backend: memory, redis, badger (env: STORAGE_TYPE)")
	flags.String("redis-url", cfg.RedisURL, "Redis URL (env: REDIS_URL)")
	flags.String("badger-dir", cfg.BadgerDir, "Badger database directory (env: BADGER_DIR)")

	// Add subcommands
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newSimulationsCmd())
	rootCmd.AddCommand(newProfilesCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
