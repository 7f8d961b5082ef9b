package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ent0n29/samvad/internal/config"
	"github.com/ent0n29/samvad/internal/logging"
)

var (
	// Global flags
	logLevel string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "samvad",
	Short: "Samvad - bilingual IVR for municipal complaints",
	Long: `Samvad runs the complaint-registration dialogue for callers speaking
English, Hindi or Romanized Hindi. It asks one question at a time, resolves
the caller's area to a ward and zone, and registers a complaint id once the
caller confirms.

Configuration is read from the environment (APP_*, SESSION_STORE,
COMPLAINT_STORE_DSN, TAXONOMY_FILE, ...).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logger, err = logging.New(cfg.LogLevel, cfg.LogJSON)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override APP_LOG_LEVEL (debug, info, warn, error)")
	rootCmd.AddCommand(serveCmd, chatCmd, resolveCmd, detectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
