// Package cli implements the postlens command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spacesedan/postlens/config"
	"github.com/spacesedan/postlens/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "postlens",
	Short: "postlens - engagement analysis for social media posts",
	Long: `postlens scores short posts for readability, sentiment, hashtags, mentions
and common words, and suggests how to improve engagement.

Example usage:
  postlens analyze post.txt        # Analyze one file
  postlens analyze --text "Hi!"     # Analyze inline text
  postlens batch ./drafts           # Analyze every draft
  postlens serve                    # Run the HTTP API`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if env := os.Getenv("APP_ENV"); env != "" {
			config.LoadEnv(env)
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		logging.InitLogger(cfg.Logging.Level)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "postlens.yaml", "config file, ignored when missing")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
}

// GetConfig returns the loaded config, or the defaults before PersistentPreRunE ran.
func GetConfig() *config.Config {
	if cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}
