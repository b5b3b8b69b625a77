package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/tile-board/internal/config"
)

var (
	cfgPath string
	cfg     config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tile-board",
		Short: "Word-guessing tile board",
		Long: `tile-board runs a word-guessing board game: a grid of letter tiles
filled row by row, where each submitted row is scored against a secret word.

Use "serve" for the HTTP/websocket API or "play" to play in the terminal.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			cfg = loaded
			if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
				zerolog.SetGlobalLevel(lvl)
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("CONFIG_FILE"), "YAML config file (env: CONFIG_FILE)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newPlayCmd())

	return rootCmd
}

// Execute loads .env and runs the root command
func Execute() {
	_ = godotenv.Load()
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
