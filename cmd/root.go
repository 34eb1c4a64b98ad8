package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/money-gurus/guru-server/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "guru-server",
	Short: "Personal-finance tracking API",
	Long:  "Serves the MoneyGuru API: AI score evaluation with multi-model fallback, chat advice, goal planning, history, budgets, leaderboards, and report export.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
