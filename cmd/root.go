package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clash-creation/qualify-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "qualify",
	Short: "Lead qualification engine for the Vertical Shortcut funnel",
	Long:  "Runs the qualification wizard as an API, scores answers into package tiers, and delivers completed leads to CRM and analytics sinks.",
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
