package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var configFile string

func Run() error {
	rootCmd := &cobra.Command{
		Use:   "slo-dashboard",
		Short: "SLO management service",
	}
	var logLevel string
	var logFormat string
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to the YAML configuration file")
	err := rootCmd.MarkPersistentFlagRequired("config")
	if err != nil {
		return err
	}
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "v", "info", "Logger log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Logger logs format (text, json)")

	// flags are only parsed on Execute
	serverCmd := buildServerCmd(func() *slog.Logger {
		return buildLogger(logLevel, logFormat)
	})
	rootCmd.AddCommand(serverCmd)
	return rootCmd.Execute()
}
