// Package cmd implements the CLI commands for the notice-tracker server.
package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "notice-tracker",
	Short: "Monitor notice boards for new announcements",
	Long: "notice-tracker periodically fetches configured notice pages, extracts\n" +
		"keyword-matched links, diffs them against a stored snapshot, and sends\n" +
		"new notices to Telegram. It also serves a JSON API for manual checks\n" +
		"and status inspection.",
}

func init() {
	cobra.OnInitialize(loadDotenv)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
}

// loadDotenv reads a .env file from the working directory, if present, so
// ${VAR} references in the config file resolve without exporting anything.
func loadDotenv() {
	_ = godotenv.Load()
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
