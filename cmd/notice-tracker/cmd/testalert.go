package cmd

import (
	"context"
	"fmt"
	"html"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/notice-tracker/internal/config"
)

const testAlertTimeout = 30 * time.Second

var testAlertCmd = &cobra.Command{
	Use:   "test-alert",
	Short: "Send a diagnostic Telegram message",
	Long: "Sends a test message through the configured Telegram bot to verify\n" +
		"the token and chat ID before real notices depend on them.",
	RunE: runTestAlert,
}

func init() {
	rootCmd.AddCommand(testAlertCmd)
}

func runTestAlert(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if !cfg.Telegram.Enabled {
		return fmt.Errorf("telegram is not enabled in %s", cfgFile)
	}

	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}

	msg := fmt.Sprintf(
		"🔔 <b>notice-tracker test alert</b>\n\nSent from %s at %s.",
		html.EscapeString(host),
		time.Now().Format(time.RFC1123),
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), testAlertTimeout)
	defer cancel()

	if err := telegramNotifier(cfg).Send(ctx, msg); err != nil {
		return fmt.Errorf("sending test alert: %w", err)
	}

	fmt.Println("Test alert sent.")
	return nil
}
