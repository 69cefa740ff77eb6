package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/recipecart/backend/config"
	"github.com/recipecart/backend/internal/app"
	"github.com/recipecart/backend/internal/infrastructure/kroger"
	"github.com/spf13/cobra"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "recipecart",
	Short: "recipecart scrapes recipes and fills a Kroger cart with their ingredients.",
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log cache, extraction and matching decisions.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openApp loads configuration and wires the application. Authorization codes
// are read from the terminal.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if debug {
		cfg.Debug = true
	}

	codes := kroger.NewStdinCodeProvider(cmd.InOrStdin(), cmd.ErrOrStderr())
	return app.New(cmd.Context(), cfg, codes)
}

// requireCart returns an error when Kroger is not configured
func requireCart(a *app.App) error {
	if a.Cart == nil {
		return fmt.Errorf("Kroger is not configured: set RECIPECART_KROGER_CLIENT_ID and RECIPECART_KROGER_CLIENT_SECRET")
	}
	return nil
}
