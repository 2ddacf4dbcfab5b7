// Package cli wires the storefront commands: the API server and its maintenance tasks,
// plus the shopper-side catalog and cart commands that talk to a running server.
package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds the global flags of the client commands.
type RootOptions struct {
	APIURL    string
	StatePath string
	CartID    string
	Offline   bool
	Verbose   bool
	Format    string // "text" | "json"
}

var ValidFormats = []string{"text", "json"}

const (
	defaultAPIURL    = "http://localhost:5000"
	defaultStateFile = ".storefront-cart.db"
)

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront catalog and cart",
		Long:  "Runs the storefront REST API and manages a local shopping cart synced with it.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true, // main prints the error
	}

	cmd.PersistentFlags().StringVar(&opts.APIURL, "api-url", envOr("STOREFRONT_API_URL", defaultAPIURL), "storefront API base URL")
	cmd.PersistentFlags().StringVar(&opts.StatePath, "state", envOr("STOREFRONT_STATE", defaultStateFile), "local cart state file")
	cmd.PersistentFlags().StringVar(&opts.CartID, "cart-id", "", "cart to use instead of the last used one")
	cmd.PersistentFlags().BoolVar(&opts.Offline, "offline", false, "do not contact the API")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewSeedCommand())
	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewCartCommand(opts))

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
