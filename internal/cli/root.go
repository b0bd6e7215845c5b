package cli

import (
	"fmt"
	"slices"

	"backoffice/internal/app"
	"backoffice/internal/config"
	"backoffice/internal/services"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"

	// NewApp builds the application the commands operate on.
	NewApp func() (*app.App, error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the back-office CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{
		NewApp: func() (*app.App, error) { return app.New(config.Load()) },
	})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backofficectl",
		Short: "Storefront back-office operator tool",
		Long: `Seed and inspect the back-office collections (products, orders, users)
in the store selected by STORE_DRIVER.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(newCollectionCommand(opts, "products", "Inspect products", services.ProductSchema.SortKeys(), listProducts))
	cmd.AddCommand(newCollectionCommand(opts, "orders", "Inspect orders", services.OrderSchema.SortKeys(), listOrders))
	cmd.AddCommand(newCollectionCommand(opts, "users", "Inspect users", services.UserSchema.SortKeys(), listUsers))

	return cmd
}
