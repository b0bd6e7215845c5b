package cli

import (
	"context"
	"fmt"

	"backoffice/internal/migrations"

	"github.com/spf13/cobra"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Force bool
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the default data into the store",
		Long: `Create missing collections from the built-in default data and rewrite
existing ones in their current format. With --force every collection is
replaced by the default data.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.NewApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := migrations.RunMigrations(context.Background(), a.Store, a.Data, opts.Force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d products, %d orders, %d users\n",
				len(a.Data.Products), len(a.Data.Orders), len(a.Data.Users))
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "replace existing collections")

	return cmd
}
