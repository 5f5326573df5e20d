package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/BradenHooton/storefront/internal/kvstore"
	"github.com/BradenHooton/storefront/internal/models"
	"github.com/BradenHooton/storefront/internal/repositories"
)

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the product catalog searched by the dashboard",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the current catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), rootOpts, func(store kvstore.Store) error {
				items, err := repositories.NewCatalogRepository(store).List(cmd.Context())
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), rootOpts.Format, items, func(w io.Writer) error {
					for _, item := range items {
						fmt.Fprintf(w, "%-4s %-30s %-12s %8.2f %5d %s\n",
							item.ID, item.Name, item.Category, item.Price, item.Stock, item.Status)
					}
					return nil
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.json>",
		Short: "Replace the catalog with a JSON array of products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := readCatalogFile(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), rootOpts, func(store kvstore.Store) error {
				if err := repositories.NewCatalogRepository(store).Replace(cmd.Context(), items); err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), rootOpts.Format, models.OK(fmt.Sprintf("imported %d products", len(items))), func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "imported %d products\n", len(items))
					return err
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the built-in catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), rootOpts, func(store kvstore.Store) error {
				if err := repositories.NewCatalogRepository(store).Reset(cmd.Context()); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "catalog reset")
				return err
			})
		},
	})

	return cmd
}
