package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/BradenHooton/storefront/internal/config"
	"github.com/BradenHooton/storefront/internal/kvstore"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"

	// OpenStore opens the key-value store the commands operate on
	OpenStore func(ctx context.Context) (kvstore.Store, func(), error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the storectl command backed by the configured store
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{OpenStore: openConfiguredStore})
}

// NewRootCommandWithOptions creates the root command using opts
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storectl",
		Short: "Administer the storefront dashboard backend",
		Long:  "Inspect search rankings, manage the product catalog and administer dashboard accounts.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewAccountsCommand(opts))

	return cmd
}

// openConfiguredStore opens the backend selected by the environment
func openConfiguredStore(ctx context.Context) (kvstore.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return kvstore.Open(ctx, cfg, logger)
}

// withStore opens the store for the duration of fn
func withStore(ctx context.Context, opts *RootOptions, fn func(store kvstore.Store) error) error {
	store, closeStore, err := opts.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closeStore()
	return fn(store)
}
