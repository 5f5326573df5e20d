package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BradenHooton/storefront/internal/config"
	"github.com/BradenHooton/storefront/internal/kvstore"
	"github.com/BradenHooton/storefront/internal/models"
	"github.com/BradenHooton/storefront/internal/repositories"
	"github.com/BradenHooton/storefront/internal/search"
)

type searchOptions struct {
	weightsFile string
	catalogFile string
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Rank the catalog against a query",
		Long: `Run the dashboard's search ranking from the command line.

Useful for tuning a weights file before deploying it with RANKER_WEIGHTS_FILE.`,
	}

	cmd.PersistentFlags().StringVar(&opts.weightsFile, "weights", "", "YAML ranker weights file")
	cmd.PersistentFlags().StringVar(&opts.catalogFile, "catalog", "", "JSON catalog file (defaults to the store's catalog)")

	cmd.AddCommand(&cobra.Command{
		Use:   "terms <query>",
		Short: "Rank suggestion terms",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ranker, items, err := opts.load(cmd, rootOpts)
			if err != nil {
				return err
			}
			terms := ranker.RankTerms(strings.Join(args, " "), items)
			return writeOutput(cmd.OutOrStdout(), rootOpts.Format, terms, func(w io.Writer) error {
				for _, t := range terms {
					fmt.Fprintf(w, "%6d  %s\n", t.Score, t.Term)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "items <query>",
		Short: "Rank catalog items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ranker, items, err := opts.load(cmd, rootOpts)
			if err != nil {
				return err
			}
			ranked := ranker.RankItems(strings.Join(args, " "), items)
			return writeOutput(cmd.OutOrStdout(), rootOpts.Format, ranked, func(w io.Writer) error {
				for _, r := range ranked {
					fmt.Fprintf(w, "%6d  %-4s %s (%s)\n", r.Score, r.Item.ID, r.Item.Name, r.Item.Status)
				}
				return nil
			})
		},
	})

	return cmd
}

func (o *searchOptions) load(cmd *cobra.Command, rootOpts *RootOptions) (*search.Ranker, []models.CatalogItem, error) {
	weights, err := config.LoadRankerWeights(o.weightsFile)
	if err != nil {
		return nil, nil, err
	}
	ranker := search.NewRanker(search.WithWeights(weights))

	if o.catalogFile != "" {
		items, err := readCatalogFile(o.catalogFile)
		return ranker, items, err
	}

	var items []models.CatalogItem
	err = withStore(cmd.Context(), rootOpts, func(store kvstore.Store) error {
		items, err = repositories.NewCatalogRepository(store).List(cmd.Context())
		return err
	})
	return ranker, items, err
}

func readCatalogFile(path string) ([]models.CatalogItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var items []models.CatalogItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", path, err)
	}
	return items, nil
}
