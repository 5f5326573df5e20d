package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/storefront/internal/kvstore"
	"github.com/BradenHooton/storefront/internal/models"
	"github.com/BradenHooton/storefront/internal/repositories"
	"github.com/BradenHooton/storefront/internal/search"
)

func TestSearchService_UsesStoredCatalog(t *testing.T) {
	ctx := context.Background()
	catalog := repositories.NewCatalogRepository(kvstore.NewMemoryStore())
	svc := NewSearchService(catalog, search.NewRanker())

	require.NoError(t, catalog.Replace(ctx, []models.CatalogItem{
		{ID: "a", Name: "Desk Lamp", Category: "Lighting", Status: "active", Stock: 3},
		{ID: "b", Name: "Floor Lamp", Category: "Lighting", Status: "inactive", Stock: 0},
	}))

	items, err := svc.Catalog(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	products, err := svc.Products(ctx, "desk lamp")
	require.NoError(t, err)
	require.NotEmpty(t, products)
	assert.Equal(t, "a", products[0].Item.ID)

	terms, err := svc.Suggestions(ctx, "lamp")
	require.NoError(t, err)
	assert.NotEmpty(t, terms)
}

func TestSearchService_DefaultCatalog(t *testing.T) {
	svc := NewSearchService(repositories.NewCatalogRepository(kvstore.NewMemoryStore()), search.NewRanker())

	items, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, len(repositories.DefaultCatalog()))

	products, err := svc.Products(context.Background(), "")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(products), 5)
}
