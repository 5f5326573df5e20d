package repositories

import (
	"context"
	"slices"

	"github.com/BradenHooton/storefront/internal/kvstore"
	"github.com/BradenHooton/storefront/internal/models"
)

const productsKey = "products"

// CatalogRepository serves the product list searched by the dashboard.
// A JSON array stored under "products" replaces the built-in catalog.
type CatalogRepository struct {
	store kvstore.Store
}

func NewCatalogRepository(store kvstore.Store) *CatalogRepository {
	return &CatalogRepository{store: store}
}

func (r *CatalogRepository) List(ctx context.Context) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	found, err := getJSON(ctx, r.store, productsKey, &items)
	if err != nil {
		return nil, err
	}
	if !found {
		return DefaultCatalog(), nil
	}
	return items, nil
}

// Replace overrides the catalog
func (r *CatalogRepository) Replace(ctx context.Context, items []models.CatalogItem) error {
	return putJSON(ctx, r.store, productsKey, items)
}

// Reset restores the built-in catalog
func (r *CatalogRepository) Reset(ctx context.Context) error {
	return r.store.Delete(ctx, productsKey)
}

// DefaultCatalog returns a fresh copy of the built-in products
func DefaultCatalog() []models.CatalogItem {
	return slices.Clone(defaultCatalog)
}

var defaultCatalog = []models.CatalogItem{
	{ID: "1", Name: "Wireless Headphones", Description: "Noise cancelling over-ear headphones with 30 hour battery", Category: "Electronics", Price: 199.99, Stock: 45, Status: models.StatusActive},
	{ID: "2", Name: "Smart Watch", Description: "Fitness tracking watch with heart rate monitor", Category: "Electronics", Price: 299.99, Stock: 8, Status: models.StatusActive},
	{ID: "3", Name: "Laptop Stand", Description: "Adjustable aluminium stand for laptops up to 17 inches", Category: "Accessories", Price: 49.99, Stock: 120, Status: models.StatusActive},
	{ID: "4", Name: "Mechanical Keyboard", Description: "RGB backlit keyboard with brown switches", Category: "Electronics", Price: 129.99, Stock: 3, Status: models.StatusActive},
	{ID: "5", Name: "Wireless Mouse", Description: "Ergonomic wireless mouse with silent clicks", Category: "Accessories", Price: 39.99, Stock: 75, Status: models.StatusActive},
	{ID: "6", Name: "USB-C Hub", Description: "7-in-1 hub with HDMI, USB 3.0 and card reader", Category: "Accessories", Price: 59.99, Stock: 0, Status: models.StatusInactive},
	{ID: "7", Name: "Desk Lamp", Description: "LED desk lamp with adjustable colour temperature", Category: "Home Office", Price: 34.99, Stock: 22, Status: models.StatusActive},
	{ID: "8", Name: "Office Chair", Description: "Ergonomic mesh chair with lumbar support", Category: "Furniture", Price: 249.99, Stock: 12, Status: models.StatusActive},
	{ID: "9", Name: "Standing Desk", Description: "Electric height adjustable desk", Category: "Furniture", Price: 499.99, Stock: 5, Status: models.StatusInactive},
	{ID: "10", Name: "Webcam HD", Description: "1080p webcam with built-in microphone", Category: "Electronics", Price: 89.99, Stock: 30, Status: models.StatusActive},
}
