package services

import (
	"context"
	"fmt"

	"github.com/BradenHooton/storefront/internal/models"
	"github.com/BradenHooton/storefront/internal/search"
)

// CatalogRepository provides the searchable products
type CatalogRepository interface {
	List(ctx context.Context) ([]models.CatalogItem, error)
}

// SearchService runs the ranker over the current catalog
type SearchService struct {
	catalog CatalogRepository
	ranker  *search.Ranker
}

func NewSearchService(catalog CatalogRepository, ranker *search.Ranker) *SearchService {
	return &SearchService{catalog: catalog, ranker: ranker}
}

// Suggestions ranks individual product terms for the products page
func (s *SearchService) Suggestions(ctx context.Context, query string) ([]models.TermScore, error) {
	items, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return s.ranker.RankTerms(query, items), nil
}

// Products ranks whole products for the header search
func (s *SearchService) Products(ctx context.Context, query string) ([]models.ItemScore, error) {
	items, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return s.ranker.RankItems(query, items), nil
}

// Catalog returns every product
func (s *SearchService) Catalog(ctx context.Context) ([]models.CatalogItem, error) {
	return s.catalog.List(ctx)
}
