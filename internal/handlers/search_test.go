package handlers_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/storefront/internal/handlers"
	"github.com/BradenHooton/storefront/internal/models"
)

func TestSuggestions(t *testing.T) {
	svc := &handlers.MockSearchService{
		SuggestionsFunc: func(ctx context.Context, query string) ([]models.TermScore, error) {
			assert.Equal(t, "wire", query)
			return []models.TermScore{{Term: "Wireless Mouse", Score: 120}}, nil
		},
	}
	handler := handlers.NewSearchHandler(svc, nil, discardLogger())

	w := httptest.NewRecorder()
	handler.Suggestions(w, httptest.NewRequest("GET", "/search/suggestions?q=wire", nil))

	var resp handlers.SuggestionsResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "wire", resp.Query)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, "Wireless Mouse", resp.Suggestions[0].Term)
}

func TestSuggestions_BlankQueryIsEmptyList(t *testing.T) {
	handler := handlers.NewSearchHandler(&handlers.MockSearchService{}, nil, discardLogger())

	w := httptest.NewRecorder()
	handler.Suggestions(w, httptest.NewRequest("GET", "/search/suggestions?q=", nil))

	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"query":"","suggestions":[]}`, w.Body.String())
}

func TestProducts(t *testing.T) {
	item := models.CatalogItem{ID: "1", Name: "Wireless Mouse", Status: models.StatusActive}
	svc := &handlers.MockSearchService{
		ProductsFunc: func(ctx context.Context, query string) ([]models.ItemScore, error) {
			return []models.ItemScore{{Item: item, Score: 140}}, nil
		},
	}
	handler := handlers.NewSearchHandler(svc, nil, discardLogger())

	w := httptest.NewRecorder()
	handler.Products(w, httptest.NewRequest("GET", "/search/products?q=mouse", nil))

	var resp handlers.ProductsResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, item, resp.Results[0].Item)
	assert.Equal(t, 140, resp.Results[0].Score)
}

func TestCatalog_Error(t *testing.T) {
	svc := &handlers.MockSearchService{
		CatalogFunc: func(ctx context.Context) ([]models.CatalogItem, error) {
			return nil, errors.New("decode failed")
		},
	}
	handler := handlers.NewSearchHandler(svc, nil, discardLogger())

	w := httptest.NewRecorder()
	handler.Catalog(w, httptest.NewRequest("GET", "/products", nil))

	handlers.AssertErrorResponse(t, w, 500, "internal_error")
}
