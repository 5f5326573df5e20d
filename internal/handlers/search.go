package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/BradenHooton/storefront/internal/models"
	pkghttp "github.com/BradenHooton/storefront/pkg/http"
	"github.com/BradenHooton/storefront/pkg/metrics"
)

// SearchServiceInterface ranks the catalog against a query
type SearchServiceInterface interface {
	Suggestions(ctx context.Context, query string) ([]models.TermScore, error)
	Products(ctx context.Context, query string) ([]models.ItemScore, error)
	Catalog(ctx context.Context) ([]models.CatalogItem, error)
}

// SearchHandler serves search suggestions and the product catalog
type SearchHandler struct {
	service SearchServiceInterface
	metrics *metrics.Manager
	logger  *slog.Logger
}

func NewSearchHandler(service SearchServiceInterface, m *metrics.Manager, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{service: service, metrics: m, logger: logger}
}

// SuggestionsResponse lists ranked terms for the search box
type SuggestionsResponse struct {
	Query       string             `json:"query"`
	Suggestions []models.TermScore `json:"suggestions"`
}

// ProductsResponse lists ranked catalog items
type ProductsResponse struct {
	Query   string             `json:"query"`
	Results []models.ItemScore `json:"results"`
}

// Suggestions ranks product names and categories against q
// @Router /search/suggestions [get]
func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	terms, err := h.service.Suggestions(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to rank suggestions", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}
	if terms == nil {
		terms = []models.TermScore{}
	}

	h.metrics.IncSearch(metrics.SearchTerms)
	pkghttp.WriteJSON(w, http.StatusOK, SuggestionsResponse{Query: query, Suggestions: terms})
}

// Products ranks catalog items against q
// @Router /search/products [get]
func (h *SearchHandler) Products(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	items, err := h.service.Products(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to rank products", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}
	if items == nil {
		items = []models.ItemScore{}
	}

	h.metrics.IncSearch(metrics.SearchItems)
	pkghttp.WriteJSON(w, http.StatusOK, ProductsResponse{Query: query, Results: items})
}

// Catalog lists every product
// @Router /products [get]
func (h *SearchHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Catalog(r.Context())
	if err != nil {
		h.logger.Error("failed to load catalog", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, items)
}
