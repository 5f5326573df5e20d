package models

// Product status values
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// CatalogItem is a product as seen by search. The ranker never mutates it.
type CatalogItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Status      string  `json:"status"`
}

// IsActive reports whether the item is active
func (c CatalogItem) IsActive() bool {
	return c.Status == StatusActive
}

// TermScore pairs a candidate term with its relevance score
type TermScore struct {
	Term  string `json:"term"`
	Score int    `json:"score"`
}

// ItemScore pairs a catalog item with its relevance score
type ItemScore struct {
	Item  CatalogItem `json:"item"`
	Score int         `json:"score"`
}
