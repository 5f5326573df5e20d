// Package search ranks catalog items and their text fields against a
// free-text query.
package search

import (
	"slices"
	"strings"

	"github.com/BradenHooton/storefront/internal/models"
)

// Ranker scores candidates with a fixed set of weights. It holds no mutable
// state and is safe for concurrent use.
type Ranker struct {
	weights Weights
}

// Option configures a Ranker
type Option func(*Ranker)

// WithWeights replaces the default scoring table
func WithWeights(w Weights) Option {
	return func(r *Ranker) {
		r.weights = w
	}
}

// NewRanker creates a ranker using DefaultWeights unless overridden
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(r)
	}
	if r.weights.Limit <= 0 {
		r.weights.Limit = DefaultWeights().Limit
	}
	return r
}

// Weights returns the table in use
func (r *Ranker) Weights() Weights {
	return r.weights
}

// RankTerms scores each item's name, description and category as independent
// candidate terms. Identical terms keep their highest score at the position
// they were first seen. Returns nil for a blank query.
func (r *Ranker) RankTerms(query string, items []models.CatalogItem) []models.TermScore {
	q, words, ok := normalize(query)
	if !ok {
		return nil
	}

	w := r.weights.Term
	var scores []models.TermScore
	index := make(map[string]int)

	for _, item := range items {
		for _, term := range []string{item.Name, item.Description, item.Category} {
			if term == "" {
				continue
			}

			lower := strings.ToLower(term)
			score := 0
			if lower == q {
				score += w.Exact
			}
			if strings.HasPrefix(lower, q) {
				score += w.Prefix
			}
			if strings.Contains(lower, q) {
				score += w.Contains
			}
			for _, word := range words {
				if strings.Contains(lower, word) {
					score += w.Word
				}
			}
			if item.IsActive() {
				score += w.ActiveBonus
			}

			if score <= 0 {
				continue
			}

			if i, seen := index[term]; seen {
				scores[i].Score = max(scores[i].Score, score)
				continue
			}
			index[term] = len(scores)
			scores = append(scores, models.TermScore{Term: term, Score: score})
		}
	}

	slices.SortStableFunc(scores, func(a, b models.TermScore) int {
		return b.Score - a.Score
	})
	return truncate(scores, r.weights.Limit)
}

// RankItems scores whole items using field-specific weights plus the
// availability bonuses. Returns nil for a blank query.
func (r *Ranker) RankItems(query string, items []models.CatalogItem) []models.ItemScore {
	q, words, ok := normalize(query)
	if !ok {
		return nil
	}

	w := r.weights.Item
	var scores []models.ItemScore

	for _, item := range items {
		name := strings.ToLower(item.Name)
		description := strings.ToLower(item.Description)
		category := strings.ToLower(item.Category)

		score := 0
		if name == q {
			score += w.NameExact
		}
		if category == q {
			score += w.CategoryExact
		}

		if strings.HasPrefix(name, q) {
			score += w.NamePrefix
		}
		if strings.HasPrefix(category, q) {
			score += w.CategoryPrefix
		}

		if strings.Contains(name, q) {
			score += w.NameContains
		}
		if strings.Contains(description, q) {
			score += w.DescriptionContains
		}
		if strings.Contains(category, q) {
			score += w.CategoryContains
		}

		for _, word := range words {
			if strings.Contains(name, word) {
				score += w.NameWord
			}
			if strings.Contains(description, word) {
				score += w.DescriptionWord
			}
			if strings.Contains(category, word) {
				score += w.CategoryWord
			}
		}

		if item.IsActive() {
			score += w.ActiveBonus
		}
		if item.Stock > w.StockThreshold {
			score += w.StockBonus
		}

		if score > 0 {
			scores = append(scores, models.ItemScore{Item: item, Score: score})
		}
	}

	slices.SortStableFunc(scores, func(a, b models.ItemScore) int {
		return b.Score - a.Score
	})
	return truncate(scores, r.weights.Limit)
}

func normalize(query string) (string, []string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", nil, false
	}
	return q, strings.Fields(q), true
}

func truncate[T any](s []T, limit int) []T {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
