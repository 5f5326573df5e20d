package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/BradenHooton/storefront/internal/search"
)

// LoadRankerWeights layers an optional YAML file over search.DefaultWeights.
// Keys missing from the file keep their default value. An empty path returns
// the defaults.
//
//	term:
//	  exact: 100
//	item:
//	  stock_threshold: 20
//	limit: 8
func LoadRankerWeights(path string) (search.Weights, error) {
	weights := search.DefaultWeights()
	if path == "" {
		return weights, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return search.Weights{}, fmt.Errorf("failed to load ranker weights from %s: %w", path, err)
	}

	if err := k.UnmarshalWithConf("", &weights, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return search.Weights{}, fmt.Errorf("failed to decode ranker weights: %w", err)
	}

	if weights.Limit <= 0 {
		return search.Weights{}, fmt.Errorf("ranker weights: limit must be positive (got %d)", weights.Limit)
	}

	return weights, nil
}
