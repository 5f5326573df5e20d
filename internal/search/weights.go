package search

// TermWeights scores a single candidate term on the products page.
type TermWeights struct {
	Exact       int `koanf:"exact"`
	Prefix      int `koanf:"prefix"`
	Contains    int `koanf:"contains"`
	Word        int `koanf:"word"`
	ActiveBonus int `koanf:"active_bonus"`
}

// ItemWeights scores a whole catalog item in the header search.
type ItemWeights struct {
	NameExact           int `koanf:"name_exact"`
	CategoryExact       int `koanf:"category_exact"`
	NamePrefix          int `koanf:"name_prefix"`
	CategoryPrefix      int `koanf:"category_prefix"`
	NameContains        int `koanf:"name_contains"`
	DescriptionContains int `koanf:"description_contains"`
	CategoryContains    int `koanf:"category_contains"`
	NameWord            int `koanf:"name_word"`
	DescriptionWord     int `koanf:"description_word"`
	CategoryWord        int `koanf:"category_word"`
	ActiveBonus         int `koanf:"active_bonus"`
	StockBonus          int `koanf:"stock_bonus"`
	StockThreshold      int `koanf:"stock_threshold"`
}

// Weights holds every ranking tunable.
type Weights struct {
	Term  TermWeights `koanf:"term"`
	Item  ItemWeights `koanf:"item"`
	Limit int         `koanf:"limit"`
}

// DefaultWeights returns the stock scoring table.
func DefaultWeights() Weights {
	return Weights{
		Term: TermWeights{
			Exact:       100,
			Prefix:      80,
			Contains:    50,
			Word:        20,
			ActiveBonus: 5,
		},
		Item: ItemWeights{
			NameExact:           100,
			CategoryExact:       90,
			NamePrefix:          80,
			CategoryPrefix:      70,
			NameContains:        50,
			DescriptionContains: 30,
			CategoryContains:    40,
			NameWord:            20,
			DescriptionWord:     10,
			CategoryWord:        15,
			ActiveBonus:         5,
			StockBonus:          3,
			StockThreshold:      10,
		},
		Limit: 5,
	}
}
