package models

import "fmt"

// VariantKey identifies a card variant: the grouping of records sharing
// name, number, set, rarity and color. Variants are derived per cycle and
// never persisted.
type VariantKey struct {
	CardName   string `json:"card_name"`
	CardNumber string `json:"card_number"`
	CardSet    string `json:"card_set"`
	Rarity     string `json:"rarity"`
	Color      string `json:"color"`
}

// Label renders the key the way the dashboard's variant picker shows it.
func (k VariantKey) Label() string {
	return fmt.Sprintf("%s [%s] (%s) - %s/%s",
		k.CardName, k.CardNumber, k.CardSet, k.Rarity, k.Color)
}

// PricePoint is one dated price/quantity observation within a variant's
// history.
type PricePoint struct {
	Date     string  `json:"date"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// VariantStats is the per-variant analysis panel: latest price, inventory
// total, average, historical extremes with the dates they were entered,
// and the most recent observations.
type VariantStats struct {
	Key           VariantKey   `json:"key"`
	Label         string       `json:"label"`
	LatestPrice   float64      `json:"latest_price"`
	LatestImage   string       `json:"latest_image,omitempty"`
	TotalQuantity int          `json:"total_quantity"`
	AveragePrice  float64      `json:"average_price"`
	MaxPrice      float64      `json:"max_price"`
	MaxPriceDate  string       `json:"max_price_date"`
	MinPrice      float64      `json:"min_price"`
	MinPriceDate  string       `json:"min_price_date"`
	RecordCount   int          `json:"record_count"`
	Recent        []PricePoint `json:"recent"`
}
