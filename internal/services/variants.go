package services

import (
	"sort"

	"github.com/codyseavey/card-ledger/backend/internal/models"
)

// Variant grouping is recomputed from the record set every cycle; a
// variant has no storage representation of its own.

const recentHistoryLimit = 10

// GroupVariants returns the distinct variants of the given records in
// first-seen order.
func GroupVariants(recs []models.Record) []models.VariantKey {
	seen := make(map[models.VariantKey]bool, len(recs))
	var keys []models.VariantKey
	for _, rec := range recs {
		key := variantKeyOf(rec)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// ComputeVariantStats computes the analysis panel for one variant from the
// given records: latest observation, inventory total, average, extremes
// with their entry dates, and the most recent observations.
func ComputeVariantStats(recs []models.Record, key models.VariantKey) models.VariantStats {
	var history []models.Record
	for _, rec := range recs {
		if variantKeyOf(rec) == key {
			history = append(history, rec)
		}
	}

	stats := models.VariantStats{Key: key, Label: key.Label()}
	if len(history) == 0 {
		return stats
	}

	// Oldest first; ties keep snapshot order so "latest" is stable.
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date < history[j].Date
	})

	latest := history[len(history)-1]
	stats.LatestPrice = latest.Price
	stats.LatestImage = latest.ImageURL
	stats.RecordCount = len(history)

	var sum float64
	stats.MaxPrice = history[0].Price
	stats.MaxPriceDate = history[0].Date
	stats.MinPrice = history[0].Price
	stats.MinPriceDate = history[0].Date
	for _, rec := range history {
		sum += rec.Price
		stats.TotalQuantity += rec.Quantity
		if rec.Price > stats.MaxPrice {
			stats.MaxPrice = rec.Price
			stats.MaxPriceDate = rec.Date
		}
		if rec.Price < stats.MinPrice {
			stats.MinPrice = rec.Price
			stats.MinPriceDate = rec.Date
		}
	}
	stats.AveragePrice = sum / float64(len(history))

	// Most recent first, capped.
	for i := len(history) - 1; i >= 0 && len(stats.Recent) < recentHistoryLimit; i-- {
		stats.Recent = append(stats.Recent, models.PricePoint{
			Date:     history[i].Date,
			Price:    history[i].Price,
			Quantity: history[i].Quantity,
		})
	}

	return stats
}

func variantKeyOf(rec models.Record) models.VariantKey {
	return models.VariantKey{
		CardName:   rec.CardName,
		CardNumber: rec.CardNumber,
		CardSet:    rec.CardSet,
		Rarity:     rec.Rarity,
		Color:      rec.Color,
	}
}
