package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/card-ledger/backend/internal/models"
	"github.com/codyseavey/card-ledger/backend/internal/services"
)

type VariantHandler struct {
	loader *services.SnapshotLoader
}

func NewVariantHandler(loader *services.SnapshotLoader) *VariantHandler {
	return &VariantHandler{loader: loader}
}

// ListVariants returns the distinct variants of the currently filtered
// records, in the order the analysis picker shows them.
func (h *VariantHandler) ListVariants(c *gin.Context) {
	var filters services.Filters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.loader.Load(c.Request.Context())
	if err != nil {
		c.JSON(storeErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	view := services.Project(snap, filters)
	keys := services.GroupVariants(view.Records)

	out := make([]gin.H, 0, len(keys))
	for _, key := range keys {
		out = append(out, gin.H{"key": key, "label": key.Label()})
	}
	c.JSON(http.StatusOK, out)
}

// VariantStats returns the price-history panel for one variant, selected
// by its key fields, computed over the currently filtered records.
func (h *VariantHandler) VariantStats(c *gin.Context) {
	var filters services.Filters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := models.VariantKey{
		CardName:   c.Query("card_name"),
		CardNumber: c.Query("card_number"),
		CardSet:    c.Query("card_set"),
		Rarity:     c.Query("rarity"),
		Color:      c.Query("color"),
	}
	if key.CardName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card_name is required"})
		return
	}

	snap, err := h.loader.Load(c.Request.Context())
	if err != nil {
		c.JSON(storeErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	view := services.Project(snap, filters)
	stats := services.ComputeVariantStats(view.Records, key)
	if stats.RecordCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no records for that variant"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
