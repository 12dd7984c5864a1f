package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/card-ledger/backend/internal/models"
	"github.com/codyseavey/card-ledger/backend/internal/services"
	"github.com/codyseavey/card-ledger/backend/internal/store"
)

type RecordHandler struct {
	loader   *services.SnapshotLoader
	store    store.Store
	replacer *services.FullReplacer
}

func NewRecordHandler(loader *services.SnapshotLoader, st store.Store, replacer *services.FullReplacer) *RecordHandler {
	return &RecordHandler{
		loader:   loader,
		store:    st,
		replacer: replacer,
	}
}

// ListRecords returns the full post-repair snapshot, id descending.
func (h *RecordHandler) ListRecords(c *gin.Context) {
	snap, err := h.loader.Load(c.Request.Context())
	if err != nil {
		c.JSON(storeErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// CreateRecord is the entry-form submission: the only way a record comes
// into existence. The id is allocated from a snapshot loaded in the same
// cycle so it cannot collide with anything already stored.
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	var req models.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.loader.Load(c.Request.Context())
	if err != nil {
		c.JSON(storeErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	rec := models.Record{
		ID:         services.NextID(snap),
		Date:       req.Date,
		CardNumber: req.CardNumber,
		CardName:   req.CardName,
		CardSet:    req.CardSet,
		Price:      req.Price,
		Quantity:   req.Quantity,
		Rarity:     req.Rarity,
		Color:      req.Color,
		ImageURL:   req.ImageURL,
	}
	if rec.Date == "" {
		rec.Date = time.Now().Format(models.DateFormat)
	}
	if rec.Quantity <= 0 {
		rec.Quantity = 1
	}
	rec = services.CoerceRecord(rec)
	if rec.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	if err := h.store.Insert(c.Request.Context(), rec); err != nil {
		c.JSON(storeErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// ReplaceAll is the full-table save: the whole edited snapshot replaces
// the store contents. This is the only mutation path for bulk-only
// backends; on row-addressable backends prefer the incremental
// reconcile endpoint.
func (h *RecordHandler) ReplaceAll(c *gin.Context) {
	var req struct {
		Records []models.Record `json:"records"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.replacer.ReplaceAll(c.Request.Context(), req.Records); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": len(req.Records)})
}

// storeErrorStatus maps store failure modes to HTTP statuses. Everything
// degrades to a user-visible message; nothing here is process-fatal.
func storeErrorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrSchemaMismatch):
		return http.StatusBadGateway
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
