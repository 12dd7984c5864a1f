package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/card-ledger/backend/internal/models"
	"github.com/codyseavey/card-ledger/backend/internal/services"
	"github.com/codyseavey/card-ledger/backend/internal/store"
)

type ViewHandler struct {
	loader     *services.SnapshotLoader
	registry   *services.ViewRegistry
	reconciler *services.Reconciler
	store      store.Store
}

func NewViewHandler(loader *services.SnapshotLoader, registry *services.ViewRegistry, reconciler *services.Reconciler, st store.Store) *ViewHandler {
	return &ViewHandler{
		loader:     loader,
		registry:   registry,
		reconciler: reconciler,
		store:      st,
	}
}

// CreateView runs the load → project half of a cycle: a fresh snapshot,
// filtered and position-indexed, registered under a token the grid must
// echo back with its edits. The id column is read-only in the grid; the
// token is how edits find their way back to the exact rows they touched.
func (h *ViewHandler) CreateView(c *gin.Context) {
	var filters services.Filters
	if err := c.ShouldBindJSON(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.loader.Load(c.Request.Context())
	if err != nil {
		c.JSON(storeErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	view := services.Project(snap, filters)
	token := h.registry.Register(view)

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"records":  view.Records,
		"repaired": snap.Repaired,
	})
}

// Reconcile applies a captured edit batch against the view that produced
// its positions. Store failures come back inside the result, already
// applied work included; HTTP errors here mean the request itself was
// unusable, not that a write failed.
func (h *ViewHandler) Reconcile(c *gin.Context) {
	token := c.Param("token")
	view, ok := h.registry.Lookup(token)
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "view expired, reload and try again"})
		return
	}

	if !h.store.SupportsRowAddressing() {
		c.JSON(http.StatusConflict, gin.H{
			"error": "store cannot address rows; use the full-table save endpoint",
		})
		return
	}

	var batch models.EditBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.reconciler.Reconcile(c.Request.Context(), view, batch)
	c.JSON(http.StatusOK, result)
}
