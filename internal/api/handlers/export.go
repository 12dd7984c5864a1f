package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/card-ledger/backend/internal/services"
)

type ExportHandler struct {
	loader *services.SnapshotLoader
}

func NewExportHandler(loader *services.SnapshotLoader) *ExportHandler {
	return &ExportHandler{loader: loader}
}

// ExportCSV streams the full table as a one-shot CSV download in the
// canonical column order.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	snap, err := h.loader.Load(c.Request.Context())
	if err != nil {
		c.JSON(storeErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", services.ExportFilename()))
	c.Status(http.StatusOK)

	if err := services.WriteCSV(c.Writer, snap.Records); err != nil {
		// Headers are gone; all we can do is log via gin's error list.
		_ = c.Error(err)
	}
}
