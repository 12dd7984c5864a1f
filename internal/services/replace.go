package services

import (
	"context"
	"fmt"
	"log"

	"github.com/codyseavey/card-ledger/backend/internal/metrics"
	"github.com/codyseavey/card-ledger/backend/internal/models"
	"github.com/codyseavey/card-ledger/backend/internal/store"
)

// FullReplacer is the degraded reconciliation strategy for backends
// without per-row addressing: coerce the whole edited snapshot, delete
// everything, bulk-insert the replacement. A failure between the delete
// and the insert leaves the store empty, so prefer the incremental
// Reconciler whenever the backend can address rows.
type FullReplacer struct {
	store store.Store
}

func NewFullReplacer(st store.Store) *FullReplacer {
	return &FullReplacer{store: st}
}

// ReplaceAll swaps the table for the edited snapshot. Every column goes
// through the same coercion table the incremental path uses.
func (f *FullReplacer) ReplaceAll(ctx context.Context, recs []models.Record) error {
	coerced := make([]models.Record, len(recs))
	for i, rec := range recs {
		coerced[i] = CoerceRecord(rec)
	}

	if err := f.store.DeleteAll(ctx); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("delete_all").Inc()
		metrics.FullReplacesTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("full replace: clearing table: %w", err)
	}

	if len(coerced) > 0 {
		if err := f.store.InsertBatch(ctx, coerced); err != nil {
			metrics.StoreErrorsTotal.WithLabelValues("insert_batch").Inc()
			metrics.FullReplacesTotal.WithLabelValues("failed").Inc()
			// The table is now empty. Reported, not rolled back; the
			// next load cycle shows whatever state the store is in.
			return fmt.Errorf("full replace: reinserting %d rows after clear: %w", len(coerced), err)
		}
	}

	metrics.FullReplacesTotal.WithLabelValues("success").Inc()
	log.Printf("Full replace: table rewritten with %d rows", len(coerced))
	return nil
}
