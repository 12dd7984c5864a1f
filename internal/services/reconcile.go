package services

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/codyseavey/card-ledger/backend/internal/metrics"
	"github.com/codyseavey/card-ledger/backend/internal/models"
	"github.com/codyseavey/card-ledger/backend/internal/store"
)

// Reconciler translates the grid's position-indexed edits and deletes
// into key-indexed store operations. Positions are resolved against the
// same ViewSet that produced them, every resolution happens before any
// mutation, deletes go out before upserts, and a row both edited and
// deleted in one cycle is only deleted.
type Reconciler struct {
	store store.Store
}

func NewReconciler(st store.Store) *Reconciler {
	return &Reconciler{store: st}
}

// Reconcile applies one captured edit batch. It never returns a Go
// error: store failures become entries in the result's Errors, and work
// applied before a failure stays applied (each batch call is idempotent,
// so a retry of the whole cycle is safe).
func (r *Reconciler) Reconcile(ctx context.Context, view *models.ViewSet, batch models.EditBatch) models.ReconcileResult {
	result := models.ReconcileResult{Appended: batch.Appended}

	// Stage 1: resolve every position to a surrogate key. Nothing is
	// mutated until all resolution is done, so an earlier delete can
	// never shift a later position.
	deleteKeys, deletedPos, staleDeletes := resolveDeletes(view, batch.Deleted)
	upserts, staleEdits, collided := resolveEdits(view, batch.Edited, deletedPos)
	result.Skipped = staleDeletes + staleEdits + collided

	// Stage 2: mutate, deletes first.
	if len(deleteKeys) > 0 {
		if err := r.store.DeleteByKeys(ctx, deleteKeys); err != nil {
			metrics.StoreErrorsTotal.WithLabelValues("delete_by_keys").Inc()
			result.Errors = append(result.Errors, fmt.Sprintf("delete failed: %v", err))
		} else {
			result.Deleted = len(deleteKeys)
		}
	}

	if len(upserts) > 0 {
		if err := r.store.UpsertBatch(ctx, upserts); err != nil {
			metrics.StoreErrorsTotal.WithLabelValues("upsert_batch").Inc()
			result.Errors = append(result.Errors, fmt.Sprintf("update failed: %v", err))
		} else {
			result.Updated = len(upserts)
		}
	}

	if batch.Appended > 0 {
		// Appended grid rows never get an identity here; creation goes
		// through the explicit entry flow.
		log.Printf("Reconcile: ignoring %d appended grid rows", batch.Appended)
	}

	outcome := "clean"
	if len(result.Errors) > 0 {
		outcome = "partial"
	}
	metrics.ReconcileCyclesTotal.WithLabelValues(outcome).Inc()
	metrics.ReconcileRowsTotal.WithLabelValues("updated").Add(float64(result.Updated))
	metrics.ReconcileRowsTotal.WithLabelValues("deleted").Add(float64(result.Deleted))
	metrics.ReconcileRowsTotal.WithLabelValues("skipped").Add(float64(result.Skipped))

	return result
}

// resolveDeletes maps deleted positions to keys. Out-of-range positions
// are counted and skipped; the view may have gone stale between capture
// and reconciliation and that is tolerated, not treated as corruption.
func resolveDeletes(view *models.ViewSet, deleted []int) (keys []int64, positions map[int]bool, stale int) {
	positions = make(map[int]bool, len(deleted))
	for _, pos := range deleted {
		rec, ok := view.At(pos)
		if !ok {
			stale++
			continue
		}
		if positions[pos] {
			continue
		}
		positions[pos] = true
		keys = append(keys, rec.ID)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys, positions, stale
}

// resolveEdits builds the upsert payloads. Each payload is seeded with
// the row's id and its original date reformatted to canonical form, so a
// backend that rejects partial records missing a required column always
// gets one — even when date was not among the edited fields.
func resolveEdits(view *models.ViewSet, edited map[int]map[string]any, deletedPos map[int]bool) (upserts []models.Record, stale, collided int) {
	positions := make([]int, 0, len(edited))
	for pos := range edited {
		positions = append(positions, pos)
	}
	sort.Ints(positions)

	for _, pos := range positions {
		if deletedPos[pos] {
			// Delete wins; a row cannot be removed and updated in the
			// same cycle.
			collided++
			continue
		}
		rec, ok := view.At(pos)
		if !ok {
			stale++
			continue
		}
		upserts = append(upserts, applyEdits(rec, edited[pos]))
	}
	return upserts, stale, collided
}

// applyEdits overlays one row's field changes onto its original record,
// coercing each value to its column's canonical type. The id column is
// never editable; the capture interface marks it read-only upstream and
// we drop it here regardless. A date that fails coercion keeps the
// seeded original instead of the table fallback.
func applyEdits(rec models.Record, changes map[string]any) models.Record {
	out := rec
	if d, ok := coerceDate(rec.Date); ok {
		out.Date = d.(string)
	}
	for field, raw := range changes {
		switch field {
		case "id":
			// read-only
		case "date":
			if v, ok := CoerceField("date", raw); ok {
				out.Date = v.(string)
			}
		case "card_number":
			out.CardNumber = coerceStringOrEmpty(raw)
		case "card_name":
			out.CardName = coerceStringOrEmpty(raw)
		case "card_set":
			out.CardSet = coerceStringOrEmpty(raw)
		case "price":
			v, ok := CoerceField("price", raw)
			if !ok {
				metrics.CoercionFallbacksTotal.Inc()
			}
			out.Price = v.(float64)
		case "quantity":
			v, ok := CoerceField("quantity", raw)
			if !ok {
				metrics.CoercionFallbacksTotal.Inc()
			}
			out.Quantity = v.(int)
		case "rarity":
			out.Rarity = coerceStringOrEmpty(raw)
		case "color":
			out.Color = coerceStringOrEmpty(raw)
		case "image_url":
			out.ImageURL = coerceStringOrEmpty(raw)
		default:
			log.Printf("Reconcile: ignoring edit to unknown column %q", field)
		}
	}
	return out
}
