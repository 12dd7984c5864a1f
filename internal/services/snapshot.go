package services

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/codyseavey/card-ledger/backend/internal/metrics"
	"github.com/codyseavey/card-ledger/backend/internal/models"
	"github.com/codyseavey/card-ledger/backend/internal/store"
)

// SnapshotLoader fetches the whole authoritative table and turns it into
// the cycle's ground-truth snapshot: empties normalized, numeric fields
// coerced with safe fallbacks, and the id column repaired to a dense
// 1..N sequence whenever it contains zeros, negatives or duplicates.
type SnapshotLoader struct {
	store store.Store
}

func NewSnapshotLoader(st store.Store) *SnapshotLoader {
	return &SnapshotLoader{store: st}
}

// Load returns the snapshot ordered by descending id. On store failure it
// returns an empty snapshot together with the error so the caller can
// degrade the display and surface the message at the same time.
//
// An id repair is visible only in the returned snapshot; it is persisted
// by the next mutating write (which carries the repaired ids) rather
// than from inside the read path.
func (l *SnapshotLoader) Load(ctx context.Context) (*models.Snapshot, error) {
	recs, err := l.store.SelectAll(ctx)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("select_all").Inc()
		return &models.Snapshot{Records: []models.Record{}}, err
	}

	fallbacks := 0
	for i := range recs {
		recs[i], fallbacks = normalizeLoaded(recs[i], fallbacks)
	}

	repaired := repairIDs(recs)

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].ID > recs[j].ID })

	metrics.SnapshotSize.Set(float64(len(recs)))
	if fallbacks > 0 || repaired {
		log.Printf("Snapshot load: %d rows, %d coercion fallbacks, id repair=%v",
			len(recs), fallbacks, repaired)
		metrics.CoercionFallbacksTotal.Add(float64(fallbacks))
	}
	if repaired {
		metrics.IDRepairsTotal.Inc()
	}

	return &models.Snapshot{Records: recs, Repaired: repaired}, nil
}

// normalizeLoaded applies the load-time fallbacks: unparseable dates
// become today, negative prices become 0, non-positive quantities become
// 1. Returns the updated fallback count for aggregate reporting.
func normalizeLoaded(rec models.Record, fallbacks int) (models.Record, int) {
	if d, ok := coerceDate(rec.Date); ok {
		rec.Date = d.(string)
	} else {
		rec.Date = time.Now().Format(models.DateFormat)
		fallbacks++
	}
	if rec.Price < 0 {
		rec.Price = 0
		fallbacks++
	}
	if rec.Quantity <= 0 {
		rec.Quantity = 1
		fallbacks++
	}
	return rec, fallbacks
}

// repairIDs rewrites the id column to 1..N in the slice's current order
// if any id is non-positive or duplicated. Reports whether it did.
// Without unambiguous ids the reconciler's position-to-key resolution
// cannot be trusted, so this runs before anything else sees the snapshot.
func repairIDs(recs []models.Record) bool {
	seen := make(map[int64]bool, len(recs))
	broken := false
	for _, rec := range recs {
		if rec.ID <= 0 || seen[rec.ID] {
			broken = true
			break
		}
		seen[rec.ID] = true
	}
	if !broken {
		return false
	}
	for i := range recs {
		recs[i].ID = int64(i + 1)
	}
	return true
}

// NextID allocates the surrogate key for a new record: one past the
// largest id in the snapshot, or 1 for an empty table. Pure function;
// call it only against a freshly loaded snapshot or keys can collide.
func NextID(snap *models.Snapshot) int64 {
	var max int64
	for _, rec := range snap.Records {
		if rec.ID > max {
			max = rec.ID
		}
	}
	return max + 1
}
