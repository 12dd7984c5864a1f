package store

import (
	"context"
	"errors"

	"github.com/codyseavey/card-ledger/backend/internal/models"
)

var (
	// ErrUnavailable means the store could not be reached at all.
	ErrUnavailable = errors.New("store unavailable")

	// ErrSchemaMismatch means the store's columns don't match the
	// canonical set.
	ErrSchemaMismatch = errors.New("store schema mismatch")

	// ErrNoRowAddressing is returned by per-row operations on backends
	// that can only read and write the whole table.
	ErrNoRowAddressing = errors.New("store does not support row addressing")
)

// Store is the authoritative row store. Each call is individually atomic;
// there is no cross-call transaction, so callers sequence and tolerate
// partial failure themselves.
type Store interface {
	// SelectAll returns every row, ordered by descending id. No
	// pagination; the whole table comes back.
	SelectAll(ctx context.Context) ([]models.Record, error)

	// Insert adds one row. Every canonical column must be set.
	Insert(ctx context.Context, rec models.Record) error

	// InsertBatch adds many rows in one call.
	InsertBatch(ctx context.Context, recs []models.Record) error

	// UpsertBatch inserts or replaces rows keyed on id. Backends without
	// row addressing return ErrNoRowAddressing.
	UpsertBatch(ctx context.Context, recs []models.Record) error

	// DeleteByKeys removes the rows with the given ids. Missing ids are
	// not an error. Backends without row addressing return
	// ErrNoRowAddressing.
	DeleteByKeys(ctx context.Context, ids []int64) error

	// DeleteAll empties the table.
	DeleteAll(ctx context.Context) error

	// SupportsRowAddressing reports whether UpsertBatch and DeleteByKeys
	// work. When false, callers must fall back to full replacement.
	SupportsRowAddressing() bool
}
