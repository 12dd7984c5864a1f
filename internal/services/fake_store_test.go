package services

import (
	"context"
	"errors"

	"github.com/codyseavey/card-ledger/backend/internal/models"
	"github.com/codyseavey/card-ledger/backend/internal/store"
)

// fakeStore is an in-memory Store for service tests. Rows keep their
// insertion order (so broken inputs with duplicate ids can be
// represented) and individual calls can be made to fail to exercise
// partial-write reporting.
type fakeStore struct {
	rows []models.Record

	rowAddressing bool

	failSelect bool
	failDelete bool
	failUpsert bool
	failInsert bool

	deleteCalls int
	upsertCalls int
}

func newFakeStore(recs ...models.Record) *fakeStore {
	return &fakeStore{rows: append([]models.Record{}, recs...), rowAddressing: true}
}

var errFakeStore = errors.New("fake store failure")

func (s *fakeStore) SelectAll(ctx context.Context) ([]models.Record, error) {
	if s.failSelect {
		return nil, store.ErrUnavailable
	}
	return append([]models.Record{}, s.rows...), nil
}

func (s *fakeStore) Insert(ctx context.Context, rec models.Record) error {
	return s.InsertBatch(ctx, []models.Record{rec})
}

func (s *fakeStore) InsertBatch(ctx context.Context, recs []models.Record) error {
	if s.failInsert {
		return errFakeStore
	}
	s.rows = append(s.rows, recs...)
	return nil
}

func (s *fakeStore) UpsertBatch(ctx context.Context, recs []models.Record) error {
	s.upsertCalls++
	if !s.rowAddressing {
		return store.ErrNoRowAddressing
	}
	if s.failUpsert {
		return errFakeStore
	}
	for _, rec := range recs {
		replaced := false
		for i := range s.rows {
			if s.rows[i].ID == rec.ID {
				s.rows[i] = rec
				replaced = true
				break
			}
		}
		if !replaced {
			s.rows = append(s.rows, rec)
		}
	}
	return nil
}

func (s *fakeStore) DeleteByKeys(ctx context.Context, ids []int64) error {
	s.deleteCalls++
	if !s.rowAddressing {
		return store.ErrNoRowAddressing
	}
	if s.failDelete {
		return errFakeStore
	}
	doomed := make(map[int64]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}
	kept := s.rows[:0]
	for _, rec := range s.rows {
		if !doomed[rec.ID] {
			kept = append(kept, rec)
		}
	}
	s.rows = kept
	return nil
}

func (s *fakeStore) DeleteAll(ctx context.Context) error {
	if s.failDelete {
		return errFakeStore
	}
	s.rows = nil
	return nil
}

func (s *fakeStore) SupportsRowAddressing() bool {
	return s.rowAddressing
}

// find returns the stored record with the given id.
func (s *fakeStore) find(id int64) (models.Record, bool) {
	for _, rec := range s.rows {
		if rec.ID == id {
			return rec, true
		}
	}
	return models.Record{}, false
}
