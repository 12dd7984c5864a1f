package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/codyseavey/card-ledger/backend/internal/models"
)

func testCSVStore(t *testing.T) *CSVStore {
	t.Helper()
	return NewCSVStore(filepath.Join(t.TempDir(), "cards.csv"))
}

func TestCSVStoreRoundTrip(t *testing.T) {
	s := testCSVStore(t)
	ctx := context.Background()

	// Missing file reads as an empty table.
	recs, err := s.SelectAll(ctx)
	if err != nil {
		t.Fatalf("SelectAll on missing file: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("got %d rows, want 0", len(recs))
	}

	in := []models.Record{
		{ID: 1, Date: "2024-01-01", CardName: "Pikachu", CardNumber: "P-113",
			CardSet: "Base", Price: 120.5, Quantity: 1, Rarity: "SR", Color: "Yellow"},
		{ID: 2, Date: "2024-01-02", CardName: "Charizard", Quantity: 2},
	}
	if err := s.InsertBatch(ctx, in); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	recs, err = s.SelectAll(ctx)
	if err != nil {
		t.Fatalf("SelectAll: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d rows, want 2", len(recs))
	}
	// id descending, like every backend.
	if recs[0].ID != 2 || recs[1].ID != 1 {
		t.Errorf("order = [%d %d], want [2 1]", recs[0].ID, recs[1].ID)
	}
	if recs[1].Price != 120.5 || recs[1].Rarity != "SR" {
		t.Errorf("row 1 did not round-trip: %+v", recs[1])
	}
}

func TestCSVStoreNoRowAddressing(t *testing.T) {
	s := testCSVStore(t)
	ctx := context.Background()

	if s.SupportsRowAddressing() {
		t.Error("CSV store must not report row addressing")
	}
	if err := s.UpsertBatch(ctx, []models.Record{{ID: 1}}); !errors.Is(err, ErrNoRowAddressing) {
		t.Errorf("UpsertBatch err = %v, want ErrNoRowAddressing", err)
	}
	if err := s.DeleteByKeys(ctx, []int64{1}); !errors.Is(err, ErrNoRowAddressing) {
		t.Errorf("DeleteByKeys err = %v, want ErrNoRowAddressing", err)
	}
}

func TestCSVStoreDeleteAll(t *testing.T) {
	s := testCSVStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, models.Record{ID: 1, Date: "2024-01-01", CardName: "a", Quantity: 1}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	recs, err := s.SelectAll(ctx)
	if err != nil {
		t.Fatalf("SelectAll: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d rows after DeleteAll, want 0", len(recs))
	}
}

func TestCSVStoreSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.csv")
	if err := os.WriteFile(path, []byte("id,name\n1,x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewCSVStore(path).SelectAll(context.Background())
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("err = %v, want ErrSchemaMismatch", err)
	}
}
