package store

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codyseavey/card-ledger/backend/internal/models"
)

func testGormStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Record{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return NewGormStore(db)
}

func seed(t *testing.T, s *GormStore, recs ...models.Record) {
	t.Helper()
	if err := s.InsertBatch(context.Background(), recs); err != nil {
		t.Fatalf("seeding: %v", err)
	}
}

func TestGormStoreSelectAllOrder(t *testing.T) {
	s := testGormStore(t)
	seed(t, s,
		models.Record{ID: 10, CardName: "a", Date: "2024-01-01", Quantity: 1},
		models.Record{ID: 30, CardName: "b", Date: "2024-01-02", Quantity: 1},
		models.Record{ID: 20, CardName: "c", Date: "2024-01-03", Quantity: 1},
	)

	recs, err := s.SelectAll(context.Background())
	if err != nil {
		t.Fatalf("SelectAll: %v", err)
	}
	want := []int64{30, 20, 10}
	for i, rec := range recs {
		if rec.ID != want[i] {
			t.Errorf("position %d: id = %d, want %d", i, rec.ID, want[i])
		}
	}
}

func TestGormStoreUpsertIdempotent(t *testing.T) {
	s := testGormStore(t)
	seed(t, s, models.Record{ID: 1, CardName: "a", Date: "2024-01-01", Price: 10, Quantity: 1})

	batch := []models.Record{
		{ID: 1, CardName: "a", Date: "2024-01-01", Price: 99, Quantity: 1},
		{ID: 2, CardName: "b", Date: "2024-01-02", Price: 5, Quantity: 2},
	}
	for i := 0; i < 2; i++ {
		if err := s.UpsertBatch(context.Background(), batch); err != nil {
			t.Fatalf("UpsertBatch round %d: %v", i+1, err)
		}
	}

	recs, err := s.SelectAll(context.Background())
	if err != nil {
		t.Fatalf("SelectAll: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d rows, want 2", len(recs))
	}
	if recs[1].Price != 99 {
		t.Errorf("id 1 price = %v, want replaced value 99", recs[1].Price)
	}
}

func TestGormStoreDeleteByKeys(t *testing.T) {
	s := testGormStore(t)
	seed(t, s,
		models.Record{ID: 1, CardName: "a", Date: "2024-01-01", Quantity: 1},
		models.Record{ID: 2, CardName: "b", Date: "2024-01-02", Quantity: 1},
		models.Record{ID: 3, CardName: "c", Date: "2024-01-03", Quantity: 1},
	)

	if err := s.DeleteByKeys(context.Background(), []int64{1, 3}); err != nil {
		t.Fatalf("DeleteByKeys: %v", err)
	}
	// Deleting already-gone keys is a no-op, not an error.
	if err := s.DeleteByKeys(context.Background(), []int64{1, 3}); err != nil {
		t.Fatalf("replayed DeleteByKeys: %v", err)
	}

	recs, _ := s.SelectAll(context.Background())
	if len(recs) != 1 || recs[0].ID != 2 {
		t.Errorf("remaining rows = %+v, want only id 2", recs)
	}
}

func TestGormStoreDeleteAll(t *testing.T) {
	s := testGormStore(t)
	seed(t, s, models.Record{ID: 1, CardName: "a", Date: "2024-01-01", Quantity: 1})

	if err := s.DeleteAll(context.Background()); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	recs, _ := s.SelectAll(context.Background())
	if len(recs) != 0 {
		t.Errorf("got %d rows after DeleteAll, want 0", len(recs))
	}
}

func TestGormStoreSupportsRowAddressing(t *testing.T) {
	if !testGormStore(t).SupportsRowAddressing() {
		t.Error("gorm store must report row addressing")
	}
}
