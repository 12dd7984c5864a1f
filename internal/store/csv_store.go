package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/codyseavey/card-ledger/backend/internal/models"
)

// CSVStore keeps the whole table in a single CSV file using the canonical
// column order. It can only read and rewrite the file as a unit, so it
// reports no row addressing and forces callers onto the full-replace
// path. Exists for backends (and backups) that are just a flat file.
type CSVStore struct {
	path string
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) SelectAll(ctx context.Context) ([]models.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Record{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(rows) == 0 {
		return []models.Record{}, nil
	}

	header := rows[0]
	if len(header) != len(models.Columns) {
		return nil, fmt.Errorf("%w: got %d columns, want %d",
			ErrSchemaMismatch, len(header), len(models.Columns))
	}
	for i, col := range models.Columns {
		if header[i] != col {
			return nil, fmt.Errorf("%w: column %d is %q, want %q",
				ErrSchemaMismatch, i, header[i], col)
		}
	}

	recs := make([]models.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		recs = append(recs, recordFromRow(row))
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].ID > recs[j].ID })
	return recs, nil
}

func (s *CSVStore) Insert(ctx context.Context, rec models.Record) error {
	return s.InsertBatch(ctx, []models.Record{rec})
}

// InsertBatch rewrites the whole file with the new rows appended. Not a
// row-level operation, just a convenience over the bulk rewrite.
func (s *CSVStore) InsertBatch(ctx context.Context, recs []models.Record) error {
	if len(recs) == 0 {
		return nil
	}
	existing, err := s.SelectAll(ctx)
	if err != nil {
		return err
	}
	return s.writeAll(append(existing, recs...))
}

func (s *CSVStore) UpsertBatch(ctx context.Context, recs []models.Record) error {
	return ErrNoRowAddressing
}

func (s *CSVStore) DeleteByKeys(ctx context.Context, ids []int64) error {
	return ErrNoRowAddressing
}

func (s *CSVStore) DeleteAll(ctx context.Context) error {
	return s.writeAll(nil)
}

func (s *CSVStore) SupportsRowAddressing() bool {
	return false
}

// writeAll replaces the file contents. A temp-file rename keeps a crash
// mid-write from truncating the table.
func (s *CSVStore) writeAll(recs []models.Record) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "cards-*.csv")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(models.Columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range recs {
		if err := w.Write(rowFromRecord(rec)); err != nil {
			tmp.Close()
			return fmt.Errorf("write row id %d: %w", rec.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func rowFromRecord(rec models.Record) []string {
	return []string{
		strconv.FormatInt(rec.ID, 10),
		rec.Date,
		rec.CardNumber,
		rec.CardName,
		rec.CardSet,
		strconv.FormatFloat(rec.Price, 'f', -1, 64),
		strconv.Itoa(rec.Quantity),
		rec.Rarity,
		rec.Color,
		rec.ImageURL,
	}
}

// recordFromRow parses leniently: unparseable numerics become zero and the
// snapshot loader's coercion pass cleans up after us.
func recordFromRow(row []string) models.Record {
	var rec models.Record
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	rec.ID, _ = strconv.ParseInt(get(0), 10, 64)
	rec.Date = get(1)
	rec.CardNumber = get(2)
	rec.CardName = get(3)
	rec.CardSet = get(4)
	rec.Price, _ = strconv.ParseFloat(get(5), 64)
	rec.Quantity, _ = strconv.Atoi(get(6))
	rec.Rarity = get(7)
	rec.Color = get(8)
	rec.ImageURL = get(9)
	return rec
}
