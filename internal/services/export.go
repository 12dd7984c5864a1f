package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"github.com/codyseavey/card-ledger/backend/internal/models"
)

// WriteCSV dumps a snapshot's records in the canonical column order, for
// the one-shot backup download. Dates are already canonical in the
// snapshot so rows go out exactly as loaded.
func WriteCSV(w io.Writer, recs []models.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.Columns); err != nil {
		return fmt.Errorf("export header: %w", err)
	}
	for _, rec := range recs {
		row := []string{
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
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export row id %d: %w", rec.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename returns a unique name for one download, so repeated
// exports never collide in the user's download directory.
func ExportFilename() string {
	return "card_data_export_" + uuid.New().String()[:8] + ".csv"
}
