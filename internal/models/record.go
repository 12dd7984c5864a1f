package models

// DateFormat is the wire format for every date in the system.
const DateFormat = "2006-01-02"

// Columns is the canonical column set, in the order positional backends
// (CSV) and the export require.
var Columns = []string{
	"id", "date", "card_number", "card_name", "card_set",
	"price", "quantity", "rarity", "color", "image_url",
}

// Record is one priced observation of one card variant. ID is a
// user-visible surrogate key assigned at creation time, never by the
// database.
type Record struct {
	ID         int64   `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Date       string  `json:"date" gorm:"not null;index"`
	CardNumber string  `json:"card_number"`
	CardName   string  `json:"card_name" gorm:"not null;index"`
	CardSet    string  `json:"card_set"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity" gorm:"default:1"`
	Rarity     string  `json:"rarity"`
	Color      string  `json:"color"`
	ImageURL   string  `json:"image_url"`
}

func (Record) TableName() string {
	return "cards"
}

// Snapshot is the full authoritative table as loaded for one cycle,
// ordered by descending ID. Repaired reports whether the loader had to
// rewrite the id column to a dense sequence.
type Snapshot struct {
	Records  []Record `json:"records"`
	Repaired bool     `json:"repaired"`
}

type CreateRecordRequest struct {
	Date       string  `json:"date"`
	CardNumber string  `json:"card_number"`
	CardName   string  `json:"card_name" binding:"required"`
	CardSet    string  `json:"card_set"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	Rarity     string  `json:"rarity"`
	Color      string  `json:"color"`
	ImageURL   string  `json:"image_url"`
}
