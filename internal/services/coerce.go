package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/codyseavey/card-ledger/backend/internal/models"
)

// Field coercion lives in one table so adding a column is a one-line
// change. Every value written back to the store goes through here; a
// value that fails coercion becomes its column's fallback instead of
// aborting the write. Coercion is idempotent: feeding a canonical value
// back in returns it unchanged.

type coercion struct {
	coerce   func(raw any) (any, bool)
	fallback any
}

var columnCoercions = map[string]coercion{
	"id":          {coerceID, int64(0)},
	"date":        {coerceDate, ""},
	"card_number": {coerceString, ""},
	"card_name":   {coerceString, ""},
	"card_set":    {coerceString, ""},
	"price":       {coercePrice, float64(0)},
	"quantity":    {coerceQuantity, 0},
	"rarity":      {coerceString, ""},
	"color":       {coerceString, ""},
	"image_url":   {coerceString, ""},
}

// CoerceField canonicalizes a raw edit value for the named column. The
// second return is false when the value could not be coerced and the
// fallback was used; callers that seeded a better default (the
// reconciler's original-date seed) keep their seed in that case.
func CoerceField(column string, raw any) (any, bool) {
	c, known := columnCoercions[column]
	if !known {
		return coerceStringOrEmpty(raw), true
	}
	if v, ok := c.coerce(raw); ok {
		return v, true
	}
	return c.fallback, false
}

func coerceID(raw any) (any, bool) {
	switch v := raw.(type) {
	case int64:
		if v > 0 {
			return v, true
		}
	case int:
		if v > 0 {
			return int64(v), true
		}
	case float64:
		if v > 0 && v == float64(int64(v)) {
			return int64(v), true
		}
	case json.Number:
		if n, err := v.Int64(); err == nil && n > 0 {
			return n, true
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && n > 0 {
			return n, true
		}
	}
	return nil, false
}

// coerceDate accepts a structured time or a string already in canonical
// form (a full timestamp with a canonical date prefix also counts).
// Anything else fails coercion.
func coerceDate(raw any) (any, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v.Format(models.DateFormat), true
	case *time.Time:
		if v != nil {
			return v.Format(models.DateFormat), true
		}
	case string:
		s := strings.TrimSpace(v)
		if len(s) > len(models.DateFormat) {
			s = s[:len(models.DateFormat)]
		}
		if t, err := time.Parse(models.DateFormat, s); err == nil {
			return t.Format(models.DateFormat), true
		}
	}
	return nil, false
}

func coercePrice(raw any) (any, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return nil, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, false
		}
		f = n
	default:
		return nil, false
	}
	if f < 0 {
		f = 0
	}
	return f, true
}

func coerceQuantity(raw any) (any, bool) {
	switch v := raw.(type) {
	case int:
		if v >= 0 {
			return v, true
		}
	case int64:
		if v >= 0 {
			return int(v), true
		}
	case float64:
		if v >= 0 && v == float64(int(v)) {
			return int(v), true
		}
	case json.Number:
		if n, err := v.Int64(); err == nil && n >= 0 {
			return int(n), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			return n, true
		}
	}
	return nil, false
}

func coerceString(raw any) (any, bool) {
	switch v := raw.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

func coerceStringOrEmpty(raw any) string {
	s, _ := coerceString(raw)
	return s.(string)
}

// CoerceRecord canonicalizes a whole record for write-back: ids below 1
// become 0 (the loader repairs those), an unparseable date becomes empty,
// price clamps to a non-negative float and quantity to a non-negative
// integer. Field-for-field this is the same table the reconciler applies
// to individual edits.
func CoerceRecord(rec models.Record) models.Record {
	out := rec
	if id, ok := coerceID(rec.ID); ok {
		out.ID = id.(int64)
	} else {
		out.ID = 0
	}
	if d, ok := coerceDate(rec.Date); ok {
		out.Date = d.(string)
	} else {
		out.Date = ""
	}
	if p, ok := coercePrice(rec.Price); ok {
		out.Price = p.(float64)
	} else {
		out.Price = 0
	}
	if q, ok := coerceQuantity(rec.Quantity); ok {
		out.Quantity = q.(int)
	} else {
		out.Quantity = 0
	}
	return out
}
