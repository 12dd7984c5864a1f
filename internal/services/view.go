package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/codyseavey/card-ledger/backend/internal/models"
)

// Filters are the user's view predicates, all optional and AND-combined.
// Dates are inclusive and both endpoints are required; a half-open range
// means no date filter at all.
type Filters struct {
	Query    string `json:"query" form:"query"`
	Set      string `json:"set" form:"set"`
	DateFrom string `json:"date_from" form:"date_from"`
	DateTo   string `json:"date_to" form:"date_to"`
}

// NormalizeFuzzy strips hyphens and whitespace and upper-cases, so
// "P-113", "P 113" and "p113" are all the same needle and the same
// haystack.
func NormalizeFuzzy(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '-', ' ', '\t', '\n', '\r':
		default:
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}

// Project derives the display view from a snapshot: every record passing
// the filters, in snapshot order, with its index as its position for the
// rest of the cycle. Deterministic for fixed inputs; the reconciler's
// position-to-key resolution depends on that.
func Project(snap *models.Snapshot, f Filters) *models.ViewSet {
	needle := NormalizeFuzzy(f.Query)
	setNeedle := strings.ToUpper(strings.TrimSpace(f.Set))
	from, to, dateOK := parseDateRange(f.DateFrom, f.DateTo)

	out := make([]models.Record, 0, len(snap.Records))
	for _, rec := range snap.Records {
		if needle != "" && !matchesFuzzy(rec, needle) {
			continue
		}
		if setNeedle != "" && !strings.Contains(strings.ToUpper(rec.CardSet), setNeedle) {
			continue
		}
		if dateOK && !dateWithin(rec.Date, from, to) {
			continue
		}
		out = append(out, rec)
	}
	return &models.ViewSet{Records: out}
}

// matchesFuzzy checks the needle against the normalized concatenation of
// name, number and id.
func matchesFuzzy(rec models.Record, needle string) bool {
	haystack := NormalizeFuzzy(rec.CardName) +
		NormalizeFuzzy(rec.CardNumber) +
		strconv.FormatInt(rec.ID, 10)
	return strings.Contains(haystack, needle)
}

// parseDateRange returns ok only when both endpoints parse; a single
// endpoint means no date filter.
func parseDateRange(fromStr, toStr string) (time.Time, time.Time, bool) {
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, false
	}
	from, err := time.Parse(models.DateFormat, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(models.DateFormat, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func dateWithin(dateStr string, from, to time.Time) bool {
	d, err := time.Parse(models.DateFormat, dateStr)
	if err != nil {
		return false
	}
	return !d.Before(from) && !d.After(to)
}

// ViewRegistry holds recently projected ViewSets keyed by token, so a
// reconcile request can be interpreted against the exact view that
// produced its positions rather than whatever the table looks like now.
// Bounded LRU; under the single-active-editor assumption a handful of
// live views is plenty.
type ViewRegistry struct {
	cache *lru.Cache[string, *models.ViewSet]
}

const viewRegistrySize = 8

func NewViewRegistry() *ViewRegistry {
	cache, err := lru.New[string, *models.ViewSet](viewRegistrySize)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &ViewRegistry{cache: cache}
}

// Register assigns the view a fresh token, stores it, and returns the
// token the grid must echo back with its edits.
func (r *ViewRegistry) Register(view *models.ViewSet) string {
	token := uuid.New().String()
	view.Token = token
	r.cache.Add(token, view)
	return token
}

// Lookup retrieves a registered view. A miss means the view aged out or
// the token is bogus; the caller treats that as a stale cycle.
func (r *ViewRegistry) Lookup(token string) (*models.ViewSet, bool) {
	return r.cache.Get(token)
}
