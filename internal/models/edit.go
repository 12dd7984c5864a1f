package models

// ViewSet is the filtered, sorted projection shown to the user in one
// cycle. A record's position is its index in Records; positions are only
// meaningful against the exact ViewSet that produced them, so each one
// carries a token the grid must echo back with its edits.
type ViewSet struct {
	Token   string   `json:"token"`
	Records []Record `json:"records"`
}

// Len returns the number of rows in the view.
func (v *ViewSet) Len() int {
	return len(v.Records)
}

// At returns the record at the given position and whether the position is
// in range.
func (v *ViewSet) At(pos int) (Record, bool) {
	if pos < 0 || pos >= len(v.Records) {
		return Record{}, false
	}
	return v.Records[pos], true
}

// EditBatch is what the grid widget reports for one display cycle:
// per-position field changes, deleted positions, and how many rows were
// appended beyond the original view length. Appended rows are a signal
// only; they never get an identity here.
type EditBatch struct {
	Edited   map[int]map[string]any `json:"edited"`
	Deleted  []int                  `json:"deleted"`
	Appended int                    `json:"appended"`
}

// ReconcileResult reports what one reconciliation did to the store.
// Errors are store-call failures; work applied before a failure is not
// rolled back. Skipped counts stale positions and delete-wins collisions.
type ReconcileResult struct {
	Updated  int      `json:"updated"`
	Deleted  int      `json:"deleted"`
	Skipped  int      `json:"skipped"`
	Appended int      `json:"appended"`
	Errors   []string `json:"errors,omitempty"`
}

// OK reports whether every issued store call succeeded.
func (r *ReconcileResult) OK() bool {
	return len(r.Errors) == 0
}
