package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one published margin-requirement line: the per-contract
// initial and maintenance amounts that take effect on Date.
type Entry struct {
	Date        time.Time
	Initial     decimal.Decimal // currency units per contract
	Maintenance decimal.Decimal // currency units per contract
}

// Table is an immutable margin-requirement schedule ordered by effective
// date. A nil or empty table is valid and yields the zero requirement.
type Table struct {
	entries []Entry
}

// NewTable builds a table from entries sorted ascending by date.
// Duplicate effective dates are rejected.
func NewTable(entries []Entry) (*Table, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Date.Equal(sorted[i-1].Date) {
			return nil, fmt.Errorf("duplicate effective date %s in margin schedule",
				sorted[i].Date.Format("2006-01-02"))
		}
	}

	return &Table{entries: sorted}, nil
}

// Empty reports whether the table has no published entries.
func (t *Table) Empty() bool {
	return t == nil || len(t.entries) == 0
}

// Len returns the number of published entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// RequirementAt returns the per-contract initial and maintenance margin in
// effect on the given date.
//
// The applicable entry is the latest one with an effective date at or
// before the query date. Dates before the first entry, and instruments
// with no schedule at all, yield the zero requirement: missing risk data
// is a valid steady state, not a fault. Dates past the last entry take
// the last entry's values, since schedules project forward until a newer
// line is published.
func (t *Table) RequirementAt(date time.Time) (initial, maintenance decimal.Decimal) {
	if t.Empty() {
		return decimal.Zero, decimal.Zero
	}

	// index of the first entry strictly after date
	idx := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Date.After(date)
	})
	if idx == 0 {
		// query precedes table coverage
		return decimal.Zero, decimal.Zero
	}

	entry := t.entries[idx-1]
	return entry.Initial, entry.Maintenance
}
