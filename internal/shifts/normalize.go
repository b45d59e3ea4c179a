package shifts

import (
	"fmt"
	"strings"
)

// The normalization steps below run in a fixed order: deduplicate first,
// then merge the start column, then drop informational columns. Each step
// mutates the table it owns; later steps depend on the column set left by
// earlier ones.

// Deduplicate removes rows that exactly match an earlier row, keeping the
// first occurrence in its original position. Comparison uses raw field
// values; no normalization has happened yet.
func (t *Table) Deduplicate() {
	seen := make(map[string]struct{}, len(t.rows))
	kept := t.rows[:0]
	for _, row := range t.rows {
		key := strings.Join(row, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	t.rows = kept
}

// MergeStart appends a start column whose value is the date column and the
// time column joined with a single space.
func (t *Table) MergeStart(dateCol, timeCol, startCol string) error {
	di := t.columnIndex(dateCol)
	if di < 0 {
		return fmt.Errorf("%w: %q", ErrFieldMissing, dateCol)
	}
	ti := t.columnIndex(timeCol)
	if ti < 0 {
		return fmt.Errorf("%w: %q", ErrFieldMissing, timeCol)
	}

	t.columns = append(t.columns, startCol)
	for i, row := range t.rows {
		t.rows[i] = append(row, row[di]+" "+row[ti])
	}
	return nil
}

// DropColumns removes the named columns from the table. A listed column
// that is already absent is an error: the drop list doubles as a check that
// the export still has the expected shape, so unexpected extra fields never
// ship silently.
func (t *Table) DropColumns(columns []string) error {
	for _, col := range columns {
		idx := t.columnIndex(col)
		if idx < 0 {
			return fmt.Errorf("%w: %q", ErrFieldMissing, col)
		}
		t.columns = append(t.columns[:idx], t.columns[idx+1:]...)
		for i, row := range t.rows {
			t.rows[i] = append(row[:idx], row[idx+1:]...)
		}
	}
	return nil
}
