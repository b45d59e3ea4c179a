package shifts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSourceRead indicates the shift export file is missing or unreadable.
	ErrSourceRead = errors.New("unable to read shift source file")

	// ErrSchemaMismatch indicates a configured column is absent from the
	// export's header row.
	ErrSchemaMismatch = errors.New("shift source missing declared column")

	// ErrFieldMissing indicates a configured column is absent from the table
	// at the stage that needs it.
	ErrFieldMissing = errors.New("column not present in shift table")

	// ErrInvalidPayload is returned only under strict validation when the
	// constructed payload fails its JSON Schema.
	ErrInvalidPayload = errors.New("shift payload failed schema validation")
)

// Table is an ordered, string-typed view of one shift export. Every cell
// stays exactly as it appeared in the file; the scheduling API expects
// string values, and numeric or date coercion would corrupt the payload.
type Table struct {
	columns []string
	rows    [][]string
}

// Load reads a comma-delimited UTF-8 file into a Table. The first record is
// the header row; every declared column must appear in it.
func Load(path string, declared []string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceRead, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceRead, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", ErrSourceRead, path)
	}

	t := &Table{columns: records[0], rows: records[1:]}
	for _, col := range declared {
		if t.columnIndex(col) < 0 {
			return nil, fmt.Errorf("%w: %q not in header of %s", ErrSchemaMismatch, col, path)
		}
	}
	return t, nil
}

// NewTable builds a table directly from a header and rows.
func NewTable(columns []string, rows [][]string) *Table {
	return &Table{columns: columns, rows: rows}
}

func (t *Table) columnIndex(name string) int {
	for i, col := range t.columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Columns returns the current header in column order.
func (t *Table) Columns() []string {
	return t.columns
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []string {
	return t.rows[i]
}
