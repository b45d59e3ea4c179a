package shifts

import "fmt"

// Fragment is the request body for one need: its shifts nested under the
// configured key, e.g. {"shifts": [...]}.
type Fragment map[string][]map[string]string

// ShiftCount returns the number of shifts in the fragment.
func (f Fragment) ShiftCount() int {
	n := 0
	for _, shifts := range f {
		n += len(shifts)
	}
	return n
}

// NeedShifts holds the shifts belonging to one need, in insertion order.
type NeedShifts struct {
	NeedID string
	Shifts []map[string]string
}

// Fragment nests the need's shifts under the given key.
func (n NeedShifts) Fragment(shiftsKey string) Fragment {
	return Fragment{shiftsKey: n.Shifts}
}

// Group partitions rows by the value of groupCol, preserving first-seen
// group order and insertion order within each group. Shift mappings are
// restricted to the keep columns; the group column itself becomes the key
// and never appears as a payload field.
func (t *Table) Group(groupCol string, keep []string) ([]NeedShifts, error) {
	gi := t.columnIndex(groupCol)
	if gi < 0 {
		return nil, fmt.Errorf("%w: %q", ErrFieldMissing, groupCol)
	}
	keepIdx := make([]int, len(keep))
	for i, col := range keep {
		idx := t.columnIndex(col)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrFieldMissing, col)
		}
		keepIdx[i] = idx
	}

	groups := make([]NeedShifts, 0)
	position := make(map[string]int)
	for r, row := range t.rows {
		needID := row[gi]
		if needID == "" {
			return nil, fmt.Errorf("%w: row %d has no %q value", ErrFieldMissing, r+1, groupCol)
		}

		pos, ok := position[needID]
		if !ok {
			pos = len(groups)
			position[needID] = pos
			groups = append(groups, NeedShifts{NeedID: needID})
		}

		shift := make(map[string]string, len(keep))
		for i, idx := range keepIdx {
			shift[keep[i]] = row[idx]
		}
		groups[pos].Shifts = append(groups[pos].Shifts, shift)
	}
	return groups, nil
}
