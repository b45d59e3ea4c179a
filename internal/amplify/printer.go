package amplify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"star-pass/internal/shifts"
)

// Printer is the dry-run dispatcher. It renders each request exactly as
// the live client would send it, but never opens a connection.
type Printer struct {
	BaseURL string
	Out     io.Writer
}

var _ shifts.Dispatcher = (*Printer)(nil)

func (p *Printer) CreateShifts(_ context.Context, needID string, fragment shifts.Fragment) error {
	body, err := json.MarshalIndent(fragment, "", "  ")
	if err != nil {
		return fmt.Errorf("rendering dry-run payload for need %s: %w", needID, err)
	}

	_, err = fmt.Fprintf(p.Out,
		"** HTTP API Dry Run **\nURL: %s/needs/%s/shifts\nShift Count: %d\nPayload:\n%s\n\n",
		p.BaseURL, needID, fragment.ShiftCount(), body)
	return err
}
