// Package amplify implements the HTTP boundary of the shift loader: the
// dispatcher that creates shifts on the scheduling API and the bulk user
// deactivation flow. The API is treated as a black box; every call carries
// bearer-token auth and a fixed timeout.
package amplify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"star-pass/internal/shifts"
)

// ErrSubmission indicates the scheduling API rejected a live request.
var ErrSubmission = errors.New("shift submission failed")

// Client submits shift creation requests to the scheduling API.
type Client struct {
	http *resty.Client
}

var _ shifts.Dispatcher = (*Client)(nil)

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(token).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	return &Client{http: client}
}

// CreateShifts POSTs one need's shifts. Any non-2xx status is an error;
// the caller aborts the remaining submission loop on it.
func (c *Client) CreateShifts(ctx context.Context, needID string, fragment shifts.Fragment) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(fragment).
		Post(fmt.Sprintf("/needs/%s/shifts", needID))
	if err != nil {
		return fmt.Errorf("%w: need %s: %v", ErrSubmission, needID, err)
	}
	if !res.IsSuccess() {
		return fmt.Errorf("%w: need %s: HTTP %d", ErrSubmission, needID, res.StatusCode())
	}

	slog.Info("created shifts",
		"need_id", needID, "status", res.StatusCode(), "shift_count", fragment.ShiftCount())
	return nil
}
