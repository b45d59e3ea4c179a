package amplify

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// UserService drives the bulk user deactivation flow: resolve each email
// address to a user id, then delete the user records one by one.
type UserService struct {
	http *resty.Client
}

func NewUserService(baseURL, token string, timeout time.Duration) *UserService {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(token).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	return &UserService{http: client}
}

type userLookupResponse struct {
	Data []struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

// LookupIDs resolves user ids for the given email addresses, preserving
// input order. Unknown addresses (404) and responses without a usable
// record are logged and skipped rather than failing the batch.
func (s *UserService) LookupIDs(ctx context.Context, emails []string) ([]string, error) {
	var ids []string
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}

		res, err := s.http.R().
			SetContext(ctx).
			SetQueryParam("user_email", email).
			Get("/users")
		if err != nil {
			return ids, fmt.Errorf("looking up user %s: %w", email, err)
		}
		if res.StatusCode() == http.StatusNotFound {
			slog.Warn("user not found", "email", email)
			continue
		}
		if !res.IsSuccess() {
			return ids, fmt.Errorf("looking up user %s: HTTP %d", email, res.StatusCode())
		}

		var lookup userLookupResponse
		if err := json.Unmarshal(res.Body(), &lookup); err != nil || len(lookup.Data) == 0 {
			slog.Warn("no usable user record in response", "email", email)
			continue
		}

		id := lookup.Data[0].ID.String()
		slog.Info("resolved user", "email", email, "user_id", id)
		ids = append(ids, id)
	}
	return ids, nil
}

// Deactivate deletes each user id. A failed delete is logged and the loop
// continues; unlike shift creation, deletes are idempotent and safe to
// re-run for the remainder of the list.
func (s *UserService) Deactivate(ctx context.Context, ids []string) error {
	for _, id := range ids {
		res, err := s.http.R().
			SetContext(ctx).
			Delete("/users/" + id)
		if err != nil {
			return fmt.Errorf("deactivating user %s: %w", id, err)
		}
		if res.IsSuccess() {
			slog.Info("deactivated user", "user_id", id)
		} else {
			slog.Warn("deactivation rejected", "user_id", id, "status", res.StatusCode())
		}
	}
	return nil
}

// ReadEmailList reads a newline-delimited email list file.
func ReadEmailList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading email list: %w", err)
	}
	defer f.Close()

	var emails []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			emails = append(emails, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading email list: %w", err)
	}
	return emails, nil
}

// WriteIDList writes resolved user ids to a file, one per line.
func WriteIDList(path string, ids []string) error {
	var b strings.Builder
	for _, id := range ids {
		b.WriteString(id)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing user id list: %w", err)
	}
	return nil
}
