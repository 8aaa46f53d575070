package leave

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Unlike the ticket webhooks, the sick-leave endpoint takes a single JSON
// document and answers with only an HTTP status.

const dateLayout = "2006-01-02"

var (
	ErrMissingField = errors.New("all fields are required")
	ErrDateOrder    = errors.New("end date cannot be before start date")
)

// Managers lists the approvers offered on the form.
func Managers() []string {
	return []string{"Raktim Shrestha", "Manzik Shrestha"}
}

// Request is one sick leave request.
type Request struct {
	EmployeeName string `json:"employeeName"`
	Department   string `json:"department"`
	Manager      string `json:"manager"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Reason       string `json:"reason"`
	SubmittedAt  string `json:"submittedAt"`
}

// Validate checks that every field is present and the dates are a valid
// ordered range.
func (r Request) Validate() error {
	for _, f := range []string{r.EmployeeName, r.Department, r.Manager, r.StartDate, r.EndDate, r.Reason} {
		if strings.TrimSpace(f) == "" {
			return ErrMissingField
		}
	}

	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q: expected YYYY-MM-DD", r.StartDate)
	}
	end, err := time.Parse(dateLayout, r.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end date %q: expected YYYY-MM-DD", r.EndDate)
	}
	if end.Before(start) {
		return ErrDateOrder
	}
	return nil
}

// Client posts sick leave requests to the HR webhook.
type Client struct {
	httpc *http.Client
	url   string
}

// NewClient creates a sick leave client for the given webhook URL.
func NewClient(url string) *Client {
	return &Client{httpc: &http.Client{}, url: url}
}

// Submit validates and posts the request.
func (c *Client) Submit(ctx context.Context, r Request) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.SubmittedAt == "" {
		r.SubmittedAt = time.Now().UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("sick leave webhook unreachable: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sick leave webhook rejected request: HTTP %d", resp.StatusCode)
	}
	return nil
}
