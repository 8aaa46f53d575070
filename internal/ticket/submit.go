package ticket

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rumsan/supportdesk/internal/models"
	"github.com/rumsan/supportdesk/internal/store"
	"github.com/rumsan/supportdesk/internal/workflow"
)

// Validation failures, recovered locally without a network call.
var (
	ErrNoTitle       = errors.New("a ticket title is required")
	ErrNoCategory    = errors.New("a category is required")
	ErrNoPriority    = errors.New("a priority is required")
	ErrNoDescription = errors.New("a description is required")
)

// Submission is a single-shot support ticket: one POST, no continuation
// protocol, unlike the claims wizard.
type Submission struct {
	Title       string
	Category    string
	Priority    string
	Description string
	Files       []workflow.Attachment
}

// Validate checks the required fields.
func (s Submission) Validate() error {
	switch {
	case strings.TrimSpace(s.Title) == "":
		return ErrNoTitle
	case strings.TrimSpace(s.Category) == "":
		return ErrNoCategory
	case strings.TrimSpace(s.Priority) == "":
		return ErrNoPriority
	case strings.TrimSpace(s.Description) == "":
		return ErrNoDescription
	default:
		return nil
	}
}

// Submitter posts tickets to the review webhook and records them locally.
type Submitter struct {
	sender workflow.Sender
	store  store.Store
	url    string
}

// NewSubmitter creates a Submitter. The store may be nil, in which case
// submissions are not recorded locally.
func NewSubmitter(sender workflow.Sender, st store.Store, url string) *Submitter {
	return &Submitter{sender: sender, store: st, url: url}
}

// Submit validates and posts the ticket, then writes the local history
// record. The webhook is the system of record; a local write failure after
// a successful POST is reported but the returned ticket is still valid.
func (s *Submitter) Submit(ctx context.Context, sub Submission) (*models.Ticket, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	payload := workflow.NewPayload("ticket_submitted").
		Set("title", sub.Title).
		Set("category", sub.Category).
		Set("priority", sub.Priority).
		Set("description", sub.Description)
	for i, f := range sub.Files {
		payload.Attach("file_"+strconv.Itoa(i), f.FileName, f.Content)
	}

	reply, err := s.sender.Send(ctx, s.url, payload)
	if err != nil {
		return nil, err
	}
	if !reply.OK() {
		return nil, fmt.Errorf("ticket webhook rejected submission: HTTP %d", reply.Status)
	}

	now := time.Now().UTC()
	tk := &models.Ticket{
		DisplayID:   models.NewDisplayID(now),
		Title:       sub.Title,
		Category:    sub.Category,
		Priority:    sub.Priority,
		Description: sub.Description,
		Status:      models.TicketStatusSubmitted,
		FileCount:   len(sub.Files),
		SubmittedAt: now,
	}

	if s.store != nil {
		if err := s.store.CreateTicket(ctx, tk); err != nil {
			return tk, fmt.Errorf("ticket submitted but not recorded locally: %w", err)
		}
	}
	return tk, nil
}
