package ticket

import (
	"context"
	"time"

	"github.com/rumsan/supportdesk/internal/claim"
	"github.com/rumsan/supportdesk/internal/models"
	"github.com/rumsan/supportdesk/internal/store"
)

// History writes claim submissions into the local ticket store so they show
// up next to directly submitted tickets.
type History struct {
	store store.Store
}

// NewHistory creates a History over the given store.
func NewHistory(st store.Store) *History {
	return &History{store: st}
}

// RecordClaim stores a ticket record for a finalized claim session.
func (h *History) RecordClaim(ctx context.Context, s claim.Session) (*models.Ticket, error) {
	now := time.Now().UTC()

	fileCount := 0
	if len(s.InvoiceContent) > 0 {
		fileCount = 1
	}

	tk := &models.Ticket{
		DisplayID:   models.NewDisplayID(now),
		Title:       s.TicketTitle(),
		Category:    "warranty-claim",
		Priority:    "medium",
		Description: s.ComposeDescription(),
		Status:      models.TicketStatusSubmitted,
		Email:       s.Email,
		ExecutionID: s.ExecutionID,
		FileCount:   fileCount,
		SubmittedAt: now,
	}
	if err := h.store.CreateTicket(ctx, tk); err != nil {
		return nil, err
	}
	return tk, nil
}
