package store

import (
	"context"

	"github.com/rumsan/supportdesk/internal/models"
)

// TicketListFilter specifies filters for listing tickets.
type TicketListFilter struct {
	Status   models.TicketStatus
	Category string
	Limit    int
}

// Store defines the local persistence interface for supportdesk.
type Store interface {
	CreateTicket(ctx context.Context, t *models.Ticket) error
	GetTicket(ctx context.Context, ref string) (*models.Ticket, error)
	ListTickets(ctx context.Context, filter TicketListFilter) ([]*models.Ticket, error)
	UpdateTicketStatus(ctx context.Context, ref string, status models.TicketStatus, feedback string) error
	DeleteTicket(ctx context.Context, ref string) error

	Migrate(ctx context.Context) error
	Close() error
}
