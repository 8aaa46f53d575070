package models

import (
	"strconv"
	"time"
)

// TicketStatus tracks where a submitted ticket is in the review pipeline.
type TicketStatus string

const (
	TicketStatusSubmitted       TicketStatus = "submitted"
	TicketStatusUnderReview     TicketStatus = "under_review"
	TicketStatusNeedsCorrection TicketStatus = "needs_correction"
	TicketStatusApproved        TicketStatus = "approved"
	TicketStatusRejected        TicketStatus = "rejected"
)

// TicketStatuses lists every status a ticket can be moved to.
func TicketStatuses() []TicketStatus {
	return []TicketStatus{
		TicketStatusSubmitted,
		TicketStatusUnderReview,
		TicketStatusNeedsCorrection,
		TicketStatusApproved,
		TicketStatusRejected,
	}
}

// Valid reports whether s is a known ticket status.
func (s TicketStatus) Valid() bool {
	for _, known := range TicketStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// TicketCategories are the categories offered on the submission form.
func TicketCategories() []string {
	return []string{"technical", "billing", "feature", "bug", "other"}
}

// TicketPriorities are the priorities offered on the submission form.
func TicketPriorities() []string {
	return []string{"low", "medium", "high", "urgent"}
}

// Ticket is a locally recorded support ticket. The webhook workflow owns
// the authoritative copy; this record backs the local history views.
type Ticket struct {
	ID          string // ULID primary key
	DisplayID   string // user-facing id, e.g. TKT-394820
	Title       string
	Category    string
	Priority    string
	Description string
	Status      TicketStatus
	Email       string // notification address, when one was given
	ExecutionID string // workflow run id, when the ticket came from a claim
	FileCount   int
	Feedback    string // reviewer feedback, filled in later
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

// NewDisplayID derives the user-facing ticket id from the submission time:
// TKT- followed by the last six digits of the unix millisecond clock.
func NewDisplayID(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return "TKT-" + ms
}
