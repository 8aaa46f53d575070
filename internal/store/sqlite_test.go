package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumsan/supportdesk/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	err = s.Migrate(context.Background())
	require.NoError(t, err)

	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "subdir", "test.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, "subdir"))
	assert.NoError(t, err, "should create parent directory")
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Running migrate again should be a no-op
	err := s.Migrate(ctx)
	assert.NoError(t, err)
}

func TestTicketCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tk := &models.Ticket{
		Title:       "Screen flickers on wake",
		Category:    "technical",
		Priority:    "high",
		Description: "Laptop screen flickers after sleep.",
		Email:       "ada@example.com",
		ExecutionID: "exec-1",
		FileCount:   1,
	}
	err := s.CreateTicket(ctx, tk)
	require.NoError(t, err)
	assert.NotEmpty(t, tk.ID)
	assert.NotEmpty(t, tk.DisplayID)
	assert.Equal(t, models.TicketStatusSubmitted, tk.Status)
	assert.False(t, tk.SubmittedAt.IsZero())

	// Get by ULID
	got, err := s.GetTicket(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, tk.Title, got.Title)
	assert.Equal(t, tk.Category, got.Category)
	assert.Equal(t, tk.ExecutionID, got.ExecutionID)

	// Get by display id, case-insensitive
	got, err = s.GetTicket(ctx, tk.DisplayID)
	require.NoError(t, err)
	assert.Equal(t, tk.ID, got.ID)

	// Update status
	err = s.UpdateTicketStatus(ctx, tk.DisplayID, models.TicketStatusApproved, "Looks good.")
	require.NoError(t, err)
	got, err = s.GetTicket(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusApproved, got.Status)
	assert.Equal(t, "Looks good.", got.Feedback)

	// Delete
	err = s.DeleteTicket(ctx, tk.ID)
	require.NoError(t, err)
	_, err = s.GetTicket(ctx, tk.ID)
	assert.Error(t, err)
}

func TestCreateTicket_RecycledDisplayID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Display ids are the last six digits of the millisecond clock, so two
	// submissions 10^6 ms apart share one. Both must be storable, and
	// display-id lookups must resolve to the most recent.
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(1_000_000 * time.Millisecond)
	require.Equal(t, models.NewDisplayID(first), models.NewDisplayID(second))

	older := &models.Ticket{Title: "older", SubmittedAt: first}
	newer := &models.Ticket{Title: "newer", SubmittedAt: second}
	require.NoError(t, s.CreateTicket(ctx, older))
	require.NoError(t, s.CreateTicket(ctx, newer), "recycled display id must not fail the insert")
	require.Equal(t, older.DisplayID, newer.DisplayID)

	got, err := s.GetTicket(ctx, newer.DisplayID)
	require.NoError(t, err)
	assert.Equal(t, "newer", got.Title)

	// Update and delete by display id target the newest match only.
	require.NoError(t, s.UpdateTicketStatus(ctx, newer.DisplayID, models.TicketStatusApproved, ""))
	untouched, err := s.GetTicket(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusSubmitted, untouched.Status)

	require.NoError(t, s.DeleteTicket(ctx, newer.DisplayID))
	remaining, err := s.GetTicket(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "older", remaining.Title)
}

func TestGetTicket_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetTicket(context.Background(), "TKT-000000")
	assert.ErrorContains(t, err, "not found")
}

func TestListTickets_FilterAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, tc := range []struct {
		title    string
		category string
		status   models.TicketStatus
	}{
		{"first", "technical", models.TicketStatusSubmitted},
		{"second", "billing", models.TicketStatusSubmitted},
		{"third", "technical", models.TicketStatusApproved},
	} {
		tk := &models.Ticket{
			Title:       tc.title,
			Category:    tc.category,
			Status:      tc.status,
			SubmittedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.CreateTicket(ctx, tk))
	}

	all, err := s.ListTickets(ctx, TicketListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Title, "newest first")

	technical, err := s.ListTickets(ctx, TicketListFilter{Category: "technical"})
	require.NoError(t, err)
	assert.Len(t, technical, 2)

	submitted, err := s.ListTickets(ctx, TicketListFilter{Status: models.TicketStatusSubmitted})
	require.NoError(t, err)
	assert.Len(t, submitted, 2)

	limited, err := s.ListTickets(ctx, TicketListFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestUpdateTicketStatus_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateTicketStatus(context.Background(), "nope", models.TicketStatusApproved, "")
	assert.ErrorContains(t, err, "not found")
}
