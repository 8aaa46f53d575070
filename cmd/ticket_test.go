package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumsan/supportdesk/internal/models"
	"github.com/rumsan/supportdesk/internal/output"
	"github.com/rumsan/supportdesk/internal/store"
)

// ticketTestEnv wires the package-level store and ui to test doubles.
func ticketTestEnv(t *testing.T) store.Store {
	t.Helper()

	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))

	dataStore = s
	ui = output.New()
	ui.Out = &bytes.Buffer{}
	ui.ErrOut = &bytes.Buffer{}
	t.Cleanup(func() {
		dataStore = nil
		_ = s.Close()
	})
	return s
}

func seedTicket(t *testing.T, s store.Store) *models.Ticket {
	t.Helper()
	tk := &models.Ticket{Title: "Login broken", Category: "technical", Priority: "high"}
	require.NoError(t, s.CreateTicket(context.Background(), tk))
	return tk
}

func TestTicketUpdateRun(t *testing.T) {
	s := ticketTestEnv(t)
	tk := seedTicket(t, s)

	ticketNewStatus = "approved"
	ticketFeedback = "Covered, replacement on the way."
	defer func() { ticketNewStatus, ticketFeedback = "", "" }()

	require.NoError(t, ticketUpdateRun(tk.DisplayID))

	got, err := s.GetTicket(context.Background(), tk.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusApproved, got.Status)
	assert.Equal(t, "Covered, replacement on the way.", got.Feedback)
}

func TestTicketUpdateRun_InvalidStatus(t *testing.T) {
	s := ticketTestEnv(t)
	tk := seedTicket(t, s)

	ticketNewStatus = "escalated"
	defer func() { ticketNewStatus = "" }()

	err := ticketUpdateRun(tk.DisplayID)
	assert.ErrorContains(t, err, "invalid status")

	got, getErr := s.GetTicket(context.Background(), tk.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.TicketStatusSubmitted, got.Status, "status untouched")
}

func TestTicketDeleteRun(t *testing.T) {
	s := ticketTestEnv(t)
	tk := seedTicket(t, s)

	require.NoError(t, ticketDeleteRun(tk.DisplayID))

	_, err := s.GetTicket(context.Background(), tk.ID)
	assert.Error(t, err)
}

func TestTicketDeleteRun_NotFound(t *testing.T) {
	ticketTestEnv(t)

	err := ticketDeleteRun("TKT-000000")
	assert.ErrorContains(t, err, "not found")
}
