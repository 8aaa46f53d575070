package wizard

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumsan/supportdesk/internal/claim"
	"github.com/rumsan/supportdesk/internal/workflow"
)

func TestRenderTracker(t *testing.T) {
	s := claim.NewSession()
	s.Step = claim.StepAwaitingProducts

	out := renderTracker(s)
	assert.Contains(t, out, "Select Product")
	assert.Contains(t, out, "Upload Invoice")
	assert.Contains(t, out, "✓")
}

func TestRenderNarrative(t *testing.T) {
	s := claim.NewSession()
	s.Narrative = "**Evaluation Result: Accept**\nLooks covered."
	s.Decision = workflow.DecisionAccept

	out := renderNarrative(s)
	assert.Contains(t, out, "Looks covered.")
	assert.Contains(t, out, "Evaluation: Accept")
	assert.NotContains(t, out, "**Evaluation Result", "marker must be stripped from display")
}

func TestRenderNarrative_Pending(t *testing.T) {
	s := claim.NewSession()
	s.Narrative = "We received your description."

	out := renderNarrative(s)
	assert.Contains(t, out, "Pending review")
}

func TestRenderInvoiceSummary(t *testing.T) {
	s := claim.NewSession()
	assert.Empty(t, renderInvoiceSummary(s))

	s.CustomerName = "Ada Lovelace"
	s.Vendor = "Apple Store"
	out := renderInvoiceSummary(s)
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "Apple Store")
}

func TestRenderSuccess(t *testing.T) {
	s := claim.NewSession()
	s.Products = []string{"iPhone 15"}
	s.Email = "ada@example.com"
	s.ExecutionID = "exec-9"

	out := renderSuccess(s, true, "TKT-123456")
	assert.Contains(t, out, "iPhone 15")
	assert.Contains(t, out, "exec-9")
	assert.Contains(t, out, "TKT-123456")
	assert.Contains(t, out, "confirmation email is on its way")

	out = renderSuccess(s, false, "")
	assert.Contains(t, out, "still recorded")
	assert.NotContains(t, out, "Ticket:")
}

func TestDialogPrompt(t *testing.T) {
	title, q := dialogPrompt(claim.DialogWarrantyExpired)
	assert.Equal(t, "Warranty expired", title)
	assert.Contains(t, q, "expired")

	title, _ = dialogPrompt(claim.DialogInvalidInvoice)
	assert.Equal(t, "Invalid invoice", title)

	title, q = dialogPrompt(claim.DialogNone)
	assert.Empty(t, title)
	assert.Empty(t, q)
}

func TestCountdownLine(t *testing.T) {
	assert.Contains(t, countdownLine(3*time.Second), "3s")
}

func TestValidateInvoicePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "invoice.pdf")
	require.NoError(t, os.WriteFile(file, []byte("pdf"), 0o644))

	assert.NoError(t, validateInvoicePath(file))
	assert.Error(t, validateInvoicePath(""))
	assert.Error(t, validateInvoicePath(filepath.Join(dir, "missing.pdf")))
	assert.Error(t, validateInvoicePath(dir), "directories are not invoices")
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, validateEmail("ada@example.com"))
	assert.Error(t, validateEmail(""))
	assert.Error(t, validateEmail("not-an-email"))
}
