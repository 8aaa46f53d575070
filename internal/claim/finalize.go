package claim

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rumsan/supportdesk/internal/workflow"
)

// FinalizeResult reports the outcome of the terminal submission. The
// notification outcome is carried separately because its failure does not
// fail the claim: the ticket record is the system of record and it was
// already written.
type FinalizeResult struct {
	Session          Session
	NotificationSent bool
	NotificationErr  error
}

// Finalize submits the completed claim: first the ticket record to the
// ticket endpoint, then a best-effort email notification through the last
// known continuation URL. The ticket call failing is an error and leaves
// the session untouched; the notification failing is recorded but
// swallowed.
func (e *Engine) Finalize(ctx context.Context, s Session, ticketURL string) (FinalizeResult, error) {
	if s.Resolution == "" || s.Email == "" {
		return FinalizeResult{Session: s}, ErrNoResolution
	}

	products, err := json.Marshal(s.Products)
	if err != nil {
		return FinalizeResult{Session: s}, fmt.Errorf("encode products: %w", err)
	}

	ticket := workflow.NewPayload("claim_submitted").
		Set("title", s.TicketTitle()).
		Set("category", "warranty-claim").
		Set("priority", "medium").
		Set("description", s.ComposeDescription()).
		Set("products", string(products)).
		Set("issueDescription", s.Issue).
		Set("resolutionSought", s.Resolution).
		Set("notificationEmail", s.Email).
		Set("supportType", s.SupportType).
		Set("webhookResponse", s.Narrative).
		Set("analysisResult", s.Narrative).
		Set("customerName", s.CustomerName).
		Set("vendor", s.Vendor).
		Set("invoiceNumber", s.InvoiceNumber).
		Set("invoiceId", s.InvoiceID).
		Set("warrantyStatus", s.Warranty.String()).
		Set("executionId", s.ExecutionID)
	if len(s.InvoiceContent) > 0 {
		ticket.Attach("invoice", s.InvoiceName, s.InvoiceContent)
	}

	reply, err := e.sender.Send(ctx, ticketURL, ticket)
	if err != nil {
		return FinalizeResult{Session: s}, err
	}
	if !reply.OK() {
		return FinalizeResult{Session: s}, &RejectedError{Action: "claim_submitted", Status: reply.Status}
	}

	next := s
	next.Step = StepSubmitted
	result := FinalizeResult{Session: next}

	result.NotificationSent, result.NotificationErr = e.notify(ctx, next)
	return result, nil
}

// notify asks the workflow to send the confirmation email. Requires a
// continuation URL; without one the notification is skipped, not failed.
func (e *Engine) notify(ctx context.Context, s Session) (bool, error) {
	if s.ResumeURL == "" {
		return false, fmt.Errorf("no continuation URL for email notification")
	}

	products, err := json.Marshal(s.Products)
	if err != nil {
		return false, fmt.Errorf("encode products: %w", err)
	}

	payload := workflow.NewPayload("send_email").
		Set("notificationEmail", s.Email).
		Set("products", string(products)).
		Set("issueDescription", s.Issue).
		Set("resolutionSought", s.Resolution).
		Set("supportType", s.SupportType).
		Set("webhookResponse", s.Narrative).
		Set("analysisResult", s.Narrative).
		Set("step", "email_notification").
		Set("customerName", s.CustomerName).
		Set("vendor", s.Vendor).
		Set("invoiceNumber", s.InvoiceNumber).
		Set("invoiceId", s.InvoiceID).
		Set("warrantyStatus", s.Warranty.String()).
		Set("executionId", s.ExecutionID)

	reply, err := e.sender.Send(ctx, s.ResumeURL, payload)
	if err != nil {
		return false, err
	}
	if !reply.OK() {
		return false, &RejectedError{Action: "send_email", Status: reply.Status}
	}
	return true, nil
}

// TicketTitle derives the ticket title from the claimed products.
func (s Session) TicketTitle() string {
	if len(s.Products) == 0 {
		return "Warranty claim"
	}
	return "Warranty claim: " + strings.Join(s.Products, ", ")
}

// ComposeDescription flattens the collected claim details into the ticket
// description body.
func (s Session) ComposeDescription() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Support type: %s\n", s.SupportType)
	fmt.Fprintf(&b, "Products: %s\n", strings.Join(s.Products, ", "))
	if s.CustomerName != "" {
		fmt.Fprintf(&b, "Customer: %s\n", s.CustomerName)
	}
	if s.Vendor != "" {
		fmt.Fprintf(&b, "Vendor: %s\n", s.Vendor)
	}
	if s.InvoiceNumber != "" {
		fmt.Fprintf(&b, "Invoice: %s\n", s.InvoiceNumber)
	}
	if s.Warranty != WarrantyUnknown {
		fmt.Fprintf(&b, "Warranty: %s\n", s.Warranty)
	}
	fmt.Fprintf(&b, "\nIssue:\n%s\n", s.Issue)
	fmt.Fprintf(&b, "\nResolution sought:\n%s\n", s.Resolution)
	if s.Narrative != "" {
		fmt.Fprintf(&b, "\nWorkflow analysis:\n%s\n", s.Narrative)
	}
	return b.String()
}
