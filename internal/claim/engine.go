package claim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rumsan/supportdesk/internal/workflow"
)

// Guard failures. Recovered locally: the user is shown the message and the
// session is left untouched; no network call is made.
var (
	ErrNoContinuation = errors.New("no continuation URL available; please restart the claim")
	ErrNoInvoice      = errors.New("an invoice file is required")
	ErrNoSelection    = errors.New("select at least one product")
	ErrNoSupportType  = errors.New("select a support type")
	ErrNoIssue        = errors.New("describe the issue before continuing")
	ErrNoResolution   = errors.New("describe the resolution you are seeking")
	ErrNoEmail        = errors.New("an email address for updates is required")
)

// RejectedError reports a non-2xx answer from the workflow. Session state is
// unchanged when it is returned; the user may retry the same step.
type RejectedError struct {
	Action string
	Status int
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("workflow rejected %s: HTTP %d", e.Action, e.Status)
}

// Literal acknowledgment n8n sends when a webhook merely started a run; it
// carries no analysis and is never shown as narrative.
const startedAck = "Workflow was started"

// Placeholder narrative for an empty issue-analysis reply.
const narrativePlaceholder = "Analysis completed successfully."

// Engine executes claim transitions against the workflow. Each operation
// takes a Session snapshot and returns the next one; on error the input
// snapshot remains the caller's current state. Calls are strictly
// sequential: the caller must not overlap operations for one session.
type Engine struct {
	sender   workflow.Sender
	startURL string
}

// NewEngine creates an engine using sender for webhook calls and startURL
// as the well-known entry point for the very first call.
func NewEngine(sender workflow.Sender, startURL string) *Engine {
	return &Engine{sender: sender, startURL: startURL}
}

// Start initiates a claim run. The step advances to AwaitingInvoice even
// when the reply omits a continuation token: the first hop may legitimately
// answer empty, with the token arriving on a later reply.
func (e *Engine) Start(ctx context.Context, s Session) (Session, error) {
	payload := workflow.NewPayload("start_claim")

	reply, err := e.sender.Send(ctx, e.startURL, payload)
	if err != nil {
		return s, err
	}
	if !reply.OK() {
		return s, &RejectedError{Action: "start_claim", Status: reply.Status}
	}

	next := s
	resp := workflow.Decode(reply.Body)
	next.applyContinuation(resp)
	next.Step = StepAwaitingInvoice
	return next, nil
}

// UploadInvoice sends the invoice to the continuation URL and applies the
// analysis reply: customer metadata, the product catalog, and the warranty
// outcome. Depending on the outcome the session either advances to the
// product step or opens a dialog the user must resolve via ResolveDialog.
func (e *Engine) UploadInvoice(ctx context.Context, s Session, fileName string, content []byte) (Session, error) {
	if len(content) == 0 {
		return s, ErrNoInvoice
	}
	if s.ResumeURL == "" {
		return s, ErrNoContinuation
	}

	payload := workflow.NewPayload("invoice_uploaded").
		Set("step", "upload_complete").
		Set("executionId", s.ExecutionID).
		Attach("invoice", fileName, content)

	reply, err := e.sender.Send(ctx, s.ResumeURL, payload)
	if err != nil {
		return s, err
	}
	if !reply.OK() {
		return s, &RejectedError{Action: "invoice_uploaded", Status: reply.Status}
	}

	next := s
	next.InvoiceName = fileName
	next.InvoiceContent = content

	// Each upload starts a fresh warranty cycle.
	next.Warranty = WarrantyUnknown
	next.Dialog = DialogNone

	resp := workflow.Decode(reply.Body)
	next.applyContinuation(resp)
	next.applyInvoiceMetadata(resp)

	if products := NormalizeProducts(resp.Fields["products"]); len(products) > 0 {
		next.Catalog = products
	} else {
		next.Catalog = DefaultCatalog()
	}

	rawStatus := resp.Str("warrantyStatus")
	next.Warranty = ClassifyWarranty(rawStatus)

	switch next.Warranty {
	case WarrantyInvalid:
		next.Dialog = DialogInvalidInvoice
	case WarrantyExpired:
		next.Dialog = DialogWarrantyExpired
	case WarrantyAvailable:
		if strings.Contains(strings.ToLower(rawStatus), "available") {
			next.Dialog = DialogWarrantyAvailable
		} else {
			// Absent or unrecognized status: proceed without asking.
			next.Step = StepAwaitingProducts
		}
	}
	return next, nil
}

// ResolveDialog applies the user's answer to the open warranty dialog.
// Accepting an available or expired-warranty dialog advances to product
// selection; declining resets the session. The invalid-invoice dialog
// always resets on acknowledgment.
func (e *Engine) ResolveDialog(s Session, accept bool) Session {
	switch s.Dialog {
	case DialogInvalidInvoice:
		return s.Reset()
	case DialogWarrantyAvailable, DialogWarrantyExpired:
		if !accept {
			return s.Reset()
		}
		s.Dialog = DialogNone
		s.Step = StepAwaitingProducts
		return s
	default:
		return s
	}
}

// SelectProducts records the chosen products and support type. Purely
// local; the workflow is not contacted until the issue is described.
func (e *Engine) SelectProducts(s Session, products []string, supportType string) (Session, error) {
	if len(products) == 0 {
		return s, ErrNoSelection
	}
	if strings.TrimSpace(supportType) == "" {
		return s, ErrNoSupportType
	}
	s.Products = products
	s.SupportType = supportType
	s.Step = StepAwaitingIssue
	return s, nil
}

// DescribeIssue sends the issue text with the accumulated selections and
// stores the workflow's narrative feedback. The step advances regardless of
// whether any narrative was returned; an empty reply yields a neutral
// placeholder.
func (e *Engine) DescribeIssue(ctx context.Context, s Session, issue string) (Session, error) {
	if strings.TrimSpace(issue) == "" {
		return s, ErrNoIssue
	}
	if s.ResumeURL == "" {
		return s, ErrNoContinuation
	}

	selected, err := json.Marshal(s.Products)
	if err != nil {
		return s, fmt.Errorf("encode selected products: %w", err)
	}

	payload := workflow.NewPayload("issue_described").
		Set("issueDescription", issue).
		Set("selectedProducts", string(selected)).
		Set("supportType", s.SupportType).
		Set("step", "issue_complete").
		Set("executionId", s.ExecutionID)

	reply, err := e.sender.Send(ctx, s.ResumeURL, payload)
	if err != nil {
		return s, err
	}
	if !reply.OK() {
		return s, &RejectedError{Action: "issue_described", Status: reply.Status}
	}

	next := s
	next.Issue = issue

	resp := workflow.Decode(reply.Body)
	next.applyContinuation(resp)
	next.Narrative = extractNarrative(resp)
	next.Decision = workflow.ExtractDecision(next.Narrative)
	next.Step = StepAwaitingResolution
	return next, nil
}

// SubmitResolution records the desired resolution and notification email.
// The terminal network calls are issued by Finalize.
func (e *Engine) SubmitResolution(s Session, resolution, email string) (Session, error) {
	if strings.TrimSpace(resolution) == "" {
		return s, ErrNoResolution
	}
	if strings.TrimSpace(email) == "" {
		return s, ErrNoEmail
	}
	s.Resolution = resolution
	s.Email = email
	return s, nil
}

// extractNarrative pulls displayable feedback out of an issue-analysis
// reply. Field priority: plainText, then output, then message (unless it is
// the bare started acknowledgment), then any free text the decoder
// recovered, then the serialized body.
func extractNarrative(resp workflow.Response) string {
	if resp.Kind == workflow.KindEmpty {
		return narrativePlaceholder
	}
	if v := resp.Str("plainText"); v != "" {
		return v
	}
	if v := resp.Str("output"); v != "" {
		return v
	}
	if v := resp.Str("message"); v != "" && v != startedAck {
		return v
	}
	if strings.TrimSpace(resp.Text) != "" {
		return strings.TrimSpace(resp.Text)
	}
	if len(resp.Fields) > 0 {
		return resp.Serialized()
	}
	return narrativePlaceholder
}

// applyContinuation stores a fresh continuation URL and execution id when
// the reply carries them; existing values are kept otherwise.
func (s *Session) applyContinuation(resp workflow.Response) {
	if u := resp.ResumeURL(); u != "" {
		s.ResumeURL = u
	}
	if id := resp.ExecutionID(); id != "" {
		s.ExecutionID = id
	}
}

func (s *Session) applyInvoiceMetadata(resp workflow.Response) {
	if v := resp.Str("customerName"); v != "" {
		s.CustomerName = v
	}
	if v := resp.Str("vendor"); v != "" {
		s.Vendor = v
	}
	if v := resp.Str("invoiceNumber"); v != "" {
		s.InvoiceNumber = v
	}
	if v := resp.Str("invoiceId"); v != "" {
		s.InvoiceID = v
	}
}
