package claim

import (
	"github.com/rumsan/supportdesk/internal/workflow"
)

// Step is the wizard's position in the claim flow. Forward movement is
// driven by the engine; backward only through GoBack.
type Step int

const (
	StepNotStarted Step = iota
	StepAwaitingInvoice
	StepAwaitingProducts
	StepAwaitingIssue
	StepAwaitingResolution
	StepSubmitted
)

// String returns the step's display name.
func (s Step) String() string {
	switch s {
	case StepNotStarted:
		return "Start Claim"
	case StepAwaitingInvoice:
		return "Upload Invoice"
	case StepAwaitingProducts:
		return "Select Product"
	case StepAwaitingIssue:
		return "Describe Issue"
	case StepAwaitingResolution:
		return "Resolution"
	case StepSubmitted:
		return "Submitted"
	default:
		return "Unknown"
	}
}

// Warranty is the outcome the workflow reported for the uploaded invoice.
type Warranty int

const (
	WarrantyUnknown Warranty = iota
	WarrantyAvailable
	WarrantyExpired
	WarrantyInvalid
)

// String returns the wire form used in outgoing payloads.
func (w Warranty) String() string {
	switch w {
	case WarrantyAvailable:
		return "available"
	case WarrantyExpired:
		return "expired"
	case WarrantyInvalid:
		return "invalid"
	default:
		return ""
	}
}

// Dialog identifies the modal decision the user must answer before the
// wizard can move again.
type Dialog int

const (
	DialogNone Dialog = iota
	DialogWarrantyAvailable
	DialogWarrantyExpired
	DialogInvalidInvoice
)

// Session is the single source of truth for one claim wizard run. It is a
// value: every transition returns a new Session, so the presentation layer
// derives all of its flags from one snapshot instead of keeping parallel
// booleans.
type Session struct {
	Step        Step
	ResumeURL   string // continuation URL for the next workflow call
	ExecutionID string // workflow run correlation id, carried once seen

	InvoiceName    string
	InvoiceContent []byte
	Products       []string
	SupportType    string
	Issue          string
	Resolution     string
	Email          string

	Catalog  []string // never empty once the products step is reachable
	Warranty Warranty
	Dialog   Dialog

	Narrative string
	Decision  workflow.Decision

	// Metadata echoed back from invoice analysis.
	CustomerName  string
	Vendor        string
	InvoiceNumber string
	InvoiceID     string
}

// NewSession returns the initial session with the fallback product catalog.
func NewSession() Session {
	return Session{
		Catalog:  DefaultCatalog(),
		Decision: workflow.DecisionPending,
	}
}

// Reset returns the session to its initial state. Used after terminal
// submission and after declined or invalid-invoice dialogs.
func (s Session) Reset() Session {
	return NewSession()
}

// DialogOpen reports whether a modal decision is pending.
func (s Session) DialogOpen() bool {
	return s.Dialog != DialogNone
}

// CanGoBack reports whether backward navigation is allowed from the current
// state: past the first step, before submission, and no dialog open.
func (s Session) CanGoBack() bool {
	return s.Step > StepNotStarted && s.Step < StepSubmitted && !s.DialogOpen()
}

// GoBack walks back exactly one step without touching the workflow or
// discarding collected data. A no-op when backward navigation is not
// allowed.
func (s Session) GoBack() Session {
	if !s.CanGoBack() {
		return s
	}
	s.Step--
	return s
}

// SupportTypes are the support categories offered at the product step.
func SupportTypes() []string {
	return []string{"General Questions", "Troubleshooting", "Warranty Claim"}
}
