package wizard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rumsan/supportdesk/internal/claim"
	"github.com/rumsan/supportdesk/internal/workflow"
)

var (
	stepDoneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	stepCurrentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	stepPendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("10")).
			Padding(0, 2)

	acceptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	rejectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// trackerSteps is the fixed sequence shown in the progress line.
var trackerSteps = []claim.Step{
	claim.StepNotStarted,
	claim.StepAwaitingInvoice,
	claim.StepAwaitingProducts,
	claim.StepAwaitingIssue,
	claim.StepAwaitingResolution,
}

// renderTracker draws the one-line progress indicator for the current step.
func renderTracker(s claim.Session) string {
	parts := make([]string, 0, len(trackerSteps))
	for _, st := range trackerSteps {
		label := st.String()
		switch {
		case s.Step > st:
			parts = append(parts, stepDoneStyle.Render("✓ "+label))
		case s.Step == st:
			parts = append(parts, stepCurrentStyle.Render("» "+label))
		default:
			parts = append(parts, stepPendingStyle.Render(label))
		}
	}
	return strings.Join(parts, stepPendingStyle.Render("  ·  "))
}

// renderNarrative draws the workflow's analysis feedback with its decision,
// if one was detected.
func renderNarrative(s claim.Session) string {
	text := workflow.StripMarker(s.Narrative)

	var verdict string
	switch s.Decision {
	case workflow.DecisionAccept:
		verdict = acceptStyle.Render("Evaluation: Accept")
	case workflow.DecisionReject:
		verdict = rejectStyle.Render("Evaluation: Reject")
	default:
		verdict = pendingStyle.Render("Evaluation: Pending review")
	}

	return panelStyle.Render("Workflow analysis\n\n" + text + "\n\n" + verdict)
}

// renderInvoiceSummary draws the metadata the workflow extracted from the
// uploaded invoice. Empty when nothing was extracted.
func renderInvoiceSummary(s claim.Session) string {
	var lines []string
	if s.CustomerName != "" {
		lines = append(lines, "Customer:  "+s.CustomerName)
	}
	if s.Vendor != "" {
		lines = append(lines, "Vendor:    "+s.Vendor)
	}
	if s.InvoiceNumber != "" {
		lines = append(lines, "Invoice:   "+s.InvoiceNumber)
	}
	if len(lines) == 0 {
		return ""
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// renderSuccess draws the post-submission confirmation box.
func renderSuccess(s claim.Session, notified bool, displayID string) string {
	var b strings.Builder
	b.WriteString("Claim submitted\n\n")
	if displayID != "" {
		fmt.Fprintf(&b, "Ticket:     %s\n", displayID)
	}
	fmt.Fprintf(&b, "Products:   %s\n", strings.Join(s.Products, ", "))
	fmt.Fprintf(&b, "Contact:    %s\n", s.Email)
	if s.ExecutionID != "" {
		fmt.Fprintf(&b, "Reference:  %s\n", s.ExecutionID)
	}
	if notified {
		b.WriteString("\nA confirmation email is on its way.")
	} else {
		b.WriteString("\nEmail confirmation could not be sent; your claim is still recorded.")
	}
	return successStyle.Render(b.String())
}

// dialogPrompt returns the title and question for an open warranty dialog.
func dialogPrompt(d claim.Dialog) (title, question string) {
	switch d {
	case claim.DialogWarrantyAvailable:
		return "Warranty available",
			"Your product is covered under warranty. Proceed with the claim?"
	case claim.DialogWarrantyExpired:
		return "Warranty expired",
			"The warranty for this invoice has expired or could not be confirmed. Continue anyway?"
	case claim.DialogInvalidInvoice:
		return "Invalid invoice",
			"The uploaded invoice could not be verified. The claim will restart; press confirm to acknowledge."
	default:
		return "", ""
	}
}

// countdownLine renders one tick of the post-submission reset countdown.
func countdownLine(remaining time.Duration) string {
	secs := int(remaining.Round(time.Second).Seconds())
	return stepPendingStyle.Render(fmt.Sprintf("Starting a new claim in %ds…", secs))
}
