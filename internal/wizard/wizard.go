// Package wizard is the interactive terminal front-end for the claims flow.
// It owns prompting and rendering only; every state transition goes through
// the claim engine.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/rumsan/supportdesk/internal/claim"
	"github.com/rumsan/supportdesk/internal/models"
	"github.com/rumsan/supportdesk/internal/workflow"
)

// ErrQuit is returned when the user leaves the wizard deliberately.
var ErrQuit = errors.New("wizard closed")

// Recorder writes a finalized claim into the local ticket history.
type Recorder interface {
	RecordClaim(ctx context.Context, s claim.Session) (*models.Ticket, error)
}

// Runner drives one claim session from start to submission.
type Runner struct {
	engine     *claim.Engine
	recorder   Recorder
	ticketURL  string
	resetDelay time.Duration
	out        io.Writer
}

// New creates a wizard runner. recorder may be nil when no local history is
// available. resetDelay is how long the success screen is shown before a
// fresh session begins; zero skips the countdown.
func New(engine *claim.Engine, recorder Recorder, ticketURL string, resetDelay time.Duration, out io.Writer) *Runner {
	return &Runner{engine: engine, recorder: recorder, ticketURL: ticketURL, resetDelay: resetDelay, out: out}
}

// Run loops the wizard until the user quits. A submitted claim resets into a
// new session after the countdown.
func (r *Runner) Run(ctx context.Context) error {
	s := claim.NewSession()
	for {
		next, err := r.step(ctx, s)
		if errors.Is(err, ErrQuit) || errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			r.reportError(err)
			continue
		}
		s = next
	}
}

// step dispatches the current session position to its prompt. On error the
// caller keeps the old session, so the same step is offered again.
func (r *Runner) step(ctx context.Context, s claim.Session) (claim.Session, error) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, renderTracker(s))
	fmt.Fprintln(r.out)

	if s.DialogOpen() {
		return r.resolveDialog(s)
	}

	switch s.Step {
	case claim.StepNotStarted:
		return r.start(ctx, s)
	case claim.StepAwaitingInvoice:
		return r.uploadInvoice(ctx, s)
	case claim.StepAwaitingProducts:
		return r.selectProducts(s)
	case claim.StepAwaitingIssue:
		return r.describeIssue(ctx, s)
	case claim.StepAwaitingResolution:
		return r.submitResolution(ctx, s)
	case claim.StepSubmitted:
		return r.finishAndReset(ctx, s)
	default:
		return s, fmt.Errorf("unknown wizard step %d", s.Step)
	}
}

func (r *Runner) start(ctx context.Context, s claim.Session) (claim.Session, error) {
	var begin bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Warranty claim assistant").
			Description("Start a new claim? This contacts the support workflow.").
			Affirmative("Start").
			Negative("Quit").
			Value(&begin),
	))
	if err := form.Run(); err != nil {
		return s, err
	}
	if !begin {
		return s, ErrQuit
	}
	return r.engine.Start(ctx, s)
}

func (r *Runner) uploadInvoice(ctx context.Context, s claim.Session) (claim.Session, error) {
	if back, err := r.offerBack(&s); back || err != nil {
		return s, err
	}

	var path string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Invoice file").
			Description("Path to the invoice to analyze (PDF or image)").
			Placeholder("~/Downloads/invoice.pdf").
			Value(&path).
			Validate(validateInvoicePath),
	))
	if err := form.Run(); err != nil {
		return s, err
	}

	path = expandHome(path)
	content, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read invoice: %w", err)
	}

	fmt.Fprintln(r.out, stepPendingStyle.Render("Analyzing invoice…"))
	next, err := r.engine.UploadInvoice(ctx, s, filepath.Base(path), content)
	if err != nil {
		return s, err
	}
	if summary := renderInvoiceSummary(next); summary != "" {
		fmt.Fprintln(r.out, summary)
	}
	return next, nil
}

func (r *Runner) resolveDialog(s claim.Session) (claim.Session, error) {
	title, question := dialogPrompt(s.Dialog)

	var accept bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(question).
			Affirmative("Continue").
			Negative("Cancel").
			Value(&accept),
	))
	if err := form.Run(); err != nil {
		return s, err
	}
	return r.engine.ResolveDialog(s, accept), nil
}

func (r *Runner) selectProducts(s claim.Session) (claim.Session, error) {
	if back, err := r.offerBack(&s); back || err != nil {
		return s, err
	}

	options := make([]huh.Option[string], 0, len(s.Catalog))
	for _, p := range s.Catalog {
		options = append(options, huh.NewOption(p, p))
	}
	typeOptions := make([]huh.Option[string], 0, 3)
	for _, t := range claim.SupportTypes() {
		typeOptions = append(typeOptions, huh.NewOption(t, t))
	}

	products := s.Products
	supportType := s.SupportType

	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("Products").
			Description("Select the products this claim is about").
			Options(options...).
			Value(&products).
			Validate(func(v []string) error {
				if len(v) == 0 {
					return fmt.Errorf("select at least one product")
				}
				return nil
			}),
		huh.NewSelect[string]().
			Title("Support type").
			Options(typeOptions...).
			Value(&supportType),
	))
	if err := form.Run(); err != nil {
		return s, err
	}
	return r.engine.SelectProducts(s, products, supportType)
}

func (r *Runner) describeIssue(ctx context.Context, s claim.Session) (claim.Session, error) {
	if back, err := r.offerBack(&s); back || err != nil {
		return s, err
	}

	issue := s.Issue
	form := huh.NewForm(huh.NewGroup(
		huh.NewText().
			Title("Describe the issue").
			Description("What is wrong with the product?").
			CharLimit(5000).
			Value(&issue).
			Validate(func(v string) error {
				if strings.TrimSpace(v) == "" {
					return fmt.Errorf("a description is required")
				}
				return nil
			}),
	))
	if err := form.Run(); err != nil {
		return s, err
	}

	fmt.Fprintln(r.out, stepPendingStyle.Render("Sending for analysis…"))
	next, err := r.engine.DescribeIssue(ctx, s, issue)
	if err != nil {
		return s, err
	}
	fmt.Fprintln(r.out, renderNarrative(next))
	return next, nil
}

func (r *Runner) submitResolution(ctx context.Context, s claim.Session) (claim.Session, error) {
	if back, err := r.offerBack(&s); back || err != nil {
		return s, err
	}

	resolution := s.Resolution
	email := s.Email
	var confirm bool

	form := huh.NewForm(huh.NewGroup(
		huh.NewText().
			Title("Resolution sought").
			Description("What outcome are you asking for? (repair, replacement, refund…)").
			CharLimit(2000).
			Value(&resolution).
			Validate(func(v string) error {
				if strings.TrimSpace(v) == "" {
					return fmt.Errorf("a resolution is required")
				}
				return nil
			}),
		huh.NewInput().
			Title("Notification email").
			Placeholder("you@example.com").
			Value(&email).
			Validate(validateEmail),
		huh.NewConfirm().
			Title("Submit claim?").
			Affirmative("Submit").
			Negative("Not yet").
			Value(&confirm),
	))
	if err := form.Run(); err != nil {
		return s, err
	}

	next, err := r.engine.SubmitResolution(s, resolution, email)
	if err != nil {
		return s, err
	}
	if !confirm {
		return next, nil
	}

	fmt.Fprintln(r.out, stepPendingStyle.Render("Submitting claim…"))
	result, err := r.engine.Finalize(ctx, next, r.ticketURL)
	if err != nil {
		return next, err
	}

	displayID := ""
	if r.recorder != nil {
		if tk, err := r.recorder.RecordClaim(ctx, result.Session); err != nil {
			fmt.Fprintln(r.out, pendingStyle.Render("Claim submitted but could not be recorded locally: "+err.Error()))
		} else {
			displayID = tk.DisplayID
		}
	}

	fmt.Fprintln(r.out, renderSuccess(result.Session, result.NotificationSent, displayID))
	return result.Session, nil
}

// finishAndReset shows the countdown and hands back a fresh session.
func (r *Runner) finishAndReset(ctx context.Context, s claim.Session) (claim.Session, error) {
	for remaining := r.resetDelay; remaining > 0; remaining -= time.Second {
		fmt.Fprintln(r.out, countdownLine(remaining))
		select {
		case <-ctx.Done():
			return s, ErrQuit
		case <-time.After(time.Second):
		}
	}
	return s.Reset(), nil
}

// offerBack asks whether to revisit the previous step. Only shown when the
// session allows backward navigation.
func (r *Runner) offerBack(s *claim.Session) (bool, error) {
	if !s.CanGoBack() {
		return false, nil
	}

	choice := "continue"
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(s.Step.String()).
			Options(
				huh.NewOption("Continue", "continue"),
				huh.NewOption("Go back a step", "back"),
				huh.NewOption("Quit", "quit"),
			).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	switch choice {
	case "back":
		*s = s.GoBack()
		return true, nil
	case "quit":
		return false, ErrQuit
	default:
		return false, nil
	}
}

func (r *Runner) reportError(err error) {
	if errors.Is(err, workflow.ErrUnreachable) {
		fmt.Fprintln(r.out, rejectStyle.Render("Could not reach the support workflow. Check your connection and try again."))
		return
	}
	fmt.Fprintln(r.out, rejectStyle.Render(err.Error()))
}

func validateInvoicePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("a file path is required")
	}
	info, err := os.Stat(expandHome(path))
	if err != nil {
		return fmt.Errorf("cannot read %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func validateEmail(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("an email address is required")
	}
	if _, err := mail.ParseAddress(v); err != nil {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
