package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rumsan/supportdesk/internal/models"
	"github.com/rumsan/supportdesk/internal/output"
	"github.com/rumsan/supportdesk/internal/store"
	"github.com/rumsan/supportdesk/internal/ticket"
	"github.com/rumsan/supportdesk/internal/workflow"
)

var (
	ticketTitle     string
	ticketCategory  string
	ticketPriority  string
	ticketDesc      string
	ticketFiles     []string
	ticketStatus    string
	ticketLimit     int
	ticketNewStatus string
	ticketFeedback  string
)

var ticketCmd = &cobra.Command{
	Use:   "ticket",
	Short: "Submit and track support tickets",
	Long:  "Submit one-off support tickets and browse the local submission history.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return ticketListRun()
	},
}

var ticketSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a new support ticket",
	Long: `Submit a support ticket to the review workflow.

With no flags an interactive form is shown; flags fill the fields
non-interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ticketSubmitRun(cmd.Context())
	},
}

var ticketListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List submitted tickets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return ticketListRun()
	},
}

var ticketShowCmd = &cobra.Command{
	Use:   "show <ticket-id>",
	Short: "Show ticket details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ticketShowRun(args[0])
	},
}

var ticketUpdateCmd = &cobra.Command{
	Use:   "update <ticket-id>",
	Short: "Update a ticket's review status",
	Long:  "Record the review outcome for a ticket, e.g. after hearing back from support.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ticketUpdateRun(args[0])
	},
}

var ticketDeleteCmd = &cobra.Command{
	Use:     "delete <ticket-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a ticket from the local history",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ticketDeleteRun(args[0])
	},
}

func init() {
	ticketSubmitCmd.Flags().StringVarP(&ticketTitle, "title", "t", "", "Ticket title")
	ticketSubmitCmd.Flags().StringVarP(&ticketCategory, "category", "c", "", "Category: "+strings.Join(models.TicketCategories(), ", "))
	ticketSubmitCmd.Flags().StringVarP(&ticketPriority, "priority", "p", "", "Priority: "+strings.Join(models.TicketPriorities(), ", "))
	ticketSubmitCmd.Flags().StringVarP(&ticketDesc, "description", "d", "", "Ticket description")
	ticketSubmitCmd.Flags().StringSliceVarP(&ticketFiles, "file", "f", nil, "Attachment file (repeatable)")

	ticketListCmd.Flags().StringVar(&ticketStatus, "status", "", "Filter by status")
	ticketListCmd.Flags().StringVar(&ticketCategory, "category", "", "Filter by category")
	ticketListCmd.Flags().IntVar(&ticketLimit, "limit", 0, "Limit number of results")

	ticketUpdateCmd.Flags().StringVar(&ticketNewStatus, "status", "", "New status: "+joinStatuses())
	ticketUpdateCmd.Flags().StringVar(&ticketFeedback, "feedback", "", "Reviewer feedback to record")

	ticketCmd.AddCommand(ticketSubmitCmd)
	ticketCmd.AddCommand(ticketListCmd)
	ticketCmd.AddCommand(ticketShowCmd)
	ticketCmd.AddCommand(ticketUpdateCmd)
	ticketCmd.AddCommand(ticketDeleteCmd)
	rootCmd.AddCommand(ticketCmd)
}

func ticketSubmitRun(ctx context.Context) error {
	if ticketTitle == "" {
		if err := ticketForm(); err != nil {
			return err
		}
	}

	var files []workflow.Attachment
	for _, path := range ticketFiles {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read attachment: %w", err)
		}
		files = append(files, workflow.Attachment{FileName: filepath.Base(path), Content: content})
	}

	s, err := getStore()
	if err != nil {
		return err
	}

	sub := ticket.NewSubmitter(workflow.NewClient(), s, viper.GetString("webhook.ticket_url"))
	tk, err := sub.Submit(ctx, ticket.Submission{
		Title:       ticketTitle,
		Category:    ticketCategory,
		Priority:    ticketPriority,
		Description: ticketDesc,
		Files:       files,
	})
	if err != nil {
		return err
	}

	ui.Success("Ticket submitted: %s", tk.DisplayID)
	return nil
}

// ticketForm collects the submission fields interactively.
func ticketForm() error {
	categoryOptions := make([]huh.Option[string], 0, 5)
	for _, c := range models.TicketCategories() {
		categoryOptions = append(categoryOptions, huh.NewOption(c, c))
	}
	priorityOptions := make([]huh.Option[string], 0, 4)
	for _, p := range models.TicketPriorities() {
		priorityOptions = append(priorityOptions, huh.NewOption(p, p))
	}

	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Description("Brief summary of the problem (required)").
			Value(&ticketTitle).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("title is required")
				}
				return nil
			}),
		huh.NewSelect[string]().
			Title("Category").
			Options(categoryOptions...).
			Value(&ticketCategory),
		huh.NewSelect[string]().
			Title("Priority").
			Options(priorityOptions...).
			Value(&ticketPriority),
		huh.NewText().
			Title("Description").
			Description("What happened, and what did you expect?").
			CharLimit(5000).
			Value(&ticketDesc).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("a description is required")
				}
				return nil
			}),
	)).Run()
}

func ticketListRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	tickets, err := s.ListTickets(ctx, ticketListFilter())
	if err != nil {
		return err
	}

	if len(tickets) == 0 {
		ui.Info("No tickets found.")
		return nil
	}

	table := ui.Table([]string{"ID", "Title", "Category", "Priority", "Status", "Submitted"})
	for _, tk := range tickets {
		_ = table.Append([]string{
			tk.DisplayID,
			tk.Title,
			tk.Category,
			output.PriorityColor(tk.Priority),
			output.StatusColor(string(tk.Status)),
			tk.SubmittedAt.Format("2006-01-02 15:04"),
		})
	}
	_ = table.Render()
	return nil
}

func ticketListFilter() store.TicketListFilter {
	return store.TicketListFilter{
		Status:   models.TicketStatus(ticketStatus),
		Category: ticketCategory,
		Limit:    ticketLimit,
	}
}

func ticketShowRun(ref string) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	tk, err := s.GetTicket(ctx, ref)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan(tk.DisplayID), tk.Title)
	fmt.Fprintf(ui.Out, "  Category:   %s\n", tk.Category)
	fmt.Fprintf(ui.Out, "  Priority:   %s\n", output.PriorityColor(tk.Priority))
	fmt.Fprintf(ui.Out, "  Status:     %s\n", output.StatusColor(string(tk.Status)))
	if tk.Description != "" {
		fmt.Fprintf(ui.Out, "  Desc:       %s\n", tk.Description)
	}
	if tk.Email != "" {
		fmt.Fprintf(ui.Out, "  Email:      %s\n", tk.Email)
	}
	if tk.ExecutionID != "" {
		fmt.Fprintf(ui.Out, "  Workflow:   %s\n", tk.ExecutionID)
	}
	if tk.FileCount > 0 {
		fmt.Fprintf(ui.Out, "  Files:      %d\n", tk.FileCount)
	}
	if tk.Feedback != "" {
		fmt.Fprintf(ui.Out, "  Feedback:   %s\n", tk.Feedback)
	}
	fmt.Fprintf(ui.Out, "  Submitted:  %s\n", tk.SubmittedAt.Format(time.RFC3339))
	fmt.Fprintf(ui.Out, "  Full ID:    %s\n", tk.ID)

	return nil
}

func ticketUpdateRun(ref string) error {
	status := models.TicketStatus(ticketNewStatus)
	if !status.Valid() {
		return fmt.Errorf("invalid status %q (expected one of: %s)", ticketNewStatus, joinStatuses())
	}

	s, err := getStore()
	if err != nil {
		return err
	}

	if err := s.UpdateTicketStatus(context.Background(), ref, status, ticketFeedback); err != nil {
		return err
	}
	ui.Success("Ticket %s → %s", ref, output.StatusColor(string(status)))
	return nil
}

func ticketDeleteRun(ref string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	if err := s.DeleteTicket(context.Background(), ref); err != nil {
		return err
	}
	ui.Success("Ticket %s removed from local history", ref)
	return nil
}

func joinStatuses() string {
	statuses := models.TicketStatuses()
	parts := make([]string, len(statuses))
	for i, st := range statuses {
		parts[i] = string(st)
	}
	return strings.Join(parts, ", ")
}
