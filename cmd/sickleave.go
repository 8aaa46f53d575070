package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rumsan/supportdesk/internal/leave"
)

var sickleaveCmd = &cobra.Command{
	Use:   "sickleave",
	Short: "File a sick leave request",
	Long: `File a sick leave request with HR. Opens an interactive form and
posts the request to the leave workflow for manager approval.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sickleaveRun(cmd)
	},
}

func init() {
	rootCmd.AddCommand(sickleaveCmd)
}

func sickleaveRun(cmd *cobra.Command) error {
	managerOptions := make([]huh.Option[string], 0, 2)
	for _, m := range leave.Managers() {
		managerOptions = append(managerOptions, huh.NewOption(m, m))
	}

	var req leave.Request
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Your name").
			Value(&req.EmployeeName).
			Validate(requireField("your name")),
		huh.NewInput().
			Title("Department").
			Value(&req.Department).
			Validate(requireField("a department")),
		huh.NewSelect[string]().
			Title("Approving manager").
			Options(managerOptions...).
			Value(&req.Manager),
		huh.NewInput().
			Title("First day of leave").
			Placeholder("YYYY-MM-DD").
			Value(&req.StartDate).
			Validate(requireDate),
		huh.NewInput().
			Title("Last day of leave").
			Placeholder("YYYY-MM-DD").
			Value(&req.EndDate).
			Validate(requireDate),
		huh.NewText().
			Title("Reason").
			CharLimit(1000).
			Value(&req.Reason).
			Validate(requireField("a reason")),
	))
	if err := form.Run(); err != nil {
		return err
	}

	client := leave.NewClient(viper.GetString("webhook.sickleave_url"))
	if err := client.Submit(cmd.Context(), req); err != nil {
		return err
	}

	ui.Success("Sick leave request sent to %s for approval", req.Manager)
	return nil
}

func requireField(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func requireDate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}
