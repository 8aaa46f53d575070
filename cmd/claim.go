package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rumsan/supportdesk/internal/claim"
	"github.com/rumsan/supportdesk/internal/ticket"
	"github.com/rumsan/supportdesk/internal/wizard"
	"github.com/rumsan/supportdesk/internal/workflow"
)

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Start the interactive warranty claim wizard",
	Long: `Walk a warranty claim through the support workflow: upload the
invoice for analysis, pick the affected products, describe the issue,
and submit the claim with a resolution request.

Progress is driven by the workflow itself; each step resumes the same
run on the server side.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return claimRun(cmd)
	},
}

func init() {
	rootCmd.AddCommand(claimCmd)
}

func claimRun(cmd *cobra.Command) error {
	engine := claim.NewEngine(workflow.NewClient(), viper.GetString("webhook.claims_url"))
	resetDelay := time.Duration(viper.GetInt("claim.reset_delay_seconds")) * time.Second

	// Local history is best effort: the wizard still runs without a db.
	var recorder wizard.Recorder
	if s, err := getStore(); err == nil {
		recorder = ticket.NewHistory(s)
	} else {
		ui.Warning("Local ticket history unavailable: %v", err)
	}

	runner := wizard.New(engine, recorder, viper.GetString("webhook.ticket_url"), resetDelay, ui.Out)
	return runner.Run(cmd.Context())
}
