package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/subwatch-ai/subwatch/internal/cli"
	"github.com/subwatch-ai/subwatch/internal/tui"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive terminal dashboard",
		Long: `Open the interactive dashboard: browse, filter and remove tracked
subscriptions, and trigger inbox scans, without leaving the terminal.

Runs against your Gmail account when authenticated, or in demo mode
with --demo.`,
		RunE: runDashboard,
	}

	cmd.Flags().Bool("demo", false, "run with demo data, no Gmail connection")

	return cmd
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var d deps
	if demo, _ := cmd.Flags().GetBool("demo"); demo {
		d = demoDeps()
	} else {
		var err error
		d, err = liveDeps(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, cli.FormatWarning("Gmail unavailable, starting in demo mode: "+err.Error()))
			d = demoDeps()
		}
	}

	return tui.Run(ctx, tui.Config{
		Session: d.session,
		Engine:  d.engine,
		Advisor: d.advisor,
	})
}
