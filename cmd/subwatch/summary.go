package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/subwatch-ai/subwatch/internal/aggregate"
	"github.com/subwatch-ai/subwatch/internal/cli"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show spend summary and upcoming renewals",
		RunE:  runSummary,
	}

	cmd.Flags().Bool("live", false, "scan Gmail before summarizing")
	cmd.Flags().Int("months", 6, "projection length in months")

	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	d, err := commandDeps(cmd)
	if err != nil {
		return err
	}

	subs := d.session.Subscriptions().List()
	months, _ := cmd.Flags().GetInt("months")
	now := time.Now()

	var b strings.Builder
	fmt.Fprintf(&b, "Monthly spend:   %.2f\n", aggregate.TotalMonthly(subs))
	fmt.Fprintf(&b, "Subscriptions:   %d\n", len(subs))

	totals := aggregate.CategoryTotals(subs)
	if len(totals) > 0 {
		b.WriteString("\nBy category:\n")
		for _, ct := range totals {
			fmt.Fprintf(&b, "  %-14s %10.2f\n", ct.Category, ct.Total)
		}
	}

	renewals := aggregate.UpcomingRenewals(subs, now, 3)
	if len(renewals) > 0 {
		b.WriteString("\nUpcoming renewals:\n")
		for _, sub := range renewals {
			fmt.Fprintf(&b, "  %-28s %s\n", clip(sub.ServiceName, 28),
				sub.NextRenewalDate.Format("Jan 2, 2006"))
		}
	}

	if months > 0 {
		b.WriteString("\nProjection:\n")
		for _, point := range aggregate.MonthlyProjection(subs, now, months) {
			fmt.Fprintf(&b, "  %-6s %10.2f\n", point.Label, point.Spend)
		}
	}

	fmt.Println(cli.RenderBox("Subscription spend", strings.TrimRight(b.String(), "\n")))
	return nil
}
