package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subwatch-ai/subwatch/internal/aggregate"
	"github.com/subwatch-ai/subwatch/internal/cli"
	"github.com/subwatch-ai/subwatch/internal/model"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked subscriptions",
		Long: `List the subscriptions in the working set, optionally filtered by a
name substring and a category.

By default the demo records are shown; pass --live to scan your inbox
first.`,
		RunE: runList,
	}

	cmd.Flags().StringP("query", "q", "", "filter by service name substring")
	cmd.Flags().StringP("category", "c", aggregate.AllCategories, "filter by category")
	cmd.Flags().Bool("live", false, "scan Gmail before listing")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	d, err := commandDeps(cmd)
	if err != nil {
		return err
	}

	query, _ := cmd.Flags().GetString("query")
	category, _ := cmd.Flags().GetString("category")

	subs := aggregate.Filter(d.session.Subscriptions().List(), query, category)
	if len(subs) == 0 {
		fmt.Println(cli.FormatWarning("No subscriptions match the given filters."))
		return nil
	}

	printSubscriptionTable(subs)
	return nil
}

// commandDeps wires live or demo dependencies based on the --live flag,
// running a scan first in live mode.
func commandDeps(cmd *cobra.Command) (deps, error) {
	live, _ := cmd.Flags().GetBool("live")
	if !live {
		return demoDeps(), nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), scanTimeout)
	defer cancel()

	d, err := liveDeps(ctx)
	if err != nil {
		return deps{}, err
	}
	if _, err := d.engine.Scan(ctx); err != nil {
		return deps{}, err
	}
	return d, nil
}

func printSubscriptionTable(subs []model.Subscription) {
	header := fmt.Sprintf("%-10s %-28s %-14s %10s %-4s %-12s",
		"ID", "SERVICE", "CATEGORY", "AMOUNT", "CUR", "NEXT RENEWAL")
	fmt.Println(cli.TableHeaderStyle.Render(header))

	for _, sub := range subs {
		renewal := "unknown"
		if sub.HasRenewalDate() {
			renewal = sub.NextRenewalDate.Format("2006-01-02")
		}
		row := fmt.Sprintf("%-10s %-28s %-14s %10.2f %-4s %-12s",
			shortID(sub.ID),
			clip(sub.ServiceName, 28),
			clip(string(sub.Category), 14),
			sub.Amount,
			sub.Currency,
			renewal,
		)
		fmt.Println(cli.TableCellStyle.Render(row))
	}
}

// shortID abbreviates uuid-style ids for table display.
func shortID(id string) string {
	return clip(id, 10)
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
