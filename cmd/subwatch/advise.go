package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subwatch-ai/subwatch/internal/cli"
	"github.com/subwatch-ai/subwatch/internal/common"
	"github.com/subwatch-ai/subwatch/internal/model"
)

func adviseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Get savings tips or a cancellation email draft",
		Long: `Generate savings tips for the tracked subscriptions.

With --cancel <id>, generates a ready-to-send cancellation email draft
for that subscription instead.`,
		RunE: runAdvise,
	}

	cmd.Flags().String("cancel", "", "subscription id to draft a cancellation email for")
	cmd.Flags().Bool("live", false, "scan Gmail before advising")

	return cmd
}

func runAdvise(cmd *cobra.Command, _ []string) error {
	d, err := commandDeps(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if id, _ := cmd.Flags().GetString("cancel"); id != "" {
		sub, err := resolveSubscription(d, id)
		if err != nil {
			return fmt.Errorf("subscription %q: %w", id, err)
		}

		user, _ := d.session.User()
		draft := d.advisor.CancellationDraft(ctx, sub, user.Name)
		fmt.Println(cli.RenderBox("Cancellation draft for "+sub.ServiceName, draft))
		return nil
	}

	tips := d.advisor.SavingsTips(ctx, d.session.Subscriptions().List())

	fmt.Println(cli.FormatTitle("Savings tips"))
	for i, tip := range tips {
		fmt.Printf("%d. %s\n", i+1, tip)
	}
	return nil
}

// resolveSubscription accepts a full id or a unique prefix, since tables
// print abbreviated ids.
func resolveSubscription(d deps, id string) (model.Subscription, error) {
	if sub, ok := d.session.Subscriptions().Get(id); ok {
		return sub, nil
	}

	var match model.Subscription
	found := 0
	for _, sub := range d.session.Subscriptions().List() {
		if strings.HasPrefix(sub.ID, strings.TrimSuffix(id, "…")) {
			match = sub
			found++
		}
	}
	switch found {
	case 1:
		return match, nil
	case 0:
		return model.Subscription{}, common.ErrNotFound
	default:
		return model.Subscription{}, fmt.Errorf("%w: prefix matches %d subscriptions", common.ErrNotFound, found)
	}
}
