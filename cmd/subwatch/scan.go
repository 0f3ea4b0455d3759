package main

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/subwatch-ai/subwatch/internal/cli"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan your inbox for subscription receipts",
		Long: `Scan your Gmail inbox for subscription receipts and invoices.

Each candidate email is run through the configured LLM to extract the
service name, amount, billing cycle and renewal date. Detected
subscriptions are merged into the working set and printed.`,
		RunE: runScan,
	}

	cmd.Flags().String("query", "", "override the Gmail search query")
	cmd.Flags().Int64("max-results", 0, "maximum emails to fetch")
	_ = viper.BindPFlag("scan.query", cmd.Flags().Lookup("query"))
	_ = viper.BindPFlag("scan.max_results", cmd.Flags().Lookup("max-results"))

	return cmd
}

func runScan(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), scanTimeout)
	defer cancel()

	d, err := liveDeps(ctx)
	if err != nil {
		return err
	}

	user, _ := d.session.User()
	fmt.Println(cli.FormatTitle("Scanning inbox for " + user.Email))

	var bar *progressbar.ProgressBar
	d.engine.OnProgress = func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Extracting subscriptions..."),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}
		_ = bar.Set(done)
	}

	result, err := d.engine.Scan(ctx)
	if err != nil {
		return err
	}

	content := fmt.Sprintf("Emails fetched:  %d\nNew records:     %d\nTotal tracked:   %d",
		result.Fetched, result.Added, d.session.Subscriptions().Len())
	fmt.Println(cli.RenderBox("Scan complete", content))

	printSubscriptionTable(d.session.Subscriptions().List())
	return nil
}
