package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subwatch-ai/subwatch/internal/cli"
	"github.com/subwatch-ai/subwatch/internal/gmail"
)

func authCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google",
		Long: `Authenticate with Google to grant read-only Gmail access.

This command will:
1. Start a local web server
2. Open the Google consent screen in your browser
3. Save the resulting token for future scans`,
		RunE: runAuth,
	}
}

func runAuth(cmd *cobra.Command, _ []string) error {
	cfg, err := oauthSettings()
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle("Connect your Google account"))

	if _, err := gmail.AuthenticateInteractive(cmd.Context(), cfg); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess("Authenticated. Token saved to " + cfg.TokenFile))
	fmt.Println(cli.SubtleStyle.Render("Run 'subwatch scan' to find subscriptions in your inbox."))
	return nil
}
