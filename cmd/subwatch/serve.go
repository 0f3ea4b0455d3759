package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/subwatch-ai/subwatch/internal/cli"
	"github.com/subwatch-ai/subwatch/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the subscription API over HTTP",
		Long: `Start an HTTP server exposing the subscription working set as a JSON
API: listing, detail, summary, renewals, projection, tips, scan and
delete operations.`,
		RunE: runServe,
	}

	cmd.Flags().String("port", "8090", "port to listen on")
	cmd.Flags().Bool("demo", false, "run with demo data, no Gmail connection")
	_ = viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var d deps
	if demo, _ := cmd.Flags().GetBool("demo"); demo {
		d = demoDeps()
	} else {
		var err error
		d, err = liveDeps(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, cli.FormatWarning("Gmail unavailable, serving demo data: "+err.Error()))
			d = demoDeps()
		}
	}

	srv := server.New(server.Config{
		Port:    viper.GetString("server.port"),
		Version: version,
	}, d.session, d.engine, d.advisor, slog.Default())

	srv.Initialize()
	return srv.Start()
}
