package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/LambdaTest/covdiff/config"
	"github.com/LambdaTest/covdiff/pkg/api"
	"github.com/LambdaTest/covdiff/pkg/metrics"
	"github.com/LambdaTest/covdiff/pkg/server"
	"github.com/spf13/cobra"
)

func serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a generated report over http",
		RunE:  runServe,
	}
	attachServeFlags(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd, config.ValidateServe)
	if err != nil {
		return err
	}
	router, err := api.NewRouter(logger, cfg.Report, metrics.New())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.ListenAndServe(ctx, router, cfg, logger)
}
