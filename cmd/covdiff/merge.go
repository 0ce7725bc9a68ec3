package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/LambdaTest/covdiff/config"
	"github.com/LambdaTest/covdiff/pkg/execdata"
	"github.com/LambdaTest/covdiff/pkg/fileutils"
	"github.com/spf13/cobra"
)

func mergeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge execution record files into one",
		Long:  `merge reads every execution record file and writes their merged store, the last record of a class wins`,
		RunE:  runMerge,
	}
	attachMergeFlags(cmd)
	return cmd
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd, config.ValidateMerge)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := execdata.Merge(ctx, cfg.Exec)
	if err != nil {
		logger.Errorf("failed to merge execution records: %v", err)
		return err
	}
	if err := fileutils.WriteFile(cfg.Out, func(w io.Writer) error {
		return execdata.WriteStore(w, store)
	}); err != nil {
		logger.Errorf("failed to write %s: %v", cfg.Out, err)
		return err
	}
	logger.Infof("merged %d class records of %d files into %s", store.Len(), len(cfg.Exec), cfg.Out)
	return nil
}
