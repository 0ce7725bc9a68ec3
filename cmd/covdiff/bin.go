package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LambdaTest/covdiff/config"
	"github.com/LambdaTest/covdiff/pkg/aggregate"
	"github.com/LambdaTest/covdiff/pkg/analyzer"
	"github.com/LambdaTest/covdiff/pkg/azure"
	"github.com/LambdaTest/covdiff/pkg/discovery"
	"github.com/LambdaTest/covdiff/pkg/errs"
	"github.com/LambdaTest/covdiff/pkg/extractor"
	"github.com/LambdaTest/covdiff/pkg/global"
	"github.com/LambdaTest/covdiff/pkg/lumber"
	"github.com/LambdaTest/covdiff/pkg/procfs"
	"github.com/LambdaTest/covdiff/pkg/publish"
	"github.com/LambdaTest/covdiff/pkg/report"
	"github.com/docker/go-units"
	"github.com/spf13/cobra"
)

// version is set at build time.
var version = "dev"

// RootCommand will setup and return the root command
func RootCommand() *cobra.Command {
	rootCmd := cobra.Command{
		Use:           global.BinaryName,
		Short:         "Compare the code coverage of two test suites",
		Long:          `covdiff reports every line the baseline test suite covers that the comparison suite covers partly or not at all`,
		Version:       version,
		RunE:          runReport,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// define flags used for this command
	AttachCLIFlags(&rootCmd)

	rootCmd.AddCommand(mergeCommand(), serveCommand())
	return &rootCmd
}

// setup loads and validates the configuration of cmd and creates the logger.
func setup(cmd *cobra.Command, validate func(*config.Config) error) (*config.Config, lumber.Logger, error) {
	cfg, err := config.Load(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, nil, err
	}
	// You can also use logrus implementation
	// by using lumber.InstanceLogrusLogger
	logger, err := lumber.NewLogger(cfg.LogConfig, cfg.Verbose, lumber.InstanceZapLogger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd, config.ValidateReport)
	if err != nil {
		return err
	}
	unit, err := aggregate.ParseUnit(cfg.Unit)
	if err != nil {
		return errs.ErrInvalidArgument("unit", err.Error())
	}
	if err := discover(cfg, logger); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	baseline, comparison := cfg.Suites()
	views, err := analyzer.New(extractor.New(logger), logger, analyzer.Options{
		FilterToBaseline: cfg.FilterBaseline,
		Workers:          cfg.Workers,
	}).Analyze(ctx, cfg.Classes, baseline, comparison)
	if err != nil {
		logger.Errorf("analysis failed: %v", err)
		return err
	}

	rep, err := report.New(logger, report.Options{
		Dir:         cfg.Report,
		SourceRoots: cfg.Sources,
		AssetsDir:   cfg.Assets,
	}).Assemble(ctx, views, report.Input{
		Titles:          cfg.Titles,
		Unit:            unit,
		ClassRoots:      cfg.Classes,
		BaselineFiles:   baseline,
		ComparisonFiles: comparison,
	})
	if err != nil {
		logger.Errorf("failed to write report: %v", err)
		return err
	}

	var locations []string
	if cfg.Archive || cfg.Upload {
		if locations, err = publishReport(ctx, cfg, logger, rep); err != nil {
			return err
		}
	}

	logger.Infof("comparison finished in %s", time.Since(start).Round(time.Millisecond))
	logStats(logger)
	return printSummary(cmd.OutOrStdout(), rep, locations)
}

// discover fills the class and source directories left unset from --root.
func discover(cfg *config.Config, logger lumber.Logger) error {
	if cfg.Root == "" {
		return nil
	}
	if len(cfg.Classes) == 0 {
		roots, err := discovery.ClassRoots(cfg.Root)
		if err != nil {
			return errs.ErrInvalidArgument("root", err.Error())
		}
		if len(roots) == 0 {
			return errs.ErrInvalidArgument("root", "no class directories found below "+cfg.Root)
		}
		logger.Debugf("discovered class directories %v", roots)
		cfg.Classes = roots
	}
	if len(cfg.Sources) == 0 {
		roots, err := discovery.SourceRoots(cfg.Root)
		if err != nil {
			return errs.ErrInvalidArgument("root", err.Error())
		}
		logger.Debugf("discovered source directories %v", roots)
		cfg.Sources = roots
	}
	return nil
}

func publishReport(ctx context.Context, cfg *config.Config, logger lumber.Logger, rep *report.Report) ([]string, error) {
	var opts []publish.Option
	if cfg.Upload {
		client, err := azure.NewAzureBlobEnv(cfg, logger)
		if err != nil {
			logger.Errorf("failed to initialize azure blob: %v", err)
			return nil, err
		}
		opts = append(opts, publish.WithUpload(client, rep.Manifest.RunID))
	}
	return publish.New(logger, opts...).Publish(ctx, rep.Dir)
}

// logStats logs the resource usage of the run.
func logStats(logger lumber.Logger) {
	proc, err := procfs.Self()
	if err != nil {
		logger.Debugf("failed to inspect process: %v", err)
		return
	}
	stats, err := proc.GetStats()
	if err != nil {
		logger.Debugf("failed to read process stats: %v", err)
		return
	}
	logger.Debugf("cpu %.1f%%, memory %s (%.1f%%)",
		stats.CPUPercentage, units.HumanSize(float64(stats.MemConsumed)), stats.MemPercentage)
}
