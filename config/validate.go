package config

import (
	"github.com/LambdaTest/covdiff/pkg/errs"
	"github.com/LambdaTest/covdiff/pkg/utils"
)

// ValidateReport checks the options of a comparison run.
func ValidateReport(cfg *Config) error {
	if err := utils.ValidateStruct(cfg); err != nil {
		return err
	}
	if len(cfg.Exec) > 0 && (len(cfg.First) > 0 || len(cfg.Second) > 0) {
		return errs.ErrInvalidArgument("exec", "cannot be combined with --first or --second")
	}
	if len(cfg.Exec) == 1 {
		return errs.ErrInvalidArgument("exec", "needs a baseline file followed by at least one comparison file")
	}
	if len(cfg.Classes) == 0 && cfg.Root == "" {
		return errs.ErrInvalidArgument("classes", "at least one class directory or --root is required")
	}
	baseline, comparison := cfg.Suites()
	if len(baseline) == 0 {
		return errs.ErrInvalidArgument("first", "at least one baseline execution record file is required")
	}
	if len(comparison) == 0 {
		return errs.ErrInvalidArgument("second", "at least one comparison execution record file is required")
	}
	if cfg.Report == "" {
		return errs.ErrInvalidArgument("report", "the output directory is required")
	}
	if cfg.Upload && (cfg.Azure.StorageAccountName == "" || cfg.Azure.StorageAccessKey == "") {
		return errs.ErrInvalidArgument("upload", "azure account and key are required")
	}
	return nil
}

// ValidateMerge checks the options of the merge command.
func ValidateMerge(cfg *Config) error {
	if len(cfg.Exec) == 0 {
		return errs.ErrInvalidArgument("exec", "at least one execution record file is required")
	}
	if cfg.Out == "" {
		return errs.ErrInvalidArgument("out", "the destination file is required")
	}
	return nil
}

// ValidateServe checks the options of the serve command.
func ValidateServe(cfg *Config) error {
	if err := utils.ValidateStruct(cfg); err != nil {
		return err
	}
	if cfg.Report == "" {
		return errs.ErrInvalidArgument("report", "the report directory is required")
	}
	return nil
}
