package errs

import (
	"fmt"
	"strings"
)

// ArgumentError is raised when a required option is missing or malformed.
// The run aborts before any analysis and no output is written.
type ArgumentError struct {
	Option string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("invalid arguments: %s", e.Reason)
	}
	return fmt.Sprintf("invalid value for --%s: %s", e.Option, e.Reason)
}

// ErrInvalidArgument returns an ArgumentError for the given option.
func ErrInvalidArgument(option, reason string) error {
	return &ArgumentError{Option: option, Reason: reason}
}

// ErrValidation folds a list of validation messages into a single ArgumentError.
func ErrValidation(messages []string) error {
	return &ArgumentError{Reason: "\n" + strings.Join(messages, "\n")}
}

// RecordReadError is raised when an execution record file cannot be opened or decoded.
type RecordReadError struct {
	Path string
	Err  error
}

func (e *RecordReadError) Error() string {
	return fmt.Sprintf("unable to read execution records from %s: %v", e.Path, e.Err)
}

func (e *RecordReadError) Unwrap() error {
	return e.Err
}

// ClassAnalysisError describes a single class artifact that could not be analyzed.
// It never aborts a run, the class is left out of the affected view.
type ClassAnalysisError struct {
	Location string
	Err      error
}

func (e *ClassAnalysisError) Error() string {
	return fmt.Sprintf("unable to analyze class %s: %v", e.Location, e.Err)
}

func (e *ClassAnalysisError) Unwrap() error {
	return e.Err
}

// ReportIOError is raised when the report directory or one of its files cannot be written.
type ReportIOError struct {
	Path string
	Err  error
}

func (e *ReportIOError) Error() string {
	return fmt.Sprintf("unable to write report %s: %v", e.Path, e.Err)
}

func (e *ReportIOError) Unwrap() error {
	return e.Err
}

// ErrRootDirectory returns a coded error for a class root that cannot be read.
func ErrRootDirectory(root string, err error) Err {
	return Err{
		Code:    "ERR::ROOT::READ",
		Message: fmt.Sprintf("Unable to read class directory %s :  %v", root, err)}
}

// ErrDirCreate returns error with code "ERR::DIR::CRT"
func ErrDirCreate(err string) Err {
	return Err{
		Code:    "ERR::DIR::CRT",
		Message: fmt.Sprintf("Unable to create directory :  \n%s", err)}
}

// ErrUpload returns error with code "ERR::UPL"
func ErrUpload(err string) Err {
	return Err{
		Code:    "ERR::UPL",
		Message: fmt.Sprintf("Unable to upload report :  \n%s", err)}
}
