package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/LambdaTest/covdiff/pkg/errs"
)

// Main function just executes root command `covdiff`
// this project structure is inspired from `cobra` package
func main() {
	if err := RootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[Error] %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command failure to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var argErr *errs.ArgumentError
	if errors.As(err, &argErr) {
		return 2
	}
	return 1
}
