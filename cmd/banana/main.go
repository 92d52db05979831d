// Package main provides the banana CLI, a thin front end over the commit
// store in internal/sqlite.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/banana/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

func main() {
	err := rootCmd.Execute()
	closeLogging()
	if err != nil {
		fmt.Fprintln(os.Stderr, "banana:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// userErrors are failures caused by the caller's input rather than the
// environment.
var userErrors = []error{
	types.ErrInvalidColumn,
	types.ErrInvalidID,
	types.ErrDuplicateRow,
	types.ErrMissingColumn,
	types.ErrTableNotFound,
	types.ErrInvalidLogLevel,
	errUsage,
}

// exitCode maps err to exitUserError for input problems and exitSysError
// for everything else.
func exitCode(err error) int {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}
