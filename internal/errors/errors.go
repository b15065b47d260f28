package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitvault/internal/api"
	"github.com/julianstephens/habitvault/internal/dashboard"
	"github.com/julianstephens/habitvault/internal/keyring"
	"github.com/julianstephens/habitvault/internal/logger"
	"github.com/julianstephens/habitvault/internal/storage"
)

// Format formats an error message with a consistent "Error: " prefix and,
// for errors the user can act on, a hint on its own line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\n       " + hint
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a short suggestion for well-known failures, or "" if there is none.
func Hint(err error) string {
	switch {
	case stderrors.Is(err, dashboard.ErrUnauthenticated):
		return "Run 'habitvault login <token>' or set HABITVAULT_TOKEN."
	case stderrors.Is(err, api.ErrUnauthorized):
		return "The stored token was rejected. Log in again with 'habitvault login'."
	case stderrors.Is(err, keyring.ErrKeyringUnavailable):
		return "No OS keyring found. Pass --token or set HABITVAULT_TOKEN instead."
	case stderrors.Is(err, storage.ErrNoSnapshot):
		return "Run 'habitvault habit list' while online to populate the cache."
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
