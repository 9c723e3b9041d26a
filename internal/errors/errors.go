// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package errors provides structured error handling for the ctxforge CLI.
//
// This package defines UserError, a type that carries structured error information
// including what went wrong, why it happened, and how to fix it. It also defines
// consistent exit codes for different error categories.
//
// # Usage Example
//
// Creating and displaying errors:
//
//	err := errors.NewRemoteFetchError(
//	    "Could not read the requested source",
//	    "The repository could not be cloned",
//	    "Check that the URL is reachable and try again",
//	    underlyingErr,
//	)
//	if err != nil {
//	    // Simple approach: print and exit with colored output
//	    errors.FatalError(err, false)
//	}
//
// # Formatted Output
//
// The Format() method provides colored terminal output:
//
//	err := errors.NewInvalidInputError(
//	    "Invalid token budget",
//	    "Budget must be a positive number of tokens",
//	    "Pass --budget with a positive integer, e.g. --budget 8000",
//	)
//	fmt.Fprint(os.Stderr, err.Format(false))
//	// Output (with colors):
//	// Error: Invalid token budget
//	// Cause: Budget must be a positive number of tokens
//	// Fix:   Pass --budget with a positive integer, e.g. --budget 8000
//
// For JSON output:
//
//	jsonData := err.ToJSON()
//	json.NewEncoder(os.Stderr).Encode(jsonData)
//	// Output:
//	// {
//	//   "error": "Invalid token budget",
//	//   "cause": "Budget must be a positive number of tokens",
//	//   "fix": "Pass --budget with a positive integer, e.g. --budget 8000",
//	//   "exit_code": 1
//	// }
//
// # Exit Codes
//
// The package defines semantic exit codes following Unix conventions:
//   - ExitSuccess (0): Successful execution
//   - ExitInvalidInput (1): Bad CLI arguments, empty query, invalid budget
//   - ExitRemoteFetch (2): The scanner could not reach or clone the source
//   - ExitRemoteRefresh (3): A cached clone could not be refreshed
//   - ExitFileRead (4): A single file could not be read
//   - ExitBackendUnavailable (5): The embedding or completion backend is unreachable
//   - ExitParse (6): A file could not be chunked/parsed
//   - ExitInternal (10): Internal errors (bugs, panics)
//
// Only InvalidInput and RemoteFetch faults are ever surfaced to a caller as a
// returned *UserError; RemoteRefresh, FileRead, BackendUnavailable, and Parse
// faults are logged via log/slog and absorbed so a single unreadable file or
// a stale-clone refresh failure never aborts the whole pipeline run.
package errors

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Exit codes for different error categories.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitInvalidInput indicates bad CLI input: empty query, invalid budget,
	// malformed include/exclude globs, or a source that is neither a valid
	// path nor a valid URL.
	ExitInvalidInput = 1

	// ExitRemoteFetch indicates the scanner could not reach or clone the
	// requested source at all.
	ExitRemoteFetch = 2

	// ExitRemoteRefresh indicates a cached clone could not be refreshed
	// (git pull failed); the stale clone is still used.
	ExitRemoteRefresh = 3

	// ExitFileRead indicates a single file could not be read during the
	// scan; the file is skipped, not fatal.
	ExitFileRead = 4

	// ExitBackendUnavailable indicates the embedding or completion backend
	// could not be reached; ranking degrades rather than aborting.
	ExitBackendUnavailable = 5

	// ExitParse indicates a file's content could not be chunked by its
	// language-specific strategy; it falls back to the next strategy (regex
	// definitions for Go, then fixed-size chunking).
	ExitParse = 6

	// ExitInternal indicates internal errors (bugs, unexpected panics).
	// Exit code 10 signals "this is a bug that should be reported".
	ExitInternal = 10
)

// UserError represents an error with structured context for end users.
//
// It provides three levels of information:
//   - Message: What went wrong (user-facing error description)
//   - Cause: Why it happened (diagnostic information)
//   - Fix: How to fix it (actionable suggestion)
//
// UserError also carries an exit code for consistent CLI exit behavior
// and optionally wraps an underlying error for error chain compatibility.
type UserError struct {
	// Message describes what went wrong in user-friendly language.
	Message string

	// Cause explains why the error occurred (diagnostic information).
	Cause string

	// Fix provides an actionable suggestion on how to resolve the error.
	Fix string

	// ExitCode is the exit code that should be used when exiting due to this error.
	ExitCode int

	// Err is the underlying error that caused this error (optional).
	// This enables error wrapping and compatibility with errors.Is/As.
	Err error
}

// Error implements the error interface.
//
// It returns a simple error message string. If an underlying error is present,
// it appends that error's message for context.
func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements error unwrapping for compatibility with errors.Is and errors.As.
//
// It returns the underlying error, allowing standard library error inspection
// functions to work with error chains.
func (e *UserError) Unwrap() error {
	return e.Err
}

// NewInvalidInputError creates an input validation error with exit code
// ExitInvalidInput.
//
// Use this for errors related to invalid user input, such as bad command-line
// arguments or failed validation checks. Input errors typically do not wrap
// an underlying error.
//
// Example:
//
//	return NewInvalidInputError(
//	    "Empty query",
//	    "A query describing what context is needed is required",
//	    "Pass --query \"...\" or a positional query argument",
//	)
func NewInvalidInputError(msg, cause, fix string) *UserError {
	return &UserError{
		Message:  msg,
		Cause:    cause,
		Fix:      fix,
		ExitCode: ExitInvalidInput,
		Err:      nil, // Input errors typically don't wrap underlying errors
	}
}

// NewRemoteFetchError creates a remote-source error with exit code
// ExitRemoteFetch.
//
// Use this when the scanner could not clone or read the requested source at
// all — an unreachable URL, a missing local path, or a clone that failed
// outright. This is the only kind besides InvalidInput that Build returns
// to a caller rather than absorbing.
//
// Example:
//
//	return NewRemoteFetchError(
//	    "Could not read the requested source",
//	    "git clone failed: repository not found",
//	    "Check that the repository URL is correct and reachable",
//	    err,
//	)
func NewRemoteFetchError(msg, cause, fix string, err error) *UserError {
	return &UserError{
		Message:  msg,
		Cause:    cause,
		Fix:      fix,
		ExitCode: ExitRemoteFetch,
		Err:      err,
	}
}

// NewRemoteRefreshError creates a stale-clone-refresh error with exit code
// ExitRemoteRefresh.
//
// Use this for a failed `git pull` against an already-cached clone. Per this
// pipeline's error policy, a RemoteRefresh fault is logged and absorbed — the
// stale clone is scanned anyway — so this constructor exists mainly for
// logging call sites and tests, not for values actually returned from Build.
func NewRemoteRefreshError(msg, cause, fix string, err error) *UserError {
	return &UserError{
		Message:  msg,
		Cause:    cause,
		Fix:      fix,
		ExitCode: ExitRemoteRefresh,
		Err:      err,
	}
}

// NewFileReadError creates a single-file-read error with exit code
// ExitFileRead.
//
// Use this for a file that could not be read or decoded during a scan. Per
// this pipeline's error policy, a FileRead fault is logged and the file is
// skipped rather than aborting the scan.
func NewFileReadError(msg, cause, fix string, err error) *UserError {
	return &UserError{
		Message:  msg,
		Cause:    cause,
		Fix:      fix,
		ExitCode: ExitFileRead,
		Err:      err,
	}
}

// NewBackendUnavailableError creates a backend-connectivity error with exit
// code ExitBackendUnavailable.
//
// Use this when the embedding or completion backend could not be reached.
// Per this pipeline's error policy this is logged and absorbed — semantic
// ranking or HyDE/rerank degrade to their keyword-only fallback rather than
// aborting Build.
func NewBackendUnavailableError(msg, cause, fix string, err error) *UserError {
	return &UserError{
		Message:  msg,
		Cause:    cause,
		Fix:      fix,
		ExitCode: ExitBackendUnavailable,
		Err:      err,
	}
}

// NewParseError creates a chunking/parsing error with exit code ExitParse.
//
// Use this when a file's language-specific chunking strategy fails (e.g. a
// tree-sitter parse error). Per this pipeline's error policy this is logged
// and absorbed — the file falls back to the next strategy (regex definitions
// for Go, then fixed-size chunking).
func NewParseError(msg, cause, fix string, err error) *UserError {
	return &UserError{
		Message:  msg,
		Cause:    cause,
		Fix:      fix,
		ExitCode: ExitParse,
		Err:      err,
	}
}

// NewInternalError creates an internal error with exit code ExitInternal.
//
// Use this for unexpected errors that indicate bugs in the program, such as
// assertion failures, unexpected nil values, or unhandled error cases.
// Internal errors should be reported to the maintainers.
//
// Example:
//
//	return NewInternalError(
//	    "Unexpected nil pointer",
//	    "The selector returned nil unexpectedly",
//	    "This is a bug. Please report it at github.com/kraklabs/ctxforge/issues",
//	    err,
//	)
func NewInternalError(msg, cause, fix string, err error) *UserError {
	return &UserError{
		Message:  msg,
		Cause:    cause,
		Fix:      fix,
		ExitCode: ExitInternal,
		Err:      err,
	}
}

// Color definitions for error formatting.
var (
	colorError = color.New(color.FgRed, color.Bold)
	colorCause = color.New(color.FgYellow)
	colorFix   = color.New(color.FgGreen)
)

// Format returns a formatted error message for terminal display.
//
// The output includes colored sections for Error (red/bold), Cause (yellow),
// and Fix (green). Color output respects the NO_COLOR environment variable
// and can be explicitly disabled with the noColor parameter.
//
// Example output:
//
//	Error: Could not read the requested source
//	Cause: git clone failed: repository not found
//	Fix:   Check that the repository URL is correct and reachable
//
// Empty Cause or Fix fields are omitted from the output.
//
// Note: This method temporarily modifies the global color.NoColor state
// and restores it after formatting. The change is not synchronized, so
// concurrent calls can observe each other's setting.
func (e *UserError) Format(noColor bool) string {
	// Save and restore global color state to avoid side effects
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var out strings.Builder
	out.WriteString(colorError.Sprint("Error: "))
	out.WriteString(e.Message)
	out.WriteString("\n")

	if e.Cause != "" {
		out.WriteString(colorCause.Sprint("Cause: "))
		out.WriteString(e.Cause)
		out.WriteString("\n")
	}

	if e.Fix != "" {
		out.WriteString(colorFix.Sprint("Fix:   "))
		out.WriteString(e.Fix)
		out.WriteString("\n")
	}

	return out.String()
}

// ErrorJSON represents error information in JSON format.
//
// This structure is suitable for machine consumption and integrates with
// CLI commands that support --json output mode.
type ErrorJSON struct {
	Error    string `json:"error"`
	Cause    string `json:"cause,omitempty"`
	Fix      string `json:"fix,omitempty"`
	ExitCode int    `json:"exit_code"`
}

// ToJSON converts the UserError to a JSON-serializable structure.
//
// Fields with empty values (Cause, Fix) are omitted from JSON output
// using the omitempty tag. This keeps JSON output clean when additional
// context is not available.
func (e *UserError) ToJSON() ErrorJSON {
	return ErrorJSON{
		Error:    e.Message,
		Cause:    e.Cause,
		Fix:      e.Fix,
		ExitCode: e.ExitCode,
	}
}

// FatalError prints the error and exits with the appropriate code.
//
// If the error is a UserError, it uses Format() for colored output or
// ToJSON() for JSON mode. For non-UserError types, it prints a simple
// error message and exits with ExitInternal.
//
// This function never returns - it always calls os.Exit().
//
// Usage:
//
//	if err := doSomething(); err != nil {
//	    errors.FatalError(err, jsonMode)
//	}
func FatalError(err error, jsonOutput bool) {
	if err == nil {
		return
	}

	if ue, ok := err.(*UserError); ok {
		if jsonOutput {
			enc := json.NewEncoder(os.Stderr)
			enc.SetIndent("", "  ")
			// Encode error is intentionally ignored since we're about to exit.
			// If JSON encoding fails, the program will still exit with the correct code.
			_ = enc.Encode(ue.ToJSON())
		} else {
			fmt.Fprint(os.Stderr, ue.Format(false))
		}
		os.Exit(ue.ExitCode)
	}

	// Fallback for non-UserError
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitInternal)
}
