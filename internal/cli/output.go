package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/macrolog/internal/config"
	"github.com/roach88/macrolog/internal/entry"
	"github.com/roach88/macrolog/internal/food"
	"github.com/roach88/macrolog/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failed (storage error, invalid entry, etc.)
	ExitCommandError = 2 // Command error (bad flags, unreadable config, missing food table, etc.)
)

// Error codes reported in JSON error responses.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeNotFound     = "E005" // Food or path not found
	ErrCodeAmbiguous    = "E006" // Food query matches several rows
	ErrCodeInvalidInput = "E010" // Bad amount, date or macros
	ErrCodeConfig       = "E011" // Config failed to load or validate
	ErrCodeStorage      = "E012" // Log could not be read or written
	ErrCodeFoodTable    = "E013" // Food table missing required columns
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// ErrorCode classifies err for JSON error responses.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, food.ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, food.ErrAmbiguous):
		return ErrCodeAmbiguous
	case errors.Is(err, food.ErrMissingColumn):
		return ErrCodeFoodTable
	case errors.Is(err, food.ErrInvalidAmount),
		errors.Is(err, entry.ErrInvalidDay),
		errors.Is(err, entry.ErrInvalidMacros),
		errors.Is(err, store.ErrExpired),
		errors.Is(err, store.ErrEmptyName):
		return ErrCodeInvalidInput
	case errors.Is(err, config.ErrInvalid):
		return ErrCodeConfig
	case errors.Is(err, errStorage):
		return ErrCodeStorage
	default:
		return ErrCodeGeneric
	}
}

// errStorage marks failures of the durable log.
var errStorage = errors.New("storage")

func storageError(message string, err error) *ExitError {
	return WrapExitError(ExitFailure, message, fmt.Errorf("%w: %w", errStorage, err))
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E005", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// Text output prints data with fmt, so views implement fmt.Stringer.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	_, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	return err
}
