package model

import (
	"errors"
	"fmt"
)

// ExitCode defines standard CLI exit codes.
// Each failure code also names one kind of lookup error, so scripts can
// tell an invalid NIK apart from an offline machine without parsing text.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInvalidFormat indicates the input is not a 16-digit NIK.
	// No network call is made in this case.
	ExitInvalidFormat ExitCode = 2

	// ExitNoConnection indicates the connectivity probe did not succeed
	// within its timeout.
	ExitNoConnection ExitCode = 3

	// ExitRequestFailed indicates the lookup request failed: transport
	// error, non-2xx status, or a body that is not JSON.
	ExitRequestFailed ExitCode = 4

	// ExitFileWriteFailed indicates the output could not be saved.
	ExitFileWriteFailed ExitCode = 5

	// ExitConfigInvalid indicates the configuration file could not be
	// read or contains invalid values.
	ExitConfigInvalid ExitCode = 6
)

// String returns the error kind name for failure codes.
func (c ExitCode) String() string {
	switch c {
	case ExitSuccess:
		return "Success"
	case ExitInvalidFormat:
		return "InvalidFormat"
	case ExitNoConnection:
		return "NoConnection"
	case ExitRequestFailed:
		return "RequestFailed"
	case ExitFileWriteFailed:
		return "FileWriteFailed"
	case ExitConfigInvalid:
		return "ConfigInvalid"
	default:
		return "GeneralError"
	}
}

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// CodeOf returns the exit code carried by err, searching the wrap chain.
// Errors that are not CLIErrors map to ExitGeneralError; nil maps to
// ExitSuccess.
func CodeOf(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ExitGeneralError
}

// IsKind reports whether err is a CLIError with the given code.
func IsKind(err error, code ExitCode) bool {
	return err != nil && CodeOf(err) == code
}
