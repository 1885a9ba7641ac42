// Package model defines the domain types for the nik-checker CLI.
//
// These types are used throughout the application for passing data between
// the lookup workflow, the session state, and the command layer.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// IdentifierLength is the number of digits in a national identity number (NIK).
const IdentifierLength = 16

// Identifier is a validated 16-digit national identity number.
// Values of this type are only produced by ParseIdentifier, so holding an
// Identifier means the shape check has already passed.
type Identifier string

// String returns the identifier digits.
func (id Identifier) String() string {
	return string(id)
}

// ParseIdentifier validates a candidate NIK and converts it to an Identifier.
//
// Surrounding whitespace is trimmed first, since terminal input usually
// carries a trailing newline. The remaining string must be exactly
// IdentifierLength ASCII decimal digits. Unicode digits from other scripts
// (e.g., Arabic-Indic) are rejected because the remote service only
// understands ASCII.
//
// Returns a CLIError with ExitInvalidFormat on any other shape.
func ParseIdentifier(s string) (Identifier, error) {
	candidate := strings.TrimSpace(s)
	if !isIdentifierShape(candidate) {
		return "", NewCLIError(ExitInvalidFormat,
			fmt.Sprintf("NIK must be exactly %d decimal digits, got %q", IdentifierLength, candidate))
	}
	return Identifier(candidate), nil
}

// isIdentifierShape reports whether s is exactly IdentifierLength ASCII digits.
// Length is measured in bytes; any multi-byte rune fails the digit check anyway.
func isIdentifierShape(s string) bool {
	if len(s) != IdentifierLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// LookupResult is the response of the remote lookup service for one
// identifier. Its schema is owned by the external service, so the body is
// kept as raw JSON and only re-formatted for display.
type LookupResult struct {
	// Identifier is the NIK that was looked up.
	Identifier Identifier `json:"nik"`

	// Raw is the response body exactly as received.
	Raw json.RawMessage `json:"result"`

	// Formatted is the pretty-printed rendering of Raw (two-space indent).
	Formatted string `json:"-"`

	// FetchedAt is when the response was received.
	FetchedAt time.Time `json:"fetchedAt"`

	// Latency is the wall time of the HTTP request, excluding the
	// connectivity probe.
	Latency time.Duration `json:"-"`
}
