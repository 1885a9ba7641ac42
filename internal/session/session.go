// Package session holds the state of one interactive nik-checker session
// and implements the user actions on it: lookup, save, pick from history,
// and clear.
//
// All state lives in a Session value passed to each action. Every action
// records its outcome in the output area, so a failure is both returned
// to the caller and visible inline as an "Error: ..." line.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shinji-kodama/nik-checker/internal/model"
	"github.com/shinji-kodama/nik-checker/internal/render"
)

// Runner performs a lookup in two steps. *lookup.Workflow satisfies it.
//
// Check validates the candidate and confirms connectivity without
// contacting the lookup endpoint; Fetch sends the request for an id that
// passed Check.
type Runner interface {
	Check(ctx context.Context, candidate string) (model.Identifier, error)
	Fetch(ctx context.Context, id model.Identifier) (*model.LookupResult, error)
	History() *model.History
}

// SaveFormat selects what Save writes.
type SaveFormat string

const (
	// FormatText writes the output area exactly as displayed.
	FormatText SaveFormat = "text"
	// FormatJSON writes the last result as indented JSON.
	FormatJSON SaveFormat = "json"
	// FormatYAML writes the last result converted to YAML.
	FormatYAML SaveFormat = "yaml"
)

// ParseSaveFormat converts a string to a SaveFormat. Empty means text.
func ParseSaveFormat(s string) (SaveFormat, error) {
	switch f := SaveFormat(strings.ToLower(s)); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid save format: %q (valid: text, json, yaml)", s)
	}
}

// Session is the explicit application state.
type Session struct {
	// Input is the current contents of the NIK input.
	Input string

	// SavePath is the current contents of the file-name input.
	SavePath string

	runner Runner
	output render.Output
	last   *model.LookupResult
}

// New creates a session around runner.
func New(runner Runner) *Session {
	return &Session{runner: runner}
}

// Output returns the session's output area.
func (s *Session) Output() *render.Output {
	return &s.output
}

// History returns the identifiers looked up so far.
func (s *Session) History() *model.History {
	return s.runner.History()
}

// Last returns the result currently shown in the output area, or nil.
// It follows the output: a failed request or Clear drops it, while a
// rejected NIK or failed connectivity check keeps it.
func (s *Session) Last() *model.LookupResult {
	return s.last
}

// Lookup runs a lookup for candidate. An empty candidate uses Input.
//
// Invalid input and connectivity failures leave the previous output in
// place and append an error line. Once the request is about to be sent,
// the output is reset to a "Loading..." line followed by either the
// result or an error.
func (s *Session) Lookup(ctx context.Context, candidate string) (*model.LookupResult, error) {
	if candidate == "" {
		candidate = s.Input
	} else {
		s.Input = candidate
	}

	id, err := s.runner.Check(ctx, candidate)
	if err != nil {
		return nil, s.fail(err)
	}

	// From here on the previous result is no longer displayed.
	s.output.Reset()
	s.last = nil
	s.output.Append(render.TagInfo, "Loading...")

	res, err := s.runner.Fetch(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}

	s.last = res
	s.output.Appendf(render.TagHeader, "Result for NIK %s:", res.Identifier)
	s.output.Append(render.TagResult, res.Formatted)
	return res, nil
}

// Save writes to path in the given format, replacing any existing file.
// An empty path uses SavePath. If both are empty, nothing is written.
//
// Returns a CLIError with ExitFileWriteFailed on any failure.
func (s *Session) Save(path string, format SaveFormat) error {
	if path == "" {
		path = s.SavePath
	} else {
		s.SavePath = path
	}
	if strings.TrimSpace(path) == "" {
		return s.fail(model.NewCLIError(model.ExitFileWriteFailed,
			"enter a file name to save the result to"))
	}

	data, err := s.contentFor(format)
	if err != nil {
		return s.fail(err)
	}

	// os.WriteFile truncates an existing file, matching "overwrite" semantics.
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return s.fail(model.WrapCLIError(model.ExitFileWriteFailed,
			fmt.Sprintf("failed to save to %s", path), err))
	}

	s.output.Appendf(render.TagInfo, "Info: saved to %s", path)
	return nil
}

// contentFor returns the bytes to save for format.
func (s *Session) contentFor(format SaveFormat) ([]byte, error) {
	switch format {
	case FormatText, "":
		return []byte(s.output.Text()), nil
	case FormatJSON, FormatYAML:
		if s.last == nil {
			return nil, model.NewCLIError(model.ExitFileWriteFailed,
				fmt.Sprintf("no lookup result to save as %s", format))
		}
		if format == FormatJSON {
			return []byte(s.last.Formatted + "\n"), nil
		}
		y, err := render.ToYAML(s.last.Raw)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitFileWriteFailed, "failed to convert result to YAML", err)
		}
		return []byte(y), nil
	default:
		return nil, model.NewCLIError(model.ExitFileWriteFailed,
			fmt.Sprintf("invalid save format: %q", format))
	}
}

// Pick selects a history entry as the current Input. ref is either a
// 1-based position in the history list or a literal NIK already in it.
func (s *Session) Pick(ref string) (model.Identifier, error) {
	h := s.History()

	if n, err := strconv.Atoi(ref); err == nil && len(ref) < model.IdentifierLength {
		id, ok := h.At(n)
		if !ok {
			return "", s.fail(fmt.Errorf("no history entry #%d (history has %d)", n, h.Len()))
		}
		s.Input = id.String()
		return id, nil
	}

	id, err := model.ParseIdentifier(ref)
	if err != nil {
		return "", s.fail(err)
	}
	if !h.Contains(id) {
		return "", s.fail(fmt.Errorf("NIK %s is not in history", id))
	}
	s.Input = id.String()
	return id, nil
}

// Clear empties the NIK input, the file-name input, the output area and
// the last result. History is kept.
func (s *Session) Clear() {
	s.Input = ""
	s.SavePath = ""
	s.last = nil
	s.output.Reset()
}

// Annotate records an informational line in the output area.
func (s *Session) Annotate(format string, args ...interface{}) {
	s.output.Appendf(render.TagInfo, "Info: "+format, args...)
}

// fail appends an inline error annotation and returns err unchanged.
func (s *Session) fail(err error) error {
	s.output.Appendf(render.TagError, "Error: %s", Describe(err))
	return err
}

// Describe returns the user-facing message for err. Cancellation is
// reported plainly instead of as a transport failure.
func Describe(err error) string {
	if errors.Is(err, context.Canceled) {
		return "lookup cancelled"
	}
	return err.Error()
}
