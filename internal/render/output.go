package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
)

// Tag classifies a line in the output area.
type Tag string

const (
	TagHeader    Tag = "header"
	TagResult    Tag = "result"
	TagError     Tag = "error"
	TagInfo      Tag = "info"
	TagHighlight Tag = "highlight"
)

// tagStyles maps each tag to its terminal color.
var tagStyles = map[Tag]*pterm.Style{
	TagHeader:    pterm.NewStyle(pterm.FgCyan),
	TagResult:    pterm.NewStyle(pterm.FgLightGreen),
	TagError:     pterm.NewStyle(pterm.FgRed),
	TagInfo:      pterm.NewStyle(pterm.FgYellow),
	TagHighlight: pterm.NewStyle(pterm.FgBlue),
}

// Line is one entry in the output area. Text may span several physical
// lines (a formatted JSON document is a single Line).
type Line struct {
	Tag  Tag
	Text string
}

// Output is the read-only output area of a session.
//
// Lines are only appended or wiped all at once. Flush tracks how many
// lines have been written to the terminal so that an interactive loop can
// print just what changed since the previous action.
type Output struct {
	lines   []Line
	flushed int
}

// Append adds a line.
func (o *Output) Append(tag Tag, text string) {
	o.lines = append(o.lines, Line{Tag: tag, Text: text})
}

// Appendf adds a formatted line.
func (o *Output) Appendf(tag Tag, format string, args ...interface{}) {
	o.Append(tag, fmt.Sprintf(format, args...))
}

// Reset empties the output area.
func (o *Output) Reset() {
	o.lines = nil
	o.flushed = 0
}

// Len returns the number of lines.
func (o *Output) Len() int {
	return len(o.lines)
}

// Lines returns a copy of all lines.
func (o *Output) Lines() []Line {
	out := make([]Line, len(o.lines))
	copy(out, o.lines)
	return out
}

// Text returns the plain (unstyled) content, one Line per row, with a
// trailing newline. Empty output yields an empty string.
func (o *Output) Text() string {
	if len(o.lines) == 0 {
		return ""
	}
	var b strings.Builder
	for _, l := range o.lines {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Render writes every line to w with tag colors.
func (o *Output) Render(w io.Writer) {
	for _, l := range o.lines {
		writeLine(w, l)
	}
	o.flushed = len(o.lines)
}

// Flush writes lines appended since the last Render or Flush.
// It reports whether anything was written.
func (o *Output) Flush(w io.Writer) bool {
	if o.flushed >= len(o.lines) {
		return false
	}
	for _, l := range o.lines[o.flushed:] {
		writeLine(w, l)
	}
	o.flushed = len(o.lines)
	return true
}

func writeLine(w io.Writer, l Line) {
	style, ok := tagStyles[l.Tag]
	if !ok {
		_, _ = fmt.Fprintln(w, l.Text)
		return
	}
	_, _ = fmt.Fprintln(w, style.Sprint(l.Text))
}

// Banner is printed in the highlight style when the shell starts.
const Banner = ` +-+-+-+ +-+-+-+-+-+-+-+
 |N|I|K| |C|H|E|C|K|E|R|
 +-+-+-+ +-+-+-+-+-+-+-+`

// SetColor turns terminal styling on or off for the whole process.
func SetColor(enabled bool) {
	if enabled {
		pterm.EnableColor()
		return
	}
	pterm.DisableColor()
}
