// Package source holds the loaded text of a .ui file and the span type
// diagnostics are anchored to.
package source

import (
	"fmt"
	"os"
	"strings"
)

// File is a loaded source file: its raw lines plus enough bookkeeping
// that a Span can be re-quoted for a diagnostic without re-reading disk.
//
// Lines are 1-based: Lines[0] is a sentinel empty line so that
// Lines[n] is line n directly, matching the spec's 1-based addressing.
// A trailing empty line is always present so a span ending at EOF can be
// quoted without a bounds check.
type File struct {
	Path  string
	Text  string
	lines []string
}

// Load reads path, normalizes its bytes (BOM strip + NFC), and splits it
// into lines with the sentinel/trailing padding described above.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return newFile(path, raw), nil
}

// New builds a File directly from in-memory text, for the repl and tests.
func New(path, text string) *File {
	return newFile(path, []byte(text))
}

func newFile(path string, raw []byte) *File {
	raw = Normalize(raw)
	text := string(raw)
	lines := strings.Split(text, "\n")
	all := make([]string, 0, len(lines)+2)
	all = append(all, "") // line 0 sentinel
	all = append(all, lines...)
	all = append(all, "") // trailing empty line
	return &File{Path: path, Text: text, lines: all}
}

// Line returns line n's text, or "" if n is out of range.
func (f *File) Line(n int) string {
	if n < 0 || n >= len(f.lines) {
		return ""
	}
	return f.lines[n]
}

// LineCount returns the number of addressable lines, including the
// sentinel and trailing padding.
func (f *File) LineCount() int { return len(f.lines) }

// Internal returns a Span for f that carries no real source range; used
// for synthetic nodes (e.g. a parser-inserted Text wrapper). Internal
// spans suppress source-quoting in diagnostics.
func (f *File) Internal() Span {
	return Span{File: f, internal: true}
}

// Span is a half-open source range: (StartLine, StartColumn) to
// (EndLine, EndColumn), 1-based, referencing the File it came from.
type Span struct {
	File       *File
	StartLine  int
	StartCol   int
	EndLine    int
	EndCol     int
	internal   bool
}

// IsInternal reports whether this span was synthesized rather than
// lifted from real source text.
func (s Span) IsInternal() bool { return s.internal }

// Merge returns the minimal span enclosing both a and b. Both spans must
// reference the same File; Merge panics otherwise, since merging spans
// across files is always a caller bug, not a recoverable condition.
func Merge(a, b Span) Span {
	if a.File != b.File {
		panic("source: Merge called on spans from different files")
	}
	if a.internal && b.internal {
		return Span{File: a.File, internal: true}
	}
	lo, hi := a, b
	if after(a.StartLine, a.StartCol, b.StartLine, b.StartCol) {
		lo, hi = b, a
	}
	end := lo
	if after(hi.EndLine, hi.EndCol, lo.EndLine, lo.EndCol) {
		end = hi
	}
	return Span{
		File:      a.File,
		StartLine: lo.StartLine,
		StartCol:  lo.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

func after(l1, c1, l2, c2 int) bool {
	if l1 != l2 {
		return l1 > l2
	}
	return c1 > c2
}

// String renders "path:line:col" for use in plain (non-quoted) messages.
func (s Span) String() string {
	path := "<internal>"
	if s.File != nil {
		path = s.File.Path
	}
	return fmt.Sprintf("%s:%d:%d", path, s.StartLine, s.StartCol)
}
