package diag

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/uidom/uidom/internal/source"
)

// Severity distinguishes warnings (compilation continues and may still
// succeed) from errors (compilation continues collecting diagnostics but
// code generation is aborted).
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is one reported condition: a code, a severity, the span it
// is anchored to, and a human-readable message.
type Diagnostic struct {
	Code     string
	Severity Severity
	Span     source.Span
	Message  string
}

var (
	errorLabel   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnLabel    = color.New(color.FgYellow, color.Bold).SprintFunc()
	gutterColor  = color.New(color.FgBlue).SprintFunc()
	underlineHue = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Render produces the multi-line, source-quoted rendering of a single
// diagnostic: two lines of context, a gutter, and an underline beneath the
// reported span. Internal spans render without quoting.
func (d Diagnostic) Render() string {
	var b strings.Builder

	label := warnLabel("warning")
	if d.Severity == Error {
		label = errorLabel("error")
	}
	fmt.Fprintf(&b, "%s[%s]: %s\n", label, d.Code, d.Message)

	if d.Span.IsInternal() || d.Span.File == nil {
		fmt.Fprintf(&b, "  --> %s\n", d.Span)
		return b.String()
	}

	fmt.Fprintf(&b, "  --> %s\n", d.Span)

	f := d.Span.File
	start := d.Span.StartLine
	end := d.Span.EndLine
	gutterWidth := digits(end + 1)

	printLine := func(n int) {
		fmt.Fprintf(&b, " %s %s %s\n", pad(strconv.Itoa(n), gutterWidth), gutterColor("|"), f.Line(n))
	}

	if start-1 >= 1 {
		printLine(start - 1)
	}
	for n := start; n <= end; n++ {
		printLine(n)
	}
	if end+1 < f.LineCount() {
		printLine(end + 1)
	}

	underlineStart := d.Span.StartCol
	underlineLen := 1
	if start == end && d.Span.EndCol > d.Span.StartCol {
		underlineLen = d.Span.EndCol - d.Span.StartCol
	}
	fmt.Fprintf(&b, " %s %s %s%s\n",
		strings.Repeat(" ", gutterWidth), gutterColor("|"),
		strings.Repeat(" ", max(underlineStart-1, 0)),
		underlineHue(strings.Repeat("^", max(underlineLen, 1))))

	return b.String()
}

func digits(n int) int {
	if n < 1 {
		return 1
	}
	return int(math.Log10(float64(n))) + 1
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Bag accumulates diagnostics across a whole compile. It is the
// implementation of the spec's "failure flag": Failed reports whether
// any accumulated diagnostic is an Error, regardless of how many
// warnings were also collected.
type Bag struct {
	entries []Diagnostic
}

// Errorf appends an Error-severity diagnostic.
func (b *Bag) Errorf(code string, span source.Span, format string, args ...any) {
	b.entries = append(b.entries, Diagnostic{Code: code, Severity: Error, Span: span, Message: fmt.Sprintf(format, args...)})
}

// Warnf appends a Warning-severity diagnostic.
func (b *Bag) Warnf(code string, span source.Span, format string, args ...any) {
	b.entries = append(b.entries, Diagnostic{Code: code, Severity: Warning, Span: span, Message: fmt.Sprintf(format, args...)})
}

// Failed reports whether any collected diagnostic is an error.
func (b *Bag) Failed() bool {
	for _, d := range b.entries {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// All returns every diagnostic collected so far, in report order.
func (b *Bag) All() []Diagnostic { return b.entries }

// Merge appends another bag's entries onto this one, preserving order.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.entries = append(b.entries, other.entries...)
}

// Render writes every diagnostic's rendering, in report order.
func (b *Bag) Render() string {
	var out strings.Builder
	for _, d := range b.entries {
		out.WriteString(d.Render())
	}
	return out.String()
}
