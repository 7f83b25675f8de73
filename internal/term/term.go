// Package term implements the user-facing terminal reporting used by the
// build pipeline: leveled print helpers plus minimal text styling. Styling is
// presentation only and never carries semantic meaning.
package term

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

// Reporter prints leveled, optionally styled messages to a single writer.
type Reporter struct {
	w     io.Writer
	color bool
}

// NewReporter returns a Reporter writing to w. Color is enabled only when w
// is a terminal and NO_COLOR is unset.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w, color: detectColor(w)}
}

// NewPlainReporter returns a Reporter with styling disabled, regardless of
// the writer. Used by tests and by --no-color.
func NewPlainReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

func detectColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Successf prints a success-level message.
func (r *Reporter) Successf(format string, args ...any) {
	fmt.Fprintf(r.w, "%s %s\n", r.style(ansiGreen, "success"), fmt.Sprintf(format, args...))
}

// Infof prints an info-level message.
func (r *Reporter) Infof(format string, args ...any) {
	fmt.Fprintf(r.w, "%s\n", fmt.Sprintf(format, args...))
}

// Warnf prints a warning-level message.
func (r *Reporter) Warnf(format string, args ...any) {
	fmt.Fprintf(r.w, "%s %s\n", r.style(ansiYellow, "warning"), fmt.Sprintf(format, args...))
}

// Blank prints an empty separator line.
func (r *Reporter) Blank() {
	fmt.Fprintln(r.w)
}

// Bold emphasizes s.
func (r *Reporter) Bold(s string) string {
	return r.style(ansiBold, s)
}

// Highlight marks s as a path or identifier of interest.
func (r *Reporter) Highlight(s string) string {
	return r.style(ansiCyan, s)
}

func (r *Reporter) style(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + ansiReset
}
