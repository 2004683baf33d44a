// Package progress prints the human-readable line shown before each pipeline
// step.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/pavlovdog/hyperindex/pkg/logging"
)

// Printer writes progress lines. Styling is applied only when the writer is
// a terminal.
type Printer struct {
	mu    sync.Mutex
	w     io.Writer
	color bool

	step lipgloss.Style
	warn lipgloss.Style
	done lipgloss.Style
}

// New creates a Printer writing to w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:     w,
		color: logging.IsTerminal(w),
		step:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("11")),
		done:  r.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

// Discard drops every line.
var Discard = New(io.Discard)

// Stdout prints to the process's standard output.
var Stdout = New(os.Stdout)

// Step announces that a step is about to run.
func (p *Printer) Step(format string, args ...any) {
	p.print(p.step, "› ", format, args...)
}

// Warn reports a non-fatal problem.
func (p *Printer) Warn(format string, args ...any) {
	p.print(p.warn, "! ", format, args...)
}

// Done reports a finished operation.
func (p *Printer) Done(format string, args ...any) {
	p.print(p.done, "✓ ", format, args...)
}

func (p *Printer) print(style lipgloss.Style, prefix, format string, args ...any) {
	line := prefix + fmt.Sprintf(format, args...)
	if p.color {
		line = style.Render(line)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.w, line)
}
