// Package cliui provides the terminal helpers shared by forkline commands:
// styles, spinners, aligned tables and markdown rendering.
package cliui

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
)

var (
	SuccessMark = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	FailMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")

	StepStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	KeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	ValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	NameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	DimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	HeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	WarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	PriceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

// NewWriter wraps w so styled output is downsampled to what the terminal
// supports, and stripped entirely when w is not a terminal.
func NewWriter(w io.Writer) io.Writer {
	return colorprofile.NewWriter(w, os.Environ())
}

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Step prints an animated spinner while fn runs, then replaces it with
// a ✓ or ✗ checkmark and elapsed time.
func Step(w io.Writer, msg string, fn func() error) error {
	done := make(chan struct{})
	stopped := make(chan struct{})
	var mu sync.Mutex

	go func() {
		defer close(stopped)

		frame := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			mu.Lock()
			fmt.Fprintf(w, "\r  %s %s",
				spinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)]),
				msg,
			)
			mu.Unlock()

			select {
			case <-done:
				return
			case <-ticker.C:
				frame++
			}
		}
	}()

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	close(done)
	<-stopped

	mu.Lock()
	fmt.Fprintf(w, "\r  %s %s %s\n",
		Mark(err),
		msg,
		StepStyle.Render(fmt.Sprintf("(%s)", FormatDuration(elapsed))),
	)
	mu.Unlock()

	return err
}

// Mark returns a ✓ for nil errors or ✗ for non-nil errors.
func Mark(err error) string {
	if err != nil {
		return FailMark
	}
	return SuccessMark
}

// FormatDuration formats a duration for display (e.g. "12ms" or "3.2s").
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// FormatPrice renders an amount with two decimals.
func FormatPrice(amount float64) string {
	return fmt.Sprintf("¥%.2f", amount)
}

// FormatSpecs renders selected dish options as "k=v" pairs in key order.
func FormatSpecs(specs map[string]any) string {
	if len(specs) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(specs))
	for _, k := range slices.Sorted(maps.Keys(specs)) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, specs[k]))
	}
	return strings.Join(parts, ", ")
}

// MaxCellWidth is the widest a Table cell is printed; longer cells are cut
// with an ellipsis.
const MaxCellWidth = 60

// Table writes rows as left-aligned columns. Column widths are measured on
// the rendered cells, so styled text aligns correctly.
func Table(w io.Writer, header []string, rows [][]string) {
	clipped := make([][]string, len(rows))
	for i, r := range rows {
		clipped[i] = make([]string, len(r))
		for j, cell := range r {
			clipped[i][j] = ansi.Truncate(cell, MaxCellWidth, "…")
		}
	}
	rows = clipped

	widths := make([]int, len(header))
	measure := func(row []string) {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	measure(header)
	for _, r := range rows {
		measure(r)
	}

	line := func(row []string, style *lipgloss.Style) {
		var b strings.Builder
		b.WriteString("  ")
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			pad := widths[i] - lipgloss.Width(cell)
			if style != nil {
				cell = style.Render(cell)
			}
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", pad+2))
			}
		}
		fmt.Fprintln(w, b.String())
	}

	line(header, &DimStyle)
	for _, r := range rows {
		line(r, nil)
	}
}

// RenderMarkdown renders markdown content for terminal display using glamour.
func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return content, err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content, err
	}

	return rendered, nil
}
