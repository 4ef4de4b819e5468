// Package style centralizes terminal styling for devsetup's human-facing
// output. Styling degrades to plain text when stdout is not a terminal or
// when colors are disabled explicitly.
package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// Status classifies a line in a status report.
type Status string

const (
	StatusOK      Status = "ok"      // Installed / correctly deployed
	StatusMissing Status = "missing" // Not installed / not deployed
	StatusWarn    Status = "warn"    // Present but out of sync
	StatusError   Status = "error"   // Check itself failed
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// IsTerminal reports whether stdout is an interactive terminal.
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// EnableColor turns styling on or off globally. Call once at startup; the
// CLI disables colors for --no-color and for non-terminal output.
func EnableColor(enabled bool) {
	if enabled {
		pterm.EnableColor()
		color.NoColor = false
		return
	}
	pterm.DisableColor()
	color.NoColor = true
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Glyph returns the status marker for a report line.
func Glyph(s Status) string {
	switch s {
	case StatusOK:
		return pterm.FgGreen.Sprint("✓")
	case StatusMissing:
		return pterm.FgRed.Sprint("✗")
	case StatusWarn:
		return pterm.FgYellow.Sprint("!")
	default:
		return pterm.FgRed.Sprint("?")
	}
}

// Header renders a section header.
func Header(s string) string {
	return headerStyle.Render(s)
}

// Dim renders secondary detail text.
func Dim(s string) string {
	return dimStyle.Render(s)
}

// Bold renders emphasized text.
func Bold(s string) string {
	return pterm.Bold.Sprint(s)
}
