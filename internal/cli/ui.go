package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/lockcheck/pkg/report"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary values
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

const iconArrow = "→"

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(os.Stderr, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

// printSummary prints the run totals to stderr, keeping stdout clean
// for the JSON report.
func printSummary(rep report.Report, failures int) {
	line := fmt.Sprintf("%s of %s packages published after %s",
		styleNumber.Render(fmt.Sprintf("%d", rep.PackagesAfterDate)),
		styleNumber.Render(fmt.Sprintf("%d", rep.TotalPackages)),
		styleValue.Render(rep.CutoffDate))

	switch {
	case failures > 0:
		line += styleWarning.Render(fmt.Sprintf(" (%d lookups failed)", failures))
	default:
		line += styleSuccess.Render(" ✓")
	}
	fmt.Fprintln(os.Stderr, line)
}
