package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/stellarmap/pkg/pipeline"
	"github.com/matzehuels/stellarmap/pkg/star"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleConverged = lipgloss.NewStyle().Foreground(colorGreen)
	styleOverlap   = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// formatStats renders map statistics as a single dim line.
func formatStats(s pipeline.Stats) string {
	parts := []string{
		fmt.Sprintf("%d stars", s.Stars),
		fmt.Sprintf("%d lines", s.Connections),
		fmt.Sprintf("%d declutter passes", s.Iterations),
	}

	status := styleConverged.Render("no overlaps")
	if !s.Converged {
		status = styleOverlap.Render("overlaps remain")
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	return line + StyleDim.Render(" · ") + status
}

// printStats prints map statistics on a single line.
func printStats(s pipeline.Stats) {
	fmt.Println(formatStats(s))
}

// =============================================================================
// Catalog Display
// =============================================================================

// starTable renders stars as a bordered table.
func starTable(stars []star.Record) string {
	rows := make([][]string, len(stars))
	for i, s := range stars {
		rows[i] = []string{
			s.Name,
			s.Spectral,
			formatFloat(s.X),
			formatFloat(s.Y),
			formatFloat(s.Z),
			s.System,
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Spectral", "X", "Y", "Z", "System").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0:
				return base.Foreground(colorWhite)
			case 2, 3, 4:
				return base.Foreground(colorCyan).Align(lipgloss.Right)
			}
			return base.Foreground(colorGray)
		})
	return t.Render()
}

// printStar prints every field of one record.
func printStar(s star.Record) {
	fmt.Println(StyleTitle.Render(s.Name))
	printKeyValue("id", s.ID)
	printKeyValue("position", fmt.Sprintf("(%s, %s, %s) ly", formatFloat(s.X), formatFloat(s.Y), formatFloat(s.Z)))
	printKeyValue("distance", formatFloat(star.Distance(star.Vec3{}, s.Position()))+" ly")
	if s.Spectral != "" {
		printKeyValue("spectral", fmt.Sprintf("%s (class %s)", s.Spectral, s.Class()))
	}
	for _, f := range []struct {
		key  string
		v    float64
		unit string
	}{
		{"radius", s.Radius, "R☉"},
		{"mass", s.Mass, "M☉"},
		{"luminosity", s.Luminosity, "L☉"},
		{"temperature", s.Temperature, "K"},
	} {
		if f.v != 0 {
			printKeyValue(f.key, formatFloat(f.v)+" "+f.unit)
		}
	}
	if s.System != "" {
		printKeyValue("system", s.System)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
