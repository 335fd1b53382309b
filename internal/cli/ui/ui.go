// Package ui provides styling and output helpers for the CLI.
package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"
)

var (
	// ErrorStyle is the style for error messages
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))

	// SuccessStyle is the style for success messages
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))

	// WarningStyle is the style for warning messages
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAA00"))

	// DimStyle is the style for dimmed text
	DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	// BoldStyle is the style for bold text
	BoldStyle = lipgloss.NewStyle().Bold(true)
)

// Error prints an error message to stderr
func Error(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s\n", ErrorStyle.Render(fmt.Sprintf(format, args...)))
}

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Printf("%s\n", SuccessStyle.Render(fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Printf("%s\n", WarningStyle.Render(fmt.Sprintf(format, args...)))
}

// Info prints a plain informational message
func Info(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

// NewTable creates a table with consistent styling
func NewTable(headers ...interface{}) table.Table {
	tbl := table.New(headers...)
	tbl.WithFirstColumnFormatter(func(format string, vals ...interface{}) string {
		return BoldStyle.Render(fmt.Sprintf(format, vals...))
	})
	tbl.WithPadding(2)
	tbl.WithWidthFunc(lipgloss.Width)
	return tbl
}
