package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
)

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintln(w, successStyle.Render("✓ "+message))
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintln(w, errorStyle.Render("✗ "+message))
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintln(w, warningStyle.Render("! "+message))
}

// PrintInfo prints an informational message
func PrintInfo(w io.Writer, message string) {
	fmt.Fprintln(w, infoStyle.Render(message))
}

// PrintHeader prints a bold header line
func PrintHeader(w io.Writer, message string) {
	fmt.Fprintln(w, headerStyle.Render(message))
}
