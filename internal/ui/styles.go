// Package ui renders human-facing terminal output: styled status lines,
// the video info block, and the playlist result summary. Log output goes
// to stderr through zerolog; everything here is for stdout.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
)

// Symbols used as line prefixes in result output.
var Symbols = map[string]string{
	"pass": "✓",
	"fail": "✗",
	"skip": "•",
}

func PrintSuccess(text string) {
	fmt.Println(successStyle.Render(Symbols["pass"] + " " + text))
}

func PrintError(text string) {
	fmt.Println(errorStyle.Render(Symbols["fail"] + " " + text))
}

func PrintHeader(text string) {
	fmt.Println(headerStyle.Render(text))
}
