// Package ui holds terminal output styling for the interfacer CLI.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	ColorSuccess = lipgloss.Color("#00D26A") // green  — success, confirmed tx
	ColorWarning = lipgloss.Color("#FFB800") // yellow — warnings
	ColorError   = lipgloss.Color("#FF4444") // red    — errors
	ColorAddress = lipgloss.Color("#00B4D8") // cyan   — addresses, hashes
	ColorValue   = lipgloss.Color("#FFFFFF") // white bold — amounts
	ColorMeta    = lipgloss.Color("#555555") // dim gray — metadata
	ColorBorder  = lipgloss.Color("#1E3A5F") // dark blue — UI chrome
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Addr formats an address or hash.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats dim metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// KeyValueBlock renders a bordered block of aligned key/value pairs.
func KeyValueBlock(title string, pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		if len(p[0]) > width {
			width = len(p[0])
		}
	}

	var b strings.Builder
	b.WriteString(StyleValue.Render(title))
	for _, p := range pairs {
		// Pad before styling so ANSI codes don't break alignment.
		key := fmt.Sprintf("%-*s", width, p[0])
		b.WriteString("\n" + StyleMeta.Render(key) + "  " + p[1])
	}
	return StyleBorder.Render(b.String())
}
