// Package ui holds the terminal palette and styles shared by the run summary and
// the setup wizard.
package ui

import "github.com/charmbracelet/lipgloss"

// Color Palette
var (
	SalmonPink  = lipgloss.Color("#FFB3BA") // primary accent
	CoralPink   = lipgloss.Color("#FFCCCB")
	MintGreen   = lipgloss.Color("#A8E6CF") // success
	MutedGray   = lipgloss.Color("#6B7280") // secondary text
	BrightWhite = lipgloss.Color("#F9FAFB")
	ErrorRed    = lipgloss.Color("203")
)

// Common Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(SalmonPink).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(BrightWhite)

	ValueStyle = lipgloss.NewStyle().
			Foreground(CoralPink)

	HintStyle = lipgloss.NewStyle().
			Foreground(MutedGray).
			Italic(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(MintGreen).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorRed).
			Bold(true)

	// BoxStyle frames summaries
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SalmonPink).
			Padding(0, 1)
)

// Field renders a "label: value" row with the label padded to width.
func Field(label string, width int, value string) string {
	return LabelStyle.Render(lipgloss.NewStyle().Width(width).Render(label+":")) + " " + ValueStyle.Render(value)
}
