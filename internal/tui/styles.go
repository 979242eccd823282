package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("#8B5CF6") // Violet
	ColorAccent  = lipgloss.Color("#F59E0B") // Amber
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorText    = lipgloss.Color("#F8FAFC") // Slate 50
	ColorMuted   = lipgloss.Color("#94A3B8") // Slate 400
	ColorDimmed  = lipgloss.Color("#374151") // Dark Gray
	ColorPanel   = lipgloss.Color("#1E293B") // Slate 800
	ColorCursor  = lipgloss.Color("#3B0764") // Purple 950
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	ActiveTabStyle = TabStyle.
			Foreground(ColorText).
			Background(ColorPrimary).
			Bold(true)

	DisplayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1).
			Align(lipgloss.Right)

	PreviousLineStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	MainLineStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	ErrorLineStyle = MainLineStyle.
			Foreground(ColorError)

	InfoLineStyle = MainLineStyle.
			Foreground(ColorAccent)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Italic(true)
)

// Keypad cells
var (
	cellWidth = 8

	ButtonStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Center).
			Foreground(ColorText).
			Background(ColorPanel)

	OperatorButtonStyle = ButtonStyle.
				Foreground(ColorAccent)

	EqualsButtonStyle = ButtonStyle.
				Foreground(ColorText).
				Background(ColorPrimary).
				Bold(true)

	DisabledButtonStyle = ButtonStyle.
				Foreground(ColorDimmed)

	CursorButtonStyle = ButtonStyle.
				Background(ColorCursor).
				Underline(true)
)
