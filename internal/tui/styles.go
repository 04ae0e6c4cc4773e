package tui

import "github.com/charmbracelet/lipgloss"

// Amber storefront palette.
var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b"))
	logoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	badgeStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1f2937")).
			Background(lipgloss.Color("#f59e0b")).
			Padding(0, 1).
			Bold(true)

	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")).Bold(true).Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true)

	cursorRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fbbf24")).Bold(true)

	fieldLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af")).Width(12)
	focusedFieldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fbbf24"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4b5563"))
)

// orderStatusStyles maps backend order statuses to their display colour.
var orderStatusStyles = map[string]lipgloss.Style{
	"pending":   lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")),
	"confirmed": lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6")),
	"delivered": lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")),
	"cancelled": lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")),
}

func orderStatusStyle(status string) lipgloss.Style {
	if s, ok := orderStatusStyles[status]; ok {
		return s
	}
	return dimStyle
}
