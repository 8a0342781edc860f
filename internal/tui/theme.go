package tui

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorAccent  = colorBlue
	colorBrand   = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Background(colorSurface0).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorOverlay1).
				Background(colorMantle).
				Padding(0, 1)

	statusStyle = lipgloss.NewStyle().Foreground(colorSubtext0)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorOverlay0)
	labelStyle  = lipgloss.NewStyle().Foreground(colorOverlay1).Bold(true)
	numberStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	focusBoxStyle = boxStyle.BorderForeground(colorFocus)

	heroStyle = lipgloss.NewStyle().
			Foreground(colorBase).
			Background(colorAccent).
			Bold(true).
			Padding(0, 2)

	cursorStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	// calendar cells
	todayCellStyle    = lipgloss.NewStyle().Foreground(colorBase).Background(colorAccent).Bold(true)
	selectedCellStyle = lipgloss.NewStyle().Foreground(colorAccent).Underline(true).Bold(true)
	cursorCellStyle   = lipgloss.NewStyle().Background(colorSurface1)
	dayCellStyle      = lipgloss.NewStyle().Foreground(colorText)
	cellTotalStyle    = lipgloss.NewStyle().Foreground(colorPeach)

	keypadKeyStyle    = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface0).Padding(0, 1)
	keypadActiveStyle = lipgloss.NewStyle().Foreground(colorBase).Background(colorFocus).Bold(true).Padding(0, 1)

	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
)
