package ui

import "github.com/charmbracelet/lipgloss"

// Matrix color palette, alert colors on top for matches.
var (
	ColorMatrixGreen = lipgloss.Color("#00FF41")
	ColorGreen       = lipgloss.Color("#00CC33")
	ColorMidGreen    = lipgloss.Color("#008F11")
	ColorDimGreen    = lipgloss.Color("#004A0A")
	ColorAlert       = lipgloss.Color("#FF3300")
	ColorWarning     = lipgloss.Color("#FFAA00")
	ColorRadioWiFi   = lipgloss.Color("#FFCC00")
	ColorRadioBLE    = lipgloss.Color("#00FFAA")
)

// Pre-built styles
var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#002200")).
			Foreground(ColorMatrixGreen).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#002200")).
			Foreground(ColorGreen).
			Padding(0, 1)

	StyleStatusScanning = lipgloss.NewStyle().
				Foreground(ColorMatrixGreen).
				Bold(true)

	StyleStatusPaused = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	StylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorMidGreen)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true).
			Padding(0, 1)

	StyleMatchDevice = lipgloss.NewStyle().
				Foreground(ColorAlert).
				Bold(true)

	StyleMatchName = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true)

	StyleMatchMAC = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleMatchReason = lipgloss.NewStyle().
				Foreground(ColorWarning)

	StyleMatchRSSI = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleRadioWiFi = lipgloss.NewStyle().
			Foreground(ColorRadioWiFi)

	StyleRadioBLE = lipgloss.NewStyle().
			Foreground(ColorRadioBLE)

	StyleCursorLine = lipgloss.NewStyle().
			Background(lipgloss.Color("#003300"))

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorDimGreen)

	StyleSparkline = lipgloss.NewStyle().
			Foreground(ColorGreen)
)
