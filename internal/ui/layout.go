package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout stacks the bars and the match panel into the final frame.
func ComposeLayout(menuBar, matchPanel, detail, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, matchPanel, detail, statusBar)
}
