package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"aircanary.dev/internal/pipeline"
)

// RenderMatchList renders the scrolling list of recent matches, newest
// first. cursor is the highlighted row.
func RenderMatchList(matches []pipeline.Match, width, height, cursor int) string {
	innerW := width - 4
	innerH := height - 3
	if innerW < 20 {
		innerW = 20
	}
	if innerH < 1 {
		innerH = 1
	}

	var rows []string
	if len(matches) == 0 {
		rows = append(rows, StyleHelp.Render("  listening..."))
	}

	start := 0
	if cursor >= innerH {
		start = cursor - innerH + 1
	}
	for i := start; i < len(matches) && len(rows) < innerH; i++ {
		row := renderMatchRow(matches[i], innerW)
		if i == cursor {
			row = StyleCursorLine.Render(row)
		}
		rows = append(rows, row)
	}

	title := StylePanelTitle.Render(fmt.Sprintf("MATCHES (%d)", len(matches)))
	body := strings.Join(rows, "\n")
	panel := StylePanelBorder.Width(width - 2).Height(height - 2).Render(title + "\n" + body)
	return panel
}

func renderMatchRow(m pipeline.Match, width int) string {
	radio := StyleRadioBLE.Render("BLE ")
	if m.Radio == "wifi" {
		radio = StyleRadioWiFi.Render("WIFI")
	}

	// A nameless BLE device still identifies itself by company ID.
	who := m.Name
	if who == "" && m.HasMfr {
		who = LookupVendor(m.Mfr)
	}
	if who == "" {
		who = "(hidden)"
	}
	device := m.Device
	if device == "" && len(m.Reasons) > 0 {
		device = m.Reasons[0].Detail
	}

	line := fmt.Sprintf(" %s %s %s %s %s %s",
		StyleHelp.Render(m.Time.Format("15:04:05")),
		radio,
		StyleMatchMAC.Render(m.MAC),
		StyleMatchName.Render(padTrim(who, 18)),
		StyleMatchRSSI.Render(fmt.Sprintf("%4ddBm", m.RSSI)),
		StyleMatchDevice.Render(device),
	)
	if lipgloss.Width(line) > width {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}

// RenderMatchDetail renders the reasons of one match.
func RenderMatchDetail(m pipeline.Match, width int) string {
	var parts []string
	for _, r := range m.Reasons {
		parts = append(parts, fmt.Sprintf("%s(%s)", r.Category, r.Detail))
	}
	if m.HasMfr {
		vendor := LookupVendor(m.Mfr)
		if vendor == "" {
			vendor = fmt.Sprintf("0x%04X", m.Mfr)
		}
		parts = append(parts, "vendor "+vendor)
	}
	line := " " + StyleMatchReason.Render(strings.Join(parts, "  "))
	if lipgloss.Width(line) > width {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}

func padTrim(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}
