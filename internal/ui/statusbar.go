package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, scanning bool, wifi, ble uint64, minRSSI int8, buzzer bool, clients int, uptime time.Duration) string {
	status := ""
	if scanning {
		status = StyleStatusScanning.Render("[SCANNING]")
	} else {
		status = StyleStatusPaused.Render("[PAUSED]")
	}

	buzz := "off"
	if buzzer {
		buzz = "on"
	}
	info := fmt.Sprintf(" WiFi hits: %d  BLE hits: %d  Min RSSI: %ddBm  Buzzer: %s  Clients: %d  Up: %s",
		wifi, ble, minRSSI, buzz, clients, uptime.Round(time.Second))

	content := status + StyleStatusBar.Foreground(ColorGreen).Render(info)

	gap := width - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}

	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
