package config

import "time"

const (
	// Wire protocol field capacities. Anything longer is truncated at the
	// encode boundary, never rejected.
	MaxMessageLen = 512 // whole encoded NDJSON record, newline included
	MaxNameLen    = 32  // SSID / BLE local name
	MaxDetailLen  = 31  // match reason detail text
	MACStringLen  = 17  // "AA:BB:CC:DD:EE:FF"
	MaxMatches    = 4   // match reasons per event

	// BLE advertisement parsing
	MaxServiceUUIDs = 8 // 16-bit service UUIDs kept per advertisement

	// Queue depths. These bound worst-case memory, not loss.
	ScanQueueDepth    = 16
	OutputQueueDepth  = 8
	CommandQueueDepth = 4

	// Filtering
	DefaultMinRSSI = -90 // dBm

	// BLE scan duty cycle
	ScanWindow = 4 * time.Second
	IdleWindow = 1 * time.Second

	// WiFi system-scan source (nmcli) poll interval
	WifiScanInterval = 10 * time.Second

	// Status reporting
	StatusInterval = 30 * time.Second

	// App
	AppName    = "AirCanary"
	AppVersion = "0.2.0"
)

// WifiChannels lists the 2.4 GHz channels a hopping frame source cycles
// through. Beacons broadcast roughly every 100ms, so the dwell time below
// reliably captures one per pass.
var WifiChannels = []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}

// ChannelDwell is the per-channel dwell time for a hopping frame source.
const ChannelDwell = 120 * time.Millisecond
