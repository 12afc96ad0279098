// Package protocol defines the line-oriented JSON messages exchanged with
// companion apps and the framing layer that extracts them from a byte
// stream. One message per newline-terminated line, at most MaxMessageLen
// bytes each.
package protocol

import "fmt"

// MatchReason is one entry of a result's match list.
type MatchReason struct {
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

// DeviceMessage is a message from the sensor to the host: a WiFi result, a
// BLE result, or a status report.
type DeviceMessage interface {
	deviceMessage()
}

// WifiResult reports one matched WiFi observation.
type WifiResult struct {
	Type    string        `json:"type"`
	MAC     string        `json:"mac"`
	SSID    string        `json:"ssid"`
	RSSI    int8          `json:"rssi"`
	Channel uint8         `json:"ch"`
	Frame   string        `json:"frame"`
	Match   []MatchReason `json:"match"`
	TS      int64         `json:"ts"`
}

// BleResult reports one matched BLE observation.
type BleResult struct {
	Type  string        `json:"type"`
	MAC   string        `json:"mac"`
	Name  string        `json:"name"`
	RSSI  int8          `json:"rssi"`
	Mfr   uint16        `json:"mfr"`
	Match []MatchReason `json:"match"`
	TS    int64         `json:"ts"`
}

// Status reports the sensor's health, either periodically or on request.
type Status struct {
	Type       string `json:"type"`
	Scanning   bool   `json:"scanning"`
	Uptime     int64  `json:"uptime"`
	HeapFree   uint64 `json:"heap_free"`
	BleClients int    `json:"ble_clients"`
	Board      string `json:"board"`
	Version    string `json:"version"`
}

func (WifiResult) deviceMessage() {}
func (BleResult) deviceMessage()  {}
func (Status) deviceMessage()     {}

// HostCommand is a command from the host to the sensor.
type HostCommand interface {
	hostCommand()
}

type Start struct{}

type Stop struct{}

type StatusRequest struct{}

type SetRssi struct {
	MinRSSI int8
}

type SetBuzzer struct {
	Enabled bool
}

func (Start) hostCommand()         {}
func (Stop) hostCommand()          {}
func (StatusRequest) hostCommand() {}
func (SetRssi) hostCommand()       {}
func (SetBuzzer) hostCommand()     {}

// FormatMAC renders a hardware address in the wire form, six uppercase hex
// byte pairs separated by colons.
func FormatMAC(mac [6]byte) string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X",
		mac[0], mac[1], mac[2], mac[3], mac[4], mac[5])
}
