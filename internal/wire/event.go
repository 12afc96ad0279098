// Package wire decodes raw radio captures into scan events.
//
// Both parsers operate on attacker-exposed bytes: they never index past the
// supplied buffer, never panic, and prefer partial results over aborting.
package wire

import "time"

// FrameType classifies a WiFi management frame.
type FrameType int

const (
	FrameBeacon FrameType = iota
	FrameProbeRequest
	FrameProbeResponse
	FrameOther
)

func (ft FrameType) String() string {
	switch ft {
	case FrameBeacon:
		return "beacon"
	case FrameProbeRequest:
		return "probe_req"
	case FrameProbeResponse:
		return "probe_resp"
	default:
		return "other"
	}
}

// WifiEvent is a parsed WiFi management frame.
//
// SSID presence is tri-state: HasSSID false means the frame carried no SSID
// element at all; HasSSID true with an empty SSID means a hidden network
// broadcasting a zero-length SSID.
type WifiEvent struct {
	MAC     [6]byte
	SSID    string
	HasSSID bool
	RSSI    int8
	Channel uint8
	Frame   FrameType
	Time    time.Time
}

// BleEvent is a parsed BLE advertisement.
type BleEvent struct {
	MAC             [6]byte
	Name            string
	HasName         bool
	RSSI            int8
	ManufacturerID  uint16
	HasManufacturer bool
	ServiceUUIDs    []uint16
	Time            time.Time
}

// Event is the closed set of scan events flowing through the pipeline.
// Only WifiEvent and BleEvent implement it.
type Event interface {
	Timestamp() time.Time
	isEvent()
}

func (e WifiEvent) Timestamp() time.Time { return e.Time }
func (e WifiEvent) isEvent()             {}

func (e BleEvent) Timestamp() time.Time { return e.Time }
func (e BleEvent) isEvent()             {}
