// Package scanner is the radio glue: it owns the hardware and system
// integrations and feeds raw observations into the pipeline. The pipeline
// never touches a radio API directly; each source here speaks to it only
// through the frame and event entry points.
package scanner

import (
	"context"
	"net"
)

// Source is a radio producer with its own lifecycle.
type Source interface {
	Start(ctx context.Context) error
	Stop()
}

// parseMAC converts a textual hardware address into its 6 raw bytes.
func parseMAC(s string) ([6]byte, bool) {
	var mac [6]byte
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return mac, false
	}
	copy(mac[:], hw)
	return mac, true
}

// beaconFrame synthesizes a minimal management beacon for sources that see
// access points through a system scan rather than raw capture. The frame
// carries the BSSID at the beacon address offset and the SSID as its first
// information element, which is all the wire parser reads.
func beaconFrame(mac [6]byte, ssid string) []byte {
	frame := make([]byte, 36)
	frame[0] = 0x80
	copy(frame[16:22], mac[:])
	frame = append(frame, 0, byte(len(ssid)))
	return append(frame, ssid...)
}
