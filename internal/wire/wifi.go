package wire

import (
	"time"
	"unicode/utf8"

	"aircanary.dev/internal/config"
)

// 802.11 management header layout. Addresses sit at fixed offsets from the
// start of the frame; the information-element region starts after the fixed
// parameters, which differ between probe requests and beacon-shaped frames.
const (
	offAddr2 = 10 // source / transmitter address
	offAddr3 = 16 // BSSID

	ieOffProbeReq = 24 // header only
	ieOffBeacon   = 36 // header + timestamp(8) + interval(2) + capability(2)

	ieTagSSID = 0
)

// ParseWifiFrame decodes a raw 802.11 frame with its out-of-band radio
// metadata. It returns false for anything that is not a management frame or
// is too short to carry the address its type requires. Declared element
// lengths are clamped to the buffer; a truncated capture yields a truncated
// SSID, never an out-of-bounds read.
func ParseWifiFrame(frame []byte, rssi int8, channel uint8, ts time.Time) (WifiEvent, bool) {
	if len(frame) < 2 {
		return WifiEvent{}, false
	}

	// Frame control: bits 2-3 type, bits 4-7 subtype. Type 0 is management.
	if (frame[0]>>2)&0x3 != 0 {
		return WifiEvent{}, false
	}
	subtype := frame[0] >> 4

	ev := WifiEvent{
		RSSI:    rssi,
		Channel: channel,
		Time:    ts,
	}

	var addrOff, ieOff int
	switch subtype {
	case 8: // beacon
		ev.Frame = FrameBeacon
		addrOff, ieOff = offAddr3, ieOffBeacon
	case 4: // probe request
		ev.Frame = FrameProbeRequest
		addrOff, ieOff = offAddr2, ieOffProbeReq
	case 5: // probe response
		ev.Frame = FrameProbeResponse
		addrOff, ieOff = offAddr2, ieOffBeacon
	default:
		// Other management frames still carry a useful transmitter
		// address for OUI matching, but no SSID.
		ev.Frame = FrameOther
		addrOff, ieOff = offAddr2, len(frame)
	}

	if len(frame) < addrOff+6 {
		return WifiEvent{}, false
	}
	copy(ev.MAC[:], frame[addrOff:addrOff+6])

	// Walk the information elements looking for the SSID tag. Each element
	// is [tag][len][data]; a declared length past the end of the buffer is
	// a truncated capture and the read is clamped.
	for pos := ieOff; pos+2 <= len(frame); {
		tag := frame[pos]
		declared := int(frame[pos+1])
		end := pos + 2 + declared
		if end > len(frame) {
			end = len(frame)
		}
		if tag == ieTagSSID {
			ev.HasSSID = true
			ev.SSID = truncateText(frame[pos+2:end], config.MaxNameLen)
			break
		}
		pos += 2 + declared
	}

	return ev, true
}

// truncateText copies at most max bytes, trimming a multi-byte rune split
// by the cut so the result does not end mid-sequence.
func truncateText(b []byte, max int) string {
	if len(b) <= max {
		return string(b)
	}
	b = b[:max]
	for i := 0; i < utf8.UTFMax-1 && len(b) > 0; i++ {
		r, _ := utf8.DecodeLastRune(b)
		if r != utf8.RuneError {
			break
		}
		b = b[:len(b)-1]
	}
	return string(b)
}
