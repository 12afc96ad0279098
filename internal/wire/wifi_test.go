package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMgmtFrame assembles a minimal management frame. Beacon and probe
// response frames carry the 12-byte fixed parameters before the IEs, probe
// requests do not.
func buildMgmtFrame(subtype byte, mac [6]byte, ies []byte) []byte {
	frame := make([]byte, 24)
	frame[0] = subtype << 4
	if subtype == 8 {
		copy(frame[16:22], mac[:]) // addr3
	} else {
		copy(frame[10:16], mac[:]) // addr2
	}
	if subtype == 8 || subtype == 5 {
		frame = append(frame, make([]byte, 12)...)
	}
	return append(frame, ies...)
}

func ssidIE(ssid string) []byte {
	return append([]byte{0, byte(len(ssid))}, ssid...)
}

func TestParseWifiFrameBeacon(t *testing.T) {
	mac := [6]byte{0xB4, 0x1E, 0x52, 0xAA, 0xBB, 0xCC}
	frame := buildMgmtFrame(8, mac, ssidIE("Flock-A1B2C3"))

	ev, ok := ParseWifiFrame(frame, -65, 6, time.Unix(100, 0))
	require.True(t, ok)
	assert.Equal(t, FrameBeacon, ev.Frame)
	assert.Equal(t, mac, ev.MAC)
	assert.True(t, ev.HasSSID)
	assert.Equal(t, "Flock-A1B2C3", ev.SSID)
	assert.Equal(t, int8(-65), ev.RSSI)
	assert.Equal(t, uint8(6), ev.Channel)
}

func TestParseWifiFrameProbeRequest(t *testing.T) {
	mac := [6]byte{0x02, 0x11, 0x22, 0x33, 0x44, 0x55}
	frame := buildMgmtFrame(4, mac, ssidIE("TestNet"))

	ev, ok := ParseWifiFrame(frame, -40, 1, time.Now())
	require.True(t, ok)
	assert.Equal(t, FrameProbeRequest, ev.Frame)
	assert.Equal(t, mac, ev.MAC)
	assert.Equal(t, "TestNet", ev.SSID)
}

func TestParseWifiFrameProbeResponse(t *testing.T) {
	mac := [6]byte{0x02, 0x11, 0x22, 0x33, 0x44, 0x55}
	frame := buildMgmtFrame(5, mac, ssidIE("Resp"))

	ev, ok := ParseWifiFrame(frame, -40, 11, time.Now())
	require.True(t, ok)
	assert.Equal(t, FrameProbeResponse, ev.Frame)
	assert.Equal(t, "Resp", ev.SSID)
}

func TestParseWifiFrameSSIDStates(t *testing.T) {
	mac := [6]byte{1, 2, 3, 4, 5, 6}

	// Present but empty: hidden network broadcasting a zero-length SSID.
	ev, ok := ParseWifiFrame(buildMgmtFrame(8, mac, []byte{0, 0}), -50, 1, time.Now())
	require.True(t, ok)
	assert.True(t, ev.HasSSID)
	assert.Equal(t, "", ev.SSID)

	// Absent: no SSID element at all.
	ev, ok = ParseWifiFrame(buildMgmtFrame(8, mac, nil), -50, 1, time.Now())
	require.True(t, ok)
	assert.False(t, ev.HasSSID)
}

func TestParseWifiFrameOtherManagement(t *testing.T) {
	mac := [6]byte{1, 2, 3, 4, 5, 6}
	frame := buildMgmtFrame(11, mac, nil) // authentication

	ev, ok := ParseWifiFrame(frame, -50, 1, time.Now())
	require.True(t, ok)
	assert.Equal(t, FrameOther, ev.Frame)
	assert.Equal(t, mac, ev.MAC)
	assert.False(t, ev.HasSSID)
}

func TestParseWifiFrameRejectsNonManagement(t *testing.T) {
	// Type bits 0b10 = data frame.
	frame := make([]byte, 64)
	frame[0] = 0x08
	_, ok := ParseWifiFrame(frame, -50, 1, time.Now())
	assert.False(t, ok)

	_, ok = ParseWifiFrame(nil, -50, 1, time.Now())
	assert.False(t, ok)

	_, ok = ParseWifiFrame([]byte{0x80}, -50, 1, time.Now())
	assert.False(t, ok)
}

func TestParseWifiFrameTruncatedIE(t *testing.T) {
	mac := [6]byte{1, 2, 3, 4, 5, 6}
	// Declared SSID length 30 but only 4 bytes follow.
	ies := append([]byte{0, 30}, "abcd"...)
	ev, ok := ParseWifiFrame(buildMgmtFrame(8, mac, ies), -50, 1, time.Now())
	require.True(t, ok)
	assert.True(t, ev.HasSSID)
	assert.Equal(t, "abcd", ev.SSID)
}

func TestParseWifiFrameSSIDCapacity(t *testing.T) {
	mac := [6]byte{1, 2, 3, 4, 5, 6}
	long := make([]byte, 40)
	for i := range long {
		long[i] = 'x'
	}
	ies := append([]byte{0, byte(len(long))}, long...)
	ev, ok := ParseWifiFrame(buildMgmtFrame(8, mac, ies), -50, 1, time.Now())
	require.True(t, ok)
	assert.Len(t, ev.SSID, 32)
}

func TestParseWifiFrameSkipsLeadingIEs(t *testing.T) {
	mac := [6]byte{1, 2, 3, 4, 5, 6}
	// Supported-rates element before the SSID.
	ies := []byte{1, 3, 0x82, 0x84, 0x8B}
	ies = append(ies, ssidIE("After")...)
	ev, ok := ParseWifiFrame(buildMgmtFrame(8, mac, ies), -50, 1, time.Now())
	require.True(t, ok)
	assert.Equal(t, "After", ev.SSID)
}

func TestParseWifiFrameNeverPanics(t *testing.T) {
	// Sweep short buffers and hostile declared lengths.
	for n := 0; n < 64; n++ {
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = 0xFF
		}
		if n > 0 {
			buf[0] = 0x80 // beacon
		}
		ParseWifiFrame(buf, -50, 1, time.Now())
	}
}
