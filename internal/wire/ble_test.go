package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func adStructure(adType byte, data ...byte) []byte {
	return append([]byte{byte(len(data) + 1), adType}, data...)
}

func TestParseBleAdvertisementName(t *testing.T) {
	mac := [6]byte{0xC0, 0x01, 0x02, 0x03, 0x04, 0x05}
	payload := adStructure(0x09, []byte("Flock")...)

	ev := ParseBleAdvertisement(payload, mac, -70, time.Unix(5, 0))
	assert.Equal(t, mac, ev.MAC)
	assert.True(t, ev.HasName)
	assert.Equal(t, "Flock", ev.Name)
	assert.Equal(t, int8(-70), ev.RSSI)
}

func TestParseBleAdvertisementCompleteNameWins(t *testing.T) {
	payload := adStructure(0x08, []byte("FS E")...)
	payload = append(payload, adStructure(0x09, []byte("FS Ext Battery")...)...)

	ev := ParseBleAdvertisement(payload, [6]byte{}, -60, time.Now())
	assert.Equal(t, "FS Ext Battery", ev.Name)
}

func TestParseBleAdvertisementShortNameNotReplacedByAnother(t *testing.T) {
	payload := adStructure(0x09, []byte("Full")...)
	payload = append(payload, adStructure(0x08, []byte("Sh")...)...)

	ev := ParseBleAdvertisement(payload, [6]byte{}, -60, time.Now())
	assert.Equal(t, "Full", ev.Name)
}

func TestParseBleAdvertisementServiceUUIDs(t *testing.T) {
	// Two 16-bit UUIDs, little-endian: 0x3100 and 0x180A.
	payload := adStructure(0x03, 0x00, 0x31, 0x0A, 0x18)

	ev := ParseBleAdvertisement(payload, [6]byte{}, -60, time.Now())
	assert.Equal(t, []uint16{0x3100, 0x180A}, ev.ServiceUUIDs)
}

func TestParseBleAdvertisementUUIDCap(t *testing.T) {
	var data []byte
	for i := 0; i < 12; i++ {
		data = append(data, byte(i), 0x31)
	}
	ev := ParseBleAdvertisement(adStructure(0x03, data...), [6]byte{}, -60, time.Now())
	assert.Len(t, ev.ServiceUUIDs, 8)
}

func TestParseBleAdvertisementManufacturer(t *testing.T) {
	// 0x09C8 little-endian, trailing vendor bytes ignored.
	payload := adStructure(0xFF, 0xC8, 0x09, 0xDE, 0xAD)

	ev := ParseBleAdvertisement(payload, [6]byte{}, -60, time.Now())
	assert.True(t, ev.HasManufacturer)
	assert.Equal(t, uint16(0x09C8), ev.ManufacturerID)
}

func TestParseBleAdvertisementTruncatedStopsKeepingPartial(t *testing.T) {
	payload := adStructure(0x09, []byte("Penguin")...)
	// Declared length 20 with only 2 bytes remaining.
	payload = append(payload, 20, 0xFF, 0x01)

	ev := ParseBleAdvertisement(payload, [6]byte{}, -60, time.Now())
	assert.Equal(t, "Penguin", ev.Name)
	assert.False(t, ev.HasManufacturer)
}

func TestParseBleAdvertisementZeroLengthTerminates(t *testing.T) {
	payload := []byte{0x00, 0x09, 'X'}
	ev := ParseBleAdvertisement(payload, [6]byte{}, -60, time.Now())
	assert.False(t, ev.HasName)
}

func TestParseBleAdvertisementSkipsUnknownTypes(t *testing.T) {
	payload := adStructure(0x01, 0x06) // flags
	payload = append(payload, adStructure(0x09, []byte("Raven")...)...)

	ev := ParseBleAdvertisement(payload, [6]byte{}, -60, time.Now())
	assert.Equal(t, "Raven", ev.Name)
}

func TestParseBleAdvertisementNameCapacity(t *testing.T) {
	long := make([]byte, 40)
	for i := range long {
		long[i] = 'n'
	}
	ev := ParseBleAdvertisement(adStructure(0x09, long...), [6]byte{}, -60, time.Now())
	assert.Len(t, ev.Name, 32)
}

func TestParseBleAdvertisementNeverPanics(t *testing.T) {
	for n := 0; n < 48; n++ {
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = byte(n + i)
		}
		ParseBleAdvertisement(buf, [6]byte{}, -60, time.Now())
	}
}
