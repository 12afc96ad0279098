package wire

import (
	"encoding/binary"
	"time"

	"aircanary.dev/internal/config"
)

// AD types from the Bluetooth assigned numbers we care about.
const (
	adUUID16Incomplete = 0x02
	adUUID16Complete   = 0x03
	adNameShort        = 0x08
	adNameComplete     = 0x09
	adManufacturer     = 0xFF
)

// ParseBleAdvertisement decodes the AD structures of a BLE advertising
// payload. Each structure is [len][type][len-1 bytes of data]. A zero
// length or a structure running past the end of the buffer terminates the
// walk; whatever was decoded up to that point is kept, since truncated
// captures are routine.
func ParseBleAdvertisement(payload []byte, mac [6]byte, rssi int8, ts time.Time) BleEvent {
	ev := BleEvent{
		MAC:  mac,
		RSSI: rssi,
		Time: ts,
	}

	for pos := 0; pos < len(payload); {
		length := int(payload[pos])
		if length == 0 || pos+1+length > len(payload) {
			break
		}
		adType := payload[pos+1]
		data := payload[pos+2 : pos+1+length]

		switch adType {
		case adNameShort, adNameComplete:
			// A complete name replaces a shortened one seen earlier.
			if !ev.HasName || adType == adNameComplete {
				ev.Name = truncateText(data, config.MaxNameLen)
				ev.HasName = true
			}
		case adUUID16Incomplete, adUUID16Complete:
			for i := 0; i+2 <= len(data); i += 2 {
				if len(ev.ServiceUUIDs) >= config.MaxServiceUUIDs {
					break
				}
				ev.ServiceUUIDs = append(ev.ServiceUUIDs, binary.LittleEndian.Uint16(data[i:]))
			}
		case adManufacturer:
			if len(data) >= 2 {
				ev.ManufacturerID = binary.LittleEndian.Uint16(data)
				ev.HasManufacturer = true
			}
		}

		pos += 1 + length
	}

	return ev
}
