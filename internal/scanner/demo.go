package scanner

import (
	"context"
	"encoding/binary"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"aircanary.dev/internal/pipeline"
	"aircanary.dev/internal/wire"
)

// demoDevice is one synthetic transmitter. WiFi devices emit beacon frames,
// BLE devices emit advertisement payloads; both go through the real wire
// parsers so demo mode exercises the same path as live capture.
type demoDevice struct {
	mac     [6]byte
	ssid    string // WiFi only
	channel uint8

	ble   bool
	name  string
	mfr   uint16
	uuids []uint16

	baseRSSI  float64
	phase     float64
	amplitude float64
	active    bool
}

// DemoScanner fabricates a neighborhood of devices for demo mode: a few
// that the signature database should flag, surrounded by ordinary traffic.
type DemoScanner struct {
	pipe    *pipeline.Pipeline
	log     *slog.Logger
	devices []demoDevice
	cancel  context.CancelFunc
}

func NewDemoScanner(pipe *pipeline.Pipeline, log *slog.Logger) *DemoScanner {
	devices := []demoDevice{
		// The ones we are looking for.
		{mac: ouiMAC(0xB4, 0x1E, 0x52), ssid: "Flock-A1B2C3", channel: 6},
		{mac: randomMAC(), ssid: "Penguin-0123456789", channel: 11},
		{mac: randomMAC(), ble: true, name: "FS Ext Battery", mfr: 0x09C8},
		{mac: randomMAC(), ble: true, name: "RVN-0042", uuids: []uint16{0x3300, 0x180A}},
		{mac: randomMAC(), ble: true, name: "Flipper Unicorn"},

		// Background noise.
		{mac: randomMAC(), ssid: "HomeNetwork_2G", channel: 1},
		{mac: randomMAC(), ssid: "XFINITY-7A3F", channel: 6},
		{mac: randomMAC(), ssid: "TP-Link_5GHz", channel: 36},
		{mac: randomMAC(), ssid: "", channel: 3}, // hidden network
		{mac: randomMAC(), ble: true, name: "iPhone 15 Pro", mfr: 0x004C},
		{mac: randomMAC(), ble: true, name: "Galaxy Buds Pro", mfr: 0x0075},
		{mac: randomMAC(), ble: true, name: "", mfr: 0x004C},
		{mac: randomMAC(), ble: true, name: "JBL Flip 6"},
	}
	for i := range devices {
		devices[i].baseRSSI = -40 - rand.Float64()*45
		devices[i].phase = rand.Float64() * 2 * math.Pi
		devices[i].amplitude = 3 + rand.Float64()*8
		devices[i].active = true
	}
	return &DemoScanner{pipe: pipe, log: log, devices: devices}
}

func (s *DemoScanner) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.loop(ctx)
	s.log.Info("demo mode", "devices", len(s.devices))
	return nil
}

func (s *DemoScanner) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *DemoScanner) loop(ctx context.Context) {
	ticker := time.NewTicker(400 * time.Millisecond)
	defer ticker.Stop()

	t := 0.0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t += 0.4
			s.emit(ctx, t)
		}
	}
}

func (s *DemoScanner) emit(ctx context.Context, t float64) {
	for i := range s.devices {
		d := &s.devices[i]

		// Devices drift in and out of range.
		if rand.Float64() < 0.005 {
			d.active = !d.active
		}
		if !d.active {
			continue
		}

		// Sinusoidal RSSI fluctuation plus noise.
		rssi := int8(d.baseRSSI + d.amplitude*math.Sin(t*0.5+d.phase) + (rand.Float64()-0.5)*4)

		if d.ble {
			ev := wire.ParseBleAdvertisement(advertisement(d), d.mac, rssi, time.Now())
			if err := s.pipe.HandleBleEvent(ctx, ev); err != nil {
				return
			}
		} else {
			s.pipe.HandleWifiFrame(beaconFrame(d.mac, d.ssid), rssi, d.channel)
		}
	}
}

// advertisement assembles a raw BLE advertising payload for the device:
// flags, then name, then any service UUIDs and manufacturer data.
func advertisement(d *demoDevice) []byte {
	payload := []byte{2, 0x01, 0x06}
	if d.name != "" {
		payload = append(payload, byte(len(d.name)+1), 0x09)
		payload = append(payload, d.name...)
	}
	if len(d.uuids) > 0 {
		payload = append(payload, byte(len(d.uuids)*2+1), 0x03)
		for _, u := range d.uuids {
			payload = binary.LittleEndian.AppendUint16(payload, u)
		}
	}
	if d.mfr != 0 {
		payload = append(payload, 3, 0xFF)
		payload = binary.LittleEndian.AppendUint16(payload, d.mfr)
	}
	return payload
}

func randomMAC() [6]byte {
	var mac [6]byte
	for i := range mac {
		mac[i] = byte(rand.Intn(256))
	}
	// Locally administered unicast.
	mac[0] = mac[0]&0xFE | 0x02
	return mac
}

func ouiMAC(a, b, c byte) [6]byte {
	mac := randomMAC()
	mac[0], mac[1], mac[2] = a, b, c
	return mac
}
