package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tinygo.org/x/bluetooth"

	"aircanary.dev/internal/config"
	"aircanary.dev/internal/pipeline"
	"aircanary.dev/internal/wire"
)

// BLEScanner listens for BLE advertisements on a periodic duty cycle:
// scan for config.ScanWindow, idle for config.IdleWindow, repeat. The idle
// gap is where stop commands and config changes take effect.
type BLEScanner struct {
	adapter *bluetooth.Adapter
	pipe    *pipeline.Pipeline
	log     *slog.Logger
	cancel  context.CancelFunc
}

func NewBLEScanner(pipe *pipeline.Pipeline, log *slog.Logger) *BLEScanner {
	return &BLEScanner{
		adapter: bluetooth.DefaultAdapter,
		pipe:    pipe,
		log:     log,
	}
}

func (s *BLEScanner) Start(ctx context.Context) error {
	if err := s.adapter.Enable(); err != nil {
		return fmt.Errorf("enable BLE adapter: %w (try running with sudo or setcap cap_net_admin+ep)", err)
	}

	ctx, s.cancel = context.WithCancel(ctx)
	go s.loop(ctx)
	return nil
}

func (s *BLEScanner) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	_ = s.adapter.StopScan()
}

func (s *BLEScanner) loop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		if s.pipe.State().Scanning() {
			s.scanWindow(ctx)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(config.IdleWindow):
		}
	}
}

// scanWindow runs one bounded scan. Scan blocks until StopScan, so a timer
// closes the window.
func (s *BLEScanner) scanWindow(ctx context.Context) {
	timer := time.AfterFunc(config.ScanWindow, func() {
		_ = s.adapter.StopScan()
	})
	defer timer.Stop()

	err := s.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
		ev, ok := s.toEvent(result)
		if !ok {
			return
		}
		if err := s.pipe.HandleBleEvent(ctx, ev); err != nil {
			_ = s.adapter.StopScan()
		}
	})
	if err != nil && ctx.Err() == nil {
		s.log.Warn("BLE scan window failed", "err", err)
	}
}

// toEvent maps one scan result into a scan event. When the adapter exposes
// the raw advertisement bytes they go through the wire parser; otherwise
// the decoded accessors fill in what they can.
func (s *BLEScanner) toEvent(result bluetooth.ScanResult) (wire.BleEvent, bool) {
	mac, ok := parseMAC(result.Address.String())
	if !ok {
		return wire.BleEvent{}, false
	}
	rssi := clampRSSI(result.RSSI)
	now := time.Now()

	if raw := result.AdvertisementPayload.Bytes(); len(raw) > 0 {
		return wire.ParseBleAdvertisement(raw, mac, rssi, now), true
	}

	ev := wire.BleEvent{MAC: mac, RSSI: rssi, Time: now}
	if name := result.LocalName(); name != "" {
		ev.Name = name
		ev.HasName = true
	}
	if mfrs := result.ManufacturerData(); len(mfrs) > 0 {
		ev.ManufacturerID = mfrs[0].CompanyID
		ev.HasManufacturer = true
	}
	return ev, true
}

func clampRSSI(v int16) int8 {
	if v < -128 {
		return -128
	}
	if v > 127 {
		return 127
	}
	return int8(v)
}
