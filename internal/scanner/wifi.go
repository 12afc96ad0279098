package scanner

import (
	"bufio"
	"context"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"aircanary.dev/internal/config"
	"aircanary.dev/internal/pipeline"
)

// WiFiScanner discovers nearby access points through the system's wireless
// tooling. Prefers nmcli (no root needed), falls back to iw (needs root).
// Each sighting is rebuilt as a minimal beacon and pushed through the
// frame-callback path, the same one a raw capture source would use.
type WiFiScanner struct {
	pipe     *pipeline.Pipeline
	log      *slog.Logger
	iface    string
	interval time.Duration
	useNmcli bool
	cancel   context.CancelFunc
}

type apSighting struct {
	mac     [6]byte
	ssid    string
	rssi    int8
	channel uint8
}

// NewWiFiScanner creates a WiFi scanner. If iface is empty, auto-detects.
func NewWiFiScanner(pipe *pipeline.Pipeline, log *slog.Logger, iface string) *WiFiScanner {
	useNmcli := nmcliAvailable()
	if iface == "" && !useNmcli {
		iface = detectWiFiInterface()
	}
	return &WiFiScanner{
		pipe:     pipe,
		log:      log,
		iface:    iface,
		interval: config.WifiScanInterval,
		useNmcli: useNmcli,
	}
}

// Available checks if nmcli or iw is present on the system.
func Available() bool {
	return nmcliAvailable() || iwAvailable()
}

func (s *WiFiScanner) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.loop(ctx)
	return nil
}

func (s *WiFiScanner) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *WiFiScanner) loop(ctx context.Context) {
	for {
		if s.pipe.State().Scanning() {
			s.scan(ctx)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.interval):
		}
	}
}

func (s *WiFiScanner) scan(ctx context.Context) {
	var sightings []apSighting
	if s.useNmcli {
		sightings = s.scanNmcli(ctx)
	} else {
		sightings = s.scanIW(ctx)
	}
	for _, ap := range sightings {
		s.pipe.HandleWifiFrame(beaconFrame(ap.mac, ap.ssid), ap.rssi, ap.channel)
	}
}

// scanNmcli reads NetworkManager's cached scan results; NM rescans on its
// own, and asking for a rescan here momentarily clears the cache.
func (s *WiFiScanner) scanNmcli(ctx context.Context) []apSighting {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "nmcli", "-t", "-f", "BSSID,SSID,CHAN,SIGNAL", "dev", "wifi", "list")
	out, err := cmd.Output()
	if err != nil {
		s.log.Debug("nmcli scan failed", "err", err)
		return nil
	}
	return parseNmcliScan(string(out))
}

// parseNmcliScan parses nmcli terse output, one BSSID:SSID:CHAN:SIGNAL per
// line, with literal colons in values escaped as \:.
func parseNmcliScan(output string) []apSighting {
	var results []apSighting

	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}

		const placeholder = "\x00"
		escaped := strings.ReplaceAll(line, `\:`, placeholder)
		parts := strings.Split(escaped, ":")
		for i := range parts {
			parts[i] = strings.ReplaceAll(parts[i], placeholder, ":")
		}
		if len(parts) < 4 {
			continue
		}

		mac, ok := parseMAC(strings.TrimSpace(parts[0]))
		if !ok {
			continue
		}
		ssid := strings.TrimSpace(parts[1])
		channel, _ := strconv.Atoi(strings.TrimSpace(parts[2]))

		// nmcli SIGNAL is a 0-100 percentage; map it onto the usual dBm
		// range, 100% near -30, 0% near -100.
		rssi := int8(-80)
		if sig, err := strconv.Atoi(strings.TrimSpace(parts[3])); err == nil {
			rssi = int8(-100 + sig*70/100)
		}

		results = append(results, apSighting{
			mac:     mac,
			ssid:    ssid,
			rssi:    rssi,
			channel: uint8(channel),
		})
	}
	return results
}

func (s *WiFiScanner) scanIW(ctx context.Context) []apSighting {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "iw", "dev", s.iface, "scan")
	out, err := cmd.Output()
	if err != nil {
		s.log.Debug("iw scan failed", "err", err)
		return nil
	}
	return parseIWScan(string(out))
}

// parseIWScan parses `iw dev <iface> scan` output, one BSS block per AP.
func parseIWScan(output string) []apSighting {
	var results []apSighting
	var current *apSighting

	flush := func() {
		if current != nil {
			results = append(results, *current)
			current = nil
		}
	}

	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		line := sc.Text()

		// New BSS block: "BSS aa:bb:cc:dd:ee:ff(on wlan0)"
		if strings.HasPrefix(line, "BSS ") {
			flush()
			macText := strings.TrimPrefix(line, "BSS ")
			if idx := strings.IndexByte(macText, '('); idx >= 0 {
				macText = macText[:idx]
			}
			if mac, ok := parseMAC(strings.TrimSpace(macText)); ok {
				current = &apSighting{mac: mac, rssi: -80}
			}
			continue
		}
		if current == nil {
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "SSID: "):
			current.ssid = strings.TrimPrefix(trimmed, "SSID: ")
		case strings.HasPrefix(trimmed, "signal: "):
			sigStr := strings.TrimSuffix(strings.TrimPrefix(trimmed, "signal: "), " dBm")
			if v, err := strconv.ParseFloat(strings.TrimSpace(sigStr), 64); err == nil {
				current.rssi = int8(v)
			}
		case strings.HasPrefix(trimmed, "DS Parameter set: channel "):
			if v, err := strconv.Atoi(strings.TrimPrefix(trimmed, "DS Parameter set: channel ")); err == nil {
				current.channel = uint8(v)
			}
		case strings.HasPrefix(trimmed, "primary channel: ") && current.channel == 0:
			if v, err := strconv.Atoi(strings.TrimPrefix(trimmed, "primary channel: ")); err == nil {
				current.channel = uint8(v)
			}
		}
	}
	flush()
	return results
}

func nmcliAvailable() bool {
	_, err := exec.LookPath("nmcli")
	return err == nil
}

func iwAvailable() bool {
	_, err := exec.LookPath("iw")
	return err == nil
}

// detectWiFiInterface finds the first wireless interface via `iw dev`.
func detectWiFiInterface() string {
	out, err := exec.Command("iw", "dev").Output()
	if err != nil {
		return "wlan0"
	}
	sc := bufio.NewScanner(strings.NewReader(string(out)))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "Interface ") {
			return strings.TrimPrefix(line, "Interface ")
		}
	}
	return "wlan0"
}
