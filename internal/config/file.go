package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File holds settings loadable from a YAML config file. Flags override
// file values; file values override defaults.
type File struct {
	// Listen addresses for the two host transports. Empty disables one.
	Listen struct {
		TCP       string `yaml:"tcp"`
		WebSocket string `yaml:"websocket"`
	} `yaml:"listen"`

	// Adapter is the Bluetooth adapter name shown in the UI (e.g. "hci0").
	// BLE capture always goes through the system default adapter; the
	// bluez backend exposes no way to pick another one.
	Adapter string `yaml:"adapter"`

	// MinRSSI is the initial minimum RSSI threshold in dBm.
	MinRSSI int8 `yaml:"min_rssi"`

	Wifi   bool `yaml:"wifi"`
	BLE    bool `yaml:"ble"`
	Buzzer bool `yaml:"buzzer"`

	// LogFile receives slog output in TUI mode, keeping the terminal clean.
	LogFile string `yaml:"log_file"`
}

// Default returns the built-in configuration.
func Default() File {
	var f File
	f.Listen.TCP = "127.0.0.1:5760"
	f.Listen.WebSocket = "127.0.0.1:5761"
	f.Adapter = "hci0"
	f.MinRSSI = DefaultMinRSSI
	f.Wifi = true
	f.BLE = true
	f.Buzzer = true
	return f
}

// searchPaths returns the config file search order.
func searchPaths() []string {
	paths := []string{"aircanary.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "aircanary", "config.yaml"))
	}
	return append(paths, "/etc/aircanary/config.yaml")
}

// Load reads configuration. If explicit is non-empty it must exist;
// otherwise the search paths are tried and defaults are returned when no
// file is found.
func Load(explicit string) (File, error) {
	cfg := Default()

	path := explicit
	if path == "" {
		for _, p := range searchPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
