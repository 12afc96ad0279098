package pipeline

import (
	"sync"
	"sync/atomic"
	"time"

	"aircanary.dev/internal/filter"
)

// State is the single holder of process-wide mutable state: the filter
// config, the scanning flag and the rolling match counters. Scalars use
// atomics so the radio callback path can read them without locking; the
// compound filter config sits behind a mutex and is always read as a
// snapshot copy.
type State struct {
	mu  sync.Mutex
	cfg filter.Config

	scanning    atomic.Bool
	wifiMatches atomic.Uint64
	bleMatches  atomic.Uint64

	start time.Time
}

func NewState(cfg filter.Config) *State {
	s := &State{cfg: cfg, start: time.Now()}
	s.scanning.Store(true)
	return s
}

// Config returns a snapshot of the current filter configuration.
func (s *State) Config() filter.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *State) SetMinRSSI(v int8) {
	s.mu.Lock()
	s.cfg.MinRSSI = v
	s.mu.Unlock()
}

func (s *State) SetBuzzer(enabled bool) {
	s.mu.Lock()
	s.cfg.BuzzerEnabled = enabled
	s.mu.Unlock()
}

func (s *State) Scanning() bool        { return s.scanning.Load() }
func (s *State) SetScanning(on bool)   { s.scanning.Store(on) }
func (s *State) Uptime() time.Duration { return time.Since(s.start) }

// SinceStart converts an absolute timestamp to time since process start,
// the ts base of outbound records.
func (s *State) SinceStart(t time.Time) time.Duration { return t.Sub(s.start) }

func (s *State) CountWifiMatch() { s.wifiMatches.Add(1) }
func (s *State) CountBleMatch()  { s.bleMatches.Add(1) }

func (s *State) WifiMatches() uint64 { return s.wifiMatches.Load() }
func (s *State) BleMatches() uint64  { return s.bleMatches.Load() }
