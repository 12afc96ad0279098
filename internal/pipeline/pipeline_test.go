package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aircanary.dev/internal/filter"
	"aircanary.dev/internal/signature"
	"aircanary.dev/internal/wire"
)

type captureSink struct {
	mu    sync.Mutex
	lines [][]byte
}

func (s *captureSink) Deliver(line []byte) {
	s.mu.Lock()
	s.lines = append(s.lines, append([]byte(nil), line...))
	s.mu.Unlock()
}

func (s *captureSink) ClientCount() int { return 1 }

func (s *captureSink) snapshot() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []map[string]any
	for _, l := range s.lines {
		var m map[string]any
		if json.Unmarshal(l, &m) == nil {
			out = append(out, m)
		}
	}
	return out
}

func (s *captureSink) countType(typ string) int {
	n := 0
	for _, m := range s.snapshot() {
		if m["type"] == typ {
			n++
		}
	}
	return n
}

func newTestPipeline(t *testing.T) (*Pipeline, *captureSink, context.CancelFunc) {
	t.Helper()
	store := signature.Default()
	p := New(
		NewState(filter.DefaultConfig()),
		filter.New(store),
		signature.DefaultRules(store),
		NewMetrics(prometheus.NewRegistry()),
		slog.New(slog.DiscardHandler),
	)
	sink := &captureSink{}
	p.AddSink(sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("pipeline did not stop")
		}
	})
	return p, sink, cancel
}

// flockBeacon builds a management beacon with the Flock Safety OUI and a
// matching SSID.
func flockBeacon(ssid string) []byte {
	frame := make([]byte, 36)
	frame[0] = 0x80
	copy(frame[16:22], []byte{0xB4, 0x1E, 0x52, 0xAA, 0xBB, 0xCC})
	frame = append(frame, 0, byte(len(ssid)))
	return append(frame, ssid...)
}

func TestPipelineWifiEndToEnd(t *testing.T) {
	p, sink, _ := newTestPipeline(t)

	p.HandleWifiFrame(flockBeacon("Flock-A1B2C3"), -65, 6)

	require.Eventually(t, func() bool {
		return sink.countType("wifi") == 1
	}, 2*time.Second, 10*time.Millisecond)

	msg := sink.snapshot()[0]
	assert.Equal(t, "B4:1E:52:AA:BB:CC", msg["mac"])
	assert.Equal(t, "Flock-A1B2C3", msg["ssid"])
	assert.Equal(t, float64(-65), msg["rssi"])
	assert.Equal(t, "beacon", msg["frame"])
	matches := msg["match"].([]any)
	assert.NotEmpty(t, matches)
}

func TestPipelineIgnoresNonMatching(t *testing.T) {
	p, sink, _ := newTestPipeline(t)

	frame := make([]byte, 36)
	frame[0] = 0x80
	copy(frame[16:22], []byte{0x02, 0x00, 0x00, 0x01, 0x02, 0x03})
	p.HandleWifiFrame(frame, -50, 1)

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, sink.snapshot())
}

func TestPipelineBleEndToEnd(t *testing.T) {
	p, sink, _ := newTestPipeline(t)

	err := p.HandleBleEvent(context.Background(), wire.BleEvent{
		MAC:             [6]byte{0xC0, 0x00, 0x00, 0x01, 0x02, 0x03},
		Name:            "FS Ext Battery",
		HasName:         true,
		RSSI:            -70,
		ManufacturerID:  0x09C8,
		HasManufacturer: true,
		Time:            time.Now(),
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return sink.countType("ble") == 1
	}, 2*time.Second, 10*time.Millisecond)

	var msg map[string]any
	for _, m := range sink.snapshot() {
		if m["type"] == "ble" {
			msg = m
		}
	}
	assert.Equal(t, "FS Ext Battery", msg["name"])
	assert.Equal(t, float64(0x09C8), msg["mfr"])
	assert.Len(t, msg["match"], 2)
}

func TestPipelineStopSuppressesOutput(t *testing.T) {
	p, sink, _ := newTestPipeline(t)

	require.NoError(t, p.HandleCommandLine(context.Background(), []byte(`{"cmd":"stop"}`)))
	require.Eventually(t, func() bool {
		return !p.State().Scanning()
	}, 2*time.Second, 10*time.Millisecond)

	p.HandleWifiFrame(flockBeacon("Flock-A1B2C3"), -65, 6)
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, sink.countType("wifi"))

	require.NoError(t, p.HandleCommandLine(context.Background(), []byte(`{"cmd":"start"}`)))
	require.Eventually(t, func() bool {
		return p.State().Scanning()
	}, 2*time.Second, 10*time.Millisecond)

	p.HandleWifiFrame(flockBeacon("Flock-A1B2C3"), -65, 6)
	require.Eventually(t, func() bool {
		return sink.countType("wifi") == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPipelineSetRssiGatesEvents(t *testing.T) {
	p, sink, _ := newTestPipeline(t)

	require.NoError(t, p.HandleCommandLine(context.Background(), []byte(`{"cmd":"set_rssi","min_rssi":-80}`)))
	require.Eventually(t, func() bool {
		return p.State().Config().MinRSSI == -80
	}, 2*time.Second, 10*time.Millisecond)

	p.HandleWifiFrame(flockBeacon("Flock-A1B2C3"), -85, 6)
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, sink.countType("wifi"))

	p.HandleWifiFrame(flockBeacon("Flock-A1B2C3"), -70, 6)
	require.Eventually(t, func() bool {
		return sink.countType("wifi") == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPipelineStatusOnRequest(t *testing.T) {
	p, sink, _ := newTestPipeline(t)

	require.NoError(t, p.HandleCommandLine(context.Background(), []byte(`{"cmd":"status"}`)))

	require.Eventually(t, func() bool {
		return sink.countType("status") == 1
	}, 2*time.Second, 10*time.Millisecond)

	var msg map[string]any
	for _, m := range sink.snapshot() {
		if m["type"] == "status" {
			msg = m
		}
	}
	assert.Equal(t, true, msg["scanning"])
	assert.Equal(t, float64(1), msg["ble_clients"])
	assert.NotEmpty(t, msg["board"])
	assert.NotEmpty(t, msg["version"])
}

func TestPipelineBadCommandCounted(t *testing.T) {
	store := signature.Default()
	metrics := NewMetrics(prometheus.NewRegistry())
	p := New(
		NewState(filter.DefaultConfig()),
		filter.New(store),
		signature.DefaultRules(store),
		metrics,
		slog.New(slog.DiscardHandler),
	)

	require.NoError(t, p.HandleCommandLine(context.Background(), []byte("not json")))
	require.NoError(t, p.HandleCommandLine(context.Background(), []byte(`{"cmd":"reboot"}`)))

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.DecodeErrors))
}

func TestPipelineNotifyCarriesRuleName(t *testing.T) {
	store := signature.Default()
	p := New(
		NewState(filter.DefaultConfig()),
		filter.New(store),
		signature.DefaultRules(store),
		NewMetrics(prometheus.NewRegistry()),
		slog.New(slog.DiscardHandler),
	)
	sink := &captureSink{}
	p.AddSink(sink)

	matches := make(chan Match, 1)
	p.SetNotify(func(m Match) { matches <- m })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	p.HandleWifiFrame(flockBeacon("Flock-A1B2C3"), -65, 6)

	select {
	case m := <-matches:
		assert.Equal(t, "wifi", m.Radio)
		assert.Equal(t, "Flock Safety Camera", m.Device)
		assert.True(t, m.Buzz)
		assert.NotEmpty(t, m.Reasons)
	case <-time.After(2 * time.Second):
		t.Fatal("no match notification")
	}
}

func TestPipelineNotifyCarriesManufacturer(t *testing.T) {
	store := signature.Default()
	p := New(
		NewState(filter.DefaultConfig()),
		filter.New(store),
		signature.DefaultRules(store),
		NewMetrics(prometheus.NewRegistry()),
		slog.New(slog.DiscardHandler),
	)
	sink := &captureSink{}
	p.AddSink(sink)

	matches := make(chan Match, 1)
	p.SetNotify(func(m Match) { matches <- m })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	ev := wire.BleEvent{
		MAC:             [6]byte{1, 2, 3, 4, 5, 6},
		Name:            "FS Ext Battery",
		HasName:         true,
		RSSI:            -55,
		ManufacturerID:  0x09C8,
		HasManufacturer: true,
		Time:            time.Now(),
	}
	require.NoError(t, p.HandleBleEvent(ctx, ev))

	select {
	case m := <-matches:
		assert.Equal(t, "ble", m.Radio)
		require.True(t, m.HasMfr)
		assert.Equal(t, uint16(0x09C8), m.Mfr)
	case <-time.After(2 * time.Second):
		t.Fatal("no match notification")
	}
}

func TestPipelineBlankLinesNotCounted(t *testing.T) {
	store := signature.Default()
	metrics := NewMetrics(prometheus.NewRegistry())
	p := New(
		NewState(filter.DefaultConfig()),
		filter.New(store),
		signature.DefaultRules(store),
		metrics,
		slog.New(slog.DiscardHandler),
	)

	// Keep-alive noise: empty and whitespace-only lines.
	require.NoError(t, p.HandleCommandLine(context.Background(), []byte("")))
	require.NoError(t, p.HandleCommandLine(context.Background(), []byte("  ")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.DecodeErrors))

	require.NoError(t, p.HandleCommandLine(context.Background(), []byte("not json")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.DecodeErrors))
}
