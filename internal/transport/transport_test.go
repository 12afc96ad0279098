package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aircanary.dev/internal/filter"
	"aircanary.dev/internal/pipeline"
	"aircanary.dev/internal/signature"
)

func newTestPipeline(t *testing.T) (*pipeline.Pipeline, *prometheus.Registry) {
	t.Helper()
	store := signature.Default()
	reg := prometheus.NewRegistry()
	p := pipeline.New(
		pipeline.NewState(filter.DefaultConfig()),
		filter.New(store),
		signature.DefaultRules(store),
		pipeline.NewMetrics(reg),
		slog.New(slog.DiscardHandler),
	)

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
	return p, reg
}

func flockBeacon(ssid string) []byte {
	frame := make([]byte, 36)
	frame[0] = 0x80
	copy(frame[16:22], []byte{0xB4, 0x1E, 0x52, 0xAA, 0xBB, 0xCC})
	frame = append(frame, 0, byte(len(ssid)))
	return append(frame, ssid...)
}

func TestClientSetBroadcast(t *testing.T) {
	cs := newClientSet()
	a, b := cs.add(), cs.add()
	require.Equal(t, 2, cs.count())

	cs.broadcast([]byte("hello\n"))
	assert.Equal(t, "hello\n", string(<-a.send))
	assert.Equal(t, "hello\n", string(<-b.send))

	cs.remove(b)
	assert.Equal(t, 1, cs.count())
}

func TestClientSetSlowClientDrops(t *testing.T) {
	cs := newClientSet()
	c := cs.add()

	for i := 0; i < sendQueueDepth+10; i++ {
		cs.broadcast([]byte("x\n"))
	}
	assert.Equal(t, sendQueueDepth, len(c.send))
}

func TestTCPServerStatusCommand(t *testing.T) {
	p, _ := newTestPipeline(t)

	srv := NewTCPServer("127.0.0.1:0", p, slog.New(slog.DiscardHandler))
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(srv.Stop)
	p.AddSink(srv)

	conn, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return srv.ClientCount() == 1 },
		time.Second, 5*time.Millisecond)

	_, err = conn.Write([]byte(`{"cmd":"status"}` + "\n"))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(conn).ReadBytes('\n')
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(line, &msg))
	assert.Equal(t, "status", msg["type"])
	assert.Equal(t, true, msg["scanning"])
	assert.Equal(t, float64(1), msg["ble_clients"])
}

func TestTCPServerStreamsMatches(t *testing.T) {
	p, _ := newTestPipeline(t)

	srv := NewTCPServer("127.0.0.1:0", p, slog.New(slog.DiscardHandler))
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(srv.Stop)
	p.AddSink(srv)

	conn, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Give the accept loop a moment to register the client.
	require.Eventually(t, func() bool { return srv.ClientCount() == 1 },
		time.Second, 5*time.Millisecond)

	p.HandleWifiFrame(flockBeacon("Flock-A1B2C3"), -65, 6)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(conn).ReadBytes('\n')
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(line, &msg))
	assert.Equal(t, "wifi", msg["type"])
	assert.Equal(t, "Flock-A1B2C3", msg["ssid"])
}

func TestWSServerRoundTrip(t *testing.T) {
	p, reg := newTestPipeline(t)

	srv := NewWSServer("127.0.0.1:0", p, slog.New(slog.DiscardHandler), reg)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(srv.Stop)
	p.AddSink(srv)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+srv.Addr()+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"cmd":"status"}`)))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "status", msg["type"])
}

func TestWSServerMetricsEndpoint(t *testing.T) {
	p, reg := newTestPipeline(t)

	srv := NewWSServer("127.0.0.1:0", p, slog.New(slog.DiscardHandler), reg)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(srv.Stop)

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
