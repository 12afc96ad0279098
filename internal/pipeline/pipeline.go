// Package pipeline connects the radio sources, the filter engine, the
// protocol codec and the transports through small bounded queues. Every
// stage runs as its own task; depths bound worst-case memory, not loss.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"aircanary.dev/internal/config"
	"aircanary.dev/internal/filter"
	"aircanary.dev/internal/protocol"
	"aircanary.dev/internal/rules"
	"aircanary.dev/internal/wire"
)

// Sink is the outbound half of a transport: it takes one encoded record
// and reports how many clients are attached.
type Sink interface {
	Deliver(line []byte)
	ClientCount() int
}

// Match is the notification handed to the UI when an event matched. Device
// is the named-device rule that fired, if any.
type Match struct {
	Radio   string
	MAC     string
	Name    string
	RSSI    int8
	Mfr     uint16
	HasMfr  bool
	Reasons []filter.Reason
	Device  string
	Buzz    bool
	Time    time.Time
}

// scored pairs a scan event with its filter result. Producers evaluate the
// filter before enqueueing, so the dispatch task never re-runs it.
type scored struct {
	event  wire.Event
	result filter.Result
}

type Pipeline struct {
	state   *State
	engine  *filter.Engine
	ruleDB  *rules.DB
	metrics *Metrics
	log     *slog.Logger

	scanQ *Queue[scored]
	outQ  *Queue[protocol.DeviceMessage]
	cmdQ  *Queue[protocol.HostCommand]

	mu     sync.Mutex
	sinks  []Sink
	notify func(Match)
}

func New(state *State, engine *filter.Engine, ruleDB *rules.DB, metrics *Metrics, log *slog.Logger) *Pipeline {
	return &Pipeline{
		state:   state,
		engine:  engine,
		ruleDB:  ruleDB,
		metrics: metrics,
		log:     log,
		scanQ:   NewQueue[scored](config.ScanQueueDepth),
		outQ:    NewQueue[protocol.DeviceMessage](config.OutputQueueDepth),
		cmdQ:    NewQueue[protocol.HostCommand](config.CommandQueueDepth),
	}
}

func (p *Pipeline) AddSink(s Sink) {
	p.mu.Lock()
	p.sinks = append(p.sinks, s)
	p.mu.Unlock()
}

// SetNotify installs the UI match hook. Must be called before Run.
func (p *Pipeline) SetNotify(fn func(Match)) { p.notify = fn }

func (p *Pipeline) State() *State { return p.state }

// HandleWifiFrame is the WiFi radio callback path. It may be invoked from
// any goroutine and never blocks: parse and filter run synchronously, and a
// matching event is enqueued with TrySend, shedding under burst load.
func (p *Pipeline) HandleWifiFrame(frame []byte, rssi int8, channel uint8) {
	ev, ok := wire.ParseWifiFrame(frame, rssi, channel, time.Now())
	if !ok {
		return
	}
	p.metrics.FramesParsed.WithLabelValues("wifi").Inc()

	res := p.engine.Wifi(ev, p.state.Config())
	if !res.Matched() {
		return
	}
	if !p.scanQ.TrySend(scored{event: ev, result: res}) {
		p.metrics.EventsDropped.Inc()
	}
}

// HandleBleEvent is the cooperative BLE path: blocking enqueue with
// backpressure.
func (p *Pipeline) HandleBleEvent(ctx context.Context, ev wire.BleEvent) error {
	p.metrics.FramesParsed.WithLabelValues("ble").Inc()

	res := p.engine.Ble(ev, p.state.Config())
	if !res.Matched() {
		return nil
	}
	return p.scanQ.Send(ctx, scored{event: ev, result: res})
}

// HandleCommandLine feeds one framed inbound line to the command decoder.
// Undecodable lines are counted and dropped; they never stop the reader.
// Blank lines are keep-alive noise, skipped without counting.
func (p *Pipeline) HandleCommandLine(ctx context.Context, line []byte) error {
	cmd, err := protocol.DecodeCommand(line)
	if err != nil {
		if !errors.Is(err, protocol.ErrLineEmpty) {
			p.metrics.DecodeErrors.Inc()
			p.log.Debug("discarding command line", "err", err)
		}
		return nil
	}
	return p.cmdQ.Send(ctx, cmd)
}

// CountFramerDiscard records an over-length inbound line.
func (p *Pipeline) CountFramerDiscard() { p.metrics.FramerDiscards.Inc() }

// Run starts the dispatch, output, command and status tasks and blocks
// until ctx is cancelled and all of them have returned.
func (p *Pipeline) Run(ctx context.Context) {
	tasks := []func(context.Context){
		p.dispatchTask,
		p.outputTask,
		p.commandTask,
		p.statusTask,
	}

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		go func(task func(context.Context)) {
			defer wg.Done()
			task(ctx)
		}(task)
	}
	wg.Wait()
}

// dispatchTask turns scored scan events into outbound messages, evaluates
// the named-device rules and feeds the UI. Events arriving while scanning
// is stopped are consumed and discarded so the queue keeps draining.
func (p *Pipeline) dispatchTask(ctx context.Context) {
	for {
		sc, err := p.scanQ.Recv(ctx)
		if err != nil {
			return
		}
		if !p.state.Scanning() {
			continue
		}

		cfg := p.state.Config()
		ts := p.state.SinceStart(sc.event.Timestamp()).Milliseconds()

		var (
			msg   protocol.DeviceMessage
			match Match
		)
		switch ev := sc.event.(type) {
		case wire.WifiEvent:
			p.state.CountWifiMatch()
			p.metrics.MatchesTotal.WithLabelValues("wifi").Inc()
			mac := protocol.FormatMAC(ev.MAC)
			msg = protocol.WifiResult{
				MAC:     mac,
				SSID:    ev.SSID,
				RSSI:    ev.RSSI,
				Channel: ev.Channel,
				Frame:   ev.Frame.String(),
				Match:   wireMatches(sc.result.Reasons),
				TS:      ts,
			}
			match = Match{Radio: "wifi", MAC: mac, Name: ev.SSID, RSSI: ev.RSSI}
		case wire.BleEvent:
			p.state.CountBleMatch()
			p.metrics.MatchesTotal.WithLabelValues("ble").Inc()
			mac := protocol.FormatMAC(ev.MAC)
			msg = protocol.BleResult{
				MAC:   mac,
				Name:  ev.Name,
				RSSI:  ev.RSSI,
				Mfr:   ev.ManufacturerID,
				Match: wireMatches(sc.result.Reasons),
				TS:    ts,
			}
			match = Match{
				Radio:  "ble",
				MAC:    mac,
				Name:   ev.Name,
				RSSI:   ev.RSSI,
				Mfr:    ev.ManufacturerID,
				HasMfr: ev.HasManufacturer,
			}
		default:
			continue
		}

		if p.notify != nil {
			match.Reasons = sc.result.Reasons
			match.Buzz = cfg.BuzzerEnabled
			match.Time = sc.event.Timestamp()
			if hits := p.ruleDB.EvaluateAll(&sc.result.Sigs); len(hits) > 0 {
				match.Device = p.ruleDB.Rules[hits[0]].Name
			}
			p.notify(match)
		}

		if err := p.outQ.Send(ctx, msg); err != nil {
			return
		}
	}
}

// outputTask encodes messages and hands the lines to every attached sink.
func (p *Pipeline) outputTask(ctx context.Context) {
	for {
		msg, err := p.outQ.Recv(ctx)
		if err != nil {
			return
		}
		line := protocol.Encode(msg)
		if line == nil {
			continue
		}

		switch msg.(type) {
		case protocol.WifiResult:
			p.metrics.MessagesEmitted.WithLabelValues("wifi").Inc()
		case protocol.BleResult:
			p.metrics.MessagesEmitted.WithLabelValues("ble").Inc()
		case protocol.Status:
			p.metrics.MessagesEmitted.WithLabelValues("status").Inc()
		}

		p.mu.Lock()
		sinks := make([]Sink, len(p.sinks))
		copy(sinks, p.sinks)
		p.mu.Unlock()

		for _, s := range sinks {
			s.Deliver(line)
		}
	}
}

// commandTask applies decoded host commands to the shared state.
func (p *Pipeline) commandTask(ctx context.Context) {
	for {
		cmd, err := p.cmdQ.Recv(ctx)
		if err != nil {
			return
		}

		switch c := cmd.(type) {
		case protocol.Start:
			p.state.SetScanning(true)
			p.log.Info("scanning started")
		case protocol.Stop:
			p.state.SetScanning(false)
			p.log.Info("scanning stopped")
		case protocol.StatusRequest:
			if err := p.outQ.Send(ctx, p.statusMessage()); err != nil {
				return
			}
		case protocol.SetRssi:
			p.state.SetMinRSSI(c.MinRSSI)
			p.log.Info("rssi threshold updated", "min_rssi", c.MinRSSI)
		case protocol.SetBuzzer:
			p.state.SetBuzzer(c.Enabled)
			p.log.Info("buzzer updated", "enabled", c.Enabled)
		}
	}
}

// statusTask emits a status report every config.StatusInterval.
func (p *Pipeline) statusTask(ctx context.Context) {
	ticker := time.NewTicker(config.StatusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.outQ.Send(ctx, p.statusMessage()); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// ClientCount sums the attached clients across all sinks.
func (p *Pipeline) ClientCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	clients := 0
	for _, s := range p.sinks {
		clients += s.ClientCount()
	}
	return clients
}

func (p *Pipeline) statusMessage() protocol.Status {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	clients := p.ClientCount()

	return protocol.Status{
		Scanning:   p.state.Scanning(),
		Uptime:     int64(p.state.Uptime().Seconds()),
		HeapFree:   ms.HeapIdle - ms.HeapReleased,
		BleClients: clients,
		Board:      runtime.GOOS + "/" + runtime.GOARCH,
		Version:    config.AppVersion,
	}
}

func wireMatches(reasons []filter.Reason) []protocol.MatchReason {
	out := make([]protocol.MatchReason, len(reasons))
	for i, r := range reasons {
		out[i] = protocol.MatchReason{Type: r.Category.String(), Detail: r.Detail}
	}
	return out
}
