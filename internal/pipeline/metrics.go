package pipeline

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus instrumentation for the pipeline. All
// counters are registered on the registry passed to NewMetrics; the
// registry is what /metrics serves.
type Metrics struct {
	FramesParsed    *prometheus.CounterVec // by radio (wifi/ble)
	MatchesTotal    *prometheus.CounterVec // by radio
	EventsDropped   prometheus.Counter     // shed at the radio callback
	FramerDiscards  prometheus.Counter     // over-length inbound lines
	DecodeErrors    prometheus.Counter     // undecodable command lines
	MessagesEmitted *prometheus.CounterVec // by message type
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FramesParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aircanary",
			Subsystem: "pipeline",
			Name:      "frames_parsed_total",
			Help:      "Raw frames and advertisements parsed",
		}, []string{"radio"}),

		MatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aircanary",
			Subsystem: "pipeline",
			Name:      "matches_total",
			Help:      "Scan events that matched at least one signature",
		}, []string{"radio"}),

		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aircanary",
			Subsystem: "pipeline",
			Name:      "events_dropped_total",
			Help:      "Events shed by the non-blocking radio callback path",
		}),

		FramerDiscards: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aircanary",
			Subsystem: "pipeline",
			Name:      "framer_discards_total",
			Help:      "Inbound lines discarded for exceeding buffer capacity",
		}),

		DecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aircanary",
			Subsystem: "pipeline",
			Name:      "command_decode_errors_total",
			Help:      "Inbound command lines that failed to decode",
		}),

		MessagesEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aircanary",
			Subsystem: "pipeline",
			Name:      "messages_emitted_total",
			Help:      "Messages handed to the transports",
		}, []string{"type"}),
	}

	reg.MustRegister(
		m.FramesParsed,
		m.MatchesTotal,
		m.EventsDropped,
		m.FramerDiscards,
		m.DecodeErrors,
		m.MessagesEmitted,
	)
	return m
}
