package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"aircanary.dev/internal/app"
	"aircanary.dev/internal/config"
	"aircanary.dev/internal/filter"
	"aircanary.dev/internal/pipeline"
	"aircanary.dev/internal/scanner"
	"aircanary.dev/internal/signature"
	"aircanary.dev/internal/transport"
)

var (
	flagConfig   string
	flagDemo     bool
	flagHeadless bool
	flagAdapter  string
	flagListen   string
	flagWSListen string
	flagMinRSSI  int8
	flagLogFile  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "aircanary",
		Short: "AirCanary - passive WiFi/BLE detector for surveillance hardware",
		Long: `AirCanary passively listens to WiFi management frames and BLE
advertisements and flags transmitters matching known surveillance device
signatures (ALPR cameras, acoustic sensors and similar). Matches stream as
newline-delimited JSON over TCP and WebSocket, with an interactive terminal
view by default.

Live radio capture needs elevated permissions (sudo or CAP_NET_ADMIN).
Use --demo to fabricate traffic without any radio hardware.`,
		RunE: run,
	}

	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Config file path (default: search aircanary.yaml, ~/.config/aircanary, /etc/aircanary)")
	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Run in demo mode with fabricated devices (no radio required)")
	rootCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run without the terminal UI, logging matches to stderr")
	rootCmd.Flags().StringVar(&flagAdapter, "adapter", "", "Bluetooth adapter label shown in the UI (capture always uses the system default adapter)")
	rootCmd.Flags().StringVar(&flagListen, "listen", "", "TCP listen address for the NDJSON stream (empty disables)")
	rootCmd.Flags().StringVar(&flagWSListen, "ws-listen", "", "WebSocket listen address (empty disables)")
	rootCmd.Flags().Int8Var(&flagMinRSSI, "min-rssi", config.DefaultMinRSSI, "Initial minimum RSSI threshold in dBm")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Log file (UI mode logs here instead of the terminal)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("adapter") {
		cfg.Adapter = flagAdapter
	}
	if cmd.Flags().Changed("listen") {
		cfg.Listen.TCP = flagListen
	}
	if cmd.Flags().Changed("ws-listen") {
		cfg.Listen.WebSocket = flagWSListen
	}
	if cmd.Flags().Changed("min-rssi") {
		cfg.MinRSSI = flagMinRSSI
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = flagLogFile
	}

	log, closeLog, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	store := signature.Default()
	state := pipeline.NewState(filter.Config{
		MinRSSI:       cfg.MinRSSI,
		WifiEnabled:   cfg.Wifi,
		BleEnabled:    cfg.BLE,
		BuzzerEnabled: cfg.Buzzer,
	})
	reg := prometheus.NewRegistry()
	pipe := pipeline.New(state, filter.New(store), signature.DefaultRules(store),
		pipeline.NewMetrics(reg), log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Listen.TCP != "" {
		tcp := transport.NewTCPServer(cfg.Listen.TCP, pipe, log)
		if err := tcp.Start(ctx); err != nil {
			return fmt.Errorf("tcp transport: %w", err)
		}
		pipe.AddSink(tcp)
	}
	if cfg.Listen.WebSocket != "" {
		ws := transport.NewWSServer(cfg.Listen.WebSocket, pipe, log, reg)
		if err := ws.Start(ctx); err != nil {
			return fmt.Errorf("websocket transport: %w", err)
		}
		pipe.AddSink(ws)
	}

	sources, sourceLabel := buildSources(pipe, log, cfg)

	if flagHeadless {
		return runHeadless(ctx, pipe, sources, log)
	}
	return runUI(ctx, pipe, sources, sourceLabel)
}

// buildSources assembles the radio sources for the selected mode.
func buildSources(pipe *pipeline.Pipeline, log *slog.Logger, cfg config.File) ([]scanner.Source, string) {
	if flagDemo {
		return []scanner.Source{scanner.NewDemoScanner(pipe, log)}, "demo"
	}

	var sources []scanner.Source
	label := cfg.Adapter
	if cfg.BLE {
		sources = append(sources, scanner.NewBLEScanner(pipe, log))
	}
	if cfg.Wifi && scanner.Available() {
		sources = append(sources, scanner.NewWiFiScanner(pipe, log, ""))
		label += "+wifi"
	}
	return sources, label
}

func runHeadless(ctx context.Context, pipe *pipeline.Pipeline, sources []scanner.Source, log *slog.Logger) error {
	pipe.SetNotify(func(m pipeline.Match) {
		log.Info("match",
			"radio", m.Radio,
			"mac", m.MAC,
			"name", m.Name,
			"rssi", m.RSSI,
			"device", m.Device,
		)
	})

	for _, s := range sources {
		if err := s.Start(ctx); err != nil {
			return err
		}
		defer s.Stop()
	}

	log.Info("running headless")
	pipe.Run(ctx)
	return nil
}

func runUI(ctx context.Context, pipe *pipeline.Pipeline, sources []scanner.Source, sourceLabel string) error {
	model := app.New(pipe, sources, sourceLabel)
	program := tea.NewProgram(model, tea.WithAltScreen())

	pipe.SetNotify(func(m pipeline.Match) {
		program.Send(app.MatchMsg(m))
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go pipe.Run(ctx)

	for _, s := range sources {
		if err := s.Start(ctx); err != nil {
			if !flagDemo {
				fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
				fmt.Fprintln(os.Stderr, "Radio capture requires elevated permissions.")
				fmt.Fprintln(os.Stderr, "Try one of:")
				fmt.Fprintln(os.Stderr, "  sudo ./aircanary")
				fmt.Fprintln(os.Stderr, "  sudo setcap cap_net_admin+ep ./aircanary")
				fmt.Fprintln(os.Stderr, "  ./aircanary --demo    (demo mode, no hardware needed)")
				return err
			}
		}
		defer s.Stop()
	}

	_, err := program.Run()
	return err
}

// buildLogger routes slog output. The UI owns the terminal, so UI mode
// logs to the configured file, or nowhere.
func buildLogger(cfg config.File) (*slog.Logger, func(), error) {
	if flagHeadless && cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, nil)), func() {}, nil
	}
	if cfg.LogFile == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, nil)), func() { f.Close() }, nil
}
