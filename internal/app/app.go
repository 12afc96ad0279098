// Package app is the interactive terminal front end: a Bubble Tea model
// showing the match feed and detector state, with keys mapped onto the
// same knobs the host protocol exposes.
package app

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"aircanary.dev/internal/pipeline"
	"aircanary.dev/internal/scanner"
	"aircanary.dev/internal/ui"
)

// maxMatchRows bounds the scrollback of the match list.
const maxMatchRows = 256

// rssiStep is the per-keypress adjustment of the RSSI floor.
const rssiStep = 5

// shared holds state shared between the Bubble Tea model copies and main.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	pipe    *pipeline.Pipeline
	sources []scanner.Source
	ring    *ui.RSSIRing
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	width  int
	height int
	cursor int
	source string

	shared *shared

	matches []pipeline.Match
}

// New creates the model. source is the label shown in the menu bar.
func New(pipe *pipeline.Pipeline, sources []scanner.Source, source string) AppModel {
	return AppModel{
		source: source,
		shared: &shared{
			pipe:    pipe,
			sources: sources,
			ring:    ui.NewRSSIRing(40),
		},
	}
}

func (m AppModel) Init() tea.Cmd {
	return tickCmd()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		return m, tickCmd()

	case MatchMsg:
		m.matches = append([]pipeline.Match{pipeline.Match(msg)}, m.matches...)
		if len(m.matches) > maxMatchRows {
			m.matches = m.matches[:maxMatchRows]
		}
		m.shared.ring.Push(msg.RSSI)
		if msg.Buzz {
			fmt.Fprint(os.Stderr, "\a")
		}
		return m, nil
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.shared.pipe.State()

	switch msg.String() {
	case "q", "Q", "ctrl+c":
		m.stopSources()
		return m, tea.Quit

	case "s", "S":
		state.SetScanning(true)

	case "p", "P":
		state.SetScanning(false)

	case "b", "B":
		state.SetBuzzer(!state.Config().BuzzerEnabled)

	case "+", "=":
		if cur := state.Config().MinRSSI; cur <= 127-rssiStep {
			state.SetMinRSSI(cur + rssiStep)
		}

	case "-", "_":
		if cur := state.Config().MinRSSI; cur >= -128+rssiStep {
			state.SetMinRSSI(cur - rssiStep)
		}

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.matches)-1 {
			m.cursor++
		}

	case "home":
		m.cursor = 0

	case "end":
		if len(m.matches) > 0 {
			m.cursor = len(m.matches) - 1
		}
	}

	return m, nil
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Starting AirCanary..."
	}

	state := m.shared.pipe.State()
	cfg := state.Config()

	menuH, detailH, statusH := 1, 1, 1
	panelH := m.height - menuH - detailH - statusH
	if panelH < 5 {
		panelH = 5
	}

	menuBar := ui.RenderMenuBar(m.width, m.source, state.Scanning())
	panel := ui.RenderMatchList(m.matches, m.width, panelH, m.cursor)

	detail := " " + m.shared.ring.Sparkline()
	if m.cursor < len(m.matches) {
		detail = ui.RenderMatchDetail(m.matches[m.cursor], m.width-1) + detail
	}

	statusBar := ui.RenderStatusBar(m.width, state.Scanning(),
		state.WifiMatches(), state.BleMatches(),
		cfg.MinRSSI, cfg.BuzzerEnabled, m.clientCount(), state.Uptime())

	return ui.ComposeLayout(menuBar, panel, detail, statusBar)
}

func (m AppModel) clientCount() int {
	return m.shared.pipe.ClientCount()
}

func (m *AppModel) stopSources() {
	for _, s := range m.shared.sources {
		s.Stop()
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
