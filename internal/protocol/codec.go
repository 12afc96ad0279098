package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"aircanary.dev/internal/config"
)

// Decode error sentinels. The caller's policy for all of them is the same:
// drop the line, count it, keep reading.
var (
	ErrLineEmpty      = errors.New("empty line")
	ErrBadSyntax      = errors.New("malformed command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingField   = errors.New("missing command field")
)

// Encode renders a DeviceMessage as one newline-terminated JSON record.
// Over-capacity fields are truncated first, so every constructible message
// encodes successfully and fits MaxMessageLen.
func Encode(msg DeviceMessage) []byte {
	switch m := msg.(type) {
	case WifiResult:
		m.Type = "wifi"
		m.SSID = clip(m.SSID, config.MaxNameLen)
		m.Match = clipMatches(m.Match)
		msg = m
	case BleResult:
		m.Type = "ble"
		m.Name = clip(m.Name, config.MaxNameLen)
		m.Match = clipMatches(m.Match)
		msg = m
	case Status:
		m.Type = "status"
		msg = m
	}

	// Marshaling a struct of scalars, strings and slices cannot fail.
	out, err := json.Marshal(msg)
	if err != nil {
		return nil
	}
	return append(out, '\n')
}

func clip(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func clipMatches(matches []MatchReason) []MatchReason {
	if len(matches) > config.MaxMatches {
		matches = matches[:config.MaxMatches]
	}
	clipped := make([]MatchReason, len(matches))
	for i, m := range matches {
		clipped[i] = MatchReason{Type: m.Type, Detail: clip(m.Detail, config.MaxDetailLen)}
	}
	return clipped
}

// rawCommand covers every inbound shape; pointer fields distinguish absent
// from zero-valued.
type rawCommand struct {
	Cmd     string `json:"cmd"`
	MinRSSI *int   `json:"min_rssi"`
	Enabled *bool  `json:"enabled"`
}

// DecodeCommand parses one line into a HostCommand. Errors wrap one of the
// sentinel values above.
func DecodeCommand(line []byte) (HostCommand, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, ErrLineEmpty
	}

	var raw rawCommand
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSyntax, err)
	}

	switch raw.Cmd {
	case "start":
		return Start{}, nil
	case "stop":
		return Stop{}, nil
	case "status":
		return StatusRequest{}, nil
	case "set_rssi":
		if raw.MinRSSI == nil {
			return nil, fmt.Errorf("%w: min_rssi", ErrMissingField)
		}
		if *raw.MinRSSI < -128 || *raw.MinRSSI > 127 {
			return nil, fmt.Errorf("%w: min_rssi %d out of range", ErrBadSyntax, *raw.MinRSSI)
		}
		return SetRssi{MinRSSI: int8(*raw.MinRSSI)}, nil
	case "set_buzzer":
		if raw.Enabled == nil {
			return nil, fmt.Errorf("%w: enabled", ErrMissingField)
		}
		return SetBuzzer{Enabled: *raw.Enabled}, nil
	case "":
		return nil, fmt.Errorf("%w: no cmd field", ErrMissingField)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, raw.Cmd)
	}
}
