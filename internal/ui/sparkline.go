package ui

import "strings"

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// RSSIRing is a circular buffer of recent match RSSI values, rendered as a
// sparkline in the status area.
type RSSIRing struct {
	buf   []int8
	pos   int
	count int
}

func NewRSSIRing(capacity int) *RSSIRing {
	return &RSSIRing{buf: make([]int8, capacity)}
}

func (r *RSSIRing) Push(val int8) {
	r.buf[r.pos] = val
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Values returns the stored values in chronological order.
func (r *RSSIRing) Values() []int8 {
	if r.count == 0 {
		return nil
	}
	result := make([]int8, r.count)
	if r.count < len(r.buf) {
		copy(result, r.buf[:r.count])
	} else {
		n := copy(result, r.buf[r.pos:])
		copy(result[n:], r.buf[:r.pos])
	}
	return result
}

func (r *RSSIRing) Len() int { return r.count }

// Sparkline renders the ring as block characters, stronger signal taller.
// Typical RSSI lands between -100 and -30 dBm.
func (r *RSSIRing) Sparkline() string {
	vals := r.Values()
	if len(vals) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, v := range vals {
		level := (int(v) + 100) * len(sparkRunes) / 70
		if level < 0 {
			level = 0
		}
		if level >= len(sparkRunes) {
			level = len(sparkRunes) - 1
		}
		sb.WriteRune(sparkRunes[level])
	}
	return StyleSparkline.Render(sb.String())
}
