package protocol

import "aircanary.dev/internal/config"

// Framer reassembles newline-delimited records from an arbitrarily chunked
// byte stream into a single fixed-capacity buffer. When the buffer fills
// before a delimiter arrives, the accumulated bytes are discarded and the
// framer skips input until the next delimiter, so the tail of an
// over-length line is never surfaced as a record of its own.
//
// Not safe for concurrent use; each inbound stream owns one Framer.
type Framer struct {
	buf        []byte
	discarding bool
	discards   uint64
}

func NewFramer() *Framer {
	return &Framer{buf: make([]byte, 0, config.MaxMessageLen)}
}

// Push feeds a chunk of stream bytes and returns the complete records it
// finished, delimiters excluded and a trailing carriage return stripped.
// The returned slices are copies, valid after the next Push.
func (f *Framer) Push(data []byte) [][]byte {
	var lines [][]byte
	for _, b := range data {
		if b == '\n' {
			if f.discarding {
				f.discarding = false
				continue
			}
			line := f.buf
			if n := len(line); n > 0 && line[n-1] == '\r' {
				line = line[:n-1]
			}
			lines = append(lines, append([]byte(nil), line...))
			f.buf = f.buf[:0]
			continue
		}
		if f.discarding {
			continue
		}
		if len(f.buf) == cap(f.buf) {
			f.buf = f.buf[:0]
			f.discarding = true
			f.discards++
			continue
		}
		f.buf = append(f.buf, b)
	}
	return lines
}

// Discards counts buffer-overflow events since creation.
func (f *Framer) Discards() uint64 { return f.discards }
