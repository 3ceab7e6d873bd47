package core

import (
	"strings"

	"discoshell/protocol"
)

// LineBuffer accumulates shell input until a line terminator arrives.
// At most LineMax characters are kept; the rest of an overlong line is
// discarded.
type LineBuffer struct {
	buf   [LineBufferSize]byte
	n     int
	ready bool
}

// Put processes one received byte.
func (l *LineBuffer) Put(b byte) {
	switch b {
	case protocol.CR, protocol.LF:
		l.ready = true
	case protocol.BS, protocol.DEL:
		if l.n > 0 {
			l.n--
		}
	default:
		if l.n < LineMax {
			l.buf[l.n] = b
			l.n++
		}
	}
}

// Ready reports whether a complete line is waiting to be taken.
func (l *LineBuffer) Ready() bool { return l.ready }

// Len returns the number of buffered characters.
func (l *LineBuffer) Len() int { return l.n }

// String returns the buffered characters without trimming.
func (l *LineBuffer) String() string { return string(l.buf[:l.n]) }

// Take returns the trimmed line and clears the buffer and the ready flag.
func (l *LineBuffer) Take() string {
	line := strings.TrimSpace(string(l.buf[:l.n]))
	l.Reset()
	return line
}

// Reset empties the buffer.
func (l *LineBuffer) Reset() {
	l.n = 0
	l.ready = false
}
