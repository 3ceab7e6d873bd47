// Package protocol implements the byte-level conventions of the serial shell:
// terminal control codes, the receive ring buffer and the UART adapter used
// when the shell runs against an arbitrary byte stream.
package protocol

// Version represents the discoshell firmware version
const Version = "0.1.0"

// Control codes understood by the shell.
const (
	ETX   = 0x03 // Ctrl-C, leaves continuous ADC mode
	BS    = 0x08
	LF    = '\n'
	CR    = '\r'
	Space = ' '
	DEL   = 0x7f
)

// Sequences written back to the peer.
const (
	CRLF  = "\r\n"
	Erase = "\b \b" // move back, blank, move back
)

// IsPrintable reports whether b is a graphic ASCII character or space.
func IsPrintable(b byte) bool {
	return b >= 0x20 && b < DEL
}
