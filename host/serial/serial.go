package serial

import (
	"io"

	"discoshell/core"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - Mock serial (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate (the board shell runs at 2400 8N1)
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns the configuration matching the board's shell UART
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        core.DefaultBaud,
		ReadTimeout: 100, // 100ms read timeout
	}
}
