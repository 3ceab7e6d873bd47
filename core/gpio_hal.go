package core

import "context"

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// Edge selects which logic-level transition WaitForEdge waits for.
type Edge uint8

const (
	EdgeRising  Edge = 1 // low -> high
	EdgeFalling Edge = 2 // high -> low
)

func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	}
	return "edge(" + itoa(int(e)) + ")"
}

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output
	ConfigureOutput(pin GPIOPin) error

	// ConfigureInputPullDown configures a pin as a digital input with pull-down
	// resistor and arms edge notifications for it.
	ConfigureInputPullDown(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// GetPin reads the current pin state
	GetPin(pin GPIOPin) (bool, error)

	// WaitForEdge suspends the caller until the given edge is observed on an
	// input pin or ctx is done.
	WaitForEdge(ctx context.Context, pin GPIOPin, edge Edge) error
}

// Global singleton used by core code.
var gpioDriver GPIODriver

// SetGPIODriver is called by target-specific code to register its driver.
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// MustGPIO returns the configured driver or panics if missing.
func MustGPIO() GPIODriver {
	if gpioDriver == nil {
		panic("GPIO driver not configured")
	}
	return gpioDriver
}
