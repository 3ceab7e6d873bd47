//go:build stm32f4disco

package main

import (
	"context"

	"discoshell/core"
	"machine"
)

// STM32GPIODriver implements the GPIODriver interface for the STM32F4
type STM32GPIODriver struct {
	// Track configured pins to prevent conflicts
	configuredPins map[core.GPIOPin]machine.Pin

	// Edge notifications from the EXTI handler, one channel per input pin
	edges map[core.GPIOPin]chan core.Edge
}

// NewSTM32GPIODriver creates a new STM32F4 GPIO driver
func NewSTM32GPIODriver() *STM32GPIODriver {
	return &STM32GPIODriver{
		configuredPins: make(map[core.GPIOPin]machine.Pin),
		edges:          make(map[core.GPIOPin]chan core.Edge),
	}
}

// ConfigureOutput configures a pin as a digital output
func (d *STM32GPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	// Check if already configured
	if _, exists := d.configuredPins[pin]; exists {
		// Already configured, this is OK
		return nil
	}

	machinePin := machine.Pin(pin)
	machinePin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.configuredPins[pin] = machinePin

	return nil
}

// ConfigureInputPullDown configures a pin as an input with pull-down and
// routes both edges through EXTI into the pin's edge channel.
func (d *STM32GPIODriver) ConfigureInputPullDown(pin core.GPIOPin) error {
	if _, exists := d.configuredPins[pin]; exists {
		return nil
	}

	machinePin := machine.Pin(pin)
	machinePin.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})

	edges := make(chan core.Edge, 8)
	err := machinePin.SetInterrupt(machine.PinToggle, func(p machine.Pin) {
		edge := core.EdgeFalling
		if p.Get() {
			edge = core.EdgeRising
		}
		select {
		case edges <- edge:
		default:
			// Consumer is behind; the edge is lost
			core.RecordEvent(core.EvtEdgeDropped, uint32(pin))
		}
	})
	if err != nil {
		return err
	}

	d.configuredPins[pin] = machinePin
	d.edges[pin] = edges

	return nil
}

// SetPin sets the pin to high (true) or low (false)
func (d *STM32GPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	machinePin, exists := d.configuredPins[pin]
	if !exists {
		// Pin isn't configured - configure it first
		if err := d.ConfigureOutput(pin); err != nil {
			return err
		}
		machinePin = d.configuredPins[pin]
	}

	machinePin.Set(value)
	return nil
}

// GetPin reads the current pin state
func (d *STM32GPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	machinePin, exists := d.configuredPins[pin]
	if !exists {
		// Pin not configured
		return false, nil
	}

	return machinePin.Get(), nil
}

// WaitForEdge parks the calling goroutine until the EXTI handler reports the
// requested edge. Edges of the other kind are discarded.
func (d *STM32GPIODriver) WaitForEdge(ctx context.Context, pin core.GPIOPin, edge core.Edge) error {
	if edge != core.EdgeRising && edge != core.EdgeFalling {
		return core.ErrInvalidEdge
	}
	edges, ok := d.edges[pin]
	if !ok {
		if err := d.ConfigureInputPullDown(pin); err != nil {
			return err
		}
		edges = d.edges[pin]
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case got := <-edges:
			if got == edge {
				return nil
			}
		}
	}
}
