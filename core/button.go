package core

import (
	"context"
	"sync/atomic"
)

// DebounceState is the input monitor state.
type DebounceState uint32

const (
	StateIdle    DebounceState = iota // waiting for a rising edge
	StatePressed                      // waiting for the matching falling edge
)

func (s DebounceState) String() string {
	if s == StatePressed {
		return "pressed"
	}
	return "idle"
}

// InputMonitor watches the user button and toggles the indicator once per
// press. A press is a rising edge confirmed by a high level; the monitor
// then waits for the falling edge before looking at rising edges again, so
// bounce between the two edges is ignored.
type InputMonitor struct {
	gpio      GPIODriver
	pin       GPIOPin
	indicator *Indicator

	state   atomic.Uint32
	presses atomic.Uint32
}

// NewInputMonitor creates a monitor for an input pin.
func NewInputMonitor(gpio GPIODriver, pin GPIOPin, indicator *Indicator) *InputMonitor {
	return &InputMonitor{gpio: gpio, pin: pin, indicator: indicator}
}

// Configure sets the pin up as a pulled-down input.
func (m *InputMonitor) Configure() error {
	return m.gpio.ConfigureInputPullDown(m.pin)
}

// Run processes edges until ctx is done or the driver fails. The wait for
// the falling edge has no timeout.
func (m *InputMonitor) Run(ctx context.Context) error {
	m.state.Store(uint32(StateIdle))
	DebugAsync("[BUTTON] press the user button")
	for {
		if err := m.Step(ctx); err != nil {
			return err
		}
	}
}

// Step performs one state transition.
func (m *InputMonitor) Step(ctx context.Context) error {
	switch m.State() {
	case StateIdle:
		if err := m.gpio.WaitForEdge(ctx, m.pin, EdgeRising); err != nil {
			return err
		}
		high, err := m.gpio.GetPin(m.pin)
		if err != nil {
			return err
		}
		if !high {
			// Glitch: edge without a level to back it
			return nil
		}
		enabled := m.indicator.Toggle()
		m.presses.Add(1)
		RecordEvent(EvtButtonPress, boolToUint(enabled))
		DebugAsync("[BUTTON] pressed, led enabled=" + boolString(enabled))
		m.state.Store(uint32(StatePressed))

	case StatePressed:
		if err := m.gpio.WaitForEdge(ctx, m.pin, EdgeFalling); err != nil {
			return err
		}
		DebugAsync("[BUTTON] released")
		m.state.Store(uint32(StateIdle))
	}
	return nil
}

// State returns the current debounce state.
func (m *InputMonitor) State() DebounceState {
	return DebounceState(m.state.Load())
}

// Presses returns the number of qualifying presses.
func (m *InputMonitor) Presses() uint32 {
	return m.presses.Load()
}

func boolToUint(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
