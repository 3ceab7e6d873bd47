// Package sim provides host-side implementations of the core HAL so the
// firmware can run on a PC: a GPIO bank with a pressable button and
// observable LEDs, and an ADC fed by a deterministic waveform.
package sim

import (
	"context"
	"errors"
	"sync"
	"time"

	"discoshell/core"
)

// ErrNotInput is returned when an edge is requested on a pin that is not an input.
var ErrNotInput = errors.New("sim: pin is not configured as input")

type pinMode uint8

const (
	modeUnset pinMode = iota
	modeOutput
	modeInput
)

// ChangeFunc is called whenever an output pin changes level.
type ChangeFunc func(pin core.GPIOPin, level bool)

// GPIO is a simulated GPIO bank implementing core.GPIODriver.
type GPIO struct {
	mu     sync.Mutex
	modes  map[core.GPIOPin]pinMode
	levels map[core.GPIOPin]bool
	edges  map[core.GPIOPin]chan core.Edge

	// OnChange, if set, observes output level changes.
	OnChange ChangeFunc

	// BounceGap is the delay between simulated contact bounces.
	BounceGap time.Duration
}

var _ core.GPIODriver = (*GPIO)(nil)

// NewGPIO creates an empty simulated GPIO bank.
func NewGPIO() *GPIO {
	return &GPIO{
		modes:     make(map[core.GPIOPin]pinMode),
		levels:    make(map[core.GPIOPin]bool),
		edges:     make(map[core.GPIOPin]chan core.Edge),
		BounceGap: time.Millisecond,
	}
}

func (g *GPIO) ConfigureOutput(pin core.GPIOPin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.modes[pin] = modeOutput
	return nil
}

func (g *GPIO) ConfigureInputPullDown(pin core.GPIOPin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.modes[pin] = modeInput
	g.levels[pin] = false
	if _, ok := g.edges[pin]; !ok {
		g.edges[pin] = make(chan core.Edge, 16)
	}
	return nil
}

func (g *GPIO) SetPin(pin core.GPIOPin, value bool) error {
	g.mu.Lock()
	if g.modes[pin] == modeUnset {
		g.modes[pin] = modeOutput
	}
	changed := g.levels[pin] != value
	g.levels[pin] = value
	notify := g.OnChange
	g.mu.Unlock()

	if changed && notify != nil {
		notify(pin, value)
	}
	return nil
}

func (g *GPIO) GetPin(pin core.GPIOPin) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.levels[pin], nil
}

func (g *GPIO) WaitForEdge(ctx context.Context, pin core.GPIOPin, edge core.Edge) error {
	if edge != core.EdgeRising && edge != core.EdgeFalling {
		return core.ErrInvalidEdge
	}
	g.mu.Lock()
	ch, ok := g.edges[pin]
	g.mu.Unlock()
	if !ok {
		return ErrNotInput
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case got := <-ch:
			if got == edge {
				return nil
			}
		}
	}
}

// Drive sets the level of an input pin from the outside world and raises
// the matching edge.
func (g *GPIO) Drive(pin core.GPIOPin, level bool) {
	g.mu.Lock()
	prev := g.levels[pin]
	g.levels[pin] = level
	g.mu.Unlock()

	if prev == level {
		return
	}
	edge := core.EdgeFalling
	if level {
		edge = core.EdgeRising
	}
	g.raise(pin, edge)
}

// Glitch raises an edge without changing the pin level, the way contact
// noise shows up at the edge detector. Edges are dropped if nobody is
// consuming them.
func (g *GPIO) Glitch(pin core.GPIOPin, edge core.Edge) {
	g.raise(pin, edge)
}

func (g *GPIO) raise(pin core.GPIOPin, edge core.Edge) {
	g.mu.Lock()
	ch := g.edges[pin]
	g.mu.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- edge:
	default:
	}
}

// Press simulates a button press held for hold. Contact noise adds bounces
// spurious rising edges after the make and after the break.
func (g *GPIO) Press(pin core.GPIOPin, bounces int, hold time.Duration) {
	g.Drive(pin, true)
	g.noise(pin, bounces)
	time.Sleep(hold)
	g.Drive(pin, false)
	g.noise(pin, bounces)
}

func (g *GPIO) noise(pin core.GPIOPin, bounces int) {
	for i := 0; i < bounces; i++ {
		time.Sleep(g.BounceGap)
		g.Glitch(pin, core.EdgeRising)
	}
}

// Level returns the current level of any pin.
func (g *GPIO) Level(pin core.GPIOPin) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.levels[pin]
}
