package core

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// edgeEvent is one simulated transition on an input pin.
type edgeEvent struct {
	edge  Edge
	level bool // level after the edge, seen by GetPin
}

func rising() edgeEvent { return edgeEvent{EdgeRising, true} }
func falling() edgeEvent { return edgeEvent{EdgeFalling, false} }

type pinWrite struct {
	pin   GPIOPin
	value bool
}

// MockGPIODriver is a test implementation of GPIODriver
type MockGPIODriver struct {
	mu      sync.Mutex
	outputs map[GPIOPin]bool
	inputs  map[GPIOPin]bool
	levels  map[GPIOPin]bool
	writes  []pinWrite
	setErr  error

	edges chan edgeEvent
}

func NewMockGPIODriver() *MockGPIODriver {
	return &MockGPIODriver{
		outputs: make(map[GPIOPin]bool),
		inputs:  make(map[GPIOPin]bool),
		levels:  make(map[GPIOPin]bool),
		edges:   make(chan edgeEvent, 64),
	}
}

func (m *MockGPIODriver) ConfigureOutput(pin GPIOPin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outputs[pin] = true
	return nil
}

func (m *MockGPIODriver) ConfigureInputPullDown(pin GPIOPin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs[pin] = true
	m.levels[pin] = false
	return nil
}

func (m *MockGPIODriver) SetPin(pin GPIOPin, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.levels[pin] = value
	m.writes = append(m.writes, pinWrite{pin, value})
	return nil
}

func (m *MockGPIODriver) GetPin(pin GPIOPin) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levels[pin], nil
}

// WaitForEdge consumes queued events, ignoring edges of the other kind.
func (m *MockGPIODriver) WaitForEdge(ctx context.Context, pin GPIOPin, edge Edge) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-m.edges:
			m.mu.Lock()
			m.levels[pin] = ev.level
			m.mu.Unlock()
			if ev.edge == edge {
				return nil
			}
		}
	}
}

func (m *MockGPIODriver) push(events ...edgeEvent) {
	for _, ev := range events {
		m.edges <- ev
	}
}

func (m *MockGPIODriver) level(pin GPIOPin) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levels[pin]
}

// writesTo returns the values written to pin, in order.
func (m *MockGPIODriver) writesTo(pin GPIOPin) []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []bool
	for _, w := range m.writes {
		if w.pin == pin {
			out = append(out, w.value)
		}
	}
	return out
}

// MockADCDriver returns queued values, then repeats the last one.
type MockADCDriver struct {
	mu         sync.Mutex
	values     []ADCValue
	err        error
	failFirst  int
	block      chan struct{}
	initCalls  int
	configured map[ADCChannelID]bool
	reads      int
}

func NewMockADCDriver(values ...ADCValue) *MockADCDriver {
	return &MockADCDriver{
		values:     values,
		configured: make(map[ADCChannelID]bool),
	}
}

func (m *MockADCDriver) Init(cfg ADCConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initCalls++
	return nil
}

func (m *MockADCDriver) ConfigureChannel(ch ADCChannelID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configured[ch] = true
	return nil
}

func (m *MockADCDriver) ReadRaw(ch ADCChannelID) (ADCValue, error) {
	if m.block != nil {
		<-m.block
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.err != nil {
		return 0, m.err
	}
	if m.failFirst > 0 {
		m.failFirst--
		return 0, errors.New("conversion timeout")
	}
	if len(m.values) == 0 {
		return 2048, nil // Mid-range 12-bit value
	}
	v := m.values[0]
	if len(m.values) > 1 {
		m.values = m.values[1:]
	}
	return v, nil
}

// MockUART is an in-memory drivers.UART. Reads never block.
type MockUART struct {
	mu       sync.Mutex
	rx       []byte
	tx       bytes.Buffer
	readErr  error
	writeErr error
}

func (m *MockUART) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.rx) == 0 {
		return 0, m.readErr
	}
	n := copy(p, m.rx)
	m.rx = m.rx[n:]
	return n, nil
}

func (m *MockUART) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	return m.tx.Write(p)
}

func (m *MockUART) Buffered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rx)
}

func (m *MockUART) feed(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rx = append(m.rx, s...)
}

func (m *MockUART) output() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx.String()
}

func (m *MockUART) resetOutput() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tx.Reset()
}

// testConfig returns a configuration with short intervals.
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.SampleInterval = 2 * time.Millisecond
	cfg.BlinkHalfPeriod = 5 * time.Millisecond
	cfg.IdlePoll = 2 * time.Millisecond
	cfg.RxPoll = time.Millisecond
	cfg.RestartDelay = 5 * time.Millisecond
	return cfg
}

// waitFor polls cond until it holds or the timeout expires.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func waitForOutput(t *testing.T, u *MockUART, want string) {
	t.Helper()
	waitFor(t, "output "+want, func() bool {
		return strings.Contains(u.output(), want)
	})
}
