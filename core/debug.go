package core

import "time"

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures a task event for post-mortem analysis
type Event struct {
	Type  uint8  // Event type code
	Value uint32 // Context-dependent value
	At    time.Duration
}

// Event type codes
const (
	EvtButtonPress   = 1 // qualifying press, Value = new indicator state
	EvtSampleDropped = 2 // sample channel full, Value = dropped sample
	EvtADCError      = 3 // conversion failed
	EvtShellFault    = 4 // shell session ended with an error
	EvtTaskRestart   = 5 // supervisor restarted a task, Value = restart count
	EvtPinError      = 6 // output pin write failed, Value = pin
	EvtEdgeDropped   = 7 // edge notification lost in the EXTI handler, Value = pin
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = true

	eventRing     [EventRingSize]Event
	eventRingHead uint8
	eventEpoch    = time.Now()

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16) // Buffer 16 messages
	go debugOutputWorker(debugChan)
}

// debugOutputWorker runs in background, drains debug channel
func debugOutputWorker(ch <-chan string) {
	for msg := range ch {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
// Blocks if debug is enabled (use DebugAsync for non-blocking)
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Falls back to DebugPrintln before InitAsyncDebug, drops when the channel is full.
func DebugAsync(msg string) {
	if !debugEnabled {
		return
	}
	if debugChan == nil {
		DebugPrintln(msg)
		return
	}
	select {
	case debugChan <- msg:
	default:
		// Channel full, drop message (non-blocking)
	}
}

// RecordEvent captures an event in the ring buffer. Safe to call from
// interrupt handlers.
func RecordEvent(eventType uint8, value uint32) {
	at := time.Since(eventEpoch)

	state := disableInterrupts()
	idx := eventRingHead
	eventRing[idx] = Event{
		Type:  eventType,
		Value: value,
		At:    at,
	}
	eventRingHead = (idx + 1) % EventRingSize
	restoreInterrupts(state)
}

// Events returns the recorded events, oldest first.
func Events() []Event {
	state := disableInterrupts()
	ring := eventRing
	start := eventRingHead
	restoreInterrupts(state)

	out := make([]Event, 0, EventRingSize)
	for i := uint8(0); i < EventRingSize; i++ {
		evt := ring[(start+i)%EventRingSize]
		if evt.Type == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

// EventName returns the short name used in dumps.
func EventName(eventType uint8) string {
	switch eventType {
	case EvtButtonPress:
		return "BUTTON_PRESS"
	case EvtSampleDropped:
		return "SAMPLE_DROP"
	case EvtADCError:
		return "ADC_ERROR"
	case EvtShellFault:
		return "SHELL_FAULT"
	case EvtTaskRestart:
		return "TASK_RESTART"
	case EvtPinError:
		return "PIN_ERROR"
	case EvtEdgeDropped:
		return "EDGE_DROP"
	}
	return "UNKNOWN"
}

// DumpEvents outputs the event ring (call on shutdown/error)
func DumpEvents() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENTS] === Event Ring Dump ===")
	for _, evt := range Events() {
		debugPrintln("[EVENTS] " + EventName(evt.Type) +
			" value=" + utoa(evt.Value) +
			" at=" + evt.At.String())
	}
	debugPrintln("[EVENTS] === End Dump ===")
}

// ClearEvents clears the event ring
func ClearEvents() {
	state := disableInterrupts()
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
	restoreInterrupts(state)
}
