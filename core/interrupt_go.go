//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// criticalMu stands in for masking interrupts when running on a host,
// where event producers are plain goroutines.
var criticalMu sync.Mutex

// disableInterrupts enters the critical section guarding the event ring
func disableInterrupts() State {
	criticalMu.Lock()
	return 0
}

// restoreInterrupts leaves the critical section
func restoreInterrupts(state State) {
	criticalMu.Unlock()
}
