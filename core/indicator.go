package core

import "sync/atomic"

// Indicator is the LED-enabled flag shared by the input monitor, the shell
// and the indicator driver loop. All access is atomic.
type Indicator struct {
	enabled atomic.Bool
}

// NewIndicator returns an indicator with the given initial state.
func NewIndicator(enabled bool) *Indicator {
	ind := &Indicator{}
	ind.enabled.Store(enabled)
	return ind
}

// Enabled reports whether the indicator should blink.
func (i *Indicator) Enabled() bool {
	return i.enabled.Load()
}

// Set stores a new state.
func (i *Indicator) Set(enabled bool) {
	i.enabled.Store(enabled)
}

// Toggle flips the state and returns the new value. Concurrent toggles are
// never lost.
func (i *Indicator) Toggle() bool {
	for {
		old := i.enabled.Load()
		if i.enabled.CompareAndSwap(old, !old) {
			return !old
		}
	}
}
