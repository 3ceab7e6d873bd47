package sim

import (
	"errors"
	"sync"

	"discoshell/core"
)

// ErrChannelNotConfigured is returned when reading a channel that was never configured.
var ErrChannelNotConfigured = errors.New("sim: ADC channel not configured")

// ADC is a simulated converter implementing core.ADCDriver. Every channel
// produces a triangle wave between 0 and core.ADCMax, advancing Step counts
// per conversion.
type ADC struct {
	mu         sync.Mutex
	Step       uint16
	config     core.ADCConfig
	channels   map[core.ADCChannelID]*wave
	conversion int
}

type wave struct {
	value  int
	rising bool
}

var _ core.ADCDriver = (*ADC)(nil)

// NewADC creates a simulated converter. A zero step defaults to 64.
func NewADC(step uint16) *ADC {
	if step == 0 {
		step = 64
	}
	return &ADC{
		Step:     step,
		channels: make(map[core.ADCChannelID]*wave),
	}
}

func (a *ADC) Init(cfg core.ADCConfig) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.config = cfg
	return nil
}

func (a *ADC) ConfigureChannel(ch core.ADCChannelID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.channels[ch]; !ok {
		a.channels[ch] = &wave{rising: true}
	}
	return nil
}

func (a *ADC) ReadRaw(ch core.ADCChannelID) (core.ADCValue, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	w, ok := a.channels[ch]
	if !ok {
		return 0, ErrChannelNotConfigured
	}
	a.conversion++

	v := core.ADCValue(w.value)
	step := int(a.Step)
	if w.rising {
		w.value += step
		if w.value >= int(core.ADCMax) {
			w.value = int(core.ADCMax)
			w.rising = false
		}
	} else {
		w.value -= step
		if w.value <= 0 {
			w.value = 0
			w.rising = true
		}
	}
	return v, nil
}

// Conversions returns the number of successful reads across all channels.
func (a *ADC) Conversions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.conversion
}
