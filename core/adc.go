// Analog input sampling for the sample producer.
package core

import (
	"context"
	"sync/atomic"

	"tinygo.org/x/drivers"
)

// DefaultReferenceMilliVolts is the STM32F4-Discovery analog supply.
const DefaultReferenceMilliVolts = 3000

// AnalogIn is one configured ADC channel. It implements drivers.Sensor so
// it can be polled like any other TinyGo sensor.
type AnalogIn struct {
	driver  ADCDriver
	Channel ADCChannelID

	// Reference voltage used by MilliVolts
	RefMilliVolts uint32

	value  atomic.Uint32
	errors atomic.Uint32
}

var _ drivers.Sensor = (*AnalogIn)(nil)

// NewAnalogIn binds a channel to an ADC driver.
func NewAnalogIn(d ADCDriver, ch ADCChannelID) *AnalogIn {
	return &AnalogIn{
		driver:        d,
		Channel:       ch,
		RefMilliVolts: DefaultReferenceMilliVolts,
	}
}

// Configure initializes the converter and puts the channel in analog mode.
func (a *AnalogIn) Configure() error {
	if err := a.driver.Init(ADCConfig{Reference: a.RefMilliVolts}); err != nil {
		return wrapError(ErrADCRead, "adc init", err)
	}
	if err := a.driver.ConfigureChannel(a.Channel); err != nil {
		return wrapError(ErrADCRead, "adc channel "+itoa(int(a.Channel)), err)
	}
	return nil
}

// Update performs one conversion when which includes drivers.Voltage.
// The call blocks for the conversion time.
func (a *AnalogIn) Update(which drivers.Measurement) error {
	if which&drivers.Voltage == 0 {
		return nil
	}
	v, err := a.driver.ReadRaw(a.Channel)
	if err != nil {
		a.errors.Add(1)
		RecordEvent(EvtADCError, uint32(a.Channel))
		return wrapError(ErrADCRead, "adc channel "+itoa(int(a.Channel)), err)
	}
	a.value.Store(uint32(v))
	return nil
}

// ReadAsync runs one conversion on its own goroutine and waits for it or for
// ctx, so a slow conversion never holds up the caller's siblings.
func (a *AnalogIn) ReadAsync(ctx context.Context) (ADCValue, error) {
	type result struct {
		v   ADCValue
		err error
	}
	done := make(chan result, 1)
	go func() {
		err := a.Update(drivers.Voltage)
		done <- result{v: a.Value(), err: err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Value returns the last successful reading.
func (a *AnalogIn) Value() ADCValue {
	return ADCValue(a.value.Load())
}

// MilliVolts converts the last reading using the reference voltage.
func (a *AnalogIn) MilliVolts() uint32 {
	return a.value.Load() * a.RefMilliVolts / uint32(ADCMax)
}

// Errors returns the number of failed conversions.
func (a *AnalogIn) Errors() uint32 {
	return a.errors.Load()
}
