package core

import (
	"context"
	"sync/atomic"
	"time"
)

// IndicatorDriver is the top-level LED loop: a 1 Hz 50% square wave while
// the indicator is enabled, pin held low otherwise.
type IndicatorDriver struct {
	cfg       *Config
	gpio      GPIODriver
	pin       GPIOPin
	indicator *Indicator

	pinErrors atomic.Uint32
}

// NewIndicatorDriver creates the loop for an output pin.
func NewIndicatorDriver(cfg *Config, gpio GPIODriver, pin GPIOPin, indicator *Indicator) *IndicatorDriver {
	return &IndicatorDriver{cfg: cfg, gpio: gpio, pin: pin, indicator: indicator}
}

// Configure sets the pin up as an output, driven low.
func (d *IndicatorDriver) Configure() error {
	if err := d.gpio.ConfigureOutput(d.pin); err != nil {
		return err
	}
	return d.gpio.SetPin(d.pin, false)
}

// Run drives the pin until ctx is done. The indicator is re-read on every
// iteration.
func (d *IndicatorDriver) Run(ctx context.Context) error {
	for {
		var err error
		if d.indicator.Enabled() {
			d.set(true)
			if err = sleep(ctx, d.cfg.BlinkHalfPeriod); err == nil {
				d.set(false)
				err = sleep(ctx, d.cfg.BlinkHalfPeriod)
			}
		} else {
			d.set(false)
			err = sleep(ctx, d.cfg.IdlePoll)
		}
		if err != nil {
			return err
		}
	}
}

func (d *IndicatorDriver) set(high bool) {
	if err := d.gpio.SetPin(d.pin, high); err != nil {
		d.pinErrors.Add(1)
		RecordEvent(EvtPinError, uint32(d.pin))
	}
}

// PinErrors returns the number of failed pin writes.
func (d *IndicatorDriver) PinErrors() uint32 {
	return d.pinErrors.Load()
}

// sleep suspends for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
