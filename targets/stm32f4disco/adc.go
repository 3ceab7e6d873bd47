//go:build stm32f4disco

package main

import (
	"errors"
	"sync"

	"discoshell/core"
	"machine"
)

// STM32AdcDriver implements core.ADCDriver using TinyGo's machine.ADC on ADC1.
type STM32AdcDriver struct {
	mu            sync.Mutex // one conversion at a time
	arefMilliVolt uint32

	channels map[core.ADCChannelID]*machine.ADC
}

// NewSTM32AdcDriver constructs the driver but does not Init() it yet.
func NewSTM32AdcDriver() *STM32AdcDriver {
	return &STM32AdcDriver{
		arefMilliVolt: core.DefaultReferenceMilliVolts,
		channels:      make(map[core.ADCChannelID]*machine.ADC),
	}
}

func (d *STM32AdcDriver) Init(cfg core.ADCConfig) error {
	if cfg.Reference != 0 {
		d.arefMilliVolt = cfg.Reference
	}
	machine.InitADC()
	return nil
}

// ConfigureChannel puts the channel's pin in analog mode. ADC1 channels
// 0-7 are PA0-PA7.
func (d *STM32AdcDriver) ConfigureChannel(ch core.ADCChannelID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.channels[ch]; ok {
		// already configured
		return nil
	}
	if ch > 7 {
		return errors.New("unsupported ADC channel")
	}

	adc := machine.ADC{Pin: machine.PA0 + machine.Pin(ch)}
	adc.Configure(machine.ADCConfig{})

	d.channels[ch] = &adc
	return nil
}

// ReadRaw returns a 12-bit value (0-4095). TinyGo scales readings to 16 bits.
func (d *STM32AdcDriver) ReadRaw(ch core.ADCChannelID) (core.ADCValue, error) {
	d.mu.Lock()
	adc, ok := d.channels[ch]
	d.mu.Unlock()
	if !ok {
		if err := d.ConfigureChannel(ch); err != nil {
			return 0, err
		}
		d.mu.Lock()
		adc = d.channels[ch]
		d.mu.Unlock()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return core.ADCValue(adc.Get() >> 4), nil
}
