package core

// ADCChannelID identifies a logical ADC channel.
type ADCChannelID uint8

// ADCValue is the raw ADC reading as seen by the rest of the firmware.
// 12-bit converters report 0-4095.
type ADCValue uint16

// ADCMax is the full-scale reading of the STM32F4 12-bit converter.
const ADCMax ADCValue = 4095

// ADCConfig is the high-level config the core cares about.
type ADCConfig struct {
	Reference  uint32 // reference voltage in millivolts, 0 = board default
	Resolution uint32 // bits, 0 = 12
}

// ADCDriver is the abstract ADC interface that core code uses.
type ADCDriver interface {
	// Init powers up and configures the ADC peripheral.
	Init(cfg ADCConfig) error

	// ConfigureChannel prepares a channel for analog input.
	// For pin-muxed channels, this should set pin to analog mode.
	ConfigureChannel(ch ADCChannelID) error

	// ReadRaw performs a one-shot sample from the given channel. It may block
	// until the conversion completes.
	ReadRaw(ch ADCChannelID) (ADCValue, error)
}

// Global singleton used by core code.
var adcDriver ADCDriver

// SetADCDriver is called by target-specific code to register its driver.
func SetADCDriver(d ADCDriver) {
	adcDriver = d
}

// MustADC returns the configured driver or panics if missing.
func MustADC() ADCDriver {
	if adcDriver == nil {
		panic("ADC driver not configured")
	}
	return adcDriver
}
