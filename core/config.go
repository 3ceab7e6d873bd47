package core

import "time"

const (
	// SampleChannelCapacity is the number of samples buffered between the
	// producer and the shell's continuous display.
	SampleChannelCapacity = 10

	// LineBufferSize includes the guard byte; LineMax characters fit.
	LineBufferSize = 64
	LineMax        = LineBufferSize - 1

	DefaultPrompt = "stm32> "
	DefaultBaud   = 2400
)

// Config holds the firmware timing and wiring parameters. The board build
// uses DefaultConfig; the host simulator may override fields.
type Config struct {
	// Pins
	ButtonPin   GPIOPin
	LEDPin      GPIOPin // blinking indicator
	ActivityPin GPIOPin // lit while a shell session is running
	ADCChannel  ADCChannelID

	// Serial
	Baud   uint32
	Prompt string

	// Timing
	SampleInterval  time.Duration // between analog samples
	BlinkHalfPeriod time.Duration // high and low time while enabled
	IdlePoll        time.Duration // re-check interval while disabled
	RxPoll          time.Duration // serial receive poll while idle
	RestartDelay    time.Duration // supervisor back-off

	// Queue
	SampleCapacity int

	// Initial indicator state
	StartDisabled bool
}

// DefaultConfig returns the configuration the firmware ships with.
func DefaultConfig() *Config {
	cfg := &Config{
		// STM32F4-Discovery: PA0 user button, PD12 green LED, PD13 orange LED,
		// PA1 on ADC1 channel 1.
		ButtonPin:   0,
		LEDPin:      3*16 + 12,
		ActivityPin: 3*16 + 13,
		ADCChannel:  1,
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in missing configuration values with the firmware
// defaults. Pin numbers are left alone since zero is a valid pin.
func ApplyDefaults(cfg *Config) {
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	if cfg.SampleInterval == 0 {
		cfg.SampleInterval = 500 * time.Millisecond
	}
	if cfg.BlinkHalfPeriod == 0 {
		cfg.BlinkHalfPeriod = 500 * time.Millisecond // 1 Hz, 50% duty
	}
	if cfg.IdlePoll == 0 {
		cfg.IdlePoll = 100 * time.Millisecond
	}
	if cfg.RxPoll == 0 {
		cfg.RxPoll = 5 * time.Millisecond
	}
	if cfg.RestartDelay == 0 {
		cfg.RestartDelay = time.Second
	}
	if cfg.SampleCapacity <= 0 {
		cfg.SampleCapacity = SampleChannelCapacity
	}
}
