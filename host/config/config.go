// Package config loads the discoshell host tool configuration from TOML.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"discoshell/core"
)

// Pins selects the simulated wiring. Defaults follow the STM32F4-Discovery.
type Pins struct {
	Button     *uint32 `toml:"button"`
	LED        *uint32 `toml:"led"`
	Activity   *uint32 `toml:"activity"`
	ADCChannel *uint8  `toml:"adc_channel"`
}

// Serial configures the peer the simulated shell talks to. An empty device
// means stdin/stdout.
type Serial struct {
	Device string `toml:"device"`
	Baud   int    `toml:"baud"`
	Prompt string `toml:"prompt"`
}

// Timing overrides the firmware loop periods.
type Timing struct {
	SampleInterval  time.Duration `toml:"sample_interval"`
	BlinkHalfPeriod time.Duration `toml:"blink_half_period"`
	IdlePoll        time.Duration `toml:"idle_poll"`
	RxPoll          time.Duration `toml:"rx_poll"`
	RestartDelay    time.Duration `toml:"restart_delay"`
}

// Simulator controls the host-side stand-ins for the hardware.
type Simulator struct {
	ADCStep    uint16        `toml:"adc_step"`
	PressEvery time.Duration `toml:"press_every"`
	Bounces    int           `toml:"bounces"`
}

// Config is the root of the TOML file.
type Config struct {
	Pins           Pins      `toml:"pins"`
	Serial         Serial    `toml:"serial"`
	Timing         Timing    `toml:"timing"`
	Simulator      Simulator `toml:"simulator"`
	SampleCapacity int       `toml:"sample_capacity"`
	StartDisabled  bool      `toml:"start_disabled"`
	Verbose        bool      `toml:"verbose"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads path and fills in defaults for anything left out. Unknown keys
// are rejected.
func Load(path string) (*Config, error) {
	var c Config
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Serial.Baud == 0 {
		c.Serial.Baud = core.DefaultBaud
	}
	if c.Simulator.ADCStep == 0 {
		c.Simulator.ADCStep = 64
	}
	if c.Simulator.Bounces == 0 {
		c.Simulator.Bounces = 3
	}
}

// Validate checks values that the firmware cannot represent.
func (c *Config) Validate() error {
	if c.Serial.Baud < 0 {
		return fmt.Errorf("serial.baud must be positive, got %d", c.Serial.Baud)
	}
	if c.SampleCapacity < 0 {
		return fmt.Errorf("sample_capacity must not be negative, got %d", c.SampleCapacity)
	}
	if len(c.Serial.Prompt) > core.LineMax {
		return fmt.Errorf("serial.prompt longer than %d characters", core.LineMax)
	}
	return nil
}

// Firmware maps the file onto a core.Config, starting from the board
// defaults so omitted pins keep their Discovery assignment.
func (c *Config) Firmware() *core.Config {
	fw := core.DefaultConfig()
	if c.Pins.Button != nil {
		fw.ButtonPin = core.GPIOPin(*c.Pins.Button)
	}
	if c.Pins.LED != nil {
		fw.LEDPin = core.GPIOPin(*c.Pins.LED)
	}
	if c.Pins.Activity != nil {
		fw.ActivityPin = core.GPIOPin(*c.Pins.Activity)
	}
	if c.Pins.ADCChannel != nil {
		fw.ADCChannel = core.ADCChannelID(*c.Pins.ADCChannel)
	}

	fw.Baud = uint32(c.Serial.Baud)
	if c.Serial.Prompt != "" {
		fw.Prompt = c.Serial.Prompt
	}
	if c.Timing.SampleInterval > 0 {
		fw.SampleInterval = c.Timing.SampleInterval
	}
	if c.Timing.BlinkHalfPeriod > 0 {
		fw.BlinkHalfPeriod = c.Timing.BlinkHalfPeriod
	}
	if c.Timing.IdlePoll > 0 {
		fw.IdlePoll = c.Timing.IdlePoll
	}
	if c.Timing.RxPoll > 0 {
		fw.RxPoll = c.Timing.RxPoll
	}
	if c.Timing.RestartDelay > 0 {
		fw.RestartDelay = c.Timing.RestartDelay
	}
	if c.SampleCapacity > 0 {
		fw.SampleCapacity = c.SampleCapacity
	}
	fw.StartDisabled = c.StartDisabled
	return fw
}
