package core

import (
	"context"

	"tinygo.org/x/drivers"
)

// Task names used by the supervisor.
const (
	TaskButton  = "button"
	TaskSampler = "sampler"
	TaskShell   = "shell"
	TaskBlinker = "blinker"
)

// Firmware wires the application tasks to the hardware collaborators.
type Firmware struct {
	Config     *Config
	Indicator  *Indicator
	Samples    *SampleChannel
	Analog     *AnalogIn
	Shell      *Shell
	Button     *InputMonitor
	Producer   *SampleProducer
	Blinker    *IndicatorDriver
	Supervisor *Supervisor

	gpio GPIODriver
}

// NewFirmware builds every component. A nil cfg means DefaultConfig.
func NewFirmware(cfg *Config, gpio GPIODriver, adc ADCDriver, uart drivers.UART) *Firmware {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	ApplyDefaults(cfg)

	indicator := NewIndicator(!cfg.StartDisabled)
	samples := NewSampleChannel(cfg.SampleCapacity)
	analog := NewAnalogIn(adc, cfg.ADCChannel)

	return &Firmware{
		Config:     cfg,
		Indicator:  indicator,
		Samples:    samples,
		Analog:     analog,
		Shell:      NewShell(cfg, uart, indicator, samples),
		Button:     NewInputMonitor(gpio, cfg.ButtonPin, indicator),
		Producer:   NewSampleProducer(cfg, analog, samples),
		Blinker:    NewIndicatorDriver(cfg, gpio, cfg.LEDPin, indicator),
		Supervisor: NewSupervisor(cfg.RestartDelay),
		gpio:       gpio,
	}
}

// Configure sets up pins and the converter.
func (f *Firmware) Configure() error {
	if err := f.Blinker.Configure(); err != nil {
		return err
	}
	if err := f.gpio.ConfigureOutput(f.Config.ActivityPin); err != nil {
		return err
	}
	if err := f.Button.Configure(); err != nil {
		return err
	}
	return f.Analog.Configure()
}

// Start launches the four tasks under the supervisor.
func (f *Firmware) Start(ctx context.Context) {
	f.Supervisor.Go(ctx, TaskButton, f.Button.Run)
	f.Supervisor.Go(ctx, TaskSampler, f.Producer.Run)
	f.Supervisor.Go(ctx, TaskShell, f.runShell)
	f.Supervisor.Go(ctx, TaskBlinker, f.Blinker.Run)
}

// Run configures the hardware, starts the tasks and blocks until ctx is done.
func (f *Firmware) Run(ctx context.Context) error {
	if err := f.Configure(); err != nil {
		return err
	}
	DebugPrintln("[BOOT] discoshell running")
	f.Start(ctx)
	f.Supervisor.Wait()
	return ctx.Err()
}

// runShell runs one shell session with the activity LED lit.
func (f *Firmware) runShell(ctx context.Context) error {
	_ = f.gpio.SetPin(f.Config.ActivityPin, true)
	defer f.gpio.SetPin(f.Config.ActivityPin, false)

	err := f.Shell.Run(ctx)
	if err != nil && ctx.Err() == nil {
		RecordEvent(EvtShellFault, 0)
		DebugAsync("[SHELL] session ended: " + err.Error())
		DumpEvents()
	}
	return err
}
