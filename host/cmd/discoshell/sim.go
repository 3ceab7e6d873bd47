package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"discoshell/core"
	"discoshell/host/config"
	"discoshell/host/serial"
	"discoshell/host/sim"
	"discoshell/protocol"
)

// pressHold is how long a simulated press keeps the button down.
const pressHold = 50 * time.Millisecond

var (
	sampleInterval time.Duration
	pressEvery     time.Duration

	simCmd = &cobra.Command{
		Use:   "sim",
		Short: "Run the firmware core on this machine with simulated hardware",
		Long: "Run the firmware tasks against a simulated button, LEDs and ADC. " +
			"The shell talks to stdin/stdout, or to --device when given (e.g. one end of a pty pair).",
		Args: cobra.NoArgs,
		RunE: runSim,
	}
)

// stdio joins stdin and stdout into the shell peer.
type stdio struct {
	io.Reader
	io.Writer
}

// loadSimConfig reads the optional config file and applies flag overrides.
func loadSimConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("device") {
		cfg.Serial.Device = device
	}
	if flags.Changed("baud") {
		cfg.Serial.Baud = baud
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("sample-interval") {
		cfg.Timing.SampleInterval = sampleInterval
	}
	if flags.Changed("press-every") {
		cfg.Simulator.PressEvery = pressEvery
	}
	return cfg, cfg.Validate()
}

func openPeer(cfg *config.Config) (io.ReadWriter, func() error, error) {
	if cfg.Serial.Device == "" {
		return stdio{os.Stdin, os.Stdout}, func() error { return nil }, nil
	}
	port, err := serial.Open(&serial.Config{
		Device:      cfg.Serial.Device,
		Baud:        cfg.Serial.Baud,
		ReadTimeout: 100,
	})
	if err != nil {
		return nil, nil, err
	}
	return port, port.Close, nil
}

func runSim(cmd *cobra.Command, args []string) error {
	cfg, err := loadSimConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		verbose = true
		log.SetLevel(log.DebugLevel)
	}
	bridgeFirmwareLog()

	fwCfg := cfg.Firmware()

	peer, closePeer, err := openPeer(cfg)
	if err != nil {
		return err
	}
	defer closePeer()
	uart := protocol.NewBufferedUART(peer, 0)

	gpio := sim.NewGPIO()
	gpio.OnChange = func(pin core.GPIOPin, level bool) {
		entry := log.WithFields(log.Fields{"component": "gpio", "pin": pin, "level": level})
		switch pin {
		case fwCfg.LEDPin:
			entry.Debug("indicator led")
		case fwCfg.ActivityPin:
			entry.Info("activity led")
		default:
			entry.Debug("output changed")
		}
	}
	adc := sim.NewADC(cfg.Simulator.ADCStep)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-uart.Done():
			log.WithError(uart.Err()).Info("peer closed")
			cancel()
		case <-ctx.Done():
		}
	}()

	if cfg.Simulator.PressEvery > 0 {
		go pressLoop(ctx, gpio, fwCfg.ButtonPin, cfg.Simulator.PressEvery, cfg.Simulator.Bounces)
	}

	log.WithFields(log.Fields{
		"peer":     peerName(cfg),
		"baud":     fwCfg.Baud,
		"interval": fwCfg.SampleInterval,
	}).Info("starting simulated firmware")

	fw := core.NewFirmware(fwCfg, gpio, adc, uart)
	err = fw.Run(ctx)
	core.DumpEvents()
	for _, task := range []string{core.TaskButton, core.TaskSampler, core.TaskShell, core.TaskBlinker} {
		if n := fw.Supervisor.Restarts(task); n > 0 {
			log.WithFields(log.Fields{"task": task, "restarts": n}).Warn("task was restarted")
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("firmware: %w", err)
	}
	return nil
}

func pressLoop(ctx context.Context, gpio *sim.GPIO, pin core.GPIOPin, every time.Duration, bounces int) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			log.WithFields(log.Fields{"component": "button", "pin": pin}).Info("simulated press")
			gpio.Press(pin, bounces, pressHold)
		}
	}
}

func peerName(cfg *config.Config) string {
	if cfg.Serial.Device == "" {
		return "stdio"
	}
	return cfg.Serial.Device
}
