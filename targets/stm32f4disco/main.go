//go:build stm32f4disco

package main

import (
	"context"
	"machine"
	"time"

	"discoshell/core"
)

func main() {
	cfg := core.DefaultConfig()

	// Debug output goes to the SWO/semihosting console, not the shell UART
	core.SetDebugWriter(func(s string) {
		println(s)
	})
	core.InitAsyncDebug()

	// Shell UART: USART2 on PA2/PA3
	uart := machine.UART1
	err := uart.Configure(machine.UARTConfig{
		BaudRate: cfg.Baud,
		TX:       machine.UART_TX_PIN,
		RX:       machine.UART_RX_PIN,
	})
	if err != nil {
		halt("uart: " + err.Error())
	}

	// Initialize and register GPIO driver
	gpioDriver := NewSTM32GPIODriver()
	core.SetGPIODriver(gpioDriver)

	// Initialize and register ADC driver
	adcDriver := NewSTM32AdcDriver()
	core.SetADCDriver(adcDriver)

	fw := core.NewFirmware(cfg, core.MustGPIO(), core.MustADC(), uart)

	// The board never shuts down; Run only returns on a configuration error
	if err := fw.Run(context.Background()); err != nil {
		halt("boot: " + err.Error())
	}
}

// halt reports a fatal boot error and parks forever with the red LED lit.
func halt(msg string) {
	core.DebugPrintln("[BOOT] fatal " + msg)
	core.DumpEvents()

	red := machine.LED_RED
	red.Configure(machine.PinConfig{Mode: machine.PinOutput})
	red.High()
	for {
		time.Sleep(time.Hour)
	}
}
