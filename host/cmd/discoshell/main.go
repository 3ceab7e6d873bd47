package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"discoshell/core"
	"discoshell/protocol"
)

var (
	configPath string
	device     string
	baud       int
	verbose    bool

	mainCmd = &cobra.Command{
		Use:               "discoshell",
		Short:             "Host tools for the STM32F4-Discovery serial shell",
		Version:           protocol.Version,
		PersistentPreRun:  setupLogging,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}
)

func setupLogging(cmd *cobra.Command, args []string) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// bridgeFirmwareLog routes the firmware debug writer into logrus.
func bridgeFirmwareLog() {
	fwLog := log.WithField("component", "firmware")
	core.SetDebugWriter(func(s string) {
		fwLog.Debug(s)
	})
	core.SetDebugEnabled(verbose)
	core.InitAsyncDebug()
}

func main() {
	mainCmd.PersistentFlags().StringVarP(&device, "device", "d", "", "Serial device path, e.g. /dev/ttyUSB0")
	mainCmd.PersistentFlags().IntVarP(&baud, "baud", "b", core.DefaultBaud, "Baud rate")
	mainCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	simCmd.Flags().StringVarP(&configPath, "config", "c", "", "Config path. TOML file with simulator settings")
	simCmd.Flags().DurationVar(&sampleInterval, "sample-interval", 0, "Analog sample period (default 500ms)")
	simCmd.Flags().DurationVar(&pressEvery, "press-every", 0, "Press the simulated user button periodically")

	mainCmd.AddCommand(simCmd, consoleCmd)
	if err := mainCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
