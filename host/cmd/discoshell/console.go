package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"discoshell/host/serial"
	"discoshell/protocol"
)

// interruptLine is typed on its own line to send Ctrl-C to the board.
const interruptLine = "^C"

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Talk to the board shell over a serial port",
	Long: "Copy the board output to stdout and send each stdin line terminated by CR. " +
		"A line containing only ^C sends 0x03, which leaves 'adc cont'.",
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	if device == "" {
		return errors.New("console needs --device")
	}

	cfg := serial.DefaultConfig(device)
	cfg.Baud = baud
	port, err := serial.Open(cfg)
	if err != nil {
		return err
	}
	defer port.Close()
	log.WithFields(log.Fields{"device": device, "baud": cfg.Baud}).Info("connected")

	go func() {
		if _, err := io.Copy(os.Stdout, port); err != nil {
			log.WithError(err).Error("read from board")
		}
	}()

	return sendLines(port, os.Stdin)
}

// sendLines forwards each input line to the board.
func sendLines(w io.Writer, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := sendLine(w, scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func sendLine(w io.Writer, line string) error {
	out := []byte(line + "\r")
	if line == interruptLine {
		out = []byte{protocol.ETX}
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write to board: %w", err)
	}
	return nil
}
