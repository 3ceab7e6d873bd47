package core

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func newTestShell(enabled bool) (*Shell, *MockUART, *Indicator, *SampleChannel) {
	uart := &MockUART{}
	ind := NewIndicator(enabled)
	samples := NewSampleChannel(SampleChannelCapacity)
	return NewShell(testConfig(), uart, ind, samples), uart, ind, samples
}

func TestProcessCommand(t *testing.T) {
	tests := []struct {
		name     string
		cmd      string
		before   bool
		after    bool
		response string
	}{
		{"led on from off", "led on", false, true, MsgLEDOn},
		{"led on from on", "led on", true, true, MsgLEDOn},
		{"led off from on", "led off", true, false, MsgLEDOff},
		{"led off from off", "led off", false, false, MsgLEDOff},
		{"toggle from on", "led toggle", true, false, "LED desligado\r\n"},
		{"toggle from off", "led toggle", false, true, "LED ligado\r\n"},
		{"status active", "status", true, true, "Sistema OK - LED ativo\r\n"},
		{"status inactive", "status", false, false, "Sistema OK - LED inativo\r\n"},
		{"unknown", "unknown", true, true, MsgNotRecognized},
		{"case sensitive", "LED ON", false, false, MsgNotRecognized},
		{"prefix only", "led", true, true, MsgNotRecognized},
		{"empty", "", true, true, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sh, _, ind, _ := newTestShell(tc.before)

			got := sh.ProcessCommand(tc.cmd)
			if got != tc.response {
				t.Errorf("ProcessCommand(%q) response = %q, want %q", tc.cmd, got, tc.response)
			}
			if ind.Enabled() != tc.after {
				t.Errorf("ProcessCommand(%q) state = %v, want %v", tc.cmd, ind.Enabled(), tc.after)
			}
		})
	}
}

func TestProcessCommandIdempotentLEDOn(t *testing.T) {
	sh, _, ind, _ := newTestShell(false)

	first := sh.ProcessCommand("led on")
	second := sh.ProcessCommand("led on")

	if !ind.Enabled() {
		t.Error("Expected LED enabled after two 'led on'")
	}
	if first != second {
		t.Errorf("Responses differ: %q vs %q", first, second)
	}
}

func TestHelpListsCommands(t *testing.T) {
	sh, _, _, _ := newTestShell(true)

	help := sh.ProcessCommand("help")
	if !strings.HasPrefix(help, HelpHeader) {
		t.Errorf("Help should start with header, got %q", help)
	}
	for _, name := range []string{CmdHelp, CmdLEDOn, CmdLEDOff, CmdLEDToggle, CmdStatus, CmdADCCont} {
		if !strings.Contains(help, "  "+name+" ") {
			t.Errorf("Help does not list %q", name)
		}
	}
	if strings.Index(help, CmdLEDOn) > strings.Index(help, CmdStatus) {
		t.Error("Help should list commands in registration order")
	}
	t.Logf("Help:\n%s", help)
}

func feedBytes(t *testing.T, sh *Shell, input string) {
	t.Helper()
	for i := 0; i < len(input); i++ {
		if err := sh.HandleByte(context.Background(), input[i]); err != nil {
			t.Fatalf("HandleByte(0x%02x) failed: %v", input[i], err)
		}
	}
}

func TestShellEchoAndResponse(t *testing.T) {
	sh, uart, _, _ := newTestShell(true)

	feedBytes(t, sh, "status\r")

	want := "status" + "\r\n" + MsgStatusActive + DefaultPrompt
	if got := uart.output(); got != want {
		t.Errorf("Output = %q, want %q", got, want)
	}
}

func TestShellBackspaceEcho(t *testing.T) {
	sh, uart, ind, _ := newTestShell(true)

	feedBytes(t, sh, "led offf\x7f\r")

	out := uart.output()
	if !strings.HasPrefix(out, "led offf\b \b\r\n") {
		t.Errorf("Unexpected echo: %q", out)
	}
	if ind.Enabled() {
		t.Error("Expected 'led off' after erasing the extra character")
	}
}

func TestShellBackspaceOnEmptyLine(t *testing.T) {
	sh, uart, _, _ := newTestShell(true)

	feedBytes(t, sh, "\x08")

	if got := uart.output(); got != "\b \b" {
		t.Errorf("Expected erase sequence only, got %q", got)
	}
	if sh.line.Len() != 0 || sh.line.Ready() {
		t.Error("Backspace on empty line must leave the buffer empty and not ready")
	}
}

func TestShellLineEndings(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		prompts int
	}{
		{"CR", "status\r", 1},
		{"LF", "status\n", 1},
		{"CRLF", "status\r\n", 1},
		{"LFCR", "status\n\r", 2}, // second terminator is an empty line
		{"empty line", "\r", 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sh, uart, _, _ := newTestShell(true)
			feedBytes(t, sh, tc.input)

			out := uart.output()
			if n := strings.Count(out, DefaultPrompt); n != tc.prompts {
				t.Errorf("Expected %d prompts, got %d in %q", tc.prompts, n, out)
			}
			if strings.Contains(tc.input, "status") && strings.Count(out, MsgStatusActive) != 1 {
				t.Errorf("Expected exactly one status response in %q", out)
			}
		})
	}
}

func TestShellNonPrintableNotEchoed(t *testing.T) {
	sh, uart, _, _ := newTestShell(true)

	feedBytes(t, sh, "\x01")
	if got := uart.output(); got != "" {
		t.Errorf("Control byte should not be echoed, got %q", got)
	}
	if sh.line.Len() != 1 {
		t.Errorf("Control byte should still be buffered, len=%d", sh.line.Len())
	}
}

func TestShellOverlongLine(t *testing.T) {
	sh, uart, _, _ := newTestShell(true)

	feedBytes(t, sh, strings.Repeat("x", 70))
	if sh.line.Len() != LineMax {
		t.Errorf("Expected %d buffered characters, got %d", LineMax, sh.line.Len())
	}

	feedBytes(t, sh, "\r")
	if !strings.Contains(uart.output(), MsgNotRecognized) {
		t.Error("Expected the truncated line to be processed")
	}
}

func TestShellRun(t *testing.T) {
	sh, uart, ind, _ := newTestShell(true)
	uart.feed("led off\r")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sh.Run(ctx) }()

	waitForOutput(t, uart, MsgLEDOff+DefaultPrompt)
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if !strings.HasPrefix(uart.output(), BootBanner+DefaultPrompt) {
		t.Errorf("Expected boot banner and prompt first, got %q", uart.output())
	}
	if ind.Enabled() {
		t.Error("Expected LED disabled")
	}
}

func TestShellRunWriteFailure(t *testing.T) {
	sh, uart, _, _ := newTestShell(true)
	uart.writeErr = errors.New("tx overrun")

	err := sh.Run(context.Background())
	if !errors.Is(err, ErrPeerWrite) {
		t.Errorf("Expected ErrPeerWrite, got %v", err)
	}
}

func TestShellRunReadFailure(t *testing.T) {
	sh, uart, _, _ := newTestShell(true)
	uart.readErr = errors.New("framing error")

	err := sh.Run(context.Background())
	if !errors.Is(err, ErrPeerRead) {
		t.Errorf("Expected ErrPeerRead, got %v", err)
	}
}

func TestShellRunRestartsClean(t *testing.T) {
	sh, uart, _, _ := newTestShell(true)

	// Leave a half-typed line behind from a previous session
	feedBytes(t, sh, "led o")
	uart.resetOutput()

	uart.feed("status\r")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sh.Run(ctx) }()

	waitForOutput(t, uart, MsgStatusActive)
	cancel()
	<-done

	if strings.Contains(uart.output(), MsgNotRecognized) {
		t.Error("Stale input from the previous session leaked into the new one")
	}
}

func TestShellADCContinuous(t *testing.T) {
	sh, uart, _, samples := newTestShell(true)
	for _, v := range []ADCValue{100, 2048, 4095} {
		samples.TryPublish(v)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- sh.Run(ctx) }()

	uart.feed("adc cont\r")
	waitForOutput(t, uart, "ADC: 4095\r\n")

	uart.feed("\x03")
	waitForOutput(t, uart, ADCModeTrailer+DefaultPrompt)

	out := uart.output()
	if !strings.Contains(out, "adc cont\r\n"+ADCModeBanner) {
		t.Errorf("Expected banner after the command echo, got %q", out)
	}
	if n := strings.Count(out, ADCLinePrefix); n != 3 {
		t.Errorf("Expected 3 ADC lines, got %d in %q", n, out)
	}
	first := strings.Index(out, "ADC: 100\r\n")
	second := strings.Index(out, "ADC: 2048\r\n")
	third := strings.Index(out, "ADC: 4095\r\n")
	if first < 0 || !(first < second && second < third) {
		t.Errorf("ADC lines out of order in %q", out)
	}

	// The shell is back in line mode
	uart.feed("led off\r")
	waitForOutput(t, uart, MsgLEDOff)

	cancel()
	<-done
}

func TestShellADCContinuousIgnoresOtherBytes(t *testing.T) {
	sh, uart, _, samples := newTestShell(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- sh.Run(ctx) }()

	uart.feed("adc cont\r")
	waitForOutput(t, uart, ADCModeBanner)

	uart.feed("q")
	samples.TryPublish(7)
	waitForOutput(t, uart, "ADC: 7\r\n")
	if strings.Contains(uart.output(), ADCModeTrailer) {
		t.Error("Only Ctrl-C may end continuous mode")
	}

	uart.feed("\x03")
	waitForOutput(t, uart, ADCModeTrailer)

	cancel()
	<-done
}
