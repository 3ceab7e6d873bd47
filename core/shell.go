package core

import (
	"context"
	"time"

	"discoshell/protocol"

	"tinygo.org/x/drivers"
)

// Shell is the line-oriented command processor on the serial port. It echoes
// input a character at a time, collects lines and dispatches them to the
// command registry.
type Shell struct {
	cfg       *Config
	uart      drivers.UART
	indicator *Indicator
	samples   *SampleChannel
	registry  *CommandRegistry

	line   LineBuffer
	lastCR bool
	rx     [1]byte
	out    []byte
}

// NewShell creates a shell talking to uart. The built-in commands are
// registered on a fresh registry.
func NewShell(cfg *Config, uart drivers.UART, indicator *Indicator, samples *SampleChannel) *Shell {
	s := &Shell{
		cfg:       cfg,
		uart:      uart,
		indicator: indicator,
		samples:   samples,
		registry:  NewCommandRegistry(),
		out:       make([]byte, 0, 32),
	}
	s.registerBuiltins()
	return s
}

func (s *Shell) registerBuiltins() {
	r := s.registry
	r.Register(CmdHelp, "mostra esta ajuda", func(ctx context.Context, sh *Shell) (string, error) {
		return sh.registry.Usage(), nil
	})
	r.Register(CmdLEDOn, "liga o LED", func(ctx context.Context, sh *Shell) (string, error) {
		sh.indicator.Set(true)
		return MsgLEDOn, nil
	})
	r.Register(CmdLEDOff, "desliga o LED", func(ctx context.Context, sh *Shell) (string, error) {
		sh.indicator.Set(false)
		return MsgLEDOff, nil
	})
	r.Register(CmdLEDToggle, "alterna o LED", func(ctx context.Context, sh *Shell) (string, error) {
		return ledMessage(sh.indicator.Toggle()), nil
	})
	r.Register(CmdStatus, "mostra o estado do sistema", func(ctx context.Context, sh *Shell) (string, error) {
		return statusMessage(sh.indicator.Enabled()), nil
	})
	r.Register(CmdADCCont, "leituras continuas do ADC (Ctrl+C sai)", func(ctx context.Context, sh *Shell) (string, error) {
		return "", sh.adcContinuous(ctx)
	})
}

// Registry exposes the command table.
func (s *Shell) Registry() *CommandRegistry {
	return s.registry
}

// Run starts a session: banner, prompt, then byte processing until ctx is
// done or the peer fails. The line buffer starts empty on every call.
func (s *Shell) Run(ctx context.Context) error {
	s.line.Reset()
	s.lastCR = false

	if err := s.write(BootBanner + s.cfg.Prompt); err != nil {
		return err
	}

	for {
		b, err := s.readByte(ctx)
		if err != nil {
			return err
		}
		if err := s.HandleByte(ctx, b); err != nil {
			return err
		}
	}
}

// HandleByte processes one received byte: echo, buffer, and on a completed
// line execute the command and write the response and a new prompt.
func (s *Shell) HandleByte(ctx context.Context, b byte) error {
	afterCR := s.lastCR
	s.lastCR = b == protocol.CR

	switch {
	case b == protocol.CR:
		if err := s.write(protocol.CRLF); err != nil {
			return err
		}
	case b == protocol.LF:
		if afterCR {
			// CRLF from the peer completes a single line
			return nil
		}
		if err := s.write(protocol.CRLF); err != nil {
			return err
		}
	case b == protocol.BS || b == protocol.DEL:
		if err := s.write(protocol.Erase); err != nil {
			return err
		}
	case protocol.IsPrintable(b):
		s.rx[0] = b
		if err := s.writeBytes(s.rx[:]); err != nil {
			return err
		}
	}
	s.line.Put(b)

	if !s.line.Ready() {
		return nil
	}
	return s.completeLine(ctx, s.line.Take())
}

func (s *Shell) completeLine(ctx context.Context, cmd string) error {
	resp, err := s.Execute(ctx, cmd)
	if err != nil {
		return err
	}
	return s.write(resp + s.cfg.Prompt)
}

// Execute runs one trimmed command line and returns its response.
func (s *Shell) Execute(ctx context.Context, cmd string) (string, error) {
	if cmd == "" {
		return "", nil
	}
	c, ok := s.registry.Lookup(cmd)
	if !ok {
		return MsgNotRecognized, nil
	}
	return c.Handler(ctx, s)
}

// ProcessCommand dispatches a command that does not stream output and
// returns its response. The indicator is updated as a side effect.
func (s *Shell) ProcessCommand(cmd string) string {
	if cmd == CmdADCCont {
		return ""
	}
	resp, _ := s.Execute(context.Background(), cmd)
	return resp
}

// adcContinuous streams samples to the peer until Ctrl-C is received.
func (s *Shell) adcContinuous(ctx context.Context) error {
	if err := s.write(ADCModeBanner); err != nil {
		return err
	}

	poll := time.NewTicker(s.cfg.RxPoll)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v := <-s.samples.C():
			s.out = append(s.out[:0], ADCLinePrefix...)
			s.out = appendUint(s.out, uint32(v))
			s.out = append(s.out, protocol.CRLF...)
			if err := s.writeBytes(s.out); err != nil {
				return err
			}
		case <-poll.C:
		}

		if s.cancelRequested() {
			break
		}
	}

	return s.write(ADCModeTrailer)
}

// cancelRequested reads at most one pending byte and reports whether it was
// Ctrl-C. Read errors count as no request.
func (s *Shell) cancelRequested() bool {
	if s.uart.Buffered() == 0 {
		return false
	}
	n, err := s.uart.Read(s.rx[:])
	if err != nil || n == 0 {
		return false
	}
	return s.rx[0] == protocol.ETX
}

// readByte waits for the next byte from the peer, yielding between polls.
func (s *Shell) readByte(ctx context.Context) (byte, error) {
	for {
		n, err := s.uart.Read(s.rx[:])
		if err != nil {
			return 0, wrapError(ErrPeerRead, "shell", err)
		}
		if n == 1 {
			return s.rx[0], nil
		}

		if err := sleep(ctx, s.cfg.RxPoll); err != nil {
			return 0, err
		}
	}
}

func (s *Shell) write(text string) error {
	if text == "" {
		return nil
	}
	return s.writeBytes([]byte(text))
}

func (s *Shell) writeBytes(p []byte) error {
	if _, err := s.uart.Write(p); err != nil {
		return wrapError(ErrPeerWrite, "shell", err)
	}
	return nil
}
