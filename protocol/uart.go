package protocol

import (
	"io"
	"sync"
	"time"

	"tinygo.org/x/drivers"
)

// DefaultRxBufferSize matches the receive ring of the STM32 UART driver.
const DefaultRxBufferSize = 256

// BufferedUART adapts a blocking byte stream (stdin, a host serial port, a
// pipe in tests) to drivers.UART, the contract machine.UART implements on the
// board: Read never blocks and Buffered reports pending bytes.
type BufferedUART struct {
	w io.Writer

	mu  sync.Mutex
	rx  *FifoBuffer
	err error

	wmu  sync.Mutex
	done chan struct{}
}

var _ drivers.UART = (*BufferedUART)(nil)

// NewBufferedUART starts a reader goroutine that pumps rw into the receive
// ring. The goroutine exits when rw returns an error.
func NewBufferedUART(rw io.ReadWriter, rxSize int) *BufferedUART {
	if rxSize <= 1 {
		rxSize = DefaultRxBufferSize
	}
	u := &BufferedUART{
		w:    rw,
		rx:   NewFifoBuffer(rxSize),
		done: make(chan struct{}),
	}
	go u.readerLoop(rw)
	return u
}

// readerLoop copies incoming bytes into the ring, waiting for room when the
// consumer falls behind.
func (u *BufferedUART) readerLoop(r io.Reader) {
	defer close(u.done)

	chunk := make([]byte, 64)
	for {
		n, err := r.Read(chunk)
		pending := chunk[:n]
		for len(pending) > 0 {
			u.mu.Lock()
			written := u.rx.Write(pending)
			u.mu.Unlock()
			pending = pending[written:]
			if len(pending) > 0 {
				// Ring full, yield to the consumer
				time.Sleep(time.Millisecond)
			}
		}
		if err != nil {
			u.mu.Lock()
			u.err = err
			u.mu.Unlock()
			return
		}
	}
}

// Buffered returns the number of bytes waiting to be read.
func (u *BufferedUART) Buffered() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.rx.Available()
}

// Read copies buffered bytes into p without blocking. Once the underlying
// stream has failed and the ring is drained, the stream error is returned.
func (u *BufferedUART) Read(p []byte) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := u.rx.Read(p)
	if n == 0 && u.err != nil {
		return 0, u.err
	}
	return n, nil
}

// Write sends p to the underlying stream.
func (u *BufferedUART) Write(p []byte) (int, error) {
	u.wmu.Lock()
	defer u.wmu.Unlock()
	return u.w.Write(p)
}

// Done is closed once the underlying stream has ended.
func (u *BufferedUART) Done() <-chan struct{} {
	return u.done
}

// Err returns the error that ended the stream, if any.
func (u *BufferedUART) Err() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.err
}
