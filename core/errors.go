package core

import "errors"

var (
	// ErrPeerWrite marks a failed write to the shell peer.
	ErrPeerWrite = errors.New("shell peer write failed")

	// ErrPeerRead marks a failed read from the shell peer.
	ErrPeerRead = errors.New("shell peer read failed")

	// ErrADCRead marks a failed analog conversion.
	ErrADCRead = errors.New("adc read failed")

	// ErrInvalidEdge is returned by drivers asked to wait for an unknown edge.
	ErrInvalidEdge = errors.New("invalid edge")

	// ErrTaskPanic is reported by the supervisor when a task panicked.
	ErrTaskPanic = errors.New("task panicked")
)

// opError pairs a sentinel with the underlying cause so that errors.Is works
// against both, without pulling fmt into the firmware image.
type opError struct {
	kind  error
	op    string
	cause error
}

func wrapError(kind error, op string, cause error) error {
	return &opError{kind: kind, op: op, cause: cause}
}

func (e *opError) Error() string {
	msg := e.kind.Error()
	if e.op != "" {
		msg = e.op + ": " + msg
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *opError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}
