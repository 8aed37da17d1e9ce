package rmp

import "errors"

// Sentinel errors returned by the public API. Internal receive-path
// failures (ErrShortFrame, ErrSimulatedDrop) never escape the receiver
// loop — short frames and simulated drops are logged and absorbed per
// §7 of the protocol design. ErrShortFrame is exported so tests can
// assert on the codec directly.
var (
	// ErrInvalidType is returned by Open when the caller's type tag is
	// not the RMP socket marker.
	ErrInvalidType = errors.New("rmp: invalid socket type")

	// ErrShortFrame is returned by decode when a datagram is smaller
	// than the minimum frame size.
	ErrShortFrame = errors.New("rmp: frame shorter than header")

	// ErrSimulatedDrop names the loss oracle discarding an inbound
	// datagram. The oracle reports a drop as a bool and the receiver
	// loop counts and logs it; no function in the package returns this
	// error.
	ErrSimulatedDrop = errors.New("rmp: simulated packet drop")

	// ErrClosed is returned by Bind, Send and Recv on a socket after
	// Close.
	ErrClosed = errors.New("rmp: socket closed")

	// ErrDuplicateSeq is returned by the pending-send table if an
	// insert collides with an existing sequence number. This should
	// never happen given the monotonic counter invariant.
	ErrDuplicateSeq = errors.New("rmp: duplicate sequence number")
)

// TransportError wraps a failure returned by the underlying datagram
// transport (bind, send, or receive).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return "rmp: transport " + e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func newTransportError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Op: op, Err: err}
}
