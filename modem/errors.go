package modem

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDialer is returned when a Shield is constructed without a Dialer.
	//
	// This indicates a configuration error. A Dialer is required in order to
	// open the serial link to the module.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrLinkClosed is returned when bytes are written to a Link that has
	// not been opened.
	ErrLinkClosed = errors.New("serial link not open")

	// ErrTimeout is returned when a transaction exhausts its retransmission
	// budget without observing the desired response.
	//
	// It is only ever returned when a retry ceiling is configured. With the
	// default unbounded policy a silent module keeps the transaction waiting.
	ErrTimeout = errors.New("no response from module")

	// ErrAlreadyClosed is returned when Close is called on a Shield that has
	// already been closed, and by every operation attempted afterwards.
	ErrAlreadyClosed = errors.New("shield already closed")

	// ErrNoPeripheral is returned when a board peripheral is used but no
	// collaborator was configured for it.
	ErrNoPeripheral = errors.New("peripheral not configured")

	// ErrInvalidChannel is returned for ADC channels outside 0..3.
	ErrInvalidChannel = errors.New("invalid ADC channel")
)

// IOError reports a failure of the serial device itself: it could not be
// opened, written or read. It is the only transport-level error kind a
// transaction surfaces.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("serial %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
