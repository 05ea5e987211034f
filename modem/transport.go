package modem

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"

	"i4.energy/across/nbiot/at"
)

//go:generate go tool mockgen -source=transport.go -destination=mock_transport.go -package=modem

const (
	defaultBaudRate    = 115200
	defaultReadTimeout = 10 * time.Millisecond
	readBufferSize     = 256
)

// Port represents an open, bidirectional byte stream to the radio module.
//
// It is the subset of go.bug.st/serial.Port used by the driver. Typical
// implementations are real serial ports and in-memory fakes used for
// testing.
type Port interface {
	io.ReadWriteCloser

	// SetReadTimeout bounds how long Read waits for the first byte. A Read
	// that times out returns 0 bytes and no error.
	SetReadTimeout(t time.Duration) error
	// ResetInputBuffer discards bytes received but not yet read.
	ResetInputBuffer() error
}

// Dialer opens a Port to the radio module.
//
// Dialer abstracts how the connection is created (for example, via a serial
// port or a test double). A Link dials lazily, every time it has to be
// reopened.
type Dialer interface {
	// Dial is responsible for creating and returning a connected Port. It may
	// perform blocking operations and should respect cancellation provided by
	// the context. Dial returns an error if the port cannot be opened.
	Dial(ctx context.Context) (Port, error)
}

// SerialDialer opens the module over a serial device using go.bug.st/serial.
type SerialDialer struct {
	PortName string
	BaudRate int
	// Mode overrides BaudRate and the 8N1 framing when set.
	Mode *serial.Mode
	// ReadTimeout bounds every drain read. Defaults to 10ms.
	ReadTimeout time.Duration
}

// Dial opens the serial device.
func (d SerialDialer) Dial(ctx context.Context) (Port, error) {
	if d.PortName == "" {
		return nil, errors.New("nbiot: serial port name is required")
	}
	if ctx == nil {
		return nil, errors.New("nbiot: context is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode := d.Mode
	if mode == nil {
		baud := d.BaudRate
		if baud == 0 {
			baud = defaultBaudRate
		}
		mode = &serial.Mode{
			BaudRate: baud,
			Parity:   serial.NoParity,
			DataBits: 8,
			StopBits: serial.OneStopBit,
		}
	}

	port, err := serial.Open(d.PortName, mode)
	if err != nil {
		return nil, err
	}

	timeout := d.ReadTimeout
	if timeout <= 0 {
		timeout = defaultReadTimeout
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, err
	}
	return port, nil
}

var _ Dialer = SerialDialer{}

// Link owns the serial connection to the module. It is opened lazily and
// may be closed and reopened any number of times; at most one Port is open
// at a time. Once Shutdown has been called the Link refuses to open again.
type Link struct {
	mu     sync.Mutex
	dialer Dialer
	port   Port
	shut   bool
	buf    []byte
	logger *zap.Logger
}

// NewLink creates a closed Link that dials through dialer when opened.
func NewLink(dialer Dialer, logger *zap.Logger) *Link {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Link{
		dialer: dialer,
		buf:    make([]byte, readBufferSize),
		logger: logger,
	}
}

// Open opens the link if it is not already open.
func (l *Link) Open(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.shut {
		return ErrAlreadyClosed
	}
	if l.port != nil {
		return nil
	}

	port, err := l.dialer.Dial(ctx)
	if err != nil {
		l.logger.Error("Failed to open serial link", zap.Error(err))
		return &IOError{Op: "open", Err: err}
	}
	if port == nil {
		return &IOError{Op: "open", Err: errors.New("dialer returned no port")}
	}

	l.port = port
	l.logger.Debug("Serial link opened")
	return nil
}

// IsOpen returns whether the link currently holds an open Port.
func (l *Link) IsOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.port != nil
}

// Write discards any stale inbound bytes and writes frame.
func (l *Link) Write(ctx context.Context, frame []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.shut {
		return ErrAlreadyClosed
	}
	if l.port == nil {
		return ErrLinkClosed
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := l.port.ResetInputBuffer(); err != nil {
		return &IOError{Op: "reset input", Err: err}
	}

	n, err := l.port.Write(frame)
	if err != nil {
		l.logger.Error("Failed to write to serial link",
			zap.Error(err),
			zap.Int("bytes_to_write", len(frame)),
		)
		return &IOError{Op: "write", Err: err}
	}
	if n != len(frame) {
		return &IOError{Op: "write", Err: io.ErrShortWrite}
	}
	return nil
}

// WriteCommand writes cmd framed with a single carriage return.
func (l *Link) WriteCommand(ctx context.Context, cmd string) error {
	return l.Write(ctx, []byte(cmd+at.CR))
}

// Drain reads every byte that is currently available and returns it as
// text. It never waits for more bytes than the port's read timeout and
// returns "" when nothing arrived. Invalid UTF-8 is replaced, not reported.
func (l *Link) Drain() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.shut {
		return "", ErrAlreadyClosed
	}
	if l.port == nil {
		return "", ErrLinkClosed
	}

	var sb strings.Builder
	for {
		n, err := l.port.Read(l.buf)
		if n > 0 {
			sb.Write(l.buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return decode(sb.String()), &IOError{Op: "read", Err: err}
		}
		if n == 0 {
			break
		}
	}
	return decode(sb.String()), nil
}

// Close closes the link. Closing a closed link is a no-op.
func (l *Link) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.close()
}

// Shutdown closes the link for good. A transaction still running on it
// fails with ErrAlreadyClosed on its next read or write, and Open refuses
// to dial again.
func (l *Link) Shutdown() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.shut = true
	return l.close()
}

func (l *Link) close() error {
	if l.port == nil {
		return nil
	}

	err := l.port.Close()
	l.port = nil
	if err != nil {
		l.logger.Error("Failed to close serial link", zap.Error(err))
		return &IOError{Op: "close", Err: err}
	}
	l.logger.Debug("Serial link closed")
	return nil
}

func decode(raw string) string {
	return strings.ToValidUTF8(raw, "�")
}
