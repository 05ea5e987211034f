package modem

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"i4.energy/across/nbiot/at"
	"i4.energy/across/nbiot/peripheral"
)

// Shield represents the NB-IoT shield: the BC95 radio module reached through
// AT commands, plus the board peripherals around it.
//
// Operations that talk to the module block until the module has answered.
// They are safe for concurrent use; transactions run one at a time.
type Shield struct {
	engine *Engine
	link   *Link
	board  peripheral.Board
	logger *zap.Logger

	attachTimeout time.Duration
	stepDelay     time.Duration

	mu         sync.RWMutex
	closed     bool
	ipAddress  string
	domainName string
	port       string
	// socket is the UDP socket number assigned by the module
	socket int
}

// ShieldConfig is a snapshot of the session attributes of a Shield.
type ShieldConfig struct {
	IPAddress  string        `json:"ip_address"`
	DomainName string        `json:"domain_name"`
	Port       string        `json:"port"`
	Timeout    time.Duration `json:"timeout"`
}

// New creates a Shield from config. The serial link is not opened until the
// first transaction needs it.
func New(config Config) (*Shield, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	config.setDefaults()

	link := NewLink(config.dialer, config.logger.With(zap.String("component", "link")))
	s := &Shield{
		engine:        NewEngine(link, config),
		link:          link,
		board:         config.board,
		logger:        config.logger.With(zap.String("component", "shield")),
		attachTimeout: config.attachTimeout,
		stepDelay:     config.stepDelay,
	}
	s.logger.Info("Shield initialized",
		zap.Duration("timeout", config.atTimeout),
		zap.Int("max_retries", config.maxRetries),
	)
	return s, nil
}

// Engine returns the transaction engine of the shield.
func (s *Shield) Engine() *Engine {
	return s.engine
}

// Metrics returns a snapshot of the transaction counters.
func (s *Shield) Metrics() MetricsSnapshot {
	return s.engine.Metrics()
}

// Close releases the serial link. After calling Close the shield cannot be
// reused: a transaction still in flight returns ErrAlreadyClosed instead of
// reopening the device.
func (s *Shield) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrAlreadyClosed
	}
	s.closed = true
	return s.link.Shutdown()
}

// SendATComm sends an arbitrary command and waits for desired.
func (s *Shield) SendATComm(ctx context.Context, command, desired string) (string, error) {
	return s.exec(ctx, Request{Command: command, Desired: desired})
}

// exec runs req unless the shield has been closed.
func (s *Shield) exec(ctx context.Context, req Request) (string, error) {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return "", ErrAlreadyClosed
	}
	return s.engine.Exec(ctx, req)
}

func (s *Shield) expectOK(ctx context.Context, cmd string) (string, error) {
	return s.exec(ctx, Request{Command: cmd, Desired: at.TokenOK})
}

// Settings returns the current session attributes.
func (s *Shield) Settings() ShieldConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ShieldConfig{
		IPAddress:  s.ipAddress,
		DomainName: s.domainName,
		Port:       s.port,
		Timeout:    s.engine.Timeout(),
	}
}

// IPAddress returns the datagram destination address.
func (s *Shield) IPAddress() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ipAddress
}

// SetIPAddress sets the datagram destination. The value is not validated.
func (s *Shield) SetIPAddress(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ipAddress = ip
}

// DomainName returns the domain name recorded for the target.
func (s *Shield) DomainName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.domainName
}

// SetDomainName records the domain name of the target. It is informational
// only, datagrams are addressed by IP.
func (s *Shield) SetDomainName(domain string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.domainName = domain
}

// Port returns the UDP port, used both locally and as destination.
func (s *Shield) Port() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.port
}

// SetPort sets the port used both as local socket port and as datagram
// destination port. The value is not validated.
func (s *Shield) SetPort(port string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.port = port
}

// Timeout returns the default time to wait for a reply before
// retransmitting.
func (s *Shield) Timeout() time.Duration {
	return s.engine.Timeout()
}

// SetTimeout changes the default time to wait for a reply. Non-positive
// values are ignored.
func (s *Shield) SetTimeout(d time.Duration) {
	s.engine.SetTimeout(d)
}

// pause waits for the configured step delay between two transactions.
func (s *Shield) pause(ctx context.Context) error {
	return sleep(ctx, s.stepDelay)
}
