package modem

import (
	"time"

	"go.uber.org/zap"

	"i4.energy/across/nbiot/peripheral"
)

func (c *Config) validate() error {
	if c.dialer == nil {
		return ErrNoDialer
	}
	return nil
}

// Config holds the settings of a Shield. Build it with NewConfigBuilder.
type Config struct {
	dialer Dialer
	board  peripheral.Board
	logger *zap.Logger

	// atTimeout is the default time to wait for a reply before retransmitting
	atTimeout time.Duration
	// attachTimeout is used by the network attach and reboot transactions
	attachTimeout time.Duration
	// pollInterval is the pause between two drains of the serial link
	pollInterval time.Duration
	// stepDelay separates the transactions of multi-step sequences
	stepDelay time.Duration
	// maxRetries caps retransmissions per transaction, 0 means unbounded
	maxRetries      int
	closeAfterMatch bool
}

func (c *Config) setDefaults() {
	if c.atTimeout == 0 {
		c.atTimeout = 3 * time.Second
	}
	if c.attachTimeout == 0 {
		c.attachTimeout = 8 * time.Second
	}
	if c.pollInterval == 0 {
		c.pollInterval = 100 * time.Millisecond
	}
	if c.stepDelay == 0 {
		c.stepDelay = 500 * time.Millisecond
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
}

// ConfigBuilder assembles a Config step by step.
type ConfigBuilder struct {
	config Config
}

func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

func (b *ConfigBuilder) WithDialer(d Dialer) *ConfigBuilder {
	b.config.dialer = d
	return b
}

// WithATTimeout sets the default per-transaction timeout.
func (b *ConfigBuilder) WithATTimeout(d time.Duration) *ConfigBuilder {
	b.config.atTimeout = d
	return b
}

// WithAttachTimeout sets the timeout of the network attach and reboot steps.
func (b *ConfigBuilder) WithAttachTimeout(d time.Duration) *ConfigBuilder {
	b.config.attachTimeout = d
	return b
}

func (b *ConfigBuilder) WithPollInterval(d time.Duration) *ConfigBuilder {
	b.config.pollInterval = d
	return b
}

// WithStepDelay sets the pause between the transactions of the attach,
// reset and power-cycle sequences.
func (b *ConfigBuilder) WithStepDelay(d time.Duration) *ConfigBuilder {
	b.config.stepDelay = d
	return b
}

// WithMaxRetries caps the number of retransmissions of a single command.
// Once exceeded the transaction fails with ErrTimeout. Zero keeps the
// default behaviour of retrying forever.
func (b *ConfigBuilder) WithMaxRetries(n int) *ConfigBuilder {
	b.config.maxRetries = n
	return b
}

// WithCloseAfterMatch closes the serial link after every successful
// transaction. The next transaction reopens it.
func (b *ConfigBuilder) WithCloseAfterMatch(v bool) *ConfigBuilder {
	b.config.closeAfterMatch = v
	return b
}

func (b *ConfigBuilder) WithBoard(board peripheral.Board) *ConfigBuilder {
	b.config.board = board
	return b
}

func (b *ConfigBuilder) WithLogger(l *zap.Logger) *ConfigBuilder {
	b.config.logger = l
	return b
}

// Build validates the accumulated settings and fills in defaults.
func (b *ConfigBuilder) Build() (Config, error) {
	c := b.config
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	c.setDefaults()
	return c, nil
}
