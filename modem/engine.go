package modem

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"i4.energy/across/nbiot/at"
)

// Request describes one AT transaction.
type Request struct {
	// Command is the command text, without its terminating carriage return.
	Command string
	// Desired is the token whose appearance in the accumulated response
	// completes the transaction. Ignored by at.MatchAnyLine.
	Desired string
	Match   at.MatchMode
	// Timeout is the time to wait before retransmitting. Zero selects the
	// engine default.
	Timeout time.Duration
}

// Engine drives AT transactions over a Link: it sends a command, polls the
// link until the desired response shows up and retransmits the command each
// time the timeout elapses first.
//
// An Engine runs one transaction at a time. Concurrent callers are
// serialized for the whole send/poll/return cycle.
type Engine struct {
	mu   sync.Mutex
	link *Link

	timeout         atomic.Int64
	pollInterval    time.Duration
	maxRetries      int
	closeAfterMatch bool

	metrics *Metrics
	logger  *zap.Logger
}

// NewEngine creates an Engine driving link with the timing settings of config.
func NewEngine(link *Link, config Config) *Engine {
	config.setDefaults()
	e := &Engine{
		link:            link,
		pollInterval:    config.pollInterval,
		maxRetries:      config.maxRetries,
		closeAfterMatch: config.closeAfterMatch,
		metrics:         newMetrics(),
		logger:          config.logger.With(zap.String("component", "engine")),
	}
	e.timeout.Store(int64(config.atTimeout))
	return e
}

// Timeout returns the default transaction timeout.
func (e *Engine) Timeout() time.Duration {
	return time.Duration(e.timeout.Load())
}

// SetTimeout changes the default transaction timeout. Non-positive values
// are ignored.
func (e *Engine) SetTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	e.timeout.Store(int64(d))
}

// Metrics returns a snapshot of the engine counters.
func (e *Engine) Metrics() MetricsSnapshot {
	return e.metrics.snapshot()
}

// SendATComm sends command and waits until desired appears in the response,
// using the default timeout between retransmissions. It returns the whole
// accumulated response.
func (e *Engine) SendATComm(ctx context.Context, command, desired string) (string, error) {
	return e.Exec(ctx, Request{Command: command, Desired: desired})
}

// SendATCommTimeout is SendATComm with an explicit retransmission timeout.
func (e *Engine) SendATCommTimeout(ctx context.Context, command, desired string, timeout time.Duration) (string, error) {
	return e.Exec(ctx, Request{Command: command, Desired: desired, Timeout: timeout})
}

// Exec runs one transaction.
//
// The returned text is everything the module sent since the last
// (re)transmission of the command. Exec only fails when the serial device
// fails, when ctx is done, or when the configured retry ceiling is exceeded
// (ErrTimeout). An explicit error reply from the module is not a failure:
// it simply does not contain the desired token.
func (e *Engine) Exec(ctx context.Context, req Request) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = e.Timeout()
	}

	log := e.logger.With(
		zap.String("transaction_id", uuid.NewString()),
		zap.String("command", req.Command),
	)
	e.metrics.Transactions.Inc()

	if err := e.dispatch(ctx, req.Command); err != nil {
		log.Error("Failed to dispatch command", zap.Error(err))
		return "", err
	}
	log.Debug("Command dispatched",
		zap.String("desired", req.Desired),
		zap.Stringer("match", req.Match),
		zap.Duration("timeout", timeout),
	)

	var (
		response strings.Builder
		retries  int
		t0       = time.Now()
	)

	for {
		if time.Since(t0) > timeout {
			if e.maxRetries > 0 && retries >= e.maxRetries {
				e.metrics.Timeouts.Inc()
				log.Error("Giving up on command",
					zap.Int("retransmissions", retries),
					zap.String("response", response.String()),
				)
				return response.String(), fmt.Errorf("%w: %s after %d retransmissions", ErrTimeout, req.Command, retries)
			}

			retries++
			e.metrics.retransmitted(req.Command)
			log.Warn("No response within timeout, retransmitting",
				zap.Int("retransmission", retries),
				zap.Duration("timeout", timeout),
			)
			if err := e.dispatch(ctx, req.Command); err != nil {
				return response.String(), err
			}
			response.Reset()
			t0 = time.Now()
		}

		chunk, err := e.link.Drain()
		if err != nil {
			log.Error("Failed to read response", zap.Error(err))
			return response.String(), err
		}
		response.WriteString(chunk)

		if req.Match.Matches(response.String(), req.Desired) {
			log.Debug("Response matched",
				zap.Int("retransmissions", retries),
				zap.Duration("elapsed", time.Since(t0)),
				zap.String("response", response.String()),
			)
			if e.closeAfterMatch {
				if err := e.link.Close(); err != nil {
					log.Warn("Failed to close serial link", zap.Error(err))
				}
			}
			return response.String(), nil
		}

		if err := sleep(ctx, e.pollInterval); err != nil {
			return response.String(), err
		}
	}
}

// hold runs fn while no transaction is in flight.
func (e *Engine) hold(fn func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn()
}

// dispatch opens the link if needed, discards stale input and writes cmd.
func (e *Engine) dispatch(ctx context.Context, cmd string) error {
	if err := e.link.Open(ctx); err != nil {
		return err
	}
	return e.link.WriteCommand(ctx, cmd)
}

// sleep pauses for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
