package modem

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"
)

// TestPort is a scripted in-memory Port that plays the radio module in
// tests. It is also a Dialer that hands out itself, reopened.
//
// Replies are registered per command with Respond. Every chunk of a reply is
// delivered by its own Link.Drain call, so a reply split over several chunks
// reaches the engine over several polls, the way a slow UART would deliver
// it. Commands without a registered reply are left unanswered.
type TestPort struct {
	mu sync.Mutex

	rules   map[string]testReply
	queue   [][]byte
	pending []byte
	yielded bool

	writes []string
	counts map[string]int
	resets int
	dials  int
	closed bool

	// DialErr, WriteErr and ReadErr make the corresponding call fail.
	DialErr  error
	WriteErr error
	ReadErr  error
}

type testReply struct {
	from   int
	chunks []string
}

// NewTestPort creates a TestPort with no scripted replies.
func NewTestPort() *TestPort {
	return &TestPort{
		rules:  make(map[string]testReply),
		counts: make(map[string]int),
	}
}

// Respond scripts the reply to cmd, sent after every transmission of cmd.
func (p *TestPort) Respond(cmd string, chunks ...string) *TestPort {
	return p.RespondFrom(cmd, 1, chunks...)
}

// RespondFrom scripts the reply to cmd starting with its attempt-th
// transmission. Earlier transmissions go unanswered.
func (p *TestPort) RespondFrom(cmd string, attempt int, chunks ...string) *TestPort {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rules[cmd] = testReply{from: attempt, chunks: chunks}
	return p
}

// Feed queues unsolicited bytes, as if the module had sent them on its own.
func (p *TestPort) Feed(chunks ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range chunks {
		p.queue = append(p.queue, []byte(c))
	}
}

// Writes returns every frame written so far, terminators included.
func (p *TestPort) Writes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.writes...)
}

// WriteCount returns how many times cmd was transmitted.
func (p *TestPort) WriteCount(cmd string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[cmd]
}

// Resets returns how many times the input buffer was discarded.
func (p *TestPort) Resets() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resets
}

// Dials returns how many times the port was (re)opened.
func (p *TestPort) Dials() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dials
}

// Closed reports whether the last opened port has been closed.
func (p *TestPort) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *TestPort) Dial(ctx context.Context) (Port, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.DialErr != nil {
		return nil, p.DialErr
	}
	p.dials++
	p.closed = false
	return p, nil
}

func (p *TestPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, io.ErrClosedPipe
	}
	if p.WriteErr != nil {
		return 0, p.WriteErr
	}

	frame := string(b)
	p.writes = append(p.writes, frame)

	cmd := strings.TrimSuffix(frame, "\r")
	p.counts[cmd]++
	if r, ok := p.rules[cmd]; ok && p.counts[cmd] >= r.from {
		for _, c := range r.chunks {
			p.queue = append(p.queue, []byte(c))
		}
	}
	return len(b), nil
}

// Read hands out at most one queued chunk per drain: once a chunk has been
// fully read, the following Read returns 0 bytes.
func (p *TestPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, io.EOF
	}
	if p.ReadErr != nil {
		return 0, p.ReadErr
	}

	if p.pending == nil {
		if p.yielded || len(p.queue) == 0 {
			p.yielded = false
			return 0, nil
		}
		p.pending = p.queue[0]
		p.queue = p.queue[1:]
	}

	n := copy(b, p.pending)
	p.pending = p.pending[n:]
	if len(p.pending) == 0 {
		p.pending = nil
		p.yielded = true
	}
	return n, nil
}

func (p *TestPort) SetReadTimeout(time.Duration) error {
	return nil
}

func (p *TestPort) ResetInputBuffer() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = nil
	p.pending = nil
	p.yielded = false
	p.resets++
	return nil
}

func (p *TestPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

var (
	_ Port   = (*TestPort)(nil)
	_ Dialer = (*TestPort)(nil)
)
