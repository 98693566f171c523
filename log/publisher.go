package log

import (
	"strings"
	"sync"
	"sync/atomic"
)

const defaultBufferSize = 64

// Publisher is an [io.Writer] that turns written log records into entries and
// fans them out to subscribers.
//
// Each Write is treated as one record; the trailing newline is trimmed. An
// entry is delivered to every active [Subscription] through a buffered channel
// that drops its oldest entry when full, so Write never blocks. The most
// recent entry is also kept for [Publisher.Last]. Safe for concurrent use.
//
// Create instances with [NewPublisher].
type Publisher struct {
	last        atomic.Pointer[string]
	subscribers []*Subscription
	bufSize     int
	mu          sync.Mutex
	closed      bool
}

// PublisherOption configures a [Publisher].
type PublisherOption func(*Publisher)

// WithBufferSize sets the channel buffer size for new subscriptions.
// Values less than 1 are clamped to 1.
func WithBufferSize(n int) PublisherOption {
	return func(p *Publisher) {
		p.bufSize = max(n, 1)
	}
}

// NewPublisher creates a [Publisher] with the given options.
// The default buffer size is 64.
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		bufSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Write publishes b as one entry. It always returns len(b), nil.
func (p *Publisher) Write(b []byte) (int, error) {
	entry := strings.TrimRight(string(b), "\r\n")

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return len(b), nil
	}

	p.last.Store(&entry)

	alive := p.subscribers[:0]
	for _, sub := range p.subscribers {
		if sub.closed.Load() {
			close(sub.ch)
			continue
		}

		sub.push(entry)

		alive = append(alive, sub)
	}

	clear(p.subscribers[len(alive):])
	p.subscribers = alive

	return len(b), nil
}

// Last returns the most recent entry, or "" if nothing was written.
func (p *Publisher) Last() string {
	e := p.last.Load()
	if e == nil {
		return ""
	}

	return *e
}

// Subscribe registers a new [Subscription]. If the Publisher is already
// closed the subscription's channel is closed immediately.
func (p *Publisher) Subscribe() *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := &Subscription{
		ch: make(chan string, p.bufSize),
	}

	if p.closed {
		close(sub.ch)

		return sub
	}

	p.subscribers = append(p.subscribers, sub)

	return sub
}

// Close closes all subscription channels. Idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	for _, sub := range p.subscribers {
		close(sub.ch)
	}

	p.subscribers = nil

	return nil
}

// Subscription receives entries from a [Publisher].
type Subscription struct {
	ch     chan string
	closed atomic.Bool
}

// C returns the channel delivering entries.
func (s *Subscription) C() <-chan string {
	return s.ch
}

// Close marks the subscription as closed. The Publisher closes the channel on
// its next Write or Close. Idempotent.
func (s *Subscription) Close() {
	s.closed.Store(true)
}

// push delivers entry, dropping the oldest buffered entry when full. Only
// called with the Publisher lock held.
func (s *Subscription) push(entry string) {
	for {
		select {
		case s.ch <- entry:
			return
		default:
		}

		select {
		case <-s.ch:
		default:
		}
	}
}
