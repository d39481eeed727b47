package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"github.com/Alijeyrad/founders_backend/pkg/observability"
)

// ErrQueueFull is returned by LocalBus.Publish when the event was dropped.
var ErrQueueFull = errors.New("events: local queue is full")

const queuePerWorker = 64

type delivery struct {
	subject string
	handler Handler
	payload []byte
}

// LocalBus delivers events to in-process subscribers on a bounded goroutine
// pool. Publish only enqueues, so it never waits for a handler; when the
// queue is full the event is dropped and counted. Close drains the queue and
// waits for in-flight handlers.
type LocalBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	closed   bool

	queue   chan delivery
	pool    *pool.Pool
	done    chan struct{}
	dropped atomic.Int64
}

func NewLocal(workers int) *LocalBus {
	if workers <= 0 {
		workers = 4
	}
	return newLocal(workers, workers*queuePerWorker)
}

func newLocal(workers, queueSize int) *LocalBus {
	b := &LocalBus{
		handlers: make(map[string][]Handler),
		queue:    make(chan delivery, queueSize),
		pool:     pool.New().WithMaxGoroutines(workers),
		done:     make(chan struct{}),
	}
	go b.dispatch()
	return b
}

// dispatch hands queued deliveries to the pool, blocking only itself while
// every worker is busy.
func (b *LocalBus) dispatch() {
	defer close(b.done)
	for d := range b.queue {
		b.pool.Go(func() {
			if err := d.handler(context.Background(), d.payload); err != nil {
				slog.Warn("events: handler failed", "subject", d.subject, "err", err)
			}
		})
	}
	b.pool.Wait()
}

func (b *LocalBus) Publish(ctx context.Context, subject string, data []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}

	payload := append([]byte(nil), data...)
	var dropped int
	for _, h := range b.handlers[subject] {
		select {
		case b.queue <- delivery{subject: subject, handler: h, payload: payload}:
		default:
			dropped++
			b.dropped.Add(1)
			observability.RecordEventDropped(ctx, subject)
		}
	}
	if dropped > 0 {
		return ErrQueueFull
	}
	return nil
}

// Dropped reports how many deliveries were discarded on a full queue.
func (b *LocalBus) Dropped() int64 { return b.dropped.Load() }

func (b *LocalBus) Subscribe(subject string, h Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	b.handlers[subject] = append(b.handlers[subject], h)
	return nil
}

func (b *LocalBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.queue)
	b.mu.Unlock()

	<-b.done
	return nil
}
