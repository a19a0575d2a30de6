package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"tabstrip/internal/model"

	"github.com/go-logr/logr"
)

// ErrSaverClosed is returned by Close when called twice.
var ErrSaverClosed = errors.New("saver closed")

// AsyncSaver writes tab sequences in the background. Only the newest pending
// snapshot is kept; a single goroutine performs writes in enqueue order.
// Failures are logged and not retried.
type AsyncSaver struct {
	order   TabOrder
	log     logr.Logger
	timeout time.Duration

	mu      sync.Mutex
	pending []model.Tab
	hasWork bool
	closed  bool
	wake    chan struct{}
	done    chan struct{}

	// onWrite is a test hook invoked after every write attempt.
	onWrite func(tabs []model.Tab, err error)
}

type AsyncSaverOpts struct {
	Log logr.Logger
	// WriteTimeout bounds a single write. Defaults to 5s.
	WriteTimeout time.Duration
}

func NewAsyncSaver(order TabOrder, opts AsyncSaverOpts) *AsyncSaver {
	timeout := opts.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	log := opts.Log
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	s := &AsyncSaver{
		order:   order,
		log:     log,
		timeout: timeout,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Save implements registry.Saver.
func (s *AsyncSaver) Save(tabs []model.Tab) { s.Enqueue(tabs) }

// Enqueue records tabs as the next snapshot to write. It never blocks.
func (s *AsyncSaver) Enqueue(tabs []model.Tab) {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.log.V(1).Info("dropping save after close")
		return
	}
	s.pending = model.CloneTabs(tabs)
	s.hasWork = true
	select {
	case s.wake <- struct{}{}:
	default:
	}
	s.mu.Unlock()
}

func (s *AsyncSaver) run() {
	defer close(s.done)
	for {
		_, open := <-s.wake
		s.drain()
		if !open {
			return
		}
	}
}

func (s *AsyncSaver) drain() {
	for {
		s.mu.Lock()
		if !s.hasWork {
			s.mu.Unlock()
			return
		}
		tabs := s.pending
		s.pending = nil
		s.hasWork = false
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		err := s.order.Save(ctx, tabs)
		cancel()
		if err != nil {
			s.log.Error(err, "persisting tab order failed", "tabs", len(tabs))
		} else {
			s.log.V(1).Info("persisted tab order", "order", model.Keys(tabs))
		}
		if s.onWrite != nil {
			s.onWrite(tabs, err)
		}
	}
}

// Close flushes the pending snapshot and stops the writer. It waits until the
// writer exits or ctx is done.
func (s *AsyncSaver) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSaverClosed
	}
	s.closed = true
	close(s.wake)
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
