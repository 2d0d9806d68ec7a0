package bridge

import (
	"context"
	"sync"

	"github.com/danmuck/pipewire/internal/protocol"
	"github.com/danmuck/pipewire/internal/protocol/poll"
)

type result[T any] struct {
	v   T
	err error
}

// Pending is the one-shot completion of a bridged request.
type Pending[T any] struct {
	done     chan result[T]
	mu       sync.Mutex
	waker    poll.Waker
	err      error
	finished bool
}

func newPending[T any]() *Pending[T] {
	return &Pending[T]{done: make(chan result[T], 1)}
}

func failed[T any](err error) *Pending[T] {
	return &Pending[T]{err: err}
}

func (p *Pending[T]) complete(v T, err error) {
	p.done <- result[T]{v: v, err: err}
	p.mu.Lock()
	w := p.waker
	p.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

// Poll reports the result once the worker has finished the request.
func (p *Pending[T]) Poll(cx *poll.Context) (T, bool, error) {
	var zero T
	if p.finished {
		return zero, false, protocol.ErrCompleted
	}
	if p.err != nil {
		p.finished = true
		return zero, false, p.err
	}
	p.mu.Lock()
	p.waker = cx.Waker()
	p.mu.Unlock()
	select {
	case r := <-p.done:
		p.finished = true
		if r.err != nil {
			return zero, false, r.err
		}
		return r.v, true, nil
	default:
		return zero, false, nil
	}
}

// Wait blocks until the request finishes or ctx ends. The request itself is
// not withdrawn when ctx ends first.
func (p *Pending[T]) Wait(ctx context.Context) (T, error) {
	return poll.Block(ctx, p.Poll)
}
