package bridge

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/danmuck/pipewire/internal/protocol"
	"github.com/rs/zerolog"
)

var ErrClosed = errors.New("bridge: closed")

type request[In, Out any] struct {
	in       In
	reply    *Pending[Out]
	shutdown bool
}

// worker serves one request at a time on its own goroutine.
type worker[In, Out any] struct {
	do       func(In) (Out, error)
	requests chan request[In, Out]
	quit     chan struct{}
	busy     atomic.Bool
	mu       sync.Mutex // orders submissions against the shutdown sentinel
	closed   bool
	log      zerolog.Logger
}

func startWorker[In, Out any](capacity int, do func(In) (Out, error), log zerolog.Logger) *worker[In, Out] {
	w := &worker[In, Out]{
		do:       do,
		requests: make(chan request[In, Out], capacity),
		quit:     make(chan struct{}),
		log:      log,
	}
	go w.run()
	return w
}

func (w *worker[In, Out]) run() {
	defer func() { w.log.Debug().Msg("bridge worker exited") }()
	for {
		select {
		case req := <-w.requests:
			if req.shutdown {
				w.drain()
				return
			}
			v, err := w.do(req.in)
			w.busy.Store(false)
			req.reply.complete(v, err)
		case <-w.quit:
			w.drain()
			return
		}
	}
}

func (w *worker[In, Out]) drain() {
	var zero Out
	for {
		select {
		case req := <-w.requests:
			if !req.shutdown {
				w.busy.Store(false)
				req.reply.complete(zero, ErrClosed)
			}
		default:
			return
		}
	}
}

func (w *worker[In, Out]) submit(in In) *Pending[Out] {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return failed[Out](ErrClosed)
	}
	if !w.busy.CompareAndSwap(false, true) {
		return failed[Out](protocol.ErrBusy)
	}
	p := newPending[Out]()
	select {
	case w.requests <- request[In, Out]{in: in, reply: p}:
		return p
	default:
		w.busy.Store(false)
		return failed[Out](protocol.ErrBusy)
	}
}

// close asks the worker to exit after its current request.
func (w *worker[In, Out]) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	select {
	case w.requests <- request[In, Out]{shutdown: true}:
	default:
		close(w.quit)
	}
}
