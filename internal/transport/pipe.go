package transport

import (
	"io"
	"sync"

	"github.com/danmuck/pipewire/internal/protocol/poll"
)

type pipe struct {
	mu   sync.Mutex
	buf  []byte
	opts options

	wclosed bool
	werr    error
	rclosed bool
	rerr    error

	readWaker  poll.Waker
	writeWaker poll.Waker
}

// PipeReader is the read end of an in-memory pipe.
type PipeReader struct {
	p *pipe
}

// PipeWriter is the write end of an in-memory pipe.
type PipeWriter struct {
	p *pipe
}

// NewPipe returns a connected in-memory pipe. Writes beyond the configured
// capacity stay pending until the reader drains; reads with nothing queued
// stay pending until the writer produces bytes or closes.
func NewPipe(opts ...Option) (*PipeReader, *PipeWriter) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	p := &pipe{opts: o, buf: make([]byte, 0, o.capacity)}
	return &PipeReader{p: p}, &PipeWriter{p: p}
}

func (p *pipe) limit(n int) int {
	if p.opts.chunk > 0 && n > p.opts.chunk {
		return p.opts.chunk
	}
	return n
}

// peek copies queued bytes into b without consuming them.
func (p *pipe) peek(cx *poll.Context, b []byte) (int, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rclosed {
		return 0, false, io.ErrClosedPipe
	}
	if len(p.buf) == 0 {
		if p.wclosed {
			return 0, p.werr == nil, p.werr
		}
		p.readWaker = cx.Waker()
		return 0, false, nil
	}
	return copy(b[:p.limit(len(b))], p.buf), true, nil
}

// discard drops n queued bytes and wakes a writer waiting on space or flush.
func (p *pipe) discard(n int) {
	p.mu.Lock()
	if n > len(p.buf) {
		n = len(p.buf)
	}
	rest := copy(p.buf, p.buf[n:])
	p.buf = p.buf[:rest]
	w := p.writeWaker
	p.writeWaker = nil
	p.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

func (r *PipeReader) PollRead(cx *poll.Context, b []byte) (int, bool, error) {
	if len(b) == 0 {
		return 0, true, nil
	}
	n, ok, err := r.p.peek(cx, b)
	if err != nil || !ok || n == 0 {
		return 0, ok, err
	}
	r.p.discard(n)
	return n, true, nil
}

// Buffered reports the number of queued bytes.
func (r *PipeReader) Buffered() int {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()
	return len(r.p.buf)
}

// Close closes the read end; pending and future writes fail with io.ErrClosedPipe.
func (r *PipeReader) Close() error {
	return r.CloseWithError(nil)
}

// CloseWithError closes the read end; writers observe err (io.ErrClosedPipe when nil).
func (r *PipeReader) CloseWithError(err error) error {
	if err == nil {
		err = io.ErrClosedPipe
	}
	p := r.p
	p.mu.Lock()
	if p.rclosed {
		p.mu.Unlock()
		return nil
	}
	p.rclosed = true
	p.rerr = err
	p.buf = p.buf[:0]
	w := p.writeWaker
	p.writeWaker = nil
	p.mu.Unlock()
	if w != nil {
		w.Wake()
	}
	return nil
}

func (w *PipeWriter) PollWrite(cx *poll.Context, b []byte) (int, bool, error) {
	p := w.p
	p.mu.Lock()
	if p.wclosed {
		p.mu.Unlock()
		return 0, false, io.ErrClosedPipe
	}
	if p.rclosed {
		err := p.rerr
		p.mu.Unlock()
		return 0, false, err
	}
	if len(b) == 0 {
		p.mu.Unlock()
		return 0, true, nil
	}
	space := p.opts.capacity - len(p.buf)
	if space <= 0 {
		p.writeWaker = cx.Waker()
		p.mu.Unlock()
		return 0, false, nil
	}
	n := p.limit(min(len(b), space))
	p.buf = append(p.buf, b[:n]...)
	rw := p.readWaker
	p.readWaker = nil
	p.mu.Unlock()
	if rw != nil {
		rw.Wake()
	}
	return n, true, nil
}

func (w *PipeWriter) PollFlush(cx *poll.Context) (bool, error) {
	p := w.p
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rclosed {
		return false, p.rerr
	}
	if !p.opts.drainOnFlush || len(p.buf) == 0 {
		return true, nil
	}
	p.writeWaker = cx.Waker()
	return false, nil
}

// Close closes the write end; the reader sees end of stream after draining.
func (w *PipeWriter) Close() error {
	return w.CloseWithError(nil)
}

// CloseWithError closes the write end; the reader observes err after draining.
func (w *PipeWriter) CloseWithError(err error) error {
	p := w.p
	p.mu.Lock()
	if p.wclosed {
		p.mu.Unlock()
		return nil
	}
	p.wclosed = true
	p.werr = err
	rw := p.readWaker
	p.readWaker = nil
	p.mu.Unlock()
	if rw != nil {
		rw.Wake()
	}
	return nil
}
