package stream

import (
	"sync/atomic"

	"github.com/danmuck/pipewire/internal/protocol"
	"github.com/danmuck/pipewire/internal/protocol/codec"
	"github.com/danmuck/pipewire/internal/protocol/poll"
	"github.com/danmuck/pipewire/internal/transport"
)

const DefaultBufferSize = 8 * 1024

// guard is the single-slot check that stands in for an exclusive borrow.
type guard struct {
	busy atomic.Bool
}

func (g *guard) acquire() bool {
	return g.busy.CompareAndSwap(false, true)
}

func (g *guard) release() {
	g.busy.Store(false)
}

func (g *guard) held() bool {
	return g.busy.Load()
}

// ReadHalf is a buffered non-blocking reader.
type ReadHalf struct {
	src    transport.Reader
	buf    []byte
	r, w   int
	limits codec.Limits
	guard  guard
}

func newReadHalf(src transport.Reader, size int, limits codec.Limits) *ReadHalf {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &ReadHalf{src: src, buf: make([]byte, size), limits: limits}
}

func (h *ReadHalf) Limits() codec.Limits {
	return h.limits
}

// Buffered reports the bytes read from the transport but not yet consumed.
func (h *ReadHalf) Buffered() int {
	return h.w - h.r
}

func (h *ReadHalf) PollRead(cx *poll.Context, p []byte) (int, bool, error) {
	if h.r == h.w && len(p) >= len(h.buf) {
		return h.src.PollRead(cx, p)
	}
	rem, ok, err := h.PollFill(cx)
	if err != nil || !ok || len(rem) == 0 {
		return 0, ok, err
	}
	n := copy(p, rem)
	h.r += n
	return n, true, nil
}

// PollFill returns the buffered bytes, reading from the transport when the
// buffer is empty. An empty result with ok set means end of stream.
func (h *ReadHalf) PollFill(cx *poll.Context) ([]byte, bool, error) {
	if h.r == h.w {
		n, ok, err := h.src.PollRead(cx, h.buf)
		if err != nil || !ok {
			return nil, false, err
		}
		h.r, h.w = 0, n
	}
	return h.buf[h.r:h.w], true, nil
}

// Consume marks n buffered bytes as read.
func (h *ReadHalf) Consume(n int) {
	h.r = min(h.r+max(n, 0), h.w)
}

// WriteHalf is a buffered non-blocking writer. Buffered bytes reach the
// transport when the buffer fills or on flush.
type WriteHalf struct {
	dst     transport.Writer
	buf     []byte
	flushed int
	guard   guard
}

func newWriteHalf(dst transport.Writer, size int) *WriteHalf {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &WriteHalf{dst: dst, buf: make([]byte, 0, size)}
}

// Buffered reports the bytes accepted but not yet handed to the transport.
func (h *WriteHalf) Buffered() int {
	return len(h.buf) - h.flushed
}

func (h *WriteHalf) PollWrite(cx *poll.Context, p []byte) (int, bool, error) {
	if len(h.buf)+len(p) > cap(h.buf) {
		if ok, err := h.drain(cx); err != nil || !ok {
			return 0, false, err
		}
	}
	if len(p) >= cap(h.buf) {
		return h.dst.PollWrite(cx, p)
	}
	h.buf = append(h.buf, p...)
	return len(p), true, nil
}

func (h *WriteHalf) PollFlush(cx *poll.Context) (bool, error) {
	if ok, err := h.drain(cx); err != nil || !ok {
		return false, err
	}
	return h.dst.PollFlush(cx)
}

func (h *WriteHalf) drain(cx *poll.Context) (bool, error) {
	for h.flushed < len(h.buf) {
		n, ok, err := h.dst.PollWrite(cx, h.buf[h.flushed:])
		if err != nil || !ok {
			return false, err
		}
		if n == 0 {
			return false, protocol.ErrWriteZero
		}
		h.flushed += n
	}
	h.buf = h.buf[:0]
	h.flushed = 0
	return true, nil
}
