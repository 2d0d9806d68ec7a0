package codec

import (
	"math"
	"unsafe"

	"github.com/danmuck/pipewire/internal/protocol"
	"github.com/danmuck/pipewire/internal/protocol/poll"
	"github.com/danmuck/pipewire/internal/transport"
)

// rawBytes views the storage of s as bytes. Fixed kinds have no padding, a
// size that is a whole number of bytes and an alignment of at least one, so
// the view covers exactly the element images in native order.
func rawBytes[T Fixed](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(widthOf[T]()))
}

// SliceWriter encodes a length-prefixed run of fixed-width elements. The
// prefix is the element count; the payload is written straight from the
// caller's storage.
type SliceWriter[T Fixed] struct {
	prefix  ScalarWriter[uint]
	length  poll.Memo[transport.Writer, struct{}]
	payload []byte
	written int
}

func NewSliceWriter[T Fixed](s []T) *SliceWriter[T] {
	w := &SliceWriter[T]{
		prefix:  ScalarWriter[uint]{st: imageOf(uint(len(s)))},
		payload: rawBytes(s),
	}
	w.length = poll.NewMemo[transport.Writer, struct{}](&w.prefix)
	return w
}

// NewBytesWriter encodes p as a byte buffer.
func NewBytesWriter(p []byte) *SliceWriter[byte] {
	return NewSliceWriter(p)
}

// NewStringWriter encodes s with byte-buffer framing. The payload aliases the
// string's storage and is only ever read.
func NewStringWriter(s string) *SliceWriter[byte] {
	return NewSliceWriter(unsafe.Slice(unsafe.StringData(s), len(s)))
}

func (w *SliceWriter[T]) PollStage(cx *poll.Context, dst transport.Writer) (struct{}, bool, error) {
	if _, ok, err := w.length.Resolve(cx, dst); err != nil || !ok {
		return struct{}{}, false, err
	}
	for w.written < len(w.payload) {
		n, ok, err := dst.PollWrite(cx, w.payload[w.written:])
		if err != nil || !ok {
			return struct{}{}, false, err
		}
		if n == 0 {
			return struct{}{}, false, protocol.ErrWriteZero
		}
		w.written += n
	}
	return struct{}{}, true, nil
}

// SliceReader decodes a length-prefixed run of fixed-width elements. Storage
// is allocated once the count is known and filled in place through a byte
// view; the result is returned only after every byte has been written.
type SliceReader[T Fixed] struct {
	prefix ScalarReader[uint]
	length poll.Memo[transport.Reader, uint]
	limits Limits
	out    []T
	view   []byte
	sized  bool
	filled int
}

func NewSliceReader[T Fixed]() *SliceReader[T] {
	r := &SliceReader[T]{prefix: ScalarReader[uint]{st: staged{width: WordSize}}}
	r.length = poll.NewMemo[transport.Reader, uint](&r.prefix)
	return r
}

// NewBytesReader decodes a byte buffer.
func NewBytesReader() *SliceReader[byte] {
	return NewSliceReader[byte]()
}

// WithLimits overrides the limits taken from the stream half.
func (r *SliceReader[T]) WithLimits(l Limits) *SliceReader[T] {
	r.limits = l
	return r
}

func (r *SliceReader[T]) allocate(count uint, src transport.Reader) error {
	limits := r.limits
	if limits.MaxElements == 0 {
		limits = limitsFor(src)
	}
	if uint64(count) > limits.MaxElements {
		return protocol.Invalidf("declared length %d exceeds limit %d", count, limits.MaxElements)
	}
	if size := uint64(widthOf[T]()); uint64(count) > uint64(math.MaxInt)/size {
		return protocol.Invalidf("declared length %d overflows addressable memory", count)
	}
	r.out = make([]T, count)
	r.view = rawBytes(r.out)
	r.sized = true
	return nil
}

func (r *SliceReader[T]) PollStage(cx *poll.Context, src transport.Reader) ([]T, bool, error) {
	count, ok, err := r.length.Resolve(cx, src)
	if err != nil || !ok {
		return nil, false, err
	}
	if !r.sized {
		if err := r.allocate(count, src); err != nil {
			return nil, false, err
		}
	}
	for r.filled < len(r.view) {
		n, ok, err := src.PollRead(cx, r.view[r.filled:])
		if err != nil || !ok {
			return nil, false, err
		}
		if n == 0 {
			return nil, false, protocol.ErrUnexpectedEOF
		}
		r.filled += n
	}
	return r.out, true, nil
}
