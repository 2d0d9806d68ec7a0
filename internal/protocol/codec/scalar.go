package codec

import (
	"math/bits"
	"unsafe"

	"github.com/danmuck/pipewire/internal/protocol"
	"github.com/danmuck/pipewire/internal/protocol/poll"
	"github.com/danmuck/pipewire/internal/transport"
)

// WordSize is the width in bytes of every length prefix.
const WordSize = bits.UintSize / 8

// Fixed is the set of fixed-width integer kinds transferred as their raw
// native-order memory image.
type Fixed interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 |
		~int64 | ~uint64 | ~int | ~uint | ~uintptr
}

// Octet is the set of 1-byte kinds served by the single-attempt fast path.
type Octet interface {
	~int8 | ~uint8
}

// staged holds a fixed-width image and how much of it has been moved.
type staged struct {
	buf   [16]byte
	width uint8
	moved uint8
}

func (s *staged) pollWrite(cx *poll.Context, dst transport.Writer) (bool, error) {
	for s.moved < s.width {
		n, ok, err := dst.PollWrite(cx, s.buf[s.moved:s.width])
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		if n == 0 {
			return false, protocol.ErrWriteZero
		}
		s.moved += uint8(n)
	}
	return true, nil
}

func (s *staged) pollRead(cx *poll.Context, src transport.Reader) (bool, error) {
	for s.moved < s.width {
		n, ok, err := src.PollRead(cx, s.buf[s.moved:s.width])
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		if n == 0 {
			return false, protocol.ErrUnexpectedEOF
		}
		s.moved += uint8(n)
	}
	return true, nil
}

func widthOf[T Fixed]() uint8 {
	var zero T
	return uint8(unsafe.Sizeof(zero))
}

func imageOf[T Fixed](v T) staged {
	s := staged{width: widthOf[T]()}
	copy(s.buf[:s.width], unsafe.Slice((*byte)(unsafe.Pointer(&v)), s.width))
	return s
}

func valueOf[T Fixed](s *staged) T {
	var v T
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&v)), s.width), s.buf[:s.width])
	return v
}

// ScalarWriter encodes one fixed-width integer.
type ScalarWriter[T Fixed] struct {
	st staged
}

func NewScalarWriter[T Fixed](v T) *ScalarWriter[T] {
	return &ScalarWriter[T]{st: imageOf(v)}
}

func (w *ScalarWriter[T]) PollStage(cx *poll.Context, dst transport.Writer) (struct{}, bool, error) {
	ok, err := w.st.pollWrite(cx, dst)
	return struct{}{}, ok, err
}

// ScalarReader decodes one fixed-width integer, resuming partial reads.
type ScalarReader[T Fixed] struct {
	st staged
}

func NewScalarReader[T Fixed]() *ScalarReader[T] {
	return &ScalarReader[T]{st: staged{width: widthOf[T]()}}
}

func (r *ScalarReader[T]) PollStage(cx *poll.Context, src transport.Reader) (T, bool, error) {
	ok, err := r.st.pollRead(cx, src)
	if err != nil || !ok {
		var zero T
		return zero, false, err
	}
	return valueOf[T](&r.st), true, nil
}

// ByteWriter writes a single byte in one attempt.
type ByteWriter[T Octet] struct {
	buf [1]byte
}

func NewByteWriter[T Octet](v T) *ByteWriter[T] {
	return &ByteWriter[T]{buf: [1]byte{byte(v)}}
}

func (w *ByteWriter[T]) PollStage(cx *poll.Context, dst transport.Writer) (struct{}, bool, error) {
	n, ok, err := dst.PollWrite(cx, w.buf[:])
	if err != nil || !ok {
		return struct{}{}, false, err
	}
	if n == 0 {
		return struct{}{}, false, protocol.ErrWriteZero
	}
	return struct{}{}, true, nil
}

// ByteReader reads a single byte in one attempt.
type ByteReader[T Octet] struct {
	buf [1]byte
}

func NewByteReader[T Octet]() *ByteReader[T] {
	return &ByteReader[T]{}
}

func (r *ByteReader[T]) PollStage(cx *poll.Context, src transport.Reader) (T, bool, error) {
	n, ok, err := src.PollRead(cx, r.buf[:])
	if err != nil || !ok {
		return 0, false, err
	}
	if n == 0 {
		return 0, false, protocol.ErrUnexpectedEOF
	}
	return T(r.buf[0]), true, nil
}
