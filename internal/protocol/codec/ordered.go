package codec

import (
	"encoding/binary"
	"math"

	"github.com/danmuck/pipewire/internal/protocol/poll"
	"github.com/danmuck/pipewire/internal/transport"
)

// Ordered images use an explicit byte order instead of the host's, for peers
// that do not share it. Length prefixes are never ordered.

func orderedImage[T Fixed](order binary.ByteOrder, v T) staged {
	s := staged{width: widthOf[T]()}
	switch s.width {
	case 1:
		s.buf[0] = byte(v)
	case 2:
		order.PutUint16(s.buf[:2], uint16(v))
	case 4:
		order.PutUint32(s.buf[:4], uint32(v))
	default:
		order.PutUint64(s.buf[:8], uint64(v))
	}
	return s
}

func orderedValue[T Fixed](order binary.ByteOrder, s *staged) T {
	switch s.width {
	case 1:
		return T(s.buf[0])
	case 2:
		return T(order.Uint16(s.buf[:2]))
	case 4:
		return T(order.Uint32(s.buf[:4]))
	default:
		return T(order.Uint64(s.buf[:8]))
	}
}

func NewOrderedWriter[T Fixed](order binary.ByteOrder, v T) *ScalarWriter[T] {
	return &ScalarWriter[T]{st: orderedImage(order, v)}
}

// OrderedReader decodes one fixed-width integer stored in order.
type OrderedReader[T Fixed] struct {
	st    staged
	order binary.ByteOrder
}

func NewOrderedReader[T Fixed](order binary.ByteOrder) *OrderedReader[T] {
	return &OrderedReader[T]{st: staged{width: widthOf[T]()}, order: order}
}

func (r *OrderedReader[T]) PollStage(cx *poll.Context, src transport.Reader) (T, bool, error) {
	ok, err := r.st.pollRead(cx, src)
	if err != nil || !ok {
		var zero T
		return zero, false, err
	}
	return orderedValue[T](r.order, &r.st), true, nil
}

type orderedCodec[T Fixed] struct {
	order binary.ByteOrder
}

// Ordered is the scalar codec with an explicit byte order, e.g.
// binary.BigEndian for network-order readers.
func Ordered[T Fixed](order binary.ByteOrder) Codec[T] { return orderedCodec[T]{order: order} }

func (c orderedCodec[T]) Encoder(v T) poll.Stage[transport.Writer, struct{}] {
	return NewOrderedWriter(c.order, v)
}

func (c orderedCodec[T]) Decoder() poll.Stage[transport.Reader, T] {
	return NewOrderedReader[T](c.order)
}

type orderedFloat32Codec struct {
	bits Codec[uint32]
}

func OrderedFloat32(order binary.ByteOrder) Codec[float32] {
	return orderedFloat32Codec{bits: Ordered[uint32](order)}
}

func (c orderedFloat32Codec) Encoder(v float32) poll.Stage[transport.Writer, struct{}] {
	return c.bits.Encoder(math.Float32bits(v))
}

func (c orderedFloat32Codec) Decoder() poll.Stage[transport.Reader, float32] {
	return mapped(c.bits.Decoder(), math.Float32frombits)
}

type orderedFloat64Codec struct {
	bits Codec[uint64]
}

func OrderedFloat64(order binary.ByteOrder) Codec[float64] {
	return orderedFloat64Codec{bits: Ordered[uint64](order)}
}

func (c orderedFloat64Codec) Encoder(v float64) poll.Stage[transport.Writer, struct{}] {
	return c.bits.Encoder(math.Float64bits(v))
}

func (c orderedFloat64Codec) Decoder() poll.Stage[transport.Reader, float64] {
	return mapped(c.bits.Decoder(), math.Float64frombits)
}

func mapped[B, T any](inner poll.Stage[transport.Reader, B], f func(B) T) poll.Stage[transport.Reader, T] {
	return poll.StageFunc[transport.Reader, T](func(cx *poll.Context, src transport.Reader) (T, bool, error) {
		b, ok, err := inner.PollStage(cx, src)
		if err != nil || !ok {
			var zero T
			return zero, false, err
		}
		return f(b), true, nil
	})
}
