package codec

import (
	"github.com/danmuck/pipewire/internal/protocol/poll"
	"github.com/danmuck/pipewire/internal/transport"
)

// Codec describes how one wire type is encoded and decoded. Each call returns
// a fresh stage; descriptors themselves hold no state.
type Codec[T any] interface {
	Encoder(v T) poll.Stage[transport.Writer, struct{}]
	Decoder() poll.Stage[transport.Reader, T]
}

type scalarCodec[T Fixed] struct{}

// Scalar is the staged codec for any fixed-width integer.
func Scalar[T Fixed]() Codec[T] { return scalarCodec[T]{} }

func (scalarCodec[T]) Encoder(v T) poll.Stage[transport.Writer, struct{}] {
	return NewScalarWriter(v)
}

func (scalarCodec[T]) Decoder() poll.Stage[transport.Reader, T] {
	return NewScalarReader[T]()
}

type byteCodec[T Octet] struct{}

// Byte is the single-attempt codec for 1-byte integers.
func Byte[T Octet]() Codec[T] { return byteCodec[T]{} }

func (byteCodec[T]) Encoder(v T) poll.Stage[transport.Writer, struct{}] {
	return NewByteWriter(v)
}

func (byteCodec[T]) Decoder() poll.Stage[transport.Reader, T] {
	return NewByteReader[T]()
}

type float32Codec struct{}

func Float32() Codec[float32] { return float32Codec{} }

func (float32Codec) Encoder(v float32) poll.Stage[transport.Writer, struct{}] {
	return NewFloat32Writer(v)
}

func (float32Codec) Decoder() poll.Stage[transport.Reader, float32] {
	return NewFloat32Reader()
}

type float64Codec struct{}

func Float64() Codec[float64] { return float64Codec{} }

func (float64Codec) Encoder(v float64) poll.Stage[transport.Writer, struct{}] {
	return NewFloat64Writer(v)
}

func (float64Codec) Decoder() poll.Stage[transport.Reader, float64] {
	return NewFloat64Reader()
}

type u128Codec struct{}

func U128() Codec[Uint128] { return u128Codec{} }

func (u128Codec) Encoder(v Uint128) poll.Stage[transport.Writer, struct{}] {
	return NewU128Writer(v)
}

func (u128Codec) Decoder() poll.Stage[transport.Reader, Uint128] {
	return NewU128Reader()
}

type i128Codec struct{}

func I128() Codec[Int128] { return i128Codec{} }

func (i128Codec) Encoder(v Int128) poll.Stage[transport.Writer, struct{}] {
	return NewI128Writer(v)
}

func (i128Codec) Decoder() poll.Stage[transport.Reader, Int128] {
	return NewI128Reader()
}

type bytesCodec struct{}

func Bytes() Codec[[]byte] { return bytesCodec{} }

func (bytesCodec) Encoder(v []byte) poll.Stage[transport.Writer, struct{}] {
	return NewBytesWriter(v)
}

func (bytesCodec) Decoder() poll.Stage[transport.Reader, []byte] {
	return NewBytesReader()
}

type stringCodec struct{}

func String() Codec[string] { return stringCodec{} }

func (stringCodec) Encoder(v string) poll.Stage[transport.Writer, struct{}] {
	return NewStringWriter(v)
}

func (stringCodec) Decoder() poll.Stage[transport.Reader, string] {
	return NewStringReader()
}

type sliceCodec[T Fixed] struct{}

// Slice is the codec for homogeneous fixed-width element runs.
func Slice[T Fixed]() Codec[[]T] { return sliceCodec[T]{} }

func (sliceCodec[T]) Encoder(v []T) poll.Stage[transport.Writer, struct{}] {
	return NewSliceWriter(v)
}

func (sliceCodec[T]) Decoder() poll.Stage[transport.Reader, []T] {
	return NewSliceReader[T]()
}

type optionCodec[T any] struct {
	inner Codec[T]
}

func Option[T any](inner Codec[T]) Codec[Optional[T]] {
	return optionCodec[T]{inner: inner}
}

func (c optionCodec[T]) Encoder(v Optional[T]) poll.Stage[transport.Writer, struct{}] {
	if !v.Present {
		return NewOptionWriter(nil)
	}
	return NewOptionWriter(c.inner.Encoder(v.Value))
}

func (c optionCodec[T]) Decoder() poll.Stage[transport.Reader, Optional[T]] {
	return NewOptionReader(c.inner)
}

type resultCodec[T, E any] struct {
	success Codec[T]
	failure Codec[E]
}

func Result[T, E any](success Codec[T], failure Codec[E]) Codec[Outcome[T, E]] {
	return resultCodec[T, E]{success: success, failure: failure}
}

func (c resultCodec[T, E]) Encoder(v Outcome[T, E]) poll.Stage[transport.Writer, struct{}] {
	if v.OK {
		return NewSuccessWriter(c.success.Encoder(v.Value))
	}
	return NewFailureWriter(c.failure.Encoder(v.Failure))
}

func (c resultCodec[T, E]) Decoder() poll.Stage[transport.Reader, Outcome[T, E]] {
	return NewOutcomeReader(c.success, c.failure)
}
