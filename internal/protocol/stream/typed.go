package stream

import (
	"encoding/binary"

	"github.com/danmuck/pipewire/internal/protocol/codec"
)

func (s *Stream) WriteU8(v uint8) *WriteOp { return Write(s, codec.Byte[uint8](), v) }
func (s *Stream) WriteI8(v int8) *WriteOp { return Write(s, codec.Byte[int8](), v) }
func (s *Stream) WriteU16(v uint16) *WriteOp { return Write(s, codec.Scalar[uint16](), v) }
func (s *Stream) WriteI16(v int16) *WriteOp { return Write(s, codec.Scalar[int16](), v) }
func (s *Stream) WriteU32(v uint32) *WriteOp { return Write(s, codec.Scalar[uint32](), v) }
func (s *Stream) WriteI32(v int32) *WriteOp { return Write(s, codec.Scalar[int32](), v) }
func (s *Stream) WriteU64(v uint64) *WriteOp { return Write(s, codec.Scalar[uint64](), v) }
func (s *Stream) WriteI64(v int64) *WriteOp { return Write(s, codec.Scalar[int64](), v) }
func (s *Stream) WriteUsize(v uint) *WriteOp { return Write(s, codec.Scalar[uint](), v) }
func (s *Stream) WriteIsize(v int) *WriteOp { return Write(s, codec.Scalar[int](), v) }
func (s *Stream) WriteF32(v float32) *WriteOp { return Write(s, codec.Float32(), v) }
func (s *Stream) WriteF64(v float64) *WriteOp { return Write(s, codec.Float64(), v) }

func (s *Stream) WriteU128(v codec.Uint128) *WriteOp { return Write(s, codec.U128(), v) }
func (s *Stream) WriteI128(v codec.Int128) *WriteOp { return Write(s, codec.I128(), v) }

// WriteBytes writes a length-prefixed byte buffer. p must not change until
// the operation completes.
func (s *Stream) WriteBytes(p []byte) *WriteOp { return Write(s, codec.Bytes(), p) }

func (s *Stream) WriteString(v string) *WriteOp { return Write(s, codec.String(), v) }

func (s *Stream) ReadU8() *ReadOp[uint8] { return Read(s, codec.Byte[uint8]()) }
func (s *Stream) ReadI8() *ReadOp[int8] { return Read(s, codec.Byte[int8]()) }
func (s *Stream) ReadU16() *ReadOp[uint16] { return Read(s, codec.Scalar[uint16]()) }
func (s *Stream) ReadI16() *ReadOp[int16] { return Read(s, codec.Scalar[int16]()) }
func (s *Stream) ReadU32() *ReadOp[uint32] { return Read(s, codec.Scalar[uint32]()) }
func (s *Stream) ReadI32() *ReadOp[int32] { return Read(s, codec.Scalar[int32]()) }
func (s *Stream) ReadU64() *ReadOp[uint64] { return Read(s, codec.Scalar[uint64]()) }
func (s *Stream) ReadI64() *ReadOp[int64] { return Read(s, codec.Scalar[int64]()) }
func (s *Stream) ReadUsize() *ReadOp[uint] { return Read(s, codec.Scalar[uint]()) }
func (s *Stream) ReadIsize() *ReadOp[int] { return Read(s, codec.Scalar[int]()) }
func (s *Stream) ReadF32() *ReadOp[float32] { return Read(s, codec.Float32()) }
func (s *Stream) ReadF64() *ReadOp[float64] { return Read(s, codec.Float64()) }
func (s *Stream) ReadBytes() *ReadOp[[]byte] { return Read(s, codec.Bytes()) }
func (s *Stream) ReadString() *ReadOp[string] { return Read(s, codec.String()) }

func (s *Stream) ReadU128() *ReadOp[codec.Uint128] { return Read(s, codec.U128()) }
func (s *Stream) ReadI128() *ReadOp[codec.Int128] { return Read(s, codec.I128()) }

// WriteSlice writes a count-prefixed run of fixed-width elements.
func WriteSlice[T codec.Fixed](s *Stream, v []T) *WriteOp {
	return Write(s, codec.Slice[T](), v)
}

func ReadSlice[T codec.Fixed](s *Stream) *ReadOp[[]T] {
	return Read(s, codec.Slice[T]())
}

func WriteOption[T any](s *Stream, inner codec.Codec[T], v codec.Optional[T]) *WriteOp {
	return Write(s, codec.Option(inner), v)
}

func ReadOption[T any](s *Stream, inner codec.Codec[T]) *ReadOp[codec.Optional[T]] {
	return Read(s, codec.Option(inner))
}

func WriteResult[T, E any](s *Stream, success codec.Codec[T], failure codec.Codec[E], v codec.Outcome[T, E]) *WriteOp {
	return Write(s, codec.Result(success, failure), v)
}

func ReadResult[T, E any](s *Stream, success codec.Codec[T], failure codec.Codec[E]) *ReadOp[codec.Outcome[T, E]] {
	return Read(s, codec.Result(success, failure))
}

// WriteOrdered writes a fixed-width integer in an explicit byte order for
// readers that do not share the host's native order.
func WriteOrdered[T codec.Fixed](s *Stream, order binary.ByteOrder, v T) *WriteOp {
	return Write(s, codec.Ordered[T](order), v)
}

func ReadOrdered[T codec.Fixed](s *Stream, order binary.ByteOrder) *ReadOp[T] {
	return Read(s, codec.Ordered[T](order))
}

func (s *Stream) WriteU16BE(v uint16) *WriteOp { return WriteOrdered(s, binary.BigEndian, v) }
func (s *Stream) WriteU16LE(v uint16) *WriteOp { return WriteOrdered(s, binary.LittleEndian, v) }
func (s *Stream) WriteU32BE(v uint32) *WriteOp { return WriteOrdered(s, binary.BigEndian, v) }
func (s *Stream) WriteU32LE(v uint32) *WriteOp { return WriteOrdered(s, binary.LittleEndian, v) }
func (s *Stream) WriteU64BE(v uint64) *WriteOp { return WriteOrdered(s, binary.BigEndian, v) }
func (s *Stream) WriteU64LE(v uint64) *WriteOp { return WriteOrdered(s, binary.LittleEndian, v) }
func (s *Stream) WriteI32BE(v int32) *WriteOp { return WriteOrdered(s, binary.BigEndian, v) }
func (s *Stream) WriteI64BE(v int64) *WriteOp { return WriteOrdered(s, binary.BigEndian, v) }

func (s *Stream) ReadU16BE() *ReadOp[uint16] { return ReadOrdered[uint16](s, binary.BigEndian) }
func (s *Stream) ReadU16LE() *ReadOp[uint16] { return ReadOrdered[uint16](s, binary.LittleEndian) }
func (s *Stream) ReadU32BE() *ReadOp[uint32] { return ReadOrdered[uint32](s, binary.BigEndian) }
func (s *Stream) ReadU32LE() *ReadOp[uint32] { return ReadOrdered[uint32](s, binary.LittleEndian) }
func (s *Stream) ReadU64BE() *ReadOp[uint64] { return ReadOrdered[uint64](s, binary.BigEndian) }
func (s *Stream) ReadU64LE() *ReadOp[uint64] { return ReadOrdered[uint64](s, binary.LittleEndian) }
func (s *Stream) ReadI32BE() *ReadOp[int32] { return ReadOrdered[int32](s, binary.BigEndian) }
func (s *Stream) ReadI64BE() *ReadOp[int64] { return ReadOrdered[int64](s, binary.BigEndian) }

func (s *Stream) WriteF64BE(v float64) *WriteOp { return Write(s, codec.OrderedFloat64(binary.BigEndian), v) }
func (s *Stream) ReadF64BE() *ReadOp[float64] { return Read(s, codec.OrderedFloat64(binary.BigEndian)) }
