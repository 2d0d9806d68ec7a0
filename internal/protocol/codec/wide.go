package codec

import (
	"encoding/binary"
	"math/big"

	"github.com/danmuck/pipewire/internal/protocol/poll"
	"github.com/danmuck/pipewire/internal/transport"
)

// Uint128 is an unsigned 128-bit integer.
type Uint128 struct {
	Hi, Lo uint64
}

// Int128 is a two's complement signed 128-bit integer.
type Int128 struct {
	Hi int64
	Lo uint64
}

func U128From64(v uint64) Uint128 {
	return Uint128{Lo: v}
}

func I128From64(v int64) Int128 {
	return Int128{Hi: v >> 63, Lo: uint64(v)}
}

func (u Uint128) Big() *big.Int {
	hi := new(big.Int).SetUint64(u.Hi)
	return hi.Lsh(hi, 64).Or(hi, new(big.Int).SetUint64(u.Lo))
}

func (u Uint128) String() string {
	return u.Big().String()
}

func (i Int128) Big() *big.Int {
	v := Uint128{Hi: uint64(i.Hi), Lo: i.Lo}.Big()
	if i.Hi < 0 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	return v
}

func (i Int128) String() string {
	return i.Big().String()
}

var littleEndianHost = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// wideImage lays out u the way the host stores a native 128-bit integer.
func wideImage(u Uint128) staged {
	s := staged{width: 16}
	lo, hi := s.buf[0:8], s.buf[8:16]
	if !littleEndianHost {
		lo, hi = hi, lo
	}
	binary.NativeEndian.PutUint64(lo, u.Lo)
	binary.NativeEndian.PutUint64(hi, u.Hi)
	return s
}

func wideValue(s *staged) Uint128 {
	lo, hi := s.buf[0:8], s.buf[8:16]
	if !littleEndianHost {
		lo, hi = hi, lo
	}
	return Uint128{Hi: binary.NativeEndian.Uint64(hi), Lo: binary.NativeEndian.Uint64(lo)}
}

type U128Writer struct {
	st staged
}

func NewU128Writer(v Uint128) *U128Writer {
	return &U128Writer{st: wideImage(v)}
}

func NewI128Writer(v Int128) *U128Writer {
	return NewU128Writer(Uint128{Hi: uint64(v.Hi), Lo: v.Lo})
}

func (w *U128Writer) PollStage(cx *poll.Context, dst transport.Writer) (struct{}, bool, error) {
	ok, err := w.st.pollWrite(cx, dst)
	return struct{}{}, ok, err
}

type U128Reader struct {
	st staged
}

func NewU128Reader() *U128Reader {
	return &U128Reader{st: staged{width: 16}}
}

func (r *U128Reader) PollStage(cx *poll.Context, src transport.Reader) (Uint128, bool, error) {
	ok, err := r.st.pollRead(cx, src)
	if err != nil || !ok {
		return Uint128{}, false, err
	}
	return wideValue(&r.st), true, nil
}

type I128Reader struct {
	inner U128Reader
}

func NewI128Reader() *I128Reader {
	return &I128Reader{inner: U128Reader{st: staged{width: 16}}}
}

func (r *I128Reader) PollStage(cx *poll.Context, src transport.Reader) (Int128, bool, error) {
	u, ok, err := r.inner.PollStage(cx, src)
	if err != nil || !ok {
		return Int128{}, false, err
	}
	return Int128{Hi: int64(u.Hi), Lo: u.Lo}, true, nil
}
