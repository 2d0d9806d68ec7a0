package codec

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/danmuck/pipewire/internal/protocol"
	"github.com/danmuck/pipewire/internal/protocol/poll"
	"github.com/danmuck/pipewire/internal/testutil/testlog"
	"github.com/danmuck/pipewire/internal/transport"
)

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func encode(t *testing.T, stage poll.Stage[transport.Writer, struct{}], opts ...transport.Option) []byte {
	t.Helper()
	ctx := testContext(t)
	pr, pw := transport.NewPipe(opts...)
	if _, err := poll.BlockStage(ctx, stage, transport.Writer(pw)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	pw.Close()
	var out []byte
	buf := make([]byte, 256)
	for {
		n, err := poll.Block(ctx, func(cx *poll.Context) (int, bool, error) {
			return pr.PollRead(cx, buf)
		})
		if err != nil {
			t.Fatalf("drain: %v", err)
		}
		if n == 0 {
			return out
		}
		out = append(out, buf[:n]...)
	}
}

// feed returns a reader that yields wire and then end of stream.
func feed(wire []byte, opts ...transport.Option) transport.Reader {
	pr, pw := transport.NewPipe(opts...)
	go func() {
		rest := wire
		for len(rest) > 0 {
			n, err := poll.Block(context.Background(), func(cx *poll.Context) (int, bool, error) {
				return pw.PollWrite(cx, rest)
			})
			if err != nil {
				return
			}
			rest = rest[n:]
		}
		pw.Close()
	}()
	return pr
}

func decode[T any](t *testing.T, stage poll.Stage[transport.Reader, T], wire []byte, opts ...transport.Option) (T, error) {
	t.Helper()
	return poll.BlockStage(testContext(t), stage, feed(wire, opts...))
}

func roundTrip[T any](t *testing.T, c Codec[T], v T) T {
	t.Helper()
	wire := encode(t, c.Encoder(v))
	got, err := decode(t, c.Decoder(), wire, transport.WithChunk(3))
	if err != nil {
		t.Fatalf("decode %T: %v", v, err)
	}
	return got
}

func prefix(n int) []byte {
	b := make([]byte, WordSize)
	if WordSize == 8 {
		binary.NativeEndian.PutUint64(b, uint64(n))
	} else {
		binary.NativeEndian.PutUint32(b, uint32(n))
	}
	return b
}

func TestStringWireShape(t *testing.T) {
	testlog.Start(t)
	wire := encode(t, String().Encoder("hello"))
	want := append(prefix(5), "hello"...)
	if !bytes.Equal(wire, want) {
		t.Fatalf("unexpected wire=% x want=% x", wire, want)
	}
	if len(wire) != WordSize+5 {
		t.Fatalf("unexpected wire length=%d", len(wire))
	}
}

func TestAbsentOptionWireShape(t *testing.T) {
	testlog.Start(t)
	wire := encode(t, Option(Scalar[uint32]()).Encoder(None[uint32]()))
	if !bytes.Equal(wire, []byte{0x00}) {
		t.Fatalf("unexpected wire=% x", wire)
	}
}

func TestFailureOutcomeWireShape(t *testing.T) {
	testlog.Start(t)
	c := Result(String(), Byte[uint8]())
	wire := encode(t, c.Encoder(Failure[string](uint8(7))))
	if !bytes.Equal(wire, []byte{0x00, 0x07}) {
		t.Fatalf("unexpected wire=% x", wire)
	}
	got, err := decode(t, c.Decoder(), wire)
	if err != nil || got.OK || got.Failure != 7 {
		t.Fatalf("unexpected outcome=%+v err=%v", got, err)
	}
}

func TestScalarResumesAcrossSingleBytes(t *testing.T) {
	testlog.Start(t)
	const v = uint64(0x0102030405060708)
	var image [8]byte
	binary.NativeEndian.PutUint64(image[:], v)

	pr, pw := transport.NewPipe()
	cx := poll.NewContext(nil)
	r := NewScalarReader[uint64]()
	for i, b := range image {
		if _, ok, err := r.PollStage(cx, pr); ok || err != nil {
			t.Fatalf("byte %d: expected pending, ok=%v err=%v", i, ok, err)
		}
		if n, ok, err := pw.PollWrite(cx, []byte{b}); n != 1 || !ok || err != nil {
			t.Fatalf("byte %d: write n=%d ok=%v err=%v", i, n, ok, err)
		}
	}
	got, ok, err := r.PollStage(cx, pr)
	if err != nil || !ok || got != v {
		t.Fatalf("unexpected value=%#x ok=%v err=%v", got, ok, err)
	}
}

func TestTruncatedStringIsUnexpectedEOF(t *testing.T) {
	testlog.Start(t)
	wire := append(prefix(10), "abc"...)
	_, err := decode(t, String().Decoder(), wire)
	if !errors.Is(err, protocol.ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
	if protocol.KindOf(err) != protocol.KindUnexpectedEOF {
		t.Fatalf("unexpected kind=%v", protocol.KindOf(err))
	}
	_, err = decode(t, Scalar[uint32]().Decoder(), []byte{1, 2})
	if !errors.Is(err, protocol.ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF for short scalar, got %v", err)
	}
}

func TestIntegerRoundTrips(t *testing.T) {
	testlog.Start(t)
	if got := roundTrip(t, Byte[uint8](), 0xFF); got != 0xFF {
		t.Fatalf("u8 got=%d", got)
	}
	if got := roundTrip(t, Byte[int8](), -128); got != -128 {
		t.Fatalf("i8 got=%d", got)
	}
	if got := roundTrip(t, Scalar[uint16](), 0xBEEF); got != 0xBEEF {
		t.Fatalf("u16 got=%d", got)
	}
	if got := roundTrip(t, Scalar[int16](), math.MinInt16); got != math.MinInt16 {
		t.Fatalf("i16 got=%d", got)
	}
	if got := roundTrip(t, Scalar[uint32](), math.MaxUint32); got != math.MaxUint32 {
		t.Fatalf("u32 got=%d", got)
	}
	if got := roundTrip(t, Scalar[int32](), math.MinInt32); got != math.MinInt32 {
		t.Fatalf("i32 got=%d", got)
	}
	if got := roundTrip(t, Scalar[uint64](), math.MaxUint64); got != math.MaxUint64 {
		t.Fatalf("u64 got=%d", got)
	}
	if got := roundTrip(t, Scalar[int64](), math.MinInt64); got != math.MinInt64 {
		t.Fatalf("i64 got=%d", got)
	}
	if got := roundTrip(t, Scalar[uint](), math.MaxUint); got != math.MaxUint {
		t.Fatalf("usize got=%d", got)
	}
	if got := roundTrip(t, Scalar[int](), -1); got != -1 {
		t.Fatalf("isize got=%d", got)
	}
	if n := len(encode(t, Scalar[int]().Encoder(0))); n != WordSize {
		t.Fatalf("isize width=%d want %d", n, WordSize)
	}
}

func TestWideRoundTrips(t *testing.T) {
	testlog.Start(t)
	u := Uint128{Hi: math.MaxUint64, Lo: 1}
	if got := roundTrip(t, U128(), u); got != u {
		t.Fatalf("u128 got=%v", got)
	}
	i := I128From64(-5)
	got := roundTrip(t, I128(), i)
	if got != i || got.String() != "-5" {
		t.Fatalf("i128 got=%v", got)
	}
	if s := U128From64(42).String(); s != "42" {
		t.Fatalf("unexpected u128 string=%q", s)
	}
	if n := len(encode(t, U128().Encoder(u))); n != 16 {
		t.Fatalf("u128 width=%d", n)
	}
}

func TestFloatRoundTripsPreserveBits(t *testing.T) {
	testlog.Start(t)
	negZero := math.Copysign(0, -1)
	got := roundTrip(t, Float64(), negZero)
	if math.Float64bits(got) != math.Float64bits(negZero) {
		t.Fatalf("-0 lost its sign: %v", got)
	}
	nan := math.Float64frombits(0x7FF8_0000_0000_0BAD)
	if got := roundTrip(t, Float64(), nan); math.Float64bits(got) != math.Float64bits(nan) {
		t.Fatalf("nan payload changed: %#x", math.Float64bits(got))
	}
	if got := roundTrip(t, Float64(), math.Inf(1)); !math.IsInf(got, 1) {
		t.Fatalf("inf got=%v", got)
	}
	nan32 := math.Float32frombits(0x7FC0_0123)
	if got := roundTrip(t, Float32(), nan32); math.Float32bits(got) != math.Float32bits(nan32) {
		t.Fatalf("f32 nan payload changed: %#x", math.Float32bits(got))
	}
	if got := roundTrip(t, Float32(), float32(1.5)); got != 1.5 {
		t.Fatalf("f32 got=%v", got)
	}
}

func TestSliceAndBytesRoundTrips(t *testing.T) {
	testlog.Start(t)
	xs := []int32{1, -2, math.MaxInt32, math.MinInt32}
	got := roundTrip(t, Slice[int32](), xs)
	if len(got) != len(xs) {
		t.Fatalf("slice length=%d", len(got))
	}
	for i := range xs {
		if got[i] != xs[i] {
			t.Fatalf("slice[%d]=%d want %d", i, got[i], xs[i])
		}
	}
	if n := len(encode(t, Slice[int32]().Encoder(xs))); n != WordSize+16 {
		t.Fatalf("slice wire length=%d", n)
	}
	if got := roundTrip(t, Slice[uint64](), nil); len(got) != 0 {
		t.Fatalf("empty slice got=%v", got)
	}
	payload := bytes.Repeat([]byte{0xAB}, 1000)
	if got := roundTrip(t, Bytes(), payload); !bytes.Equal(got, payload) {
		t.Fatalf("bytes mismatch len=%d", len(got))
	}
	if got := roundTrip(t, String(), ""); got != "" {
		t.Fatalf("empty string got=%q", got)
	}
	if got := roundTrip(t, String(), "ünïcødé ✓"); got != "ünïcødé ✓" {
		t.Fatalf("string got=%q", got)
	}
}

func TestOptionAndOutcomeRoundTrips(t *testing.T) {
	testlog.Start(t)
	opt := Option(String())
	if got := roundTrip(t, opt, Some("x")); !got.Present || got.Value != "x" {
		t.Fatalf("present option got=%+v", got)
	}
	if got := roundTrip(t, opt, None[string]()); got.Present {
		t.Fatalf("absent option got=%+v", got)
	}
	nested := Option(Option(Scalar[uint16]()))
	got := roundTrip(t, nested, Some(None[uint16]()))
	if !got.Present || got.Value.Present {
		t.Fatalf("nested option got=%+v", got)
	}
	if wire := encode(t, nested.Encoder(Some(Some(uint16(3))))); len(wire) != 4 || wire[0] != 1 || wire[1] != 1 {
		t.Fatalf("nested wire=% x", wire)
	}

	res := Result(Slice[uint32](), String())
	ok := roundTrip(t, res, Success[[]uint32, string]([]uint32{9, 8}))
	if !ok.OK || len(ok.Value) != 2 || ok.Value[1] != 8 {
		t.Fatalf("success got=%+v", ok)
	}
	fail := roundTrip(t, res, Failure[[]uint32]("nope"))
	if fail.OK || fail.Failure != "nope" {
		t.Fatalf("failure got=%+v", fail)
	}
}

func TestInvalidDiscriminators(t *testing.T) {
	testlog.Start(t)
	_, err := decode(t, Option(Byte[uint8]()).Decoder(), []byte{2, 0})
	if !errors.Is(err, protocol.ErrInvalidData) {
		t.Fatalf("option: expected ErrInvalidData, got %v", err)
	}
	_, err = decode(t, Result(Byte[uint8](), Byte[uint8]()).Decoder(), []byte{0xFF, 0})
	if !errors.Is(err, protocol.ErrInvalidData) {
		t.Fatalf("outcome: expected ErrInvalidData, got %v", err)
	}
	if protocol.KindOf(err) != protocol.KindInvalidData {
		t.Fatalf("unexpected kind=%v", protocol.KindOf(err))
	}
}

func TestInvalidUTF8Rejected(t *testing.T) {
	testlog.Start(t)
	wire := append(prefix(2), 0xC3, 0x28)
	_, err := decode(t, String().Decoder(), wire)
	if !errors.Is(err, protocol.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
}

func TestDeclaredLengthLimit(t *testing.T) {
	testlog.Start(t)
	r := NewBytesReader().WithLimits(Limits{MaxElements: 4})
	_, err := decode[[]byte](t, r, append(prefix(5), "abcde"...))
	if !errors.Is(err, protocol.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData over limit, got %v", err)
	}
	if r.out != nil {
		t.Fatalf("payload allocated despite limit")
	}

	huge := make([]byte, WordSize)
	for i := range huge {
		huge[i] = 0xFF
	}
	_, err = decode(t, Slice[uint64]().Decoder(), huge)
	if !errors.Is(err, protocol.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData for hostile prefix, got %v", err)
	}
}

type zeroWriter struct{}

func (zeroWriter) PollWrite(*poll.Context, []byte) (int, bool, error) { return 0, true, nil }
func (zeroWriter) PollFlush(*poll.Context) (bool, error)              { return true, nil }

type brokenWriter struct{ err error }

func (b brokenWriter) PollWrite(*poll.Context, []byte) (int, bool, error) { return 0, false, b.err }
func (b brokenWriter) PollFlush(*poll.Context) (bool, error)              { return false, b.err }

func TestWriteZeroAndTransportErrors(t *testing.T) {
	testlog.Start(t)
	ctx := testContext(t)
	_, err := poll.BlockStage(ctx, String().Encoder("x"), transport.Writer(zeroWriter{}))
	if !errors.Is(err, protocol.ErrWriteZero) {
		t.Fatalf("expected ErrWriteZero, got %v", err)
	}
	boom := errors.New("broken pipe")
	_, err = poll.BlockStage(ctx, Scalar[uint32]().Encoder(1), transport.Writer(brokenWriter{err: boom}))
	if err != boom {
		t.Fatalf("transport error was not passed through unchanged: %v", err)
	}
	if protocol.KindOf(err) != protocol.KindTransport {
		t.Fatalf("unexpected kind=%v", protocol.KindOf(err))
	}
}

func TestOrderedWireShapes(t *testing.T) {
	testlog.Start(t)
	if wire := encode(t, Ordered[uint32](binary.BigEndian).Encoder(0x01020304)); !bytes.Equal(wire, []byte{1, 2, 3, 4}) {
		t.Fatalf("big endian u32 wire=% x", wire)
	}
	if wire := encode(t, Ordered[int16](binary.LittleEndian).Encoder(-2)); !bytes.Equal(wire, []byte{0xFE, 0xFF}) {
		t.Fatalf("little endian i16 wire=% x", wire)
	}
	if wire := encode(t, Ordered[uint8](binary.BigEndian).Encoder(9)); !bytes.Equal(wire, []byte{9}) {
		t.Fatalf("u8 wire=% x", wire)
	}
	if got := roundTrip(t, Ordered[int64](binary.BigEndian), math.MinInt64+5); got != math.MinInt64+5 {
		t.Fatalf("i64 round trip got=%d", got)
	}
	if got := roundTrip(t, Ordered[uint](binary.LittleEndian), 77); got != 77 {
		t.Fatalf("uint round trip got=%d", got)
	}
	f := roundTrip(t, OrderedFloat64(binary.BigEndian), math.Copysign(0, -1))
	if f != 0 || !math.Signbit(f) {
		t.Fatalf("f64 round trip lost sign: %v", f)
	}
	if wire := encode(t, OrderedFloat32(binary.BigEndian).Encoder(1)); !bytes.Equal(wire, []byte{0x3F, 0x80, 0, 0}) {
		t.Fatalf("big endian f32 wire=% x", wire)
	}
}
