package codec

import (
	"context"
	"errors"
	"testing"

	"github.com/danmuck/pipewire/internal/protocol"
	"github.com/danmuck/pipewire/internal/protocol/poll"
	"github.com/danmuck/pipewire/internal/testutil/testlog"
	"github.com/danmuck/pipewire/internal/transport"
)

// trailer follows every framed value below. A decoder that reads past its
// frame eats into it; the writer stays open so over-reads block instead of
// seeing end of stream.
var trailer = []byte{0xEE, 0xEE}

func preloaded(t *testing.T, wire []byte, opts ...transport.Option) *transport.PipeReader {
	t.Helper()
	ctx := testContext(t)
	pr, pw := transport.NewPipe(opts...)
	rest := append(append([]byte(nil), wire...), trailer...)
	for len(rest) > 0 {
		n, err := poll.Block(ctx, func(cx *poll.Context) (int, bool, error) {
			return pw.PollWrite(cx, rest)
		})
		if err != nil {
			t.Fatalf("preload: %v", err)
		}
		rest = rest[n:]
	}
	return pr
}

func assertLeftover(t *testing.T, pr *transport.PipeReader, what string) {
	t.Helper()
	if got := pr.Buffered(); got != len(trailer) {
		t.Fatalf("%s: %d bytes left after decode, want %d", what, got, len(trailer))
	}
}

type framedCase struct {
	name   string
	wire   []byte
	decode func(ctx context.Context, src transport.Reader) error
}

func caseFor[T any](t *testing.T, name string, c Codec[T], v T) framedCase {
	t.Helper()
	return framedCase{
		name: name,
		wire: encode(t, c.Encoder(v)),
		decode: func(ctx context.Context, src transport.Reader) error {
			_, err := poll.BlockStage(ctx, c.Decoder(), src)
			return err
		},
	}
}

func TestDecodeConsumesExactlyTheFrame(t *testing.T) {
	testlog.Start(t)
	cases := []framedCase{
		caseFor(t, "u8", Byte[uint8](), 0x7F),
		caseFor(t, "u32", Scalar[uint32](), 0xDEADBEEF),
		caseFor(t, "f64", Float64(), 2.5),
		caseFor(t, "u128", U128(), Uint128{Hi: 3, Lo: 4}),
		caseFor(t, "empty string", String(), ""),
		caseFor(t, "string", String(), "hello"),
		caseFor(t, "bytes", Bytes(), []byte{1, 2, 3, 4, 5, 6, 7}),
		caseFor(t, "slice", Slice[uint16](), []uint16{1, 2, 3}),
		caseFor(t, "present option", Option(Scalar[uint32]()), Some(uint32(9))),
		caseFor(t, "success", Result(String(), Byte[uint8]()), Success[string, uint8]("ok")),
		caseFor(t, "failure", Result(String(), Byte[uint8]()), Failure[string](uint8(7))),
	}
	for _, tc := range cases {
		for _, chunk := range []int{1, 3, 0} {
			var opts []transport.Option
			if chunk > 0 {
				opts = append(opts, transport.WithChunk(chunk))
			}
			pr := preloaded(t, tc.wire, opts...)
			if err := tc.decode(testContext(t), pr); err != nil {
				t.Fatalf("%s chunk=%d: %v", tc.name, chunk, err)
			}
			assertLeftover(t, pr, tc.name)
		}
	}
}

func TestAbsentOptionConsumesOnlyTheTag(t *testing.T) {
	testlog.Start(t)
	pr := preloaded(t, []byte{0x00})
	got, err := poll.BlockStage(testContext(t), Option(Scalar[uint16]()).Decoder(), transport.Reader(pr))
	if err != nil || got.Present {
		t.Fatalf("absent option got=%+v err=%v", got, err)
	}
	assertLeftover(t, pr, "absent option")
}

func TestBadDiscriminatorLeavesPayloadUnread(t *testing.T) {
	testlog.Start(t)
	pr := preloaded(t, []byte{0x02})
	_, err := poll.BlockStage(testContext(t), Option(Scalar[uint16]()).Decoder(), transport.Reader(pr))
	if !errors.Is(err, protocol.ErrInvalidData) {
		t.Fatalf("option: expected ErrInvalidData, got %v", err)
	}
	assertLeftover(t, pr, "option")

	pr = preloaded(t, []byte{0xFF})
	_, err = poll.BlockStage(testContext(t), Result(Scalar[uint32](), Scalar[uint32]()).Decoder(), transport.Reader(pr))
	if !errors.Is(err, protocol.ErrInvalidData) {
		t.Fatalf("outcome: expected ErrInvalidData, got %v", err)
	}
	assertLeftover(t, pr, "outcome")
}

func TestInvalidUTF8ConsumesTheFramedBytes(t *testing.T) {
	testlog.Start(t)
	pr := preloaded(t, append(prefix(2), 0xC3, 0x28))
	_, err := poll.BlockStage(testContext(t), String().Decoder(), transport.Reader(pr))
	if !errors.Is(err, protocol.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
	assertLeftover(t, pr, "invalid utf-8")
}

func TestStringSurvivesRepeatedPendingPolls(t *testing.T) {
	testlog.Start(t)
	wire := encode(t, String().Encoder("hello"))
	pr, pw := transport.NewPipe()
	cx := poll.NewContext(nil)
	stage := String().Decoder()
	for i, b := range wire {
		for k := 0; k < 3; k++ {
			if v, ok, err := stage.PollStage(cx, pr); ok || err != nil {
				t.Fatalf("byte %d poll %d: expected pending, got v=%q ok=%v err=%v", i, k, v, ok, err)
			}
		}
		if n, ok, err := pw.PollWrite(cx, []byte{b}); n != 1 || !ok || err != nil {
			t.Fatalf("feed byte %d: n=%d ok=%v err=%v", i, n, ok, err)
		}
	}
	v, ok, err := stage.PollStage(cx, pr)
	if err != nil || !ok || v != "hello" {
		t.Fatalf("unexpected v=%q ok=%v err=%v", v, ok, err)
	}
	if pr.Buffered() != 0 {
		t.Fatalf("unexpected leftover=%d", pr.Buffered())
	}
}

func TestStringReaderSharesSliceFraming(t *testing.T) {
	testlog.Start(t)
	r := NewStringReader().WithLimits(Limits{MaxElements: 4})
	_, err := decode[string](t, r, append(prefix(5), "abcde"...))
	if !errors.Is(err, protocol.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData over limit, got %v", err)
	}
	got, err := decode[string](t, NewStringReader(), append(prefix(4), "wire"...), transport.WithChunk(1))
	if err != nil || got != "wire" {
		t.Fatalf("unexpected string=%q err=%v", got, err)
	}
}

// repeatReader serves an endless run of one byte value.
type repeatReader struct {
	b byte
}

func (r *repeatReader) PollRead(_ *poll.Context, p []byte) (int, bool, error) {
	for i := range p {
		p[i] = r.b
	}
	return len(p), true, nil
}

func TestFixedWidthDecodeAllocatesOnlyItsStage(t *testing.T) {
	testlog.Start(t)
	src := transport.Reader(&repeatReader{b: 1})
	cx := poll.NewContext(nil)
	c := Scalar[uint32]()
	var failed bool
	allocs := testing.AllocsPerRun(100, func() {
		if v, ok, err := c.Decoder().PollStage(cx, src); !ok || err != nil || v != 0x01010101 {
			failed = true
		}
	})
	if failed {
		t.Fatalf("decode from repeating source failed")
	}
	if allocs > 1 {
		t.Fatalf("scalar decode allocated %.1f times per value, want at most 1", allocs)
	}
}
