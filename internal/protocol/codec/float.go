package codec

import (
	"math"

	"github.com/danmuck/pipewire/internal/protocol/poll"
	"github.com/danmuck/pipewire/internal/transport"
)

// Floats travel as the raw bit pattern through the unsigned codec of the same
// width, so NaN payloads and signed zero survive the round trip.

type Float32Writer struct {
	inner ScalarWriter[uint32]
}

func NewFloat32Writer(v float32) *Float32Writer {
	return &Float32Writer{inner: ScalarWriter[uint32]{st: imageOf(math.Float32bits(v))}}
}

func (w *Float32Writer) PollStage(cx *poll.Context, dst transport.Writer) (struct{}, bool, error) {
	return w.inner.PollStage(cx, dst)
}

type Float32Reader struct {
	inner ScalarReader[uint32]
}

func NewFloat32Reader() *Float32Reader {
	return &Float32Reader{inner: ScalarReader[uint32]{st: staged{width: 4}}}
}

func (r *Float32Reader) PollStage(cx *poll.Context, src transport.Reader) (float32, bool, error) {
	b, ok, err := r.inner.PollStage(cx, src)
	if err != nil || !ok {
		return 0, false, err
	}
	return math.Float32frombits(b), true, nil
}

type Float64Writer struct {
	inner ScalarWriter[uint64]
}

func NewFloat64Writer(v float64) *Float64Writer {
	return &Float64Writer{inner: ScalarWriter[uint64]{st: imageOf(math.Float64bits(v))}}
}

func (w *Float64Writer) PollStage(cx *poll.Context, dst transport.Writer) (struct{}, bool, error) {
	return w.inner.PollStage(cx, dst)
}

type Float64Reader struct {
	inner ScalarReader[uint64]
}

func NewFloat64Reader() *Float64Reader {
	return &Float64Reader{inner: ScalarReader[uint64]{st: staged{width: 8}}}
}

func (r *Float64Reader) PollStage(cx *poll.Context, src transport.Reader) (float64, bool, error) {
	b, ok, err := r.inner.PollStage(cx, src)
	if err != nil || !ok {
		return 0, false, err
	}
	return math.Float64frombits(b), true, nil
}
