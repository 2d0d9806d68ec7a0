package codec

import (
	"github.com/danmuck/pipewire/internal/protocol"
	"github.com/danmuck/pipewire/internal/protocol/poll"
	"github.com/danmuck/pipewire/internal/transport"
)

const (
	tagAbsent  uint8 = 0
	tagPresent uint8 = 1
	tagFailure uint8 = 0
	tagSuccess uint8 = 1
)

// variantState tracks a discriminated decode. The move from
// awaitingDiscriminator to awaitingPayload happens once.
type variantState uint8

const (
	awaitingDiscriminator variantState = iota
	awaitingPayload
)

// Optional is a value that may be absent.
type Optional[T any] struct {
	Value   T
	Present bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Present
}

// taggedWriter writes a discriminator byte and then, if set, the payload stage.
type taggedWriter struct {
	tag     ByteWriter[uint8]
	head    poll.Memo[transport.Writer, struct{}]
	payload poll.Stage[transport.Writer, struct{}]
}

func newTaggedWriter(tag uint8, payload poll.Stage[transport.Writer, struct{}]) *taggedWriter {
	w := &taggedWriter{tag: ByteWriter[uint8]{buf: [1]byte{tag}}, payload: payload}
	w.head = poll.NewMemo[transport.Writer, struct{}](&w.tag)
	return w
}

func (w *taggedWriter) PollStage(cx *poll.Context, dst transport.Writer) (struct{}, bool, error) {
	if _, ok, err := w.head.Resolve(cx, dst); err != nil || !ok {
		return struct{}{}, false, err
	}
	if w.payload == nil {
		return struct{}{}, true, nil
	}
	return w.payload.PollStage(cx, dst)
}

// NewOptionWriter encodes an optional value. A nil payload encodes absence.
func NewOptionWriter(payload poll.Stage[transport.Writer, struct{}]) poll.Stage[transport.Writer, struct{}] {
	if payload == nil {
		return newTaggedWriter(tagAbsent, nil)
	}
	return newTaggedWriter(tagPresent, payload)
}

// OptionReader decodes an optional value, delegating the payload to inner.
type OptionReader[T any] struct {
	state   variantState
	tag     ByteReader[uint8]
	inner   Codec[T]
	payload poll.Stage[transport.Reader, T]
}

func NewOptionReader[T any](inner Codec[T]) *OptionReader[T] {
	return &OptionReader[T]{inner: inner}
}

func (r *OptionReader[T]) PollStage(cx *poll.Context, src transport.Reader) (Optional[T], bool, error) {
	if r.state == awaitingDiscriminator {
		tag, ok, err := r.tag.PollStage(cx, src)
		if err != nil || !ok {
			return Optional[T]{}, false, err
		}
		switch tag {
		case tagAbsent:
			return None[T](), true, nil
		case tagPresent:
			r.payload = r.inner.Decoder()
			r.state = awaitingPayload
		default:
			return Optional[T]{}, false, protocol.Invalidf("option discriminator %d", tag)
		}
	}
	v, ok, err := r.payload.PollStage(cx, src)
	if err != nil || !ok {
		return Optional[T]{}, false, err
	}
	return Some(v), true, nil
}
