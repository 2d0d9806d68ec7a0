package codec

import (
	"github.com/danmuck/pipewire/internal/protocol"
	"github.com/danmuck/pipewire/internal/protocol/poll"
	"github.com/danmuck/pipewire/internal/transport"
)

// Outcome is a two-variant success/failure value.
type Outcome[T, E any] struct {
	Value   T
	Failure E
	OK      bool
}

func Success[T, E any](v T) Outcome[T, E] {
	return Outcome[T, E]{Value: v, OK: true}
}

func Failure[T, E any](e E) Outcome[T, E] {
	return Outcome[T, E]{Failure: e}
}

// NewSuccessWriter encodes the success variant with payload.
func NewSuccessWriter(payload poll.Stage[transport.Writer, struct{}]) poll.Stage[transport.Writer, struct{}] {
	return newTaggedWriter(tagSuccess, payload)
}

// NewFailureWriter encodes the failure variant with payload.
func NewFailureWriter(payload poll.Stage[transport.Writer, struct{}]) poll.Stage[transport.Writer, struct{}] {
	return newTaggedWriter(tagFailure, payload)
}

// OutcomeReader decodes an outcome, delegating to the success or failure codec.
type OutcomeReader[T, E any] struct {
	state    variantState
	tag      ByteReader[uint8]
	success  Codec[T]
	failure  Codec[E]
	okStage  poll.Stage[transport.Reader, T]
	errStage poll.Stage[transport.Reader, E]
}

func NewOutcomeReader[T, E any](success Codec[T], failure Codec[E]) *OutcomeReader[T, E] {
	return &OutcomeReader[T, E]{success: success, failure: failure}
}

func (r *OutcomeReader[T, E]) PollStage(cx *poll.Context, src transport.Reader) (Outcome[T, E], bool, error) {
	if r.state == awaitingDiscriminator {
		tag, ok, err := r.tag.PollStage(cx, src)
		if err != nil || !ok {
			return Outcome[T, E]{}, false, err
		}
		switch tag {
		case tagSuccess:
			r.okStage = r.success.Decoder()
		case tagFailure:
			r.errStage = r.failure.Decoder()
		default:
			return Outcome[T, E]{}, false, protocol.Invalidf("outcome discriminator %d", tag)
		}
		r.state = awaitingPayload
	}
	if r.okStage != nil {
		v, ok, err := r.okStage.PollStage(cx, src)
		if err != nil || !ok {
			return Outcome[T, E]{}, false, err
		}
		return Success[T, E](v), true, nil
	}
	e, ok, err := r.errStage.PollStage(cx, src)
	if err != nil || !ok {
		return Outcome[T, E]{}, false, err
	}
	return Failure[T](e), true, nil
}
