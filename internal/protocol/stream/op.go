package stream

import (
	"context"

	"github.com/danmuck/pipewire/internal/protocol"
	"github.com/danmuck/pipewire/internal/protocol/poll"
	"github.com/danmuck/pipewire/internal/transport"
)

// Op is one in-flight encode or decode bound to a stream half. The half is
// held from creation until the operation completes, fails or is cancelled.
type Op[S any, T any] struct {
	shared S
	guard  *guard
	stage  poll.Stage[S, T]
	err    error
	held   bool
	done   bool
}

// ReadOp decodes a T from the read half.
type ReadOp[T any] = Op[transport.Reader, T]

// WriteOp encodes a value onto the write half.
type WriteOp = Op[transport.Writer, struct{}]

func newOp[S any, T any](shared S, g *guard, stage poll.Stage[S, T]) *Op[S, T] {
	op := &Op[S, T]{shared: shared, guard: g, stage: stage}
	if g.acquire() {
		op.held = true
	} else {
		op.err = protocol.ErrBusy
	}
	return op
}

// Poll advances the operation. After it reports completion (value or error)
// further polls fail with protocol.ErrCompleted.
func (op *Op[S, T]) Poll(cx *poll.Context) (T, bool, error) {
	var zero T
	if op.done {
		return zero, false, protocol.ErrCompleted
	}
	if op.err != nil {
		op.finish()
		return zero, false, op.err
	}
	v, ok, err := op.stage.PollStage(cx, op.shared)
	if err != nil {
		op.finish()
		return zero, false, err
	}
	if !ok {
		return zero, false, nil
	}
	op.finish()
	return v, true, nil
}

// Wait drives the operation on the calling goroutine. If ctx ends first the
// operation is cancelled.
func (op *Op[S, T]) Wait(ctx context.Context) (T, error) {
	v, err := poll.Block(ctx, op.Poll)
	if err != nil && !op.done {
		op.Cancel()
	}
	return v, err
}

// Cancel abandons an unfinished operation and releases its half. Bytes
// already transferred stay transferred.
func (op *Op[S, T]) Cancel() {
	if !op.done {
		op.finish()
	}
}

func (op *Op[S, T]) Done() bool {
	return op.done
}

func (op *Op[S, T]) finish() {
	op.done = true
	op.stage = nil
	if op.held {
		op.held = false
		op.guard.release()
	}
}
