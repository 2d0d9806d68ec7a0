package poll

import "context"

// Block drives poll to completion on the calling goroutine, parking between
// attempts until the waker fires or ctx is done.
func Block[T any](ctx context.Context, poll func(cx *Context) (T, bool, error)) (T, error) {
	wake := make(chan struct{}, 1)
	cx := NewContext(WakerFunc(func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	}))
	for {
		v, ok, err := poll(cx)
		if err != nil {
			return v, err
		}
		if ok {
			return v, nil
		}
		select {
		case <-wake:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// BlockStage drives a stage against shared to completion.
func BlockStage[S any, T any](ctx context.Context, stage Stage[S, T], shared S) (T, error) {
	return Block(ctx, func(cx *Context) (T, bool, error) {
		return stage.PollStage(cx, shared)
	})
}
