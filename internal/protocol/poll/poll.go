package poll

// Waker is notified when a suspended operation may be able to progress.
type Waker interface {
	Wake()
}

// WakerFunc adapts a function to Waker.
type WakerFunc func()

func (f WakerFunc) Wake() {
	if f != nil {
		f()
	}
}

// Context is the scheduling context handed to every poll.
type Context struct {
	waker Waker
}

func NewContext(w Waker) *Context {
	return &Context{waker: w}
}

// Waker returns the waker of the task being polled. It is never nil.
func (cx *Context) Waker() Waker {
	if cx == nil || cx.waker == nil {
		return WakerFunc(nil)
	}
	return cx.waker
}

// Stage is a resumable computation against a shared resource S.
//
// PollStage returns (v, true, nil) when finished with a value, (zero, false,
// err) when finished with an error, and (zero, false, nil) when pending.
type Stage[S any, T any] interface {
	PollStage(cx *Context, shared S) (T, bool, error)
}

// StageFunc adapts a function to Stage.
type StageFunc[S any, T any] func(cx *Context, shared S) (T, bool, error)

func (f StageFunc[S, T]) PollStage(cx *Context, shared S) (T, bool, error) {
	return f(cx, shared)
}

// Ready returns an already finished stage.
func Ready[S any, T any](v T) Stage[S, T] {
	return StageFunc[S, T](func(*Context, S) (T, bool, error) {
		return v, true, nil
	})
}
