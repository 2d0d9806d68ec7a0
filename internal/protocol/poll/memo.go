package poll

// Memo wraps a sub-stage. It starts pending and moves to completed the first
// time the sub-stage finishes with a value; after that the cached value is
// returned without touching the shared resource.
type Memo[S any, T any] struct {
	inner Stage[S, T]
	value T
	done  bool
}

func NewMemo[S any, T any](inner Stage[S, T]) Memo[S, T] {
	return Memo[S, T]{inner: inner}
}

// Resolve polls the sub-stage unless it already completed.
func (m *Memo[S, T]) Resolve(cx *Context, shared S) (T, bool, error) {
	if m.done {
		return m.value, true, nil
	}
	v, ok, err := m.inner.PollStage(cx, shared)
	if err != nil || !ok {
		return v, false, err
	}
	m.value = v
	m.done = true
	m.inner = nil
	return m.value, true, nil
}

func (m *Memo[S, T]) Done() bool {
	return m.done
}

// Value returns the cached result. Only meaningful once Done reports true.
func (m *Memo[S, T]) Value() T {
	return m.value
}
