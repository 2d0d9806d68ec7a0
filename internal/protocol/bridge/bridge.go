package bridge

import "github.com/rs/zerolog"

// Source is a blocking message-oriented receive endpoint.
type Source[T any] interface {
	Recv() (T, error)
}

// Sink is a blocking message-oriented send endpoint.
type Sink[T any] interface {
	Send(T) error
}

// Receiver serves Recv requests from src on a dedicated worker.
type Receiver[T any] struct {
	w *worker[struct{}, T]
}

func NewReceiver[T any](src Source[T], log zerolog.Logger) *Receiver[T] {
	do := func(struct{}) (T, error) { return src.Recv() }
	return &Receiver[T]{w: startWorker(1, do, log.With().Str("bridge", "recv").Logger())}
}

// Recv requests the next message. Only one receive may be outstanding.
func (r *Receiver[T]) Recv() *Pending[T] {
	return r.w.submit(struct{}{})
}

// Close stops the worker once the current receive has finished.
func (r *Receiver[T]) Close() {
	r.w.close()
}

// Sender serves Send requests to dst on a dedicated worker.
type Sender[T any] struct {
	w *worker[T, struct{}]
}

func NewSender[T any](dst Sink[T], log zerolog.Logger) *Sender[T] {
	do := func(v T) (struct{}, error) { return struct{}{}, dst.Send(v) }
	return &Sender[T]{w: startWorker(2, do, log.With().Str("bridge", "send").Logger())}
}

// Send requests delivery of v. Only one send may be outstanding.
func (s *Sender[T]) Send(v T) *Pending[struct{}] {
	return s.w.submit(v)
}

func (s *Sender[T]) Close() {
	s.w.close()
}
