package bridge

import (
	"fmt"

	"github.com/danmuck/pipewire/internal/protocol"
	"github.com/danmuck/pipewire/internal/protocol/blocking"
	"github.com/vmihailenco/msgpack/v5"
)

// Framed is a message channel over a blocking stream. Each message is
// msgpack-encoded and sent as one length-prefixed byte buffer.
type Framed[T any] struct {
	s *blocking.Stream
}

func NewFramed[T any](s *blocking.Stream) *Framed[T] {
	return &Framed[T]{s: s}
}

func (f *Framed[T]) Send(v T) error {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("bridge: encode message: %w", err)
	}
	if err := f.s.WriteBytes(b); err != nil {
		return err
	}
	return f.s.Flush()
}

func (f *Framed[T]) Recv() (T, error) {
	var v T
	b, err := f.s.ReadBytes()
	if err != nil {
		return v, err
	}
	if err := msgpack.Unmarshal(b, &v); err != nil {
		return v, protocol.Invalidf("decode message: %v", err)
	}
	return v, nil
}
