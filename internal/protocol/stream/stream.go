package stream

import (
	"context"
	"errors"
	"io"

	"github.com/danmuck/pipewire/internal/protocol/codec"
	"github.com/danmuck/pipewire/internal/transport"
	"github.com/rs/zerolog"
)

// Stream owns one buffered read half and one buffered write half.
type Stream struct {
	read    *ReadHalf
	write   *WriteHalf
	log     zerolog.Logger
	closers []io.Closer
}

// New wraps r and w. Either side that implements io.Closer is closed by Close.
func New(r transport.Reader, w transport.Writer, opts ...Option) *Stream {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &Stream{
		read:  newReadHalf(r, o.readBuffer, o.limits),
		write: newWriteHalf(w, o.writeBuffer),
		log:   o.logger,
	}
	if c, ok := w.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}
	if c, ok := r.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}
	return s
}

func (s *Stream) ReadHalf() *ReadHalf {
	return s.read
}

func (s *Stream) WriteHalf() *WriteHalf {
	return s.write
}

// Write starts encoding v with c on the write half.
func Write[T any](s *Stream, c codec.Codec[T], v T) *WriteOp {
	return newOp[transport.Writer, struct{}](s.write, &s.write.guard, c.Encoder(v))
}

// Read starts decoding a value with c from the read half.
func Read[T any](s *Stream, c codec.Codec[T]) *ReadOp[T] {
	return newOp[transport.Reader, T](s.read, &s.read.guard, c.Decoder())
}

// Shutdown flushes buffered output and closes both halves.
func (s *Stream) Shutdown(ctx context.Context) error {
	_, ferr := s.Flush().Wait(ctx)
	return errors.Join(ferr, s.Close())
}

// Close closes the underlying endpoints without flushing.
func (s *Stream) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	if len(errs) > 0 {
		s.log.Debug().Err(errors.Join(errs...)).Msg("stream close")
	}
	return errors.Join(errs...)
}
