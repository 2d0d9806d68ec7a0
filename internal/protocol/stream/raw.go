package stream

import (
	"context"
	"io"

	"github.com/danmuck/pipewire/internal/protocol"
	"github.com/danmuck/pipewire/internal/protocol/poll"
	"github.com/danmuck/pipewire/internal/transport"
)

type rawRead struct {
	p []byte
}

func (r rawRead) PollStage(cx *poll.Context, src transport.Reader) (int, bool, error) {
	return src.PollRead(cx, r.p)
}

type rawWrite struct {
	p []byte
}

func (w rawWrite) PollStage(cx *poll.Context, dst transport.Writer) (int, bool, error) {
	return dst.PollWrite(cx, w.p)
}

type flush struct{}

func (flush) PollStage(cx *poll.Context, dst transport.Writer) (struct{}, bool, error) {
	ok, err := dst.PollFlush(cx)
	return struct{}{}, ok, err
}

// ReadRaw reads up to len(p) bytes in a single attempt. Zero means end of stream.
func (s *Stream) ReadRaw(p []byte) *ReadOp[int] {
	return newOp[transport.Reader, int](s.read, &s.read.guard, rawRead{p: p})
}

// WriteRaw writes up to len(p) bytes in a single attempt.
func (s *Stream) WriteRaw(p []byte) *Op[transport.Writer, int] {
	return newOp[transport.Writer, int](s.write, &s.write.guard, rawWrite{p: p})
}

// Flush pushes buffered output through to the transport.
func (s *Stream) Flush() *WriteOp {
	return newOp[transport.Writer, struct{}](s.write, &s.write.guard, flush{})
}

// Fill returns the buffered input without consuming it, reading from the
// transport first if nothing is buffered. The slice is valid until the next
// read operation or Consume.
func (s *Stream) Fill() *ReadOp[[]byte] {
	half := s.read
	return newOp[transport.Reader, []byte](half, &half.guard, poll.StageFunc[transport.Reader, []byte](
		func(cx *poll.Context, _ transport.Reader) ([]byte, bool, error) {
			return half.PollFill(cx)
		}))
}

// Consume discards n bytes previously returned by Fill.
func (s *Stream) Consume(n int) error {
	if s.read.guard.held() {
		return protocol.ErrBusy
	}
	s.read.Consume(n)
	return nil
}

// Reader adapts the read half to io.Reader, blocking under ctx.
func (s *Stream) Reader(ctx context.Context) io.Reader {
	return ioReader{s: s, ctx: ctx}
}

// Writer adapts the write half to io.Writer, blocking under ctx. Output is
// buffered until Flush.
func (s *Stream) Writer(ctx context.Context) io.Writer {
	return ioWriter{s: s, ctx: ctx}
}

type ioReader struct {
	s   *Stream
	ctx context.Context
}

func (r ioReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := r.s.ReadRaw(p).Wait(r.ctx)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

type ioWriter struct {
	s   *Stream
	ctx context.Context
}

func (w ioWriter) Write(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := w.s.WriteRaw(p[written:]).Wait(w.ctx)
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, protocol.ErrWriteZero
		}
		written += n
	}
	return written, nil
}
