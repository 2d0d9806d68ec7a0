package transport

import (
	"context"
	"errors"
	"io"

	"github.com/danmuck/pipewire/internal/protocol/poll"
)

// FromReader exposes a blocking io.Reader (os.Stdin, a child's stdout) as a
// non-blocking Reader. A pump goroutine copies bytes into an in-memory pipe
// until src fails or reaches end of stream; the error is surfaced to the poll
// side after the queued bytes are drained.
func FromReader(src io.Reader, opts ...Option) *PipeReader {
	pr, pw := NewPipe(opts...)
	log := pr.p.opts.logger
	go func() {
		buf := make([]byte, pumpBufferSize)
		for {
			n, err := src.Read(buf)
			if n > 0 {
				if werr := writeAll(pw, buf[:n]); werr != nil {
					log.Debug().Err(werr).Msg("read pump stopped: pipe closed")
					return
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					log.Debug().Msg("read pump reached end of stream")
					_ = pw.Close()
				} else {
					log.Warn().Err(err).Msg("read pump failed")
					_ = pw.CloseWithError(err)
				}
				return
			}
		}
	}()
	return pr
}

// ToWriter exposes a blocking io.Writer (os.Stdout, a child's stdin) as a
// non-blocking Writer. Flush completes once the pump handed every queued byte
// to dst. Closing the returned writer lets the pump drain and then close dst
// when it is an io.Closer.
func ToWriter(dst io.Writer, opts ...Option) *PipeWriter {
	pr, pw := NewPipe(append(opts, WithDrainOnFlush())...)
	log := pr.p.opts.logger
	go func() {
		buf := make([]byte, pumpBufferSize)
		for {
			n, err := poll.Block(context.Background(), func(cx *poll.Context) (int, bool, error) {
				return pr.p.peek(cx, buf)
			})
			if err != nil {
				log.Debug().Err(err).Msg("write pump stopped")
				return
			}
			if n == 0 {
				if c, ok := dst.(io.Closer); ok {
					if cerr := c.Close(); cerr != nil {
						log.Debug().Err(cerr).Msg("write pump close failed")
					}
				}
				log.Debug().Msg("write pump drained and closed")
				return
			}
			if _, err := dst.Write(buf[:n]); err != nil {
				log.Warn().Err(err).Msg("write pump failed")
				_ = pr.CloseWithError(err)
				return
			}
			pr.p.discard(n)
		}
	}()
	return pw
}

func writeAll(w Writer, b []byte) error {
	for len(b) > 0 {
		n, err := poll.Block(context.Background(), func(cx *poll.Context) (int, bool, error) {
			return w.PollWrite(cx, b)
		})
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
