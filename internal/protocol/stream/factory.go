package stream

import (
	"io"
	"os"

	"github.com/danmuck/pipewire/internal/transport"
	"golang.org/x/term"
)

// ChildPipes is the process-supervision handle a child stream is built from.
// Each pipe can be taken once.
type ChildPipes interface {
	TakeStdin() (io.WriteCloser, bool)
	TakeStdout() (io.ReadCloser, bool)
}

// Parent attaches to this process's own standard input and output. It reports
// false when either handle is unavailable.
func Parent(opts ...Option) (*Stream, bool) {
	if os.Stdin == nil || os.Stdout == nil {
		return nil, false
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		o.logger.Warn().Msg("stdin is a terminal, expected a pipe from the parent process")
	}
	r := transport.FromReader(os.Stdin, transport.WithLogger(o.logger.With().Str("pump", "stdin").Logger()))
	w := transport.ToWriter(os.Stdout, transport.WithLogger(o.logger.With().Str("pump", "stdout").Logger()))
	o.logger.Debug().Msg("attached to parent stdio")
	return New(r, w, opts...), true
}

// ConnectChild attaches to a supervised child's stdout (read half) and stdin
// (write half). It reports false when either pipe has already been taken.
func ConnectChild(child ChildPipes, opts ...Option) (*Stream, bool) {
	stdout, ok := child.TakeStdout()
	if !ok {
		return nil, false
	}
	stdin, ok := child.TakeStdin()
	if !ok {
		_ = stdout.Close()
		return nil, false
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	r := transport.FromReader(stdout, transport.WithLogger(o.logger.With().Str("pump", "child-stdout").Logger()))
	w := transport.ToWriter(stdin, transport.WithLogger(o.logger.With().Str("pump", "child-stdin").Logger()))
	s := New(r, w, opts...)
	s.closers = append(s.closers, stdout)
	return s, true
}
