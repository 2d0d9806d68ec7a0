package transport

import "github.com/danmuck/pipewire/internal/protocol/poll"

// Reader is a non-blocking byte source.
//
// PollRead attempts to read up to len(p) bytes. It returns (n, true, nil)
// with n > 0 on progress, (0, true, nil) at end of stream, (0, false, nil)
// when nothing is available yet (the waker of cx fires later), and a non-nil
// error on transport failure.
type Reader interface {
	PollRead(cx *poll.Context, p []byte) (int, bool, error)
}

// Writer is a non-blocking byte sink.
//
// PollWrite attempts to write up to len(p) bytes and reports how many were
// accepted. A (0, true, nil) result on a non-empty p means the sink accepted
// nothing and will not; callers treat it as a write-zero failure.
type Writer interface {
	PollWrite(cx *poll.Context, p []byte) (int, bool, error)
	PollFlush(cx *poll.Context) (bool, error)
}
