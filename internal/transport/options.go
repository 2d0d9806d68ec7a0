package transport

import "github.com/rs/zerolog"

const (
	DefaultCapacity = 64 * 1024
	pumpBufferSize  = 32 * 1024
)

type options struct {
	capacity     int
	chunk        int
	drainOnFlush bool
	logger       zerolog.Logger
}

func defaultOptions() options {
	return options{
		capacity: DefaultCapacity,
		logger:   zerolog.Nop(),
	}
}

// Option configures a Pipe or a pump.
type Option func(*options)

// WithCapacity bounds the bytes queued between writer and reader.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithChunk caps the bytes moved by a single read or write attempt.
func WithChunk(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunk = n
		}
	}
}

// WithDrainOnFlush makes PollFlush wait until the reader consumed every queued byte.
func WithDrainOnFlush() Option {
	return func(o *options) {
		o.drainOnFlush = true
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
