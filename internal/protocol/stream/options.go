package stream

import (
	"github.com/danmuck/pipewire/internal/protocol/codec"
	"github.com/rs/zerolog"
)

type options struct {
	readBuffer  int
	writeBuffer int
	limits      codec.Limits
	logger      zerolog.Logger
}

func defaultOptions() options {
	return options{
		readBuffer:  DefaultBufferSize,
		writeBuffer: DefaultBufferSize,
		limits:      codec.DefaultLimits(),
		logger:      zerolog.Nop(),
	}
}

type Option func(*options)

func WithReadBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.readBuffer = n
		}
	}
}

func WithWriteBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.writeBuffer = n
		}
	}
}

// WithLimits bounds the declared lengths accepted by decoders on this stream.
func WithLimits(l codec.Limits) Option {
	return func(o *options) {
		if l.MaxElements > 0 {
			o.limits = l
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
