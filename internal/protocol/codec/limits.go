package codec

import "github.com/danmuck/pipewire/internal/transport"

// Limits constrains decode memory use for variable-length payloads.
type Limits struct {
	MaxElements uint64
}

func DefaultLimits() Limits {
	return Limits{MaxElements: 64 * 1024 * 1024}
}

// LimitedReader is implemented by stream halves that carry their own limits.
type LimitedReader interface {
	Limits() Limits
}

func limitsFor(src transport.Reader) Limits {
	if lr, ok := src.(LimitedReader); ok {
		if l := lr.Limits(); l.MaxElements > 0 {
			return l
		}
	}
	return DefaultLimits()
}
