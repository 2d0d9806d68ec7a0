package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedEOF = errors.New("protocol: unexpected end of stream")
	ErrInvalidData   = errors.New("protocol: invalid data")
	ErrWriteZero     = errors.New("protocol: write zero")
	ErrBusy          = errors.New("protocol: stream half already has a live operation")
	ErrCompleted     = errors.New("protocol: operation polled after completion")
)

// Kind classifies a failed operation.
type Kind uint8

const (
	KindNone Kind = iota
	KindTransport
	KindUnexpectedEOF
	KindInvalidData
	KindWriteZero
	KindMisuse
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTransport:
		return "transport"
	case KindUnexpectedEOF:
		return "unexpected_eof"
	case KindInvalidData:
		return "invalid_data"
	case KindWriteZero:
		return "write_zero"
	case KindMisuse:
		return "misuse"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// KindOf reports the taxonomy bucket of err. Anything that is not one of the
// protocol sentinels came from the byte capability and is a transport error.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrUnexpectedEOF):
		return KindUnexpectedEOF
	case errors.Is(err, ErrInvalidData):
		return KindInvalidData
	case errors.Is(err, ErrWriteZero):
		return KindWriteZero
	case errors.Is(err, ErrBusy), errors.Is(err, ErrCompleted):
		return KindMisuse
	default:
		return KindTransport
	}
}

// Invalidf returns an ErrInvalidData carrying a detail message.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidData, fmt.Sprintf(format, args...))
}
