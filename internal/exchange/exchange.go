package exchange

import (
	"errors"
	"fmt"
)

type Opcode uint8

const (
	OpEchoU32 Opcode = iota + 1
	OpEchoString
	OpSum
	OpLookup
	OpEchoF64
	OpQuit
)

func (o Opcode) String() string {
	switch o {
	case OpEchoU32:
		return "echo_u32"
	case OpEchoString:
		return "echo_string"
	case OpSum:
		return "sum"
	case OpLookup:
		return "lookup"
	case OpEchoF64:
		return "echo_f64"
	case OpQuit:
		return "quit"
	default:
		return fmt.Sprintf("opcode(%d)", uint8(o))
	}
}

// Failure codes carried by result<string, u8> replies.
const (
	FailEmpty     uint8 = 1
	FailUnknownOp uint8 = 2
)

const quitAck uint8 = 0

var (
	ErrSessionMismatch = errors.New("exchange: session mismatch")
	ErrRejected        = errors.New("exchange: request rejected")
)

// RejectedError reports a failure reply and its code.
type RejectedError struct {
	Op   Opcode
	Code uint8
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("exchange: %s rejected with code %d", e.Op, e.Code)
}

func (e *RejectedError) Unwrap() error {
	return ErrRejected
}
