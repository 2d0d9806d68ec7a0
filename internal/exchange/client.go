package exchange

import (
	"context"

	"github.com/danmuck/pipewire/internal/protocol"
	"github.com/danmuck/pipewire/internal/protocol/codec"
	"github.com/danmuck/pipewire/internal/protocol/stream"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Client issues requests on the parent side of a session. Calls must not
// overlap.
type Client struct {
	s   *stream.Stream
	log zerolog.Logger
}

func NewClient(s *stream.Stream, log zerolog.Logger) *Client {
	return &Client{s: s, log: log}
}

// Handshake reads the child's session announcement and checks it against
// want. A nil want accepts any session.
func (c *Client) Handshake(ctx context.Context, want uuid.UUID) (uuid.UUID, error) {
	raw, err := c.s.ReadBytes().Wait(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if len(raw) != len(uuid.UUID{}) {
		return uuid.Nil, protocol.Invalidf("session announcement has %d bytes", len(raw))
	}
	id, err := uuid.FromBytes(raw)
	if err != nil {
		return uuid.Nil, protocol.Invalidf("session announcement: %v", err)
	}
	if want != uuid.Nil && id != want {
		return id, ErrSessionMismatch
	}
	c.log.Debug().Str("session", id.String()).Msg("handshake accepted")
	return id, nil
}

func (c *Client) send(ctx context.Context, op Opcode, payload func() *stream.WriteOp) error {
	if _, err := c.s.WriteU8(uint8(op)).Wait(ctx); err != nil {
		return err
	}
	if payload != nil {
		if _, err := payload().Wait(ctx); err != nil {
			return err
		}
	}
	_, err := c.s.Flush().Wait(ctx)
	return err
}

func (c *Client) EchoU32(ctx context.Context, v uint32) (uint32, error) {
	if err := c.send(ctx, OpEchoU32, func() *stream.WriteOp { return c.s.WriteU32(v) }); err != nil {
		return 0, err
	}
	return c.s.ReadU32().Wait(ctx)
}

// EchoString returns a *RejectedError with FailEmpty for an empty v.
func (c *Client) EchoString(ctx context.Context, v string) (string, error) {
	if err := c.send(ctx, OpEchoString, func() *stream.WriteOp { return c.s.WriteString(v) }); err != nil {
		return "", err
	}
	return c.readEcho(ctx, OpEchoString)
}

func (c *Client) readEcho(ctx context.Context, op Opcode) (string, error) {
	out, err := stream.Read(c.s, echoReply).Wait(ctx)
	if err != nil {
		return "", err
	}
	if !out.OK {
		return "", &RejectedError{Op: op, Code: out.Failure}
	}
	return out.Value, nil
}

func (c *Client) Sum(ctx context.Context, xs []int32) (int64, error) {
	if err := c.send(ctx, OpSum, func() *stream.WriteOp { return stream.WriteSlice(c.s, xs) }); err != nil {
		return 0, err
	}
	return c.s.ReadI64().Wait(ctx)
}

func (c *Client) Lookup(ctx context.Context, key string) (codec.Optional[[]byte], error) {
	if err := c.send(ctx, OpLookup, func() *stream.WriteOp { return c.s.WriteString(key) }); err != nil {
		return codec.Optional[[]byte]{}, err
	}
	return stream.ReadOption(c.s, codec.Bytes()).Wait(ctx)
}

func (c *Client) EchoF64(ctx context.Context, v float64) (float64, error) {
	if err := c.send(ctx, OpEchoF64, func() *stream.WriteOp { return c.s.WriteF64(v) }); err != nil {
		return 0, err
	}
	return c.s.ReadF64().Wait(ctx)
}

// Probe sends a bare opcode and reads the generic failure reply. It exists
// for opcodes the child does not know.
func (c *Client) Probe(ctx context.Context, op Opcode) error {
	if err := c.send(ctx, op, nil); err != nil {
		return err
	}
	_, err := c.readEcho(ctx, op)
	return err
}

// Quit asks the child to stop serving and waits for its acknowledgement.
func (c *Client) Quit(ctx context.Context) error {
	if err := c.send(ctx, OpQuit, nil); err != nil {
		return err
	}
	ack, err := c.s.ReadU8().Wait(ctx)
	if err != nil {
		return err
	}
	if ack != quitAck {
		return protocol.Invalidf("quit ack %d", ack)
	}
	return nil
}
