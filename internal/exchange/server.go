package exchange

import (
	"context"
	"errors"

	"github.com/danmuck/pipewire/internal/protocol"
	"github.com/danmuck/pipewire/internal/protocol/codec"
	"github.com/danmuck/pipewire/internal/protocol/stream"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var echoReply = codec.Result(codec.String(), codec.Byte[uint8]())

// Server answers requests on the child side of a session.
type Server struct {
	s     *stream.Stream
	id    uuid.UUID
	table map[string][]byte
	log   zerolog.Logger
}

// NewServer serves requests on s. table backs OpLookup and is not modified.
func NewServer(s *stream.Stream, id uuid.UUID, table map[string][]byte, log zerolog.Logger) *Server {
	return &Server{s: s, id: id, table: table, log: log}
}

// Serve announces the session and answers requests until the parent sends
// OpQuit or closes its end. A parent hang-up between requests is not an
// error.
func (srv *Server) Serve(ctx context.Context) error {
	if _, err := srv.s.WriteBytes(srv.id[:]).Wait(ctx); err != nil {
		return err
	}
	if _, err := srv.s.Flush().Wait(ctx); err != nil {
		return err
	}
	srv.log.Debug().Str("session", srv.id.String()).Msg("handshake sent")

	for {
		raw, err := srv.s.ReadU8().Wait(ctx)
		if errors.Is(err, protocol.ErrUnexpectedEOF) {
			srv.log.Info().Msg("parent closed the stream")
			return nil
		}
		if err != nil {
			return err
		}
		op := Opcode(raw)
		done, err := srv.handle(ctx, op)
		if err != nil {
			srv.log.Error().Err(err).Stringer("op", op).Msg("request failed")
			return err
		}
		if _, err := srv.s.Flush().Wait(ctx); err != nil {
			return err
		}
		if done {
			srv.log.Info().Msg("quit requested")
			return nil
		}
	}
}

func (srv *Server) handle(ctx context.Context, op Opcode) (bool, error) {
	s := srv.s
	switch op {
	case OpEchoU32:
		v, err := s.ReadU32().Wait(ctx)
		if err != nil {
			return false, err
		}
		_, err = s.WriteU32(v).Wait(ctx)
		return false, err

	case OpEchoString:
		v, err := s.ReadString().Wait(ctx)
		if err != nil {
			return false, err
		}
		reply := codec.Success[string, uint8](v)
		if v == "" {
			reply = codec.Failure[string](FailEmpty)
		}
		_, err = stream.Write(s, echoReply, reply).Wait(ctx)
		return false, err

	case OpSum:
		xs, err := stream.ReadSlice[int32](s).Wait(ctx)
		if err != nil {
			return false, err
		}
		var sum int64
		for _, x := range xs {
			sum += int64(x)
		}
		_, err = s.WriteI64(sum).Wait(ctx)
		return false, err

	case OpLookup:
		key, err := s.ReadString().Wait(ctx)
		if err != nil {
			return false, err
		}
		reply := codec.None[[]byte]()
		if v, ok := srv.table[key]; ok {
			reply = codec.Some(v)
		}
		_, err = stream.WriteOption(s, codec.Bytes(), reply).Wait(ctx)
		return false, err

	case OpEchoF64:
		v, err := s.ReadF64().Wait(ctx)
		if err != nil {
			return false, err
		}
		_, err = s.WriteF64(v).Wait(ctx)
		return false, err

	case OpQuit:
		_, err := s.WriteU8(quitAck).Wait(ctx)
		return true, err

	default:
		srv.log.Warn().Stringer("op", op).Msg("unknown opcode")
		_, err := stream.Write(s, echoReply, codec.Failure[string](FailUnknownOp)).Wait(ctx)
		return false, err
	}
}
