package exchange

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

// LookupKey is present in the table DefaultTable builds.
const LookupKey = "greeting"

// DefaultTable is the lookup table the child serves.
func DefaultTable() map[string][]byte {
	return map[string][]byte{LookupKey: []byte("hello from the child")}
}

// RunScript drives one round of every request against a child serving
// DefaultTable, checks each reply and finishes with OpQuit.
func RunScript(ctx context.Context, c *Client, log zerolog.Logger) error {
	if got, err := c.EchoU32(ctx, 0xDEADBEEF); err != nil {
		return fmt.Errorf("echo_u32: %w", err)
	} else if got != 0xDEADBEEF {
		return fmt.Errorf("echo_u32: got %#x", got)
	}
	log.Info().Msg("echo_u32 ok")

	if got, err := c.EchoString(ctx, "héllo wire"); err != nil {
		return fmt.Errorf("echo_string: %w", err)
	} else if got != "héllo wire" {
		return fmt.Errorf("echo_string: got %q", got)
	}
	_, err := c.EchoString(ctx, "")
	var rejected *RejectedError
	if !errors.As(err, &rejected) || rejected.Code != FailEmpty {
		return fmt.Errorf("echo_string empty: expected rejection, got %v", err)
	}
	log.Info().Msg("echo_string ok")

	if got, err := c.Sum(ctx, []int32{1, -2, math.MaxInt32, math.MaxInt32}); err != nil {
		return fmt.Errorf("sum: %w", err)
	} else if want := int64(1-2) + 2*int64(math.MaxInt32); got != want {
		return fmt.Errorf("sum: got %d want %d", got, want)
	}
	log.Info().Msg("sum ok")

	hit, err := c.Lookup(ctx, LookupKey)
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}
	if v, ok := hit.Get(); !ok || !bytes.Equal(v, DefaultTable()[LookupKey]) {
		return fmt.Errorf("lookup: unexpected %+v", hit)
	}
	miss, err := c.Lookup(ctx, "missing")
	if err != nil {
		return fmt.Errorf("lookup missing: %w", err)
	}
	if miss.Present {
		return fmt.Errorf("lookup missing: unexpected value %q", miss.Value)
	}
	log.Info().Msg("lookup ok")

	if got, err := c.EchoF64(ctx, math.Pi); err != nil {
		return fmt.Errorf("echo_f64: %w", err)
	} else if got != math.Pi {
		return fmt.Errorf("echo_f64: got %v", got)
	}
	log.Info().Msg("echo_f64 ok")

	if err := c.Probe(ctx, Opcode(0xFF)); !errors.As(err, &rejected) || rejected.Code != FailUnknownOp {
		return fmt.Errorf("probe: expected unknown-op rejection, got %v", err)
	}

	if err := c.Quit(ctx); err != nil {
		return fmt.Errorf("quit: %w", err)
	}
	log.Info().Msg("session finished")
	return nil
}
