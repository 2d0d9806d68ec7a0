package config

import (
	"io"
	"os"

	"github.com/danmuck/pipewire/internal/protocol/codec"
	"github.com/danmuck/pipewire/internal/protocol/stream"
	"github.com/danmuck/pipewire/internal/supervise"
)

// SpawnSpec builds the supervise spec for cfg. self is used when no child
// path is configured.
func SpawnSpec(cfg WireConfig, self string) supervise.Spec {
	path := cfg.Child.Path
	if path == "" {
		path = self
	}
	var stderr io.Writer = io.Discard
	if cfg.Child.InheritStderr {
		stderr = os.Stderr
	}
	return supervise.Spec{
		Path:     path,
		Args:     append([]string(nil), cfg.Child.Args...),
		Env:      append([]string(nil), cfg.Child.Env...),
		Dir:      cfg.Child.Dir,
		Stderr:   stderr,
		Attempts: cfg.Child.Attempts,
		Backoff: supervise.BackoffConfig{
			InitialDelay: cfg.Backoff.Initial,
			Multiplier:   cfg.Backoff.Multiplier,
			MaxDelay:     cfg.Backoff.Max,
			Jitter:       cfg.Backoff.Jitter,
		},
	}
}

func StreamOptions(cfg WireConfig) []stream.Option {
	return []stream.Option{
		stream.WithReadBuffer(cfg.Stream.ReadBuffer),
		stream.WithWriteBuffer(cfg.Stream.WriteBuffer),
		stream.WithLimits(codec.Limits{MaxElements: cfg.Stream.MaxElements}),
	}
}
