package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// WireConfig is the parent-side runtime configuration.
type WireConfig struct {
	Child   ChildConfig
	Backoff BackoffConfig
	Stream  StreamConfig
	Log     LogConfig
}

type ChildConfig struct {
	// Path is the child executable. Empty means the running binary.
	Path          string
	Args          []string
	Env           []string
	Dir           string
	Attempts      int
	InheritStderr bool
}

type BackoffConfig struct {
	Initial    time.Duration
	Multiplier float64
	Max        time.Duration
	Jitter     bool
}

type StreamConfig struct {
	ReadBuffer  int
	WriteBuffer int
	MaxElements uint64
}

type LogConfig struct {
	Level string
}

func DefaultWireConfig() WireConfig {
	return WireConfig{
		Child: ChildConfig{
			Args:          []string{"child"},
			Attempts:      3,
			InheritStderr: true,
		},
		Backoff: BackoffConfig{
			Initial:    250 * time.Millisecond,
			Multiplier: 2.0,
			Max:        5 * time.Second,
			Jitter:     true,
		},
		Stream: StreamConfig{
			ReadBuffer:  8 << 10,
			WriteBuffer: 8 << 10,
			MaxElements: 64 << 20,
		},
	}
}

type fileConfig struct {
	Child struct {
		Path          string   `toml:"path"`
		Args          []string `toml:"args"`
		Env           []string `toml:"env"`
		Dir           string   `toml:"dir"`
		Attempts      int      `toml:"attempts"`
		InheritStderr bool     `toml:"inherit_stderr"`
	} `toml:"child"`
	Backoff struct {
		Initial    string  `toml:"initial"`
		Multiplier float64 `toml:"multiplier"`
		Max        string  `toml:"max"`
		Jitter     bool    `toml:"jitter"`
	} `toml:"backoff"`
	Stream struct {
		ReadBuffer  int    `toml:"read_buffer"`
		WriteBuffer int    `toml:"write_buffer"`
		MaxElements uint64 `toml:"max_elements"`
	} `toml:"stream"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
}

// LoadWireConfig overlays the keys present in path onto the defaults.
func LoadWireConfig(path string) (WireConfig, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return WireConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	return overlay(DefaultWireConfig(), raw, meta)
}

// ParseWireConfig is LoadWireConfig for in-memory documents.
func ParseWireConfig(doc string) (WireConfig, error) {
	var raw fileConfig
	meta, err := toml.Decode(doc, &raw)
	if err != nil {
		return WireConfig{}, fmt.Errorf("config parse failed: %w", err)
	}
	return overlay(DefaultWireConfig(), raw, meta)
}

func overlay(cfg WireConfig, raw fileConfig, meta toml.MetaData) (WireConfig, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return WireConfig{}, fmt.Errorf("config has unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("child", "path") {
		cfg.Child.Path = strings.TrimSpace(raw.Child.Path)
	}
	if meta.IsDefined("child", "args") {
		cfg.Child.Args = raw.Child.Args
	}
	if meta.IsDefined("child", "env") {
		cfg.Child.Env = raw.Child.Env
	}
	if meta.IsDefined("child", "dir") {
		cfg.Child.Dir = strings.TrimSpace(raw.Child.Dir)
	}
	if meta.IsDefined("child", "attempts") {
		cfg.Child.Attempts = raw.Child.Attempts
	}
	if meta.IsDefined("child", "inherit_stderr") {
		cfg.Child.InheritStderr = raw.Child.InheritStderr
	}

	if meta.IsDefined("backoff", "initial") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Backoff.Initial))
		if err != nil {
			return WireConfig{}, fmt.Errorf("parse backoff.initial: %w", err)
		}
		cfg.Backoff.Initial = d
	}
	if meta.IsDefined("backoff", "multiplier") {
		cfg.Backoff.Multiplier = raw.Backoff.Multiplier
	}
	if meta.IsDefined("backoff", "max") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Backoff.Max))
		if err != nil {
			return WireConfig{}, fmt.Errorf("parse backoff.max: %w", err)
		}
		cfg.Backoff.Max = d
	}
	if meta.IsDefined("backoff", "jitter") {
		cfg.Backoff.Jitter = raw.Backoff.Jitter
	}

	if meta.IsDefined("stream", "read_buffer") {
		cfg.Stream.ReadBuffer = raw.Stream.ReadBuffer
	}
	if meta.IsDefined("stream", "write_buffer") {
		cfg.Stream.WriteBuffer = raw.Stream.WriteBuffer
	}
	if meta.IsDefined("stream", "max_elements") {
		cfg.Stream.MaxElements = raw.Stream.MaxElements
	}

	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}

	if err := Validate(cfg); err != nil {
		return WireConfig{}, err
	}
	return cfg, nil
}

func Validate(cfg WireConfig) error {
	if cfg.Child.Attempts < 1 {
		return fmt.Errorf("child.attempts must be at least 1")
	}
	if cfg.Backoff.Initial < 0 || cfg.Backoff.Max < 0 {
		return fmt.Errorf("backoff delays must not be negative")
	}
	if cfg.Backoff.Multiplier < 1.0 {
		return fmt.Errorf("backoff.multiplier must be >= 1")
	}
	if cfg.Backoff.Max > 0 && cfg.Backoff.Max < cfg.Backoff.Initial {
		return fmt.Errorf("backoff.max below backoff.initial")
	}
	if cfg.Stream.ReadBuffer <= 0 || cfg.Stream.WriteBuffer <= 0 {
		return fmt.Errorf("stream buffers must be positive")
	}
	if cfg.Stream.MaxElements == 0 {
		return fmt.Errorf("stream.max_elements must be positive")
	}
	for i, kv := range cfg.Child.Env {
		if !strings.Contains(kv, "=") {
			return fmt.Errorf("child.env[%d] is not KEY=VALUE: %q", i, kv)
		}
	}
	return nil
}
