package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/pipewire/internal/testutil/testlog"
)

func TestTemplateLoadsToDefaults(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "wire.toml")
	if err := WriteTemplate(path, "parent", false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("unexpected perm=%v", info.Mode().Perm())
	}
	cfg, err := LoadWireConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := DefaultWireConfig()
	if cfg.Child.Attempts != def.Child.Attempts || cfg.Backoff != def.Backoff || cfg.Stream != def.Stream {
		t.Fatalf("template drifted from defaults: %+v", cfg)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("unexpected log level=%q", cfg.Log.Level)
	}
}

func TestWriteTemplateRefusesOverwrite(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "wire.toml")
	if err := WriteTemplate(path, "", false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, "", false); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	if err := WriteTemplate(path, "", true); err != nil {
		t.Fatalf("forced overwrite: %v", err)
	}
	if _, err := Template("ghost"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestParseOverlaysOnlyDefinedKeys(t *testing.T) {
	testlog.Start(t)
	cfg, err := ParseWireConfig(`
[child]
path = " /usr/bin/worker "
attempts = 5

[backoff]
initial = "10ms"
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Child.Path != "/usr/bin/worker" || cfg.Child.Attempts != 5 {
		t.Fatalf("child overlay missing: %+v", cfg.Child)
	}
	if cfg.Backoff.Initial != 10*time.Millisecond {
		t.Fatalf("backoff overlay missing: %+v", cfg.Backoff)
	}
	def := DefaultWireConfig()
	if cfg.Backoff.Max != def.Backoff.Max || !cfg.Child.InheritStderr || len(cfg.Child.Args) != 1 {
		t.Fatalf("defaults clobbered: %+v", cfg)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	testlog.Start(t)
	cases := map[string]string{
		"unknown key":    "[child]\nbogus = 1\n",
		"bad duration":   "[backoff]\ninitial = \"soon\"\n",
		"zero attempts":  "[child]\nattempts = 0\n",
		"low multiplier": "[backoff]\nmultiplier = 0.5\n",
		"max below init": "[backoff]\ninitial = \"2s\"\nmax = \"1s\"\n",
		"zero elements":  "[stream]\nmax_elements = 0\n",
		"bad env":        "[child]\nenv = [\"NOVALUE\"]\n",
		"not toml":       "[child\n",
	}
	for name, doc := range cases {
		if _, err := ParseWireConfig(doc); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestSpawnSpecUsesSelfWhenPathEmpty(t *testing.T) {
	testlog.Start(t)
	cfg := DefaultWireConfig()
	spec := SpawnSpec(cfg, "/proc/self/exe")
	if spec.Path != "/proc/self/exe" {
		t.Fatalf("unexpected path=%q", spec.Path)
	}
	if strings.Join(spec.Args, " ") != "child" {
		t.Fatalf("unexpected args=%v", spec.Args)
	}
	if spec.Backoff.InitialDelay != cfg.Backoff.Initial || spec.Attempts != cfg.Child.Attempts {
		t.Fatalf("unexpected spec=%+v", spec)
	}
	cfg.Child.Path = "/bin/worker"
	if got := SpawnSpec(cfg, "/proc/self/exe").Path; got != "/bin/worker" {
		t.Fatalf("configured path ignored: %q", got)
	}
	if n := len(StreamOptions(cfg)); n != 3 {
		t.Fatalf("unexpected stream option count=%d", n)
	}
}
