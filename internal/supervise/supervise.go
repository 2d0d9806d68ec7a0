package supervise

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EnvSession carries the child's session ID.
const EnvSession = "PIPEWIRE_SESSION"

// Spec describes how to start a child.
type Spec struct {
	Path string
	Args []string
	// Env is appended to the parent's environment.
	Env []string
	Dir string
	// Stderr receives the child's stderr. Nil inherits the parent's.
	Stderr   io.Writer
	Attempts int
	Backoff  BackoffConfig
}

// Supervisor starts children and publishes their lifecycle on a bus.
type Supervisor struct {
	bus EventBus.Bus
	log zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func New(log zerolog.Logger) *Supervisor {
	return &Supervisor{
		bus: EventBus.New(),
		log: log,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Subscribe registers fn for Events published on topic. Handlers run on
// their own goroutine.
func (s *Supervisor) Subscribe(topic string, fn func(Event)) error {
	return s.bus.SubscribeAsync(topic, fn, false)
}

// WaitEvents blocks until every delivered event has been handled.
func (s *Supervisor) WaitEvents() {
	s.bus.WaitAsync()
}

// Spawn starts a child without lifecycle subscribers.
func Spawn(ctx context.Context, spec Spec) (*Child, error) {
	return New(zerolog.Nop()).Spawn(ctx, spec)
}

// Spawn starts spec.Path, retrying failed starts up to spec.Attempts times.
// ctx bounds the start phase only; a started child outlives it.
func (s *Supervisor) Spawn(ctx context.Context, spec Spec) (*Child, error) {
	attempts := spec.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := s.delay(spec.Backoff, attempt-1)
			s.log.Warn().Err(lastErr).Int("attempt", attempt).Dur("delay", delay).Str("path", spec.Path).Msg("retrying child start")
			t := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, fmt.Errorf("supervise: start %s: %w", spec.Path, ctx.Err())
			case <-t.C:
			}
		}
		child, err := s.start(spec, attempt)
		if err == nil {
			return child, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("supervise: start %s after %d attempt(s): %w", spec.Path, attempts, lastErr)
}

func (s *Supervisor) delay(cfg BackoffConfig, attempt int) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NextBackoffDelay(cfg, attempt, s.rng)
}

func (s *Supervisor) start(spec Spec, attempt int) (*Child, error) {
	id := uuid.New()
	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = append(append(os.Environ(), spec.Env...), EnvSession+"="+id.String())
	cmd.Stderr = spec.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	// The parent keeps its ends as plain files so Wait never closes them
	// while bytes are still buffered in the pipe.
	inR, inW, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	outR, outW, err := os.Pipe()
	if err != nil {
		inR.Close()
		inW.Close()
		return nil, err
	}
	cmd.Stdin = inR
	cmd.Stdout = outW

	if err := cmd.Start(); err != nil {
		inR.Close()
		inW.Close()
		outR.Close()
		outW.Close()
		return nil, err
	}
	inR.Close()
	outW.Close()

	c := &Child{
		ID:     id,
		cmd:    cmd,
		stdin:  inW,
		stdout: outR,
		done:   make(chan struct{}),
	}
	log := s.log.With().Str("session", id.String()).Int("pid", cmd.Process.Pid).Logger()
	log.Info().Str("path", spec.Path).Int("attempt", attempt).Msg("child started")
	publish(s.bus, TopicSpawned, Event{ID: id, PID: cmd.Process.Pid, Path: spec.Path, Attempt: attempt})

	go func() {
		err := cmd.Wait()
		c.code = ExitCode(err)
		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) {
			c.err = err
		}
		close(c.done)
		log.Info().Int32("code", c.code).Msg("child exited")
		publish(s.bus, TopicExited, Event{ID: id, PID: cmd.Process.Pid, Path: spec.Path, Attempt: attempt, ExitCode: c.code, Err: c.err})
	}()
	return c, nil
}

// Child is a started child process.
type Child struct {
	ID uuid.UUID

	cmd *exec.Cmd

	mu     sync.Mutex
	stdin  io.WriteCloser
	stdout io.ReadCloser

	done chan struct{}
	code int32
	err  error
}

func (c *Child) PID() int {
	return c.cmd.Process.Pid
}

// TakeStdin hands out the write end of the child's stdin once.
func (c *Child) TakeStdin() (io.WriteCloser, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w := c.stdin
	c.stdin = nil
	return w, w != nil
}

// TakeStdout hands out the read end of the child's stdout once.
func (c *Child) TakeStdout() (io.ReadCloser, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.stdout
	c.stdout = nil
	return r, r != nil
}

func (c *Child) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the child exits and returns its exit code. The error is
// non-nil only when waiting itself failed; a non-zero exit is reported
// through the code alone.
func (c *Child) Wait() (int32, error) {
	<-c.done
	return c.code, c.err
}

// Kill terminates the child. Killing an exited child is not an error.
func (c *Child) Kill() error {
	err := c.cmd.Process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

// Close releases handles that were never taken.
func (c *Child) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var errs []error
	if c.stdin != nil {
		errs = append(errs, c.stdin.Close())
		c.stdin = nil
	}
	if c.stdout != nil {
		errs = append(errs, c.stdout.Close())
		c.stdout = nil
	}
	return errors.Join(errs...)
}

// SessionFromEnv returns the session ID a supervising parent assigned.
func SessionFromEnv() (uuid.UUID, bool) {
	raw := os.Getenv(EnvSession)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
