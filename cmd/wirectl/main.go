package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/pipewire/internal/config"
	"github.com/danmuck/pipewire/internal/exchange"
	"github.com/danmuck/pipewire/internal/logging"
	"github.com/danmuck/pipewire/internal/protocol/stream"
	"github.com/danmuck/pipewire/internal/supervise"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: wirectl <parent|child|config> [flags]")
}

func main() {
	logging.ConfigureRuntime()
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "parent":
		err = runParent(ctx, os.Args[2:])
	case "child":
		err = runChild(ctx, os.Args[2:])
	case "config":
		err = runConfig(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("mode", os.Args[1]).Msg("wirectl failed")
	}
}

func runParent(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("parent", flag.ExitOnError)
	path := fs.String("config", "", "config path (defaults to "+defaultConfigPath+")")
	fs.Parse(args)

	cfg, err := loadConfig(*path)
	if err != nil {
		return err
	}
	if cfg.Log.Level != "" && !logging.SetLevel(cfg.Log.Level) {
		log.Warn().Str("level", cfg.Log.Level).Msg("ignoring unknown log level")
	}
	logger := logging.ForApp("wirectl", "parent")

	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	sup := supervise.New(logging.ForApp("wirectl", "supervise"))
	if err := sup.Subscribe(supervise.TopicExited, func(ev supervise.Event) {
		logger.Debug().Str("session", ev.ID.String()).Int32("code", ev.ExitCode).Msg("child exit observed")
	}); err != nil {
		return err
	}

	child, err := sup.Spawn(ctx, config.SpawnSpec(cfg, self))
	if err != nil {
		return err
	}
	defer child.Close()

	opts := append(config.StreamOptions(cfg), stream.WithLogger(logging.ForApp("wirectl", "stream")))
	s, ok := stream.ConnectChild(child, opts...)
	if !ok {
		child.Kill()
		return fmt.Errorf("child pipes unavailable")
	}
	defer s.Close()

	client := exchange.NewClient(s, logger)
	if _, err := client.Handshake(ctx, child.ID); err != nil {
		child.Kill()
		return fmt.Errorf("handshake: %w", err)
	}
	if err := exchange.RunScript(ctx, client, logger); err != nil {
		child.Kill()
		return err
	}
	if err := s.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("stream shutdown")
	}

	code, err := child.Wait()
	if err != nil {
		return err
	}
	sup.WaitEvents()
	if code != 0 {
		return fmt.Errorf("child exited with code %d", code)
	}
	logger.Info().Str("session", child.ID.String()).Msg("child finished cleanly")
	return nil
}

func runChild(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("child", flag.ExitOnError)
	fs.Parse(args)

	logger := logging.ForApp("wirectl", "child")
	id, ok := supervise.SessionFromEnv()
	if !ok {
		id = uuid.New()
		logger.Warn().Str("session", id.String()).Msg("no session from parent, generated one")
	}
	s, ok := stream.Parent(stream.WithLogger(logging.ForApp("wirectl", "stream")))
	if !ok {
		return fmt.Errorf("parent stdio unavailable")
	}
	defer s.Close()

	srv := exchange.NewServer(s, id, exchange.DefaultTable(), logger)
	if err := srv.Serve(ctx); err != nil {
		return err
	}
	return s.Shutdown(ctx)
}

func runConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	output := fs.String("output", defaultConfigPath, "output path for config template")
	force := fs.Bool("force", false, "overwrite existing config file")
	validate := fs.Bool("validate", false, "validate the config at -output instead of writing it")
	fs.Parse(args)

	if *validate {
		if _, err := config.LoadWireConfig(*output); err != nil {
			return err
		}
		log.Info().Str("path", *output).Msg("validated config")
		return nil
	}
	if err := config.WriteTemplate(*output, "parent", *force); err != nil {
		return err
	}
	log.Info().Str("path", *output).Msg("wrote config template")
	return nil
}
