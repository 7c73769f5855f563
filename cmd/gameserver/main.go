package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/weekendpoker/gameserver/internal/server"
	"github.com/weekendpoker/gameserver/internal/session"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"gameserver.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" long:"addr" help:"Server address to bind to (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		kctx.Exit(1)
	}
	if CLI.Addr != "" {
		cfg.Server.Address = CLI.Addr
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		kctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	logger.Info("Starting game server",
		"addr", cfg.ListenAddress(),
		"action_timeout", cfg.ActionTimeout(),
		"blind_levels", len(cfg.Schedule()))

	store := session.NewMemoryStore()
	manager := server.NewManager(cfg, store, quartz.NewReal(), logger)
	srv := server.NewServer(cfg.ListenAddress(), manager, logger)
	manager.SetBroadcaster(srv)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return srv.Start(ctx)
	})
	group.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sig:
			logger.Info("Shutting down", "signal", s)
			cancel()
			return nil
		case <-ctx.Done():
			return nil
		}
	})

	err = group.Wait()
	if shutdownErr := manager.Shutdown(); shutdownErr != nil {
		logger.Error("Session shutdown failed", "error", shutdownErr)
	}
	if err != nil {
		logger.Error("Server exited with error", "error", err)
		kctx.Exit(1)
	}
}
