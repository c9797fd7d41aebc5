package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/junsooki/InputDetect/internal/api"
	"github.com/junsooki/InputDetect/internal/config"
	"github.com/junsooki/InputDetect/internal/console"
	"github.com/junsooki/InputDetect/internal/display"
	"github.com/junsooki/InputDetect/internal/input"
	"github.com/junsooki/InputDetect/internal/logger"
	"github.com/junsooki/InputDetect/internal/message"
	"github.com/junsooki/InputDetect/internal/tracker"
	"github.com/junsooki/InputDetect/internal/transport"
)

func main() {
	cfg, cfgPath, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "inputd: %v\n", err)
		os.Exit(2)
	}
	logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	if err := run(cfg, cfgPath); err != nil {
		slog.Error("inputd stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, cfgPath string) error {
	slog.Info("Advanced Input daemon starting",
		"context", cfg.Context,
		"config", cfgPath,
		"api", cfg.API.Listen,
		"expiry", cfg.Expiry,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trk := tracker.New(tracker.WithContext(cfg.Context), tracker.WithExpiry(cfg.Expiry))
	defer trk.Close()

	messages := message.NewChannel()
	trk.Attach(messages)

	remote := transport.NewInputChannel(nil)
	trk.Attach(remote)
	defer remote.Close()

	if cfgPath != "" {
		w, err := config.Watch(cfgPath, func(c *config.Config) {
			trk.SetExpiry(c.Expiry)
			logger.SetLevel(c.Logging.Level)
			slog.Info("Config reloaded", "expiry", c.Expiry, "level", c.Logging.Level)
		})
		if err != nil {
			slog.Warn("Config hot reload disabled", "path", cfgPath, "error", err)
		} else {
			defer w.Close()
		}
	}

	if cfg.Signaling.Enabled {
		h, err := connectHub(ctx, cfg, messages, remote)
		if err != nil {
			return err
		}
		defer h.Close()
	}

	srv := api.NewServer(trk, messages, cfg.Context, cfg.API.Token)
	go func() {
		if err := srv.ListenAndServe(ctx, cfg.API.Listen); err != nil {
			slog.Error("API server failed", "error", err)
			stop()
		}
	}()

	switch {
	case cfg.Window.Enabled:
		win := display.NewWindow(trk.Snapshot, cfg.DoubleClick)
		trk.Attach(win)
		go func() {
			<-ctx.Done()
			win.Close()
		}()
		// Ebitengine must own the main goroutine.
		if err := win.Run(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title); err != nil {
			return fmt.Errorf("window: %w", err)
		}

	case cfg.Console.Enabled:
		con := console.New(os.Stdin, os.Stdout, cfg.Console.Pulse)
		con.Status = trk.Snapshot
		con.OnMessage = func(text string) {
			messages.Post(cfg.Context, input.Envelope{Type: input.MessageTag, Message: text})
		}
		trk.Attach(con)
		if err := con.Run(ctx); err != nil && !errors.Is(err, console.ErrInterrupted) {
			return err
		}

	default:
		slog.Info("No local input source; serving remote input only")
		<-ctx.Done()
	}

	slog.Info("Shutting down")
	return nil
}
