package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/junsooki/InputDetect/internal/config"
	"github.com/junsooki/InputDetect/internal/display"
	"github.com/junsooki/InputDetect/internal/input"
	"github.com/junsooki/InputDetect/internal/logger"
	"github.com/junsooki/InputDetect/internal/peer"
	"github.com/junsooki/InputDetect/internal/signaling"
	"github.com/junsooki/InputDetect/internal/tracker"
	"github.com/junsooki/InputDetect/internal/transport"
)

func main() {
	cfg, err := config.ParseFeedFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "inputfeed: %v\n", err)
		fmt.Fprintln(os.Stderr, "Usage: inputfeed -signaling <url> -target <inputd context>")
		os.Exit(2)
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: "console"})

	if err := run(cfg); err != nil {
		slog.Error("inputfeed stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.FeedConfig) error {
	slog.Info("Input feed starting",
		"id", cfg.FeedID,
		"signaling", cfg.SignalingURL,
		"target", cfg.Target,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The local tracker mirrors what is sent so the window can show it.
	local := tracker.New(tracker.WithContext(cfg.FeedID))
	defer local.Close()

	var (
		mu     sync.Mutex
		sender *peer.Sender
	)
	current := func() *peer.Sender {
		mu.Lock()
		defer mu.Unlock()
		return sender
	}

	win := display.NewWindow(local.Snapshot, cfg.DoubleClick)
	local.Attach(win)
	win.Listen(func(e input.Event) {
		s := current()
		if s == nil {
			return
		}
		if err := s.Channel().Send(e); err != nil && !errors.Is(err, transport.ErrNoChannel) {
			slog.Debug("Send input failed", "type", e.Type, "error", err)
		}
	})

	var sig *signaling.Client
	sig = signaling.NewClient(cfg.SignalingURL, cfg.FeedID, signaling.ClientTypeController, signaling.Handler{
		OnRegistered: func() {
			slog.Info("Registered with signaling hub")

			s, err := peer.NewSender(sig, cfg.ICEServers, cfg.Target)
			if err != nil {
				slog.Error("Create sender failed", "error", err)
				stop()
				return
			}
			mu.Lock()
			sender = s
			mu.Unlock()

			if err := s.Connect(); err != nil {
				slog.Error("Send offer failed", "error", err)
			}
			if cfg.Message != "" {
				if err := sig.SendMessage(cfg.Target, cfg.Message); err != nil {
					slog.Warn("Send message failed", "error", err)
				}
			}
		},
		OnAnswer: func(from string, payload json.RawMessage) {
			if s := current(); s != nil {
				if err := s.HandleAnswer(payload); err != nil {
					slog.Error("Handle answer failed", "from", from, "error", err)
				}
			}
		},
		OnICECandidate: func(from string, payload json.RawMessage) {
			if s := current(); s != nil {
				if err := s.HandleICECandidate(payload); err != nil {
					slog.Debug("Add ICE candidate failed", "from", from, "error", err)
				}
			}
		},
		OnError: func(msg string) {
			slog.Warn("Signaling error", "message", msg)
		},
	})

	if err := sig.Connect(ctx); err != nil {
		return fmt.Errorf("signaling connect: %w", err)
	}
	defer sig.Close()

	go func() {
		select {
		case <-ctx.Done():
		case <-sig.Done():
			slog.Warn("Signaling hub connection closed")
		}
		win.Close()
	}()

	// Ebitengine RunGame must be on the main goroutine (macOS requirement).
	if err := win.Run(640, 360, "Input Feed → "+cfg.Target); err != nil {
		return fmt.Errorf("window: %w", err)
	}

	if s := current(); s != nil {
		s.Close()
	}
	return nil
}
