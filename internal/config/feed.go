package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"
)

// FeedConfig holds configuration for the inputfeed binary.
type FeedConfig struct {
	SignalingURL string
	FeedID       string
	Target       string
	ICEServers   []string
	DoubleClick  time.Duration
	LogLevel     string
	// Message, when set, is sent to Target as an extension message on
	// registration.
	Message string
}

// ParseFeedFlags parses flags for the inputfeed binary.
func ParseFeedFlags(flags *flag.FlagSet, args []string) (*FeedConfig, error) {
	def := Default()
	cfg := &FeedConfig{}
	ice := flags.String("ice", strings.Join(def.WebRTC.ICEServers, ","), "Comma-separated STUN/TURN URLs")
	flags.StringVar(&cfg.SignalingURL, "signaling", def.Signaling.URL, "Signaling hub WebSocket URL")
	flags.StringVar(&cfg.FeedID, "id", "", "Feed ID (auto-generated if empty)")
	flags.StringVar(&cfg.Target, "target", "", "Context of the inputd to feed (required)")
	flags.DurationVar(&cfg.DoubleClick, "double-click", def.DoubleClick, "Maximum gap between the presses of a double click")
	flags.StringVar(&cfg.LogLevel, "log-level", def.Logging.Level, "Log level: debug, info, warn, error")
	flags.StringVar(&cfg.Message, "message", "", "Extension message to send to the target once registered")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if cfg.Target == "" {
		return nil, errors.New("-target is required")
	}
	if cfg.FeedID == "" {
		cfg.FeedID = fmt.Sprintf("feed-%s", randomID())
	}
	for _, u := range strings.Split(*ice, ",") {
		if u = strings.TrimSpace(u); u != "" {
			cfg.ICEServers = append(cfg.ICEServers, u)
		}
	}
	return cfg, nil
}
