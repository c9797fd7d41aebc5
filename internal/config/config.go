package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when -config is not given; a missing file there is not an error.
const DefaultPath = "configs/inputd.yaml"

// Config holds all runtime configuration of the daemon.
type Config struct {
	Context     string          `yaml:"context"`
	Expiry      time.Duration   `yaml:"expiry"`
	DoubleClick time.Duration   `yaml:"double_click"`
	Logging     LoggingConfig   `yaml:"logging"`
	API         APIConfig       `yaml:"api"`
	Signaling   SignalingConfig `yaml:"signaling"`
	WebRTC      WebRTCConfig    `yaml:"webrtc"`
	Window      WindowConfig    `yaml:"window"`
	Console     ConsoleConfig   `yaml:"console"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type APIConfig struct {
	Listen string `yaml:"listen"`
	Token  string `yaml:"token"`
}

type SignalingConfig struct {
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

type WebRTCConfig struct {
	ICEServers []string `yaml:"ice_servers"`
}

type WindowConfig struct {
	Enabled bool   `yaml:"enabled"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Title   string `yaml:"title"`
}

type ConsoleConfig struct {
	Enabled bool          `yaml:"enabled"`
	Pulse   time.Duration `yaml:"pulse"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Context:     "inputd",
		Expiry:      100 * time.Millisecond,
		DoubleClick: 500 * time.Millisecond,
		Logging:     LoggingConfig{Level: "info", Format: "console"},
		API:         APIConfig{Listen: "127.0.0.1:18080"},
		Signaling:   SignalingConfig{URL: "ws://localhost:8080"},
		WebRTC: WebRTCConfig{
			ICEServers: []string{"stun:stun.l.google.com:19302", "stun:stun1.l.google.com:19302"},
		},
		Window:  WindowConfig{Enabled: true, Width: 640, Height: 360, Title: "Advanced Input"},
		Console: ConsoleConfig{Pulse: 180 * time.Millisecond},
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the daemon cannot run with.
func (c *Config) Validate() error {
	if c.Expiry <= 0 {
		return fmt.Errorf("expiry must be positive, got %s", c.Expiry)
	}
	if c.DoubleClick <= 0 {
		return fmt.Errorf("double_click must be positive, got %s", c.DoubleClick)
	}
	if c.Console.Pulse <= 0 {
		return fmt.Errorf("console.pulse must be positive, got %s", c.Console.Pulse)
	}
	return nil
}

// Parse loads the config file named by -config and applies flag overrides.
// It returns the path that was loaded, or "" when running on defaults.
func Parse(flags *flag.FlagSet, args []string) (*Config, string, error) {
	path := flags.String("config", "", "Path to YAML config file (default "+DefaultPath+" if present)")
	ctxID := flags.String("context", "", "Tracker context / hub client ID (random if empty and unset in file)")
	sigURL := flags.String("signaling", "", "Signaling hub WebSocket URL; enables the hub client")
	listen := flags.String("listen", "", "HTTP API listen address")
	headless := flags.Bool("headless", false, "Disable the window and read keys from the terminal")
	if err := flags.Parse(args); err != nil {
		return nil, "", err
	}

	cfg, loaded, err := loadOptional(*path)
	if err != nil {
		return nil, "", err
	}

	if *ctxID != "" {
		cfg.Context = *ctxID
	}
	if cfg.Context == "" {
		cfg.Context = fmt.Sprintf("inputd-%s", randomID())
	}
	if *sigURL != "" {
		cfg.Signaling.URL = *sigURL
		cfg.Signaling.Enabled = true
	}
	if *listen != "" {
		cfg.API.Listen = *listen
	}
	if *headless {
		cfg.Window.Enabled = false
		cfg.Console.Enabled = true
	}
	return cfg, loaded, nil
}

func loadOptional(path string) (*Config, string, error) {
	if path != "" {
		cfg, err := Load(path)
		return cfg, path, err
	}
	cfg, err := Load(DefaultPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return cfg, DefaultPath, nil
}

func randomID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}
