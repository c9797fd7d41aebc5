package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inputd.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		createFile bool
		content    string
		wantErr    bool
		validate   func(t *testing.T, cfg *Config, err error)
	}{
		{
			name:       "full file",
			createFile: true,
			content: `context: "scratch-window"
expiry: 250ms
double_click: 400ms
logging:
  level: debug
  format: json
api:
  listen: "0.0.0.0:9000"
  token: "secret"
signaling:
  url: "ws://hub:8080"
  enabled: true
webrtc:
  ice_servers: ["stun:example.org:3478"]
window:
  enabled: false
console:
  enabled: true
  pulse: 50ms
`,
			validate: func(t *testing.T, cfg *Config, err error) {
				if cfg.Context != "scratch-window" {
					t.Errorf("Context = %q", cfg.Context)
				}
				if cfg.Expiry != 250*time.Millisecond {
					t.Errorf("Expiry = %s, want 250ms", cfg.Expiry)
				}
				if cfg.DoubleClick != 400*time.Millisecond {
					t.Errorf("DoubleClick = %s, want 400ms", cfg.DoubleClick)
				}
				if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
					t.Errorf("Logging = %+v", cfg.Logging)
				}
				if cfg.API.Listen != "0.0.0.0:9000" || cfg.API.Token != "secret" {
					t.Errorf("API = %+v", cfg.API)
				}
				if !cfg.Signaling.Enabled || cfg.Signaling.URL != "ws://hub:8080" {
					t.Errorf("Signaling = %+v", cfg.Signaling)
				}
				if len(cfg.WebRTC.ICEServers) != 1 || cfg.WebRTC.ICEServers[0] != "stun:example.org:3478" {
					t.Errorf("ICEServers = %v", cfg.WebRTC.ICEServers)
				}
				if cfg.Window.Enabled {
					t.Error("Window.Enabled = true")
				}
				if cfg.Window.Width != 640 {
					t.Errorf("Window.Width = %d, want default 640", cfg.Window.Width)
				}
				if !cfg.Console.Enabled || cfg.Console.Pulse != 50*time.Millisecond {
					t.Errorf("Console = %+v", cfg.Console)
				}
			},
		},
		{
			name:       "empty file keeps defaults",
			createFile: true,
			content:    "",
			validate: func(t *testing.T, cfg *Config, err error) {
				if cfg.Expiry != 100*time.Millisecond {
					t.Errorf("Expiry = %s, want 100ms", cfg.Expiry)
				}
				if cfg.Context != "inputd" {
					t.Errorf("Context = %q, want inputd", cfg.Context)
				}
			},
		},
		{
			name:       "missing file",
			createFile: false,
			wantErr:    true,
			validate: func(t *testing.T, cfg *Config, err error) {
				if !os.IsNotExist(err) {
					t.Errorf("want not-exist error, got %v", err)
				}
			},
		},
		{
			name:       "malformed yaml",
			createFile: true,
			content:    "api:\n  listen: [oops\n",
			wantErr:    true,
			validate: func(t *testing.T, cfg *Config, err error) {
				if !strings.Contains(err.Error(), "yaml") {
					t.Errorf("want yaml error, got %v", err)
				}
			},
		},
		{
			name:       "negative expiry",
			createFile: true,
			content:    "expiry: -5ms\n",
			wantErr:    true,
			validate: func(t *testing.T, cfg *Config, err error) {
				if !strings.Contains(err.Error(), "expiry") {
					t.Errorf("want expiry error, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "inputd.yaml")
			if tt.createFile {
				path = writeConfig(t, tt.content)
			}

			cfg, err := Load(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && cfg == nil {
				t.Fatal("Load() returned nil config")
			}
			if tt.validate != nil {
				tt.validate(t, cfg, err)
			}
		})
	}
}

func TestParseOverrides(t *testing.T) {
	path := writeConfig(t, "context: from-file\nwindow:\n  enabled: true\n")

	fs := flag.NewFlagSet("inputd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg, loaded, err := Parse(fs, []string{
		"-config", path,
		"-context", "from-flag",
		"-signaling", "ws://hub:9999",
		"-listen", ":7000",
		"-headless",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if loaded != path {
		t.Errorf("loaded = %q, want %q", loaded, path)
	}
	if cfg.Context != "from-flag" {
		t.Errorf("Context = %q, want from-flag", cfg.Context)
	}
	if !cfg.Signaling.Enabled || cfg.Signaling.URL != "ws://hub:9999" {
		t.Errorf("Signaling = %+v", cfg.Signaling)
	}
	if cfg.API.Listen != ":7000" {
		t.Errorf("API.Listen = %q", cfg.API.Listen)
	}
	if cfg.Window.Enabled || !cfg.Console.Enabled {
		t.Errorf("headless not applied: window=%v console=%v", cfg.Window.Enabled, cfg.Console.Enabled)
	}
}

func TestParseMissingExplicitFile(t *testing.T) {
	fs := flag.NewFlagSet("inputd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	_, _, err := Parse(fs, []string{"-config", filepath.Join(t.TempDir(), "nope.yaml")})
	if err == nil {
		t.Fatal("Parse() with a missing -config file should fail")
	}
}

func TestWatchReloads(t *testing.T) {
	path := writeConfig(t, "expiry: 100ms\n")

	changes := make(chan *Config, 4)
	w, err := Watch(path, func(cfg *Config) { changes <- cfg })
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("expiry: 300ms\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-changes:
		if cfg.Expiry != 300*time.Millisecond {
			t.Errorf("reloaded Expiry = %s, want 300ms", cfg.Expiry)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after writing the config file")
	}
}

func TestParseFeedFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		check   func(t *testing.T, cfg *FeedConfig)
	}{
		{
			name:    "target required",
			args:    nil,
			wantErr: true,
		},
		{
			name: "defaults",
			args: []string{"-target", "inputd"},
			check: func(t *testing.T, cfg *FeedConfig) {
				if !strings.HasPrefix(cfg.FeedID, "feed-") {
					t.Errorf("FeedID = %q, want feed- prefix", cfg.FeedID)
				}
				if len(cfg.ICEServers) != 2 {
					t.Errorf("ICEServers = %v", cfg.ICEServers)
				}
				if cfg.DoubleClick != 500*time.Millisecond {
					t.Errorf("DoubleClick = %s", cfg.DoubleClick)
				}
			},
		},
		{
			name: "overrides",
			args: []string{"-target", "room", "-id", "me", "-ice", " stun:a:1 ,, turn:b:2", "-message", "hi"},
			check: func(t *testing.T, cfg *FeedConfig) {
				if cfg.FeedID != "me" || cfg.Target != "room" || cfg.Message != "hi" {
					t.Errorf("cfg = %+v", cfg)
				}
				if len(cfg.ICEServers) != 2 || cfg.ICEServers[0] != "stun:a:1" || cfg.ICEServers[1] != "turn:b:2" {
					t.Errorf("ICEServers = %q", cfg.ICEServers)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("inputfeed", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			cfg, err := ParseFeedFlags(fs, tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFeedFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
