package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/junsooki/InputDetect/internal/extension"
	"github.com/junsooki/InputDetect/internal/input"
	"github.com/junsooki/InputDetect/internal/message"
	"github.com/junsooki/InputDetect/internal/tracker"
)

func newTestServer(t *testing.T, token string) (*tracker.Tracker, *httptest.Server) {
	t.Helper()
	tr := tracker.New(tracker.WithContext("ctx"), tracker.WithExpiry(time.Minute))
	t.Cleanup(tr.Close)
	messages := message.NewChannel()
	tr.Attach(messages)
	s := NewServer(tr, messages, "ctx", token)
	s.StreamInterval = 10 * time.Millisecond
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return tr, ts
}

func do(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestBlocks(t *testing.T) {
	tr, ts := newTestServer(t, "")
	tr.Handle(input.Event{Type: input.EventKeyDown, Key: "Shift"})
	tr.Handle(input.Event{Type: input.EventMouseMove, X: 12.6, Y: 7})

	tests := []struct {
		name       string
		opcode     string
		body       string
		wantStatus int
		wantValue  any
	}{
		{"boolean with args", "isModifierPressed", `{"MODIFIER":"Shift"}`, http.StatusOK, true},
		{"reporter without body", "getMouseX", "", http.StatusOK, 13.0},
		{"string reporter", "getLastKey", "{}", http.StatusOK, "Shift"},
		{"command", "resetClickCount", "", http.StatusOK, nil},
		{"unknown opcode", "doesNotExist", "", http.StatusNotFound, nil},
		{"bad json", "keyPressed", "{", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/api/blocks/"+tt.opcode, "", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var out struct {
				Value any `json:"value"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.Value != tt.wantValue {
				t.Errorf("value = %v, want %v", out.Value, tt.wantValue)
			}
		})
	}
}

func TestBlockWrongMethod(t *testing.T) {
	_, ts := newTestServer(t, "")
	resp := do(t, http.MethodGet, ts.URL+"/api/blocks/getMouseX", "", "")
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestExtensionDescriptor(t *testing.T) {
	_, ts := newTestServer(t, "")
	resp := do(t, http.MethodGet, ts.URL+"/api/extension", "", "")
	var d extension.Descriptor
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(d.Blocks) != len(extension.Describe().Blocks) {
		t.Errorf("got %d blocks, want %d", len(d.Blocks), len(extension.Describe().Blocks))
	}
}

func TestSnapshot(t *testing.T) {
	tr, ts := newTestServer(t, "")
	tr.Handle(input.Event{Type: input.EventMouseDown, Button: input.MouseButtonRight})

	resp := do(t, http.MethodGet, ts.URL+"/api/snapshot", "", "")
	var snap input.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.ClickCount != 1 || len(snap.MouseButtons) != 1 || snap.MouseButtons[0] != "right" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestAuth(t *testing.T) {
	_, ts := newTestServer(t, "secret")

	tests := []struct {
		path  string
		token string
		want  int
	}{
		{"/health", "", http.StatusOK},
		{"/api/snapshot", "", http.StatusUnauthorized},
		{"/api/snapshot", "wrong", http.StatusUnauthorized},
		{"/api/snapshot", "secret", http.StatusOK},
	}
	for _, tt := range tests {
		resp := do(t, http.MethodGet, ts.URL+tt.path, tt.token, "")
		if resp.StatusCode != tt.want {
			t.Errorf("GET %s token=%q: status = %d, want %d", tt.path, tt.token, resp.StatusCode, tt.want)
		}
	}
}

func TestStream(t *testing.T) {
	tr, ts := newTestServer(t, "")
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/stream"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	tr.Handle(input.Event{Type: input.EventKeyDown, Key: "q"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var snap input.Snapshot
		if err := conn.ReadJSON(&snap); err != nil {
			t.Fatalf("read: %v", err)
		}
		if snap.LastKeyPressed == "q" {
			return
		}
	}
}

func TestPostedMessageReachesBlocks(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantLast   string
	}{
		{"extension message", `{"type":"SCRATCH_EXTENSION_MESSAGE","message":"hi"}`, http.StatusAccepted, "hi"},
		{"type defaults to extension", `{"message":"no type"}`, http.StatusAccepted, "no type"},
		{"other type is ignored", `{"type":"OTHER","message":"nope"}`, http.StatusAccepted, ""},
		{"bad json", `{"message":`, http.StatusBadRequest, ""},
		{"empty body", "", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ts := newTestServer(t, "")
			resp := do(t, http.MethodPost, ts.URL+"/api/messages", "", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			resp = do(t, http.MethodPost, ts.URL+"/api/blocks/getLastMessage", "", "")
			var out struct {
				Value string `json:"value"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.Value != tt.wantLast {
				t.Errorf("getLastMessage = %q, want %q", out.Value, tt.wantLast)
			}
		})
	}
}

func TestPostMessageRequiresToken(t *testing.T) {
	_, ts := newTestServer(t, "secret")
	body := `{"message":"hi"}`
	if resp := do(t, http.MethodPost, ts.URL+"/api/messages", "", body); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("without token: status = %d, want 401", resp.StatusCode)
	}
	if resp := do(t, http.MethodPost, ts.URL+"/api/messages", "secret", body); resp.StatusCode != http.StatusAccepted {
		t.Errorf("with token: status = %d, want 202", resp.StatusCode)
	}
}
