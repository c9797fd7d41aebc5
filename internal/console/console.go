// Package console turns raw terminal keystrokes into key events for headless
// runs. A terminal only reports presses, so each key is held for a short
// pulse and then released.
package console

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/junsooki/InputDetect/internal/input"
)

const (
	DefaultPulse        = 180 * time.Millisecond
	defaultTickInterval = 100 * time.Millisecond
)

// ErrInterrupted is returned by Run when the user presses Ctrl-C.
var ErrInterrupted = errors.New("console interrupted")

// heldKey is a pulsed key, stored under its normalized label. label is the
// raw label of the latest press.
type heldKey struct {
	label string
	timer *time.Timer
	gen   uint64
}

// Console reads stdin in raw mode and emits key events.
type Console struct {
	in    io.Reader
	out   io.Writer
	pulse time.Duration

	// OnMessage, when set, receives lines entered after ':'.
	OnMessage func(text string)
	// Status, when set, is rendered on the status line.
	Status func() input.Snapshot

	events input.Fanout

	mu          sync.Mutex
	held        map[string]heldKey
	gen         uint64
	commandMode bool
	commandBuf  []rune
}

// New creates a console reading in and echoing to out. A non-positive pulse
// uses DefaultPulse.
func New(in io.Reader, out io.Writer, pulse time.Duration) *Console {
	if pulse <= 0 {
		pulse = DefaultPulse
	}
	return &Console{
		in:    in,
		out:   out,
		pulse: pulse,
		held:  make(map[string]heldKey),
	}
}

// Listen registers fn for the console's key events.
func (c *Console) Listen(fn func(input.Event)) func() {
	return c.events.Listen(fn)
}

// Run reads keys until ctx is cancelled, input ends, or Ctrl-C is pressed.
// If in is a terminal it is switched to raw mode for the duration.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("set terminal raw mode: %w", err)
		}
		defer func() {
			_ = term.Restore(fd, oldState)
			fmt.Fprint(c.out, "\r\n")
		}()
	}
	defer c.releaseAll()

	fmt.Fprint(c.out, "[console] type to press keys, ':' sends a message, Ctrl-C quits\r\n")
	if c.Status != nil {
		go c.tickLoop(ctx)
	}

	chunks := make(chan readResult)
	go c.readLoop(ctx, chunks)

	for {
		select {
		case <-ctx.Done():
			return nil
		case res := <-chunks:
			if err := c.handleChunk(res.data); err != nil {
				return err
			}
			if res.err != nil {
				if errors.Is(res.err, io.EOF) {
					return nil
				}
				return fmt.Errorf("read console input: %w", res.err)
			}
		}
	}
}

type readResult struct {
	data []byte
	err  error
}

// readLoop feeds raw reads to Run so that a blocked read never delays
// shutdown. It stops after the first error or once ctx is done.
func (c *Console) readLoop(ctx context.Context, out chan<- readResult) {
	buf := make([]byte, 256)
	for {
		n, err := c.in.Read(buf)
		res := readResult{data: append([]byte(nil), buf[:n]...), err: err}
		select {
		case out <- res:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

// handleChunk processes one read. A terminal delivers an escape sequence in a
// single read, so sequences are decoded within the chunk.
func (c *Console) handleChunk(data []byte) error {
	reader := bufio.NewReader(bytes.NewReader(data))
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return nil
		}
		if b == ctrlC {
			return ErrInterrupted
		}
		c.handleByte(reader, b)
	}
}

func (c *Console) handleByte(reader *bufio.Reader, b byte) {
	c.mu.Lock()
	commandMode := c.commandMode
	c.mu.Unlock()
	if commandMode {
		c.handleCommandByte(reader, b)
		return
	}
	if b == ':' && c.OnMessage != nil {
		c.mu.Lock()
		c.commandMode = true
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n:")
		return
	}
	for _, label := range decodeKey(reader, b) {
		c.press(label)
	}
}

func (c *Console) handleCommandByte(reader *bufio.Reader, b byte) {
	switch b {
	case '\r', '\n':
		c.mu.Lock()
		text := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n")
		if text != "" {
			c.OnMessage(text)
		}
	case esc:
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n")
	case backspace, del:
		c.mu.Lock()
		if n := len(c.commandBuf); n > 0 {
			c.commandBuf = c.commandBuf[:n-1]
			fmt.Fprint(c.out, "\b \b")
		}
		c.mu.Unlock()
	default:
		r := rune(b)
		if b >= utf8.RuneSelf {
			_ = reader.UnreadByte()
			r, _, _ = reader.ReadRune()
		}
		if r < ' ' {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, r)
		c.mu.Unlock()
		fmt.Fprint(c.out, string(r))
	}
}

// press emits key_down for label and schedules its key_up. Pressing a held
// key again restarts its pulse.
func (c *Console) press(label string) {
	key := input.NormalizeKey(label)

	c.mu.Lock()
	if h, ok := c.held[key]; ok {
		h.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.held[key] = heldKey{
		label: label,
		timer: time.AfterFunc(c.pulse, func() { c.release(key, gen) }),
		gen:   gen,
	}
	c.mu.Unlock()

	c.emit(input.Event{Type: input.EventKeyDown, Key: label})
}

func (c *Console) release(key string, gen uint64) {
	c.mu.Lock()
	h, ok := c.held[key]
	if !ok || h.gen != gen {
		c.mu.Unlock()
		return
	}
	delete(c.held, key)
	c.mu.Unlock()

	c.emit(input.Event{Type: input.EventKeyUp, Key: h.label})
}

func (c *Console) releaseAll() {
	c.mu.Lock()
	labels := make([]string, 0, len(c.held))
	for _, h := range c.held {
		h.timer.Stop()
		labels = append(labels, h.label)
	}
	clear(c.held)
	c.mu.Unlock()

	for _, label := range labels {
		c.emit(input.Event{Type: input.EventKeyUp, Key: label})
	}
}

func (c *Console) emit(e input.Event) {
	e.Timestamp = time.Now().UnixMilli()
	c.events.Emit(e)
}

func (c *Console) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(defaultTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			commandMode := c.commandMode
			c.mu.Unlock()
			if commandMode {
				continue
			}
			if _, err := fmt.Fprintf(c.out, "\r%s\x1b[K", statusLine(c.Status())); err != nil {
				slog.Debug("Render console status failed", "error", err)
				return
			}
		}
	}
}

func statusLine(s input.Snapshot) string {
	keys := make([]string, len(s.PressedKeys))
	for i, k := range s.PressedKeys {
		if k == " " {
			k = "space"
		}
		keys[i] = k
	}
	return fmt.Sprintf("keys=[%s] last=%q presses=%d msg=%q",
		strings.Join(keys, " "), s.LastKeyPressed, s.KeyPressCount, s.LastMessage)
}
