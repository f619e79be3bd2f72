// Package testutil provides test helpers: a fake event hub, a fake HTTP game
// API and a scripted terminal.
package testutil

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Vadimur/RockPaperScissorsGame/internal/console"
)

// Terminal is a scripted console for tests: Type queues input lines and
// Output returns everything written so far with ANSI codes stripped.
type Terminal struct {
	Console *console.Console

	t     *testing.T
	in    *io.PipeWriter
	lines chan string
	out   *syncBuffer
	once  sync.Once
}

// NewTerminal creates a Terminal whose input stays open until Close or the end of the test.
func NewTerminal(t *testing.T) *Terminal {
	t.Helper()
	pr, pw := io.Pipe()
	out := &syncBuffer{}
	term := &Terminal{
		Console: console.New(pr, out),
		t:       t,
		in:      pw,
		lines:   make(chan string, 64),
		out:     out,
	}
	go term.feed()
	t.Cleanup(term.Close)
	return term
}

func (tm *Terminal) feed() {
	for line := range tm.lines {
		if _, err := io.WriteString(tm.in, line+"\n"); err != nil {
			return
		}
	}
	_ = tm.in.Close()
}

// Type queues a line of input. It never blocks on the reader.
func (tm *Terminal) Type(line string) {
	tm.lines <- line
}

// Close ends the input stream after all queued lines; further reads return io.EOF.
func (tm *Terminal) Close() {
	tm.once.Do(func() { close(tm.lines) })
}

// Output returns everything written to the terminal, without color codes.
func (tm *Terminal) Output() string {
	return console.StripANSI(tm.out.String())
}

// WaitFor blocks until the output contains substr n times or timeout elapses.
//
// Postcondition: Returns the output on success, or fails the test.
func (tm *Terminal) WaitFor(substr string, n int, timeout time.Duration) string {
	tm.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		out := tm.Output()
		if strings.Count(out, substr) >= n {
			return out
		}
		if time.Now().After(deadline) {
			tm.t.Fatalf("waiting for %d x %q: got %q", n, substr, out)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
