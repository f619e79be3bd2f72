package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"github.com/Vadimur/RockPaperScissorsGame/internal/config"
	"github.com/Vadimur/RockPaperScissorsGame/internal/transport/hub"
)

// HubPath is the path the fake hub serves websocket connections on.
const HubPath = "/hubs/game"

// FakeHub is an in-process event hub speaking the JSON hub protocol.
// Tests push server events with Push and inspect connection counts.
type FakeHub struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	conns    map[string]*hubConn
	connects map[string]int
	pings    int
	reject   string
}

type hubConn struct {
	playerID string
	ws       *websocket.Conn
}

// NewFakeHub starts a fake hub. It is shut down when the test ends.
//
// Postcondition: Returns a listening FakeHub.
func NewFakeHub(t *testing.T) *FakeHub {
	t.Helper()
	h := &FakeHub{
		t:        t,
		conns:    make(map[string]*hubConn),
		connects: make(map[string]int),
	}
	mux := http.NewServeMux()
	mux.HandleFunc(HubPath, h.serve)
	h.server = httptest.NewServer(mux)
	t.Cleanup(func() {
		h.DropAll()
		h.server.Close()
	})
	return h
}

// URL returns the http base URL of the fake server.
func (h *FakeHub) URL() string {
	return h.server.URL
}

// ClientConfig returns a client configuration pointing at the fake hub.
func (h *FakeHub) ClientConfig() config.ClientConfig {
	return config.ClientConfig{
		BaseURL:        h.server.URL,
		HubPath:        HubPath,
		RequestTimeout: 5 * time.Second,
		PingInterval:   50 * time.Millisecond,
	}
}

// Reject makes subsequent handshakes fail with reason.
func (h *FakeHub) Reject(reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reject = reason
}

func (h *FakeHub) serve(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	ctx := r.Context()

	_, data, err := ws.Read(ctx)
	if err != nil || len(hub.SplitRecords(data)) == 0 {
		_ = ws.Close(websocket.StatusProtocolError, "no handshake")
		return
	}

	h.mu.Lock()
	reject := h.reject
	h.mu.Unlock()

	resp, _ := hub.EncodeRecord(hub.HandshakeResponse{Error: reject})
	if err := ws.Write(ctx, websocket.MessageText, resp); err != nil || reject != "" {
		_ = ws.Close(websocket.StatusPolicyViolation, reject)
		return
	}

	id := uuid.NewString()
	playerID := r.URL.Query().Get("playerId")
	h.mu.Lock()
	h.conns[id] = &hubConn{playerID: playerID, ws: ws}
	h.connects[playerID]++
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.conns, id)
		h.mu.Unlock()
	}()

	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			return
		}
		for _, rec := range hub.SplitRecords(data) {
			var msg hub.Message
			if json.Unmarshal(rec, &msg) == nil && msg.Type == hub.TypePing {
				h.mu.Lock()
				h.pings++
				h.mu.Unlock()
			}
		}
	}
}

// Push sends an invocation of target to every connected client.
func (h *FakeHub) Push(target string, args ...any) {
	h.t.Helper()
	msg, err := hub.Invocation(target, args...)
	if err != nil {
		h.t.Fatalf("building invocation %s: %v", target, err)
	}
	h.writeAll(msg)
}

// Close sends a close record to every connected client.
func (h *FakeHub) Close(reason string) {
	h.writeAll(hub.Message{Type: hub.TypeClose, Error: reason})
}

func (h *FakeHub) writeAll(msg hub.Message) {
	rec, err := hub.EncodeRecord(msg)
	if err != nil {
		h.t.Fatalf("encoding record: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, c := range h.snapshot() {
		if err := c.ws.Write(ctx, websocket.MessageText, rec); err != nil {
			h.t.Logf("fake hub write to %s: %v", c.playerID, err)
		}
	}
}

// DropAll closes every connection from the server side.
func (h *FakeHub) DropAll() {
	for _, c := range h.snapshot() {
		_ = c.ws.Close(websocket.StatusGoingAway, "server shutdown")
	}
}

func (h *FakeHub) snapshot() []*hubConn {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*hubConn, 0, len(h.conns))
	for _, c := range h.conns {
		out = append(out, c)
	}
	return out
}

// Connects returns how many handshakes playerID has completed.
func (h *FakeHub) Connects(playerID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.connects[playerID]
}

// Live returns the number of open connections.
func (h *FakeHub) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Pings returns the number of ping records received.
func (h *FakeHub) Pings() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pings
}
