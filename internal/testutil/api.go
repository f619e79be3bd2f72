package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Vadimur/RockPaperScissorsGame/internal/service"
)

// FakeAPI records the requests the client sends to the game server's HTTP API.
type FakeAPI struct {
	server *httptest.Server

	mu       sync.Mutex
	moves    []service.MoveRequest
	leaves   []string
	joins    map[string]string
	publics  []string
	bots     []service.BotRoundRequest
	token    string
	message  string
	failCode int
}

// NewFakeAPI starts a fake HTTP API. It is shut down when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	a := &FakeAPI{
		joins:   make(map[string]string),
		token:   "room-token",
		message: "ok",
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/ingame/move", func(w http.ResponseWriter, r *http.Request) {
		var req service.MoveRequest
		if !a.decode(w, r, &req) {
			return
		}
		a.mu.Lock()
		a.moves = append(a.moves, req)
		a.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/ingame/leave", func(w http.ResponseWriter, r *http.Request) {
		var req service.LeaveRequest
		if !a.decode(w, r, &req) {
			return
		}
		a.mu.Lock()
		a.leaves = append(a.leaves, req.PlayerID)
		a.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/game/rooms", func(w http.ResponseWriter, r *http.Request) {
		var req service.PlayerRequest
		if !a.decode(w, r, &req) {
			return
		}
		a.mu.Lock()
		token := a.token
		a.mu.Unlock()
		writeJSON(w, service.RoomResponse{RoomToken: token})
	})
	mux.HandleFunc("POST /api/game/rooms/{token}/join", func(w http.ResponseWriter, r *http.Request) {
		var req service.PlayerRequest
		if !a.decode(w, r, &req) {
			return
		}
		a.mu.Lock()
		a.joins[req.PlayerID] = r.PathValue("token")
		msg := a.message
		a.mu.Unlock()
		writeJSON(w, service.MessageResponse{Message: msg})
	})
	mux.HandleFunc("POST /api/game/public", func(w http.ResponseWriter, r *http.Request) {
		var req service.PlayerRequest
		if !a.decode(w, r, &req) {
			return
		}
		a.mu.Lock()
		a.publics = append(a.publics, req.PlayerID)
		msg := a.message
		a.mu.Unlock()
		writeJSON(w, service.MessageResponse{Message: msg})
	})
	mux.HandleFunc("POST /api/game/bot", func(w http.ResponseWriter, r *http.Request) {
		var req service.BotRoundRequest
		if !a.decode(w, r, &req) {
			return
		}
		a.mu.Lock()
		a.bots = append(a.bots, req)
		msg := a.message
		a.mu.Unlock()
		writeJSON(w, service.MessageResponse{Message: msg})
	})
	a.server = httptest.NewServer(mux)
	t.Cleanup(a.server.Close)
	return a
}

func (a *FakeAPI) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	a.mu.Lock()
	code := a.failCode
	a.mu.Unlock()
	if code != 0 {
		http.Error(w, "forced failure", code)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// URL returns the base URL of the fake API.
func (a *FakeAPI) URL() string { return a.server.URL }

// FailWith makes every subsequent request fail with the given status code. Zero restores success.
func (a *FakeAPI) FailWith(code int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failCode = code
}

// SetRoomToken sets the token returned for created rooms.
func (a *FakeAPI) SetRoomToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
}

// SetMessage sets the message returned by join, public and bot endpoints.
func (a *FakeAPI) SetMessage(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.message = msg
}

// Moves returns the recorded move submissions.
func (a *FakeAPI) Moves() []service.MoveRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]service.MoveRequest(nil), a.moves...)
}

// Leaves returns the player ids of recorded leave requests.
func (a *FakeAPI) Leaves() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.leaves...)
}

// JoinedRoom returns the room token playerID joined, if any.
func (a *FakeAPI) JoinedRoom(playerID string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	token, ok := a.joins[playerID]
	return token, ok
}

// PublicRequests returns the player ids that asked for a public game.
func (a *FakeAPI) PublicRequests() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.publics...)
}

// BotRounds returns the recorded bot rounds.
func (a *FakeAPI) BotRounds() []service.BotRoundRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]service.BotRoundRequest(nil), a.bots...)
}
