package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Vadimur/RockPaperScissorsGame/internal/console"
)

// Manager hands out one Session per player and keeps it for reuse across games.
// All methods are safe for concurrent use.
type Manager struct {
	gateway Gateway
	ingame  InGameService
	console *console.Console
	opts    Options
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session Manager.
//
// Precondition: all arguments must be non-nil.
func NewManager(gw Gateway, svc InGameService, con *console.Console, opts Options, logger *zap.Logger) *Manager {
	return &Manager{
		gateway:  gw,
		ingame:   svc,
		console:  con,
		opts:     opts,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Session returns the session for playerID, creating it on first use.
//
// Precondition: playerID must be non-empty.
// Postcondition: Repeated calls with the same playerID return the same Session.
func (m *Manager) Session(playerID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[playerID]; ok {
		return sess
	}
	sess := newSession(playerID, m.gateway, m.ingame, m.console, m.opts, m.logger)
	m.sessions[playerID] = sess
	return sess
}

// Count returns the number of players with a session.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
