package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Vadimur/RockPaperScissorsGame/internal/console"
)

// Server-pushed events. The names are part of the wire contract.
const (
	EventGameStart   = "GameStart"
	EventGameClosed  = "GameClosed"
	EventGameEnd     = "GameEnd"
	EventGameAborted = "GameAborted"
)

const continuePrompt = "\nPress 'Enter' to continue..."

// EnsureConnectionConfigured makes sure the hub connection is live and, the
// first time it succeeds, registers the session's four event handlers.
//
// Postcondition: Returns nil when connected. Handlers are registered at most
// once per session no matter how often this is called.
func (s *Session) EnsureConnectionConfigured(ctx context.Context) error {
	if err := s.gateway.EnsureConnected(ctx, s.playerID); err != nil {
		return fmt.Errorf("connecting player %s: %w", s.playerID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.configured {
		return nil
	}
	s.gateway.On(EventGameStart, s.onGameStart)
	s.gateway.On(EventGameClosed, s.onGameClosed)
	s.gateway.OnString(EventGameEnd, s.onGameEnd)
	s.gateway.On(EventGameAborted, s.onGameAborted)
	s.configured = true
	s.logger.Debug("hub handlers registered")
	return nil
}

func (s *Session) onGameStart() {
	s.logger.Info("opponent joined")
	s.waiting.Store(false)
}

func (s *Session) onGameClosed() {
	s.logger.Info("game closed by server")
	if s.keepActive.Swap(false) {
		s.console.Println(console.Reset, continuePrompt)
	}
}

func (s *Session) onGameEnd(result string) {
	s.logger.Info("round finished", zap.String("result", result))
	s.console.Println(console.Cyan, "\n\nRound summary\n"+result)
}

func (s *Session) onGameAborted() {
	s.logger.Info("game aborted by server")
	s.console.Println(console.Reset, continuePrompt)
	s.skipNextPrompt.Store(true)
}
