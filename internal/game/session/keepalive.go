package session

import (
	"context"
	"time"
)

// expireSession runs on the keepalive timer's goroutine when the player has
// been idle for a full series window.
func (s *Session) expireSession() {
	if !s.keepActive.CompareAndSwap(true, false) {
		return
	}
	s.logger.Info("session expired")
	s.console.Println("", continuePrompt)
	s.leave(context.Background())
}

// KeepaliveDeadline returns when an idle session will be ended.
// The boolean is false when no session is running.
func (s *Session) KeepaliveDeadline() (time.Time, bool) {
	return s.keepalive.Deadline()
}

// RoundPending reports whether a round timer is counting down.
func (s *Session) RoundPending() bool {
	return s.roundTimer.Armed()
}
