// Package session implements the in-game session: the state machine that
// waits for an opponent, runs the in-game menu, races the player's input
// against the round timer and ends abandoned sessions.
package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Vadimur/RockPaperScissorsGame/internal/config"
	"github.com/Vadimur/RockPaperScissorsGame/internal/console"
	"github.com/Vadimur/RockPaperScissorsGame/internal/game/menu"
	"github.com/Vadimur/RockPaperScissorsGame/internal/game/move"
	"github.com/Vadimur/RockPaperScissorsGame/internal/game/timer"
)

// Gateway is the event hub connection a session listens on.
type Gateway interface {
	EnsureConnected(ctx context.Context, playerID string) error
	On(target string, handler func())
	OnString(target string, handler func(string))
}

// InGameService submits moves and leave requests to the game server.
type InGameService interface {
	SubmitMove(ctx context.Context, playerID string, m move.Move, madeInTime bool) error
	LeaveGame(ctx context.Context, playerID string) error
}

// Default timing knobs.
const (
	DefaultPollInterval = 2 * time.Second
	DefaultMenuDelay    = 500 * time.Millisecond
)

// Options configures the timing of a session.
type Options struct {
	Timeouts config.TimeoutConfig
	// PollInterval is the length of one wait-for-opponent slice.
	PollInterval time.Duration
	// MenuDelay is slept before rendering the menu so pushed notifications print first.
	MenuDelay time.Duration
}

// OptionsFromConfig builds Options from the timeout configuration with default timing knobs.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Timeouts:     cfg.Timeouts,
		PollInterval: DefaultPollInterval,
		MenuDelay:    DefaultMenuDelay,
	}
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.MenuDelay < 0 {
		o.MenuDelay = 0
	}
	return o
}

// Session is one player's participation in games. It is reused for every
// game the player starts so the hub handlers are registered only once.
type Session struct {
	playerID string
	gateway  Gateway
	ingame   InGameService
	console  *console.Console
	logger   *zap.Logger
	opts     Options

	roundTimer *timer.Timer
	keepalive  *timer.Timer

	waiting        atomic.Bool
	keepActive     atomic.Bool
	skipNextPrompt atomic.Bool
	// left is set once a leave request has been sent for the current game.
	left atomic.Bool

	mu         sync.Mutex
	configured bool
}

func newSession(playerID string, gw Gateway, svc InGameService, con *console.Console, opts Options, logger *zap.Logger) *Session {
	return &Session{
		playerID:   playerID,
		gateway:    gw,
		ingame:     svc,
		console:    con,
		logger:     logger.With(zap.String("player_id", playerID)),
		opts:       opts.withDefaults(),
		roundTimer: timer.New(),
		keepalive:  timer.New(),
	}
}

// PlayerID returns the identity the session plays as.
func (s *Session) PlayerID() string {
	return s.playerID
}

// StartSession runs one game: it connects, optionally waits up to
// waitSeconds for an opponent, then runs the in-game menu until the session
// ends.
//
// Precondition: waitSeconds >= 0.
// Postcondition: Both timers are disarmed on return. Returns an error only
// when the connection could not be set up or ctx was cancelled.
func (s *Session) StartSession(ctx context.Context, waitSeconds int) error {
	s.keepalive.Arm(s.opts.Timeouts.SeriesTimeout(), s.expireSession)
	defer s.keepalive.Disarm()
	defer s.roundTimer.Disarm()

	s.skipNextPrompt.Store(false)
	s.left.Store(false)
	s.keepActive.Store(true)
	s.waiting.Store(waitSeconds > 0)

	if err := s.EnsureConnectionConfigured(ctx); err != nil {
		s.keepActive.Store(false)
		s.logger.Error("session aborted, unable to connect to the server", zap.Error(err))
		return err
	}

	if s.waiting.Load() && s.keepActive.Load() {
		s.console.Println(console.Yellow, "Waiting for an opponent...")
		if !s.waitForOpponent(ctx, waitSeconds) {
			s.logger.Info("no opponent joined", zap.Int("wait_seconds", waitSeconds))
			s.Exit(ctx)
			return ctx.Err()
		}
	}

	s.logger.Info("session active")
	err := menu.Run(ctx, s.console, s)
	if err != nil && s.keepActive.Load() {
		s.Exit(ctx)
	}
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// waitForOpponent polls in PollInterval slices, at most waitSeconds/2 times.
// It reports whether the opponent arrived while the session stayed active.
func (s *Session) waitForOpponent(ctx context.Context, waitSeconds int) bool {
	slice := time.NewTimer(s.opts.PollInterval)
	defer slice.Stop()

	for i := 0; i < waitSeconds/2; i++ {
		if i > 0 {
			slice.Reset(s.opts.PollInterval)
		}
		select {
		case <-ctx.Done():
			return false
		case <-slice.C:
		}
		if !s.waiting.Load() || !s.keepActive.Load() {
			break
		}
	}
	return !s.waiting.Load() && s.keepActive.Load()
}

// ChooseCommand dispatches an in-game menu command: 1 makes a move, 0 leaves.
//
// Postcondition: Returns menu.ErrUnknownCommand for any other number without
// touching session state.
func (s *Session) ChooseCommand(ctx context.Context, n int) error {
	switch n {
	case 1:
		s.MakeMove(ctx)
	case 0:
		s.Exit(ctx)
	default:
		return menu.ErrUnknownCommand
	}
	return nil
}

// Exit ends the session and asks the server to remove the player from the
// game, unless a leave request was already sent for this game.
func (s *Session) Exit(ctx context.Context) {
	s.keepActive.Store(false)
	s.leave(context.WithoutCancel(ctx))
}

// leave sends at most one leave request per game.
func (s *Session) leave(ctx context.Context) {
	if !s.left.CompareAndSwap(false, true) {
		s.logger.Debug("leave already sent")
		return
	}
	if err := s.ingame.LeaveGame(ctx, s.playerID); err != nil {
		s.logger.Error("leaving game", zap.Error(err))
		return
	}
	s.logger.Info("left game")
}

// KeepActive reports whether the session is still running.
func (s *Session) KeepActive() bool {
	return s.keepActive.Load()
}

// ConsumeSkipPrompt reports and clears the one-shot menu suppression flag.
func (s *Session) ConsumeSkipPrompt() bool {
	return s.skipNextPrompt.Swap(false)
}

// Waiting reports whether the session is still waiting for an opponent.
func (s *Session) Waiting() bool {
	return s.waiting.Load()
}

// PrintMenu renders the in-game menu.
func (s *Session) PrintMenu() {
	if s.opts.MenuDelay > 0 {
		time.Sleep(s.opts.MenuDelay)
	}
	s.console.Println(console.Green, "\n1. Make move\n0. Leave game")
}
