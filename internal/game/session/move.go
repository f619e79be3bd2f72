package session

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Vadimur/RockPaperScissorsGame/internal/console"
	"github.com/Vadimur/RockPaperScissorsGame/internal/game/move"
)

// round is one move-submission cycle. The timer path and the input path both
// claim it before submitting, so exactly one of them submits.
type round struct {
	claimed atomic.Bool
}

func (r *round) claim() bool {
	return r.claimed.CompareAndSwap(false, true)
}

// MakeMove runs one round: it prompts for a figure while the round timer
// counts down. A valid figure entered in time is submitted as made in time;
// if the timer expires first it submits move.Undefined instead.
//
// Postcondition: At most one submission per call, and exactly one unless the
// session ended or input closed before either path claimed the round. The
// round timer is disarmed on return.
func (s *Session) MakeMove(ctx context.Context) {
	s.logger.Info("start of making move")

	if err := s.EnsureConnectionConfigured(ctx); err != nil {
		s.logger.Error("unable to connect to the server", zap.Error(err))
		return
	}

	r := &round{}
	s.roundTimer.Arm(s.opts.Timeouts.MoveTimeout(), func() { s.expireRound(ctx, r) })
	defer s.roundTimer.Disarm()

	s.console.Println(console.Green, "\n1. Rock\n2. Paper\n3. Scissors")

	for {
		s.console.Prompt(console.DarkCyan, "Choose your figure: ")
		line, readErr := s.console.ReadLine()

		// The timer already submitted the default move.
		if r.claimed.Load() {
			return
		}
		if !s.keepActive.Load() {
			r.claim()
			return
		}
		if readErr != nil && line == "" {
			r.claim()
			s.logger.Warn("reading figure", zap.Error(readErr))
			return
		}

		m, err := move.Parse(line)
		if err != nil {
			if errors.Is(err, move.ErrEmptyInput) {
				s.console.Println(console.Reset, "Empty input. Try again\n")
			} else {
				s.console.Println(console.Reset, "Unknown figure. Try again\n")
			}
			if readErr != nil {
				r.claim()
				return
			}
			continue
		}

		if !r.claim() {
			return
		}
		s.roundTimer.Disarm()
		s.keepalive.Arm(s.opts.Timeouts.SeriesTimeout(), s.expireSession)
		s.logger.Info("move made in time", zap.Stringer("move", m))
		s.submit(context.WithoutCancel(ctx), m, true)
		return
	}
}

// expireRound runs on the round timer's goroutine.
func (s *Session) expireRound(ctx context.Context, r *round) {
	if !s.keepActive.Load() {
		return
	}
	if !r.claim() {
		return
	}
	s.logger.Info("move time expired")
	s.submit(context.WithoutCancel(ctx), move.Undefined, false)
}

func (s *Session) submit(ctx context.Context, m move.Move, madeInTime bool) {
	if err := s.ingame.SubmitMove(ctx, s.playerID, m, madeInTime); err != nil {
		s.logger.Error("submitting move",
			zap.Stringer("move", m),
			zap.Bool("made_in_time", madeInTime),
			zap.Error(err),
		)
	}
}
