// Package lobby implements the game platform menu a player lands in after
// start-up: private rooms, public matchmaking and single rounds against the
// server bot.
package lobby

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Vadimur/RockPaperScissorsGame/internal/config"
	"github.com/Vadimur/RockPaperScissorsGame/internal/console"
	"github.com/Vadimur/RockPaperScissorsGame/internal/game/menu"
	"github.com/Vadimur/RockPaperScissorsGame/internal/game/move"
	"github.com/Vadimur/RockPaperScissorsGame/internal/game/session"
	"github.com/Vadimur/RockPaperScissorsGame/internal/storage"
)

// GameService starts games on the server.
type GameService interface {
	CreatePrivateRoom(ctx context.Context, playerID string) (string, error)
	JoinPrivateRoom(ctx context.Context, playerID, token string) (string, error)
	FindPublicGame(ctx context.Context, playerID string) (string, error)
	PlayRoundWithBot(ctx context.Context, playerID string, m move.Move) (string, error)
}

// Lobby is the top-level menu. It hands control to the player's session for
// the duration of every game.
type Lobby struct {
	user     config.UserConfig
	cfg      config.LobbyConfig
	games    GameService
	sessions *session.Manager
	console  *console.Console
	tokens   *storage.Single[string]
	logger   *zap.Logger

	active  atomic.Bool
	current atomic.Pointer[session.Session]
}

// New creates a Lobby for the configured user.
//
// Precondition: user.PlayerID must be non-empty; all pointers must be non-nil.
func New(
	user config.UserConfig,
	cfg config.LobbyConfig,
	games GameService,
	sessions *session.Manager,
	con *console.Console,
	tokens *storage.Single[string],
	logger *zap.Logger,
) *Lobby {
	return &Lobby{
		user:     user,
		cfg:      cfg,
		games:    games,
		sessions: sessions,
		console:  con,
		tokens:   tokens,
		logger:   logger.With(zap.String("player_id", user.PlayerID)),
	}
}

// Run shows the lobby menu until the player exits or input ends.
//
// Postcondition: Returns nil on exit or closed input, ctx's error when ctx is done.
func (l *Lobby) Run(ctx context.Context) error {
	l.active.Store(true)
	l.console.Printf(console.BrightCyan, "Welcome, %s!", l.user.Login)
	l.logger.Info("lobby started")

	err := menu.Run(ctx, l.console, l)
	l.active.Store(false)
	if err == nil || errors.Is(err, io.EOF) {
		l.logger.Info("lobby closed")
		return nil
	}
	return err
}

// KeepActive reports whether the lobby menu is still running.
func (l *Lobby) KeepActive() bool {
	return l.active.Load()
}

// ConsumeSkipPrompt always reports false; the lobby menu is never suppressed.
func (l *Lobby) ConsumeSkipPrompt() bool {
	return false
}

// PrintMenu renders the lobby menu.
func (l *Lobby) PrintMenu() {
	l.console.Println(console.Green,
		"\n1. Create private room\n2. Join private room\n3. Find public game\n4. Play with bot\n0. Exit")
}

// ChooseCommand dispatches a lobby command.
func (l *Lobby) ChooseCommand(ctx context.Context, n int) error {
	switch n {
	case 1:
		return l.createPrivateRoom(ctx)
	case 2:
		return l.joinPrivateRoom(ctx)
	case 3:
		return l.findPublicGame(ctx)
	case 4:
		return l.playWithBot(ctx)
	case 0:
		l.active.Store(false)
		l.console.Println(console.BrightCyan, "Goodbye!")
		return nil
	default:
		return menu.ErrUnknownCommand
	}
}

func (l *Lobby) createPrivateRoom(ctx context.Context) error {
	token, err := l.games.CreatePrivateRoom(ctx, l.user.PlayerID)
	if err != nil {
		l.failed("creating private room", err)
		return nil
	}
	l.tokens.Update(token)
	l.console.Printf(console.Yellow, "Room token: %s", token)
	return l.play(ctx, l.cfg.PrivateRoomWaitSeconds)
}

func (l *Lobby) joinPrivateRoom(ctx context.Context) error {
	last, hasLast := l.tokens.Get()
	prompt := "Enter room token: "
	if hasLast {
		prompt = fmt.Sprintf("Enter room token [%s]: ", last)
	}
	l.console.Prompt(console.DarkCyan, prompt)
	line, err := l.console.ReadLine()
	token := strings.TrimSpace(line)
	if token == "" && hasLast {
		token = last
	}
	if token == "" {
		if err != nil {
			return err
		}
		l.console.Println(console.Red, "Empty token")
		return nil
	}

	msg, err := l.games.JoinPrivateRoom(ctx, l.user.PlayerID, token)
	if err != nil {
		l.failed("joining private room", err)
		return nil
	}
	l.tokens.Update(token)
	l.printMessage(msg)
	return l.play(ctx, 0)
}

func (l *Lobby) findPublicGame(ctx context.Context) error {
	msg, err := l.games.FindPublicGame(ctx, l.user.PlayerID)
	if err != nil {
		l.failed("finding public game", err)
		return nil
	}
	l.printMessage(msg)
	return l.play(ctx, l.cfg.PublicGameWaitSeconds)
}

func (l *Lobby) playWithBot(ctx context.Context) error {
	l.console.Println(console.Green, "\n1. Rock\n2. Paper\n3. Scissors")
	var m move.Move
	for {
		l.console.Prompt(console.DarkCyan, "Choose your figure: ")
		line, readErr := l.console.ReadLine()
		parsed, err := move.Parse(line)
		if err == nil {
			m = parsed
			break
		}
		if readErr != nil {
			return readErr
		}
		if errors.Is(err, move.ErrEmptyInput) {
			l.console.Println(console.Reset, "Empty input. Try again\n")
		} else {
			l.console.Println(console.Reset, "Unknown figure. Try again\n")
		}
	}

	summary, err := l.games.PlayRoundWithBot(ctx, l.user.PlayerID, m)
	if err != nil {
		l.failed("playing with bot", err)
		return nil
	}
	l.console.Println(console.Cyan, "\nRound summary\n"+summary)
	return nil
}

// play hands the console to the player's session for one game.
func (l *Lobby) play(ctx context.Context, waitSeconds int) error {
	sess := l.sessions.Session(l.user.PlayerID)
	l.current.Store(sess)
	defer l.current.Store(nil)

	if err := sess.StartSession(ctx, waitSeconds); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		l.failed("starting session", err)
	}
	return nil
}

// Shutdown stops the lobby and leaves the game in progress, if any.
func (l *Lobby) Shutdown(ctx context.Context) {
	l.active.Store(false)
	if sess := l.current.Load(); sess != nil && sess.KeepActive() {
		l.logger.Info("leaving game on shutdown")
		sess.Exit(ctx)
	}
}

func (l *Lobby) printMessage(msg string) {
	if msg != "" {
		l.console.Println(console.Yellow, msg)
	}
}

func (l *Lobby) failed(action string, err error) {
	l.logger.Error(action, zap.Error(err))
	l.console.Printf(console.Red, "Error %s: %v", action, err)
}
