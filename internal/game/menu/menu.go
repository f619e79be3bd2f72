// Package menu drives the numbered-command console loop shared by the lobby
// and the in-game session.
package menu

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Vadimur/RockPaperScissorsGame/internal/console"
)

// ErrUnknownCommand is returned by a Commander for a command number it does not handle.
var ErrUnknownCommand = errors.New("unknown command")

// Commander is the state behind a menu.
type Commander interface {
	// KeepActive reports whether the loop should keep prompting.
	KeepActive() bool
	// ConsumeSkipPrompt reports, once, that the next menu render must be suppressed.
	ConsumeSkipPrompt() bool
	// PrintMenu renders the available commands.
	PrintMenu()
	// ChooseCommand runs command n. It returns ErrUnknownCommand for numbers it does not handle.
	ChooseCommand(ctx context.Context, n int) error
}

// Prompt is printed before every command read.
const Prompt = "Choose command: "

// Run prompts for commands until cmd is no longer active. A blank line read
// while a skip request is pending is taken as an acknowledgement, not a
// command, and the menu stays suppressed for the next prompt.
//
// Precondition: con and cmd must be non-nil.
// Postcondition: Returns nil when cmd became inactive, ctx's error when ctx
// is done, the console's read error (io.EOF when input is closed), or the
// first error from ChooseCommand other than ErrUnknownCommand.
func Run(ctx context.Context, con *console.Console, cmd Commander) error {
	acknowledged := false
	for cmd.KeepActive() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !acknowledged && !cmd.ConsumeSkipPrompt() {
			cmd.PrintMenu()
		}
		acknowledged = false
		con.Prompt(console.DarkCyan, Prompt)

		line, err := con.ReadLine()
		if err != nil {
			return err
		}
		// The session may have ended while the read was blocked.
		if !cmd.KeepActive() {
			return nil
		}

		line = strings.TrimSpace(line)
		// A blank line after a skip request acknowledges a notification.
		if line == "" && cmd.ConsumeSkipPrompt() {
			acknowledged = true
			continue
		}

		n, convErr := strconv.Atoi(line)
		if convErr != nil {
			con.Println(console.Red, "Invalid command")
			continue
		}
		if err := cmd.ChooseCommand(ctx, n); err != nil {
			if errors.Is(err, ErrUnknownCommand) {
				con.Println(console.Red, "Invalid command")
				continue
			}
			return err
		}
	}
	return nil
}
