package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/validmoviez/validmoviez/internal/auth"
	"github.com/validmoviez/validmoviez/internal/chat"
	"github.com/validmoviez/validmoviez/internal/display"
	"github.com/validmoviez/validmoviez/internal/domain"
	"github.com/validmoviez/validmoviez/internal/logger"
	"github.com/validmoviez/validmoviez/internal/panel"
)

// cliApp routes terminal input to the chat controller, the side panel,
// and the account service.
type cliApp struct {
	chat     *chat.Controller
	panel    *panel.State
	accounts *auth.Service
	provider *auth.MemoryProvider
	log      *logger.Logger
	ui       *display.UI
}

// run is the main input loop. Returns when the user quits or the
// context is cancelled.
func (a *cliApp) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-a.ui.InputChan():
			if !ok {
				return
			}
			if !a.handle(ctx, line) {
				return
			}
		}
	}
}

// handle processes one input line. Returns false to quit.
func (a *cliApp) handle(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}

	if strings.HasPrefix(trimmed, "/") {
		return a.command(ctx, trimmed)
	}

	// Bare numbers select the matching suggestion chip.
	if n, err := strconv.Atoi(trimmed); err == nil {
		a.selectChip(n)
		return true
	}

	a.sendChat(trimmed)
	return true
}

// selectChip resolves a 1-based chip number against the visible set.
func (a *cliApp) selectChip(n int) {
	err := a.chat.SelectChip(n)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		if chips := a.chat.Chips(); len(chips) == 0 {
			a.ui.PrintHint("No suggestions to pick right now — just type!")
		} else {
			a.ui.PrintHint(fmt.Sprintf("Pick a number between 1 and %d.", len(chips)))
		}
	case errors.Is(err, domain.ErrBusyTyping):
		a.ui.PrintHint("Hold on — I'm still typing!")
	default:
		a.log.Error("chip turn: %v", err)
	}
}

// sendChat runs a chat turn and reports the busy state to the user.
func (a *cliApp) sendChat(text string) {
	if err := a.chat.HandleInput(text); err != nil {
		if errors.Is(err, domain.ErrBusyTyping) {
			a.ui.PrintHint("Hold on — I'm still typing!")
			return
		}
		a.log.Error("chat turn: %v", err)
	}
}

// command dispatches a slash command. Returns false to quit.
func (a *cliApp) command(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/quit", "/exit":
		return false

	case "/help":
		a.printHelp()

	case "/suggest":
		if err := a.chat.Suggest(); err != nil {
			a.ui.PrintHint("Hold on — I'm still typing!")
		}

	case "/startover":
		a.chat.StartOver()

	case "/menu":
		a.openMenu(ctx)

	case "/close":
		a.panel.Close()
		a.ui.PrintHint("Menu closed.")

	case "/history":
		if len(args) != 1 {
			a.ui.PrintHint("Usage: /history <id> (see /menu for the list)")
			return true
		}
		if err := a.panel.SelectHistory(ctx, args[0]); err != nil {
			a.log.Error("loading history: %v", err)
			a.ui.PrintUrgent("Couldn't load that conversation.")
		}

	case "/prefs":
		a.panel.ModifyPreferences()

	case "/signup":
		if len(args) < 3 {
			a.ui.PrintHint("Usage: /signup <email> <password> <name>")
			return true
		}
		name := strings.Join(args[2:], " ")
		if err := a.accounts.SignUp(ctx, args[0], args[1], name); err != nil {
			a.authError(err)
			return true
		}
		a.ui.PrintHint(fmt.Sprintf("Welcome, %s! You're signed in.", name))

	case "/login":
		if len(args) != 2 {
			a.ui.PrintHint("Usage: /login <email> <password>")
			return true
		}
		if err := a.accounts.SignIn(ctx, args[0], args[1]); err != nil {
			a.authError(err)
			return true
		}
		a.ui.PrintHint("Signed in. Enjoy!")

	case "/logout":
		if err := a.accounts.SignOut(ctx); err != nil {
			a.authError(err)
			return true
		}
		a.ui.PrintHint("Signed out.")

	case "/reset":
		if len(args) != 1 {
			a.ui.PrintHint("Usage: /reset <email>")
			return true
		}
		if err := a.accounts.SendPasswordReset(ctx, args[0]); err != nil {
			a.authError(err)
			return true
		}
		a.ui.PrintHint("Password reset email sent! Check your inbox.")

	case "/name":
		if len(args) < 1 {
			a.ui.PrintHint("Usage: /name <new name>")
			return true
		}
		if err := a.accounts.UpdateDisplayName(ctx, strings.Join(args, " ")); err != nil {
			a.authError(err)
			return true
		}
		a.ui.PrintHint("Name updated.")

	case "/delete":
		if len(args) != 1 {
			a.ui.PrintHint("Usage: /delete <password>")
			return true
		}
		if err := a.accounts.DeleteAccount(ctx, args[0]); err != nil {
			a.authError(err)
			return true
		}
		a.ui.PrintHint("Your account has been deleted.")

	case "/whoami":
		email, name, ok := a.provider.CurrentUser()
		if !ok {
			a.ui.PrintHint("Not signed in.")
			return true
		}
		if name == "" {
			name = "(no name set)"
		}
		a.ui.PrintHint(fmt.Sprintf("%s — %s", name, email))

	default:
		a.ui.PrintHint("Unknown command. Try /help.")
	}
	return true
}

// openMenu prints the side panel: profile tags, watchlist, histories.
func (a *cliApp) openMenu(ctx context.Context) {
	snap, err := a.panel.Open(ctx)
	if err != nil {
		a.log.Error("opening menu: %v", err)
		a.ui.PrintUrgent("Couldn't open the menu.")
		return
	}

	a.ui.PrintHint("── Your Profile ──")
	a.ui.PrintHint("Genres: " + strings.Join(snap.Genres, ", "))
	a.ui.PrintHint("Moods:  " + strings.Join(snap.Moods, ", "))

	a.ui.PrintHint("── Watchlist ──")
	if snap.MovieSaved {
		a.ui.PrintHint("★ " + snap.SavedMovie)
	} else {
		a.ui.PrintHint("Your watchlist is empty. Ask me to save a movie!")
	}

	a.ui.PrintHint("── Chat History ──")
	for _, h := range snap.Histories {
		a.ui.PrintHint(fmt.Sprintf("%-14s %s", h.ID, h.Title))
	}
	a.ui.PrintHint("Load one with /history <id>, change tastes with /prefs, close with /close.")
}

// authError prints the user-facing message for an account failure.
// Validation errors read as-is; provider errors go through the fixed
// code table.
func (a *cliApp) authError(err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidEmailFormat),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrEmptyDisplayName):
		a.ui.PrintUrgent(capitalize(err.Error()))
	case errors.Is(err, domain.ErrNoSession):
		a.ui.PrintUrgent("You need to be signed in for that.")
	default:
		a.ui.PrintUrgent(auth.UserMessage(err))
	}
	a.log.Debug("account op failed: %v", err)
}

func (a *cliApp) printHelp() {
	a.ui.PrintHint("Chat: type anything, or a number to pick a suggestion chip.")
	a.ui.PrintHint("/suggest            play the movie suggestion")
	a.ui.PrintHint("/menu               open the side menu (profile, watchlist, history)")
	a.ui.PrintHint("/history <id>       load a saved conversation")
	a.ui.PrintHint("/prefs              redo your preference quiz")
	a.ui.PrintHint("/startover          clear the chat and replay the welcome")
	a.ui.PrintHint("/signup <email> <password> <name>")
	a.ui.PrintHint("/login <email> <password>   /logout   /reset <email>")
	a.ui.PrintHint("/name <new name>    /delete <password>   /whoami")
	a.ui.PrintHint("/quit               exit")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
