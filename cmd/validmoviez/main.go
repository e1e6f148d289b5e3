// ValidMoviez — a scripted movie-recommendation chat demo.
//
// Usage:
//
//	validmoviez [-verbose] [-quiet] [-fast]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/validmoviez/validmoviez/internal/auth"
	"github.com/validmoviez/validmoviez/internal/chat"
	"github.com/validmoviez/validmoviez/internal/display"
	"github.com/validmoviez/validmoviez/internal/domain"
	"github.com/validmoviez/validmoviez/internal/history"
	"github.com/validmoviez/validmoviez/internal/logger"
	"github.com/validmoviez/validmoviez/internal/panel"
	"github.com/validmoviez/validmoviez/internal/sched"
	"github.com/validmoviez/validmoviez/internal/script"
	"github.com/validmoviez/validmoviez/internal/typewriter"
)

// Optional env vars (loaded from .env) that pre-seed a demo account so
// /login works out of the box.
const (
	envDemoEmail    = "VALIDMOVIEZ_DEMO_EMAIL"
	envDemoPassword = "VALIDMOVIEZ_DEMO_PASSWORD"
)

func main() {
	_ = godotenv.Load()

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".moviez-logs/moviez.log", "file to write logs to (use \"stderr\" to log to console)")
	fast := flag.Bool("fast", false, "disable typing animation delays")
	flag.Parse()

	// Direct logs to a file by default so the chat stays clean.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Redirect Go's default log package to the same output so
	// third-party libraries don't spam the terminal.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logger.LevelFromFlags(*verbose, *quiet), logOut)

	// Set up context — cancelled when the UI quits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire dependencies.
	queue := sched.New(log)
	ui := display.NewUI()
	dispatcher := script.NewDispatcher(log)
	transcripts := history.NewMemorySource(log)
	session := domain.NewSession()

	var chatOpts []chat.Option
	if *fast {
		chatOpts = append(chatOpts,
			chat.WithDispatchPause(0),
			chat.WithRevealPause(0),
			chat.WithTypingInterval(func(typewriter.Band) time.Duration { return 0 }),
		)
	}
	ctrl := chat.New(ui, dispatcher, transcripts, session, queue, log, chatOpts...)

	provider := auth.NewMemoryProvider(log)
	accounts := auth.NewService(provider, log)
	seedDemoAccount(ctx, provider, log)

	sideMenu := panel.New(session, transcripts, ctrl, queue, log, func() {
		ui.PrintHint("Taking you back to the quiz — pick your new genres and moods!")
	})

	queue.Start(ctx)
	defer queue.Stop()

	app := &cliApp{
		chat:     ctrl,
		panel:    sideMenu,
		accounts: accounts,
		provider: provider,
		log:      log,
		ui:       ui,
	}

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Type '/suggest' for a movie pick, '/help' for commands, '/quit' to exit."))
	fmt.Println()

	// Run app logic in a background goroutine.
	go func() {
		ui.WaitReady()
		ctrl.PlayWelcome()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal — blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
}

// seedDemoAccount registers the .env demo credentials, if present, and
// leaves the provider signed out.
func seedDemoAccount(ctx context.Context, provider *auth.MemoryProvider, log *logger.Logger) {
	email := os.Getenv(envDemoEmail)
	password := os.Getenv(envDemoPassword)
	if email == "" || password == "" {
		return
	}

	if err := provider.CreateAccount(ctx, email, password); err != nil {
		log.Warn("demo account seed failed: %v", err)
		return
	}
	provider.SignOut(ctx)
	log.Info("demo account seeded: %s", email)
}
