package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/buzzerapp/buzzer/internal/cart"
	"github.com/buzzerapp/buzzer/internal/config"
	"github.com/buzzerapp/buzzer/internal/otp"
	"github.com/buzzerapp/buzzer/internal/session"
	"github.com/buzzerapp/buzzer/internal/tui"
	"github.com/buzzerapp/buzzer/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, closeLog, err := openLogger(cfg.DataDir)
	if err != nil {
		return err
	}
	defer closeLog()

	api := client.New(cfg.APIBaseURL)
	store := session.NewStore(cfg.DataDir)
	sessions := session.NewManager(store, api, log)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("buzzer " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "logout":
			return runLogout(sessions)
		}
	}

	// The gateway's expiry callback needs the program to deliver a message,
	// and the program needs the app, which needs the gateway.
	var p *tea.Program
	gateway := client.NewAuthorized(api, sessions, func() {
		if p != nil {
			p.Send(tui.AuthExpiredMsg{})
		}
	}, log)
	counter := cart.NewCounter(gateway, sessions, log)
	sessions.SetOnChange(counter.AuthChanged)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	sessions.Initialize(ctx)
	cancel()

	app := tui.NewApp(tui.Deps{
		API:      api,
		Gateway:  gateway,
		Sessions: sessions,
		Counter:  counter,
		Verify:   otp.NewVerifyClient(cfg.VerifyBaseURL, cfg.VerifyAPIKey),
		Country:  cfg.DefaultCountryCode,
		Store:    store,
		Version:  version,
	})

	p = tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// runLogout ends the session from the command line without entering the TUI.
func runLogout(sessions *session.Manager) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	sessions.Initialize(ctx)
	if !sessions.Authenticated() {
		fmt.Println("not logged in")
		return nil
	}
	sessions.Logout(ctx)
	// Give the fire-and-forget server notify a moment before exiting.
	time.Sleep(500 * time.Millisecond)
	fmt.Println("logged out")
	return nil
}

// openLogger writes structured logs to a file in the data dir; the TUI owns
// the terminal, so nothing may log to stdout.
func openLogger(dataDir string) (zerolog.Logger, func(), error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dataDir, "buzzer.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	log := zerolog.New(f).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	return log, func() { _ = f.Close() }, nil
}

func printHelp() {
	fmt.Print(`buzzer — order from your favourite restaurants and cafes

usage:
  buzzer            launch the storefront
  buzzer logout     end the current session
  buzzer version    print the version

keys inside the app:
  1 shop · 2 basket · 3 orders · 4 profile
  l log in · R register · q quit

configuration (env or .env):
  BUZZER_API_URL        backend API base URL
  BUZZER_VERIFY_URL     phone verification API base URL
  BUZZER_VERIFY_KEY     phone verification API key
  BUZZER_COUNTRY_CODE   default country code for phone numbers (default +20)
  BUZZER_DATA_DIR       session and log directory (default ~/.buzzer)
`)
}
