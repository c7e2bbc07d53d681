// cmd/talentbridge/main.go
//
// This is the entry point for the TalentBridge terminal client.
//
// Flow:
// 1. Load .env if one exists (local overrides for the API URL etc.)
// 2. Initialize ~/.talentbridge and load the config
// 3. Restore a saved session if the token on disk is still valid
// 4. Launch the TUI
//
// An expired or missing token is not an error at this point; the app
// simply starts on the login screen.

package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/talentbridge/talentbridge/internal/api"
	"github.com/talentbridge/talentbridge/internal/config"
	"github.com/talentbridge/talentbridge/internal/logbook"
	"github.com/talentbridge/talentbridge/internal/session"
	"github.com/talentbridge/talentbridge/internal/tui"
)

func main() {
	// A missing .env is fine; it only exists in development setups.
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving home directory: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitBridgeDir(home); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing ~/.talentbridge: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.New(home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	lb, err := logbook.New(cfg.LogPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening logbook: %v\n", err)
		os.Exit(1)
	}
	defer lb.Close()

	sess, err := session.Restore(cfg.TokenPath())
	if err != nil {
		if errors.Is(err, session.ErrTokenExpired) {
			lb.Info("Saved session expired, login required")
		}
		sess = nil
	}

	token := ""
	if sess != nil {
		token = sess.Token
	}
	client := api.New(cfg.BaseURL(), token,
		api.WithTimeout(cfg.RequestTimeout()),
	)

	p := tea.NewProgram(
		tui.NewApp(cfg, client, sess, lb),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
