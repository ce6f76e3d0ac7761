package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/vyrodovalexey/shoppinglist/internal/screen"
	"github.com/vyrodovalexey/shoppinglist/internal/store"
	"github.com/vyrodovalexey/shoppinglist/internal/tui"
)

var errNotTerminal = errors.New("tui needs a terminal; use 'shoppinglist serve' for the remote view")

func (a *app) tuiCommand() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Edit the shopping list in the terminal (default)",
		Action: func(ctx context.Context, _ *cli.Command) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errNotTerminal
			}
			return a.runTUI(ctx)
		},
	}
}

func (a *app) runTUI(ctx context.Context) error {
	// The terminal belongs to the UI, so logs only go to a file.
	logger := zap.NewNop()
	if a.cfg.Log.File != "" {
		l, err := initLogger(a.cfg.Log.Level, a.cfg.Log.File)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("starting terminal view")

	m := tui.New(screen.New(store.NewMemoryStore(), logger), logger)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	logger.Info("terminal view closed")
	return nil
}
