package tui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/subwatch-ai/subwatch/internal/advisor"
	"github.com/subwatch-ai/subwatch/internal/engine"
)

// Config holds the dependencies for running the dashboard.
type Config struct {
	Session *engine.Session
	Engine  *engine.ScanEngine
	Advisor *advisor.Advisor
}

// Run starts the interactive dashboard and blocks until it exits.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Session == nil {
		return fmt.Errorf("session is required")
	}
	if cfg.Engine == nil {
		return fmt.Errorf("scan engine is required")
	}
	if cfg.Advisor == nil {
		return fmt.Errorf("advisor is required")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-sigChan
		cancel()
	}()

	program := tea.NewProgram(
		newModel(ctx, cfg.Session, cfg.Engine, cfg.Advisor),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
