package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasks/internal/scheduler"
	"github.com/sandeepkv93/tasks/internal/update"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive TUI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd)
		},
	}
}

func (a *app) runTUI(cmd *cobra.Command) error {
	engine := scheduler.NewEngine(a.cfg.QueueBuffer)
	engine.Start()
	defer engine.Stop()

	watcher, err := update.NewWatcher(a.resolver.Dir())
	if err != nil {
		a.logger.Warn("live reload disabled", "dir", a.resolver.Dir(), "error", err)
	}
	defer watcher.Close()

	m := update.NewModel(update.Options{
		Backend:       a.svc,
		Scheduler:     engine,
		Watcher:       watcher,
		Logger:        a.logger,
		DefaultList:   a.cfg.DefaultList,
		MarkdownStyle: a.cfg.MarkdownStyle,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	if dropped := engine.Dropped(); dropped > 0 {
		a.logger.Warn("job results dropped", "count", dropped)
	}
	return nil
}
