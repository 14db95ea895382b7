package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/callouts/internal/shared"
	"github.com/desertthunder/callouts/internal/ui"
)

// Study launches the interactive review session.
func (r *Runner) Study(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	model := ui.NewModel(ctx, r.deck(db), cmd.Int("limit"))
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	results := model.Results()
	passed := 0
	for _, res := range results {
		if res.Grade.Passed() {
			passed++
		}
	}
	if len(results) > 0 {
		r.writePlain("Reviewed %d entries, recalled %d.\n", len(results), passed)
	}
	return nil
}
