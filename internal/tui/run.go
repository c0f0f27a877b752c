package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tturner/pclscope/internal/pstream/classify"
	"github.com/tturner/pclscope/internal/pstream/stats"
)

// Run shows res in the full-screen viewer until the user quits or ctx ends.
func Run(ctx context.Context, source string, res *classify.Result, agg *stats.Aggregator) error {
	if res == nil {
		return fmt.Errorf("nothing to view")
	}
	program := tea.NewProgram(NewModel(source, res, agg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
