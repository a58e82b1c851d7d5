package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mouradhm/migrations-dashboard/pkg/dashboard"
	"github.com/mouradhm/migrations-dashboard/pkg/logger"
)

// Run shows the dashboard until the user quits or ctx is cancelled. Store updates are
// forwarded to the program as SnapshotMsg.
func Run(ctx context.Context, store *dashboard.Store, refresher Refresher, log logger.Logger) error {
	model := NewModel(store, refresher, log)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	store.Subscribe(func(snap dashboard.Snapshot) {
		p.Send(SnapshotMsg(snap))
	})

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}

	return nil
}
