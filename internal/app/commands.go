package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"notepad/internal/notes"
)

const toastDuration = 3 * time.Second

// requestCmd runs req off the update loop. A nil req yields no command.
func requestCmd(req notes.Request, timeout time.Duration) tea.Cmd {
	if req == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return noteResultMsg{result: req(ctx)}
	}
}

func toastExpireCmd(seq int) tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}
