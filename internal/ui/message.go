package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tracklist/internal/state"
)

// actionMsg carries a resolved [state.Action] back into the update loop.
type actionMsg struct {
	action state.Action
}

var _ tea.Msg = actionMsg{}

// performCmd resolves eff off the update loop.
func performCmd(ctx context.Context, lib state.Library, eff state.Effect) tea.Cmd {
	return func() tea.Msg {
		if a := state.Perform(ctx, lib, eff); a != nil {
			return actionMsg{action: a}
		}
		return nil
	}
}
