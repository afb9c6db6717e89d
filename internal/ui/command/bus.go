package command

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/logging/events"
	"github.com/funddeck/funddeck/internal/tabs"
)

// Request encapsulates an action invocation.
type Request struct {
	ID      string
	Label   string
	Handler tabs.Action
	Item    tabs.Item
}

// Bus coordinates the execution of tab actions.
type Bus struct{}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Execute wraps a tab action into a Bubble Tea command while emitting trace logs.
func (b *Bus) Execute(ctx tabs.Context, req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if req.Handler == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		cmd := req.Handler(ctx, req.Item)
		if cmd == nil {
			events.Command.NoOp(req.ID, req.Label)
			return nil
		}
		msg := cmd()
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg))
		return msg
	}
}
