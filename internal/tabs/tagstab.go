package tabs

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/format/table"
	"github.com/funddeck/funddeck/internal/logging/events"
)

// loadTagsTab lists every tag with its assignment count and refreshes the
// shared cache, which the picker/editor popovers patch in place afterwards.
func loadTagsTab(ctx Context) ([]Item, error) {
	usage, err := ctx.Client.TagUsageCounts(ctx.Ctx)
	if err != nil {
		return nil, err
	}
	ctx.TagCache.LoadUsage(usage)

	rows := make([][]string, len(usage))
	for i, u := range usage {
		state := ""
		if u.Tag.IsDeprecated {
			state = "deprecated"
		}
		rows[i] = []string{u.Tag.Name, strconv.Itoa(u.Assignments), state}
	}
	labels := table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignRight, table.AlignLeft})

	items := make([]Item, len(usage))
	for i, u := range usage {
		items[i] = Item{ID: strconv.FormatInt(u.Tag.ID, 10), Label: labels[i], Raw: u.Tag}
	}
	return items, nil
}

// TagRebuildAction enqueues a full effective-tags rebuild; the job watcher
// tracks its progress in the status banner.
func TagRebuildAction(ctx Context, _ Item) tea.Cmd {
	scope := ctx.FormValue("only_for")
	return func() tea.Msg {
		job, err := ctx.Client.RebuildEffectiveTags(ctx.Ctx, scope)
		if err != nil {
			return ActionResult{Err: err}
		}
		events.Action.Executed("tags:rebuild", scope)
		return ActionResult{
			Info: fmt.Sprintf("rebuild job #%d enqueued", job.ID),
			Job:  &job,
		}
	}
}
