package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/jobs"
)

func waitForJobEvent(w *jobs.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return jobDoneMsg{}
		}
		return jobEventMsg{event: evt}
	}
}

type jobEventMsg struct {
	event jobs.Event
}

type jobDoneMsg struct{}

func (m *Model) handleJobEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(jobEventMsg)
	if !ok {
		return nil
	}
	cmd := m.applyJobEvent(eventMsg.event)
	if m.watcher != nil {
		waitCmd := waitForJobEvent(m.watcher)
		if cmd != nil {
			return tea.Batch(cmd, waitCmd)
		}
		return waitCmd
	}
	return cmd
}

func (m *Model) handleJobDoneMsg(tea.Msg) tea.Cmd {
	m.watcher = nil
	return nil
}

// applyJobEvent updates the status banner and refreshes stale tag state when a
// rebuild lands.
func (m *Model) applyJobEvent(evt jobs.Event) tea.Cmd {
	res := m.dispatcher.Handle(evt)
	if res.Banner != "" {
		m.banner = res.Banner
		m.bannerErr = res.BannerIsError
	}
	if !res.TagsStale {
		return nil
	}
	m.tagsStale = true
	if current := m.currentLevel(); current != nil && current.ID == "tags" {
		return m.reloadIfStale(current)
	}
	return nil
}
