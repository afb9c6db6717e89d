package ui

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/funddeck/funddeck/internal/api"
	"github.com/funddeck/funddeck/internal/data/dispatcher"
	"github.com/funddeck/funddeck/internal/jobs"
	"github.com/funddeck/funddeck/internal/picker"
	"github.com/funddeck/funddeck/internal/state"
	"github.com/funddeck/funddeck/internal/tabs"
	"github.com/funddeck/funddeck/internal/tags"
	"github.com/funddeck/funddeck/internal/theme"
	"github.com/funddeck/funddeck/internal/tree"
	"github.com/funddeck/funddeck/internal/ui/command"
	uistate "github.com/funddeck/funddeck/internal/ui/state"
)

type level = uistate.Level

type Mode int

const (
	ModeBrowse Mode = iota
	ModeForm
	ModeConfirm
	ModeTree
	ModeTagPicker
	ModeTagEditor
)

const (
	headerSeparator  = " → "
	defaultRootTitle = "funddeck"
)

var styles = theme.Default()

var headerSegmentCleaner = strings.NewReplacer("_", " ", "-", " ")

type msgHandler func(tea.Msg) tea.Cmd

func newLevel(id, title string, items []tabs.Item, node *tabs.Node) *level {
	return uistate.NewLevel(id, title, items, node)
}

// Model implements the Bubble Tea model for the ledger admin front end.
type Model struct {
	stack        []*level
	loading      bool
	pendingID    string
	pendingLabel string
	errMsg       string
	infoMsg      string
	infoExpire   time.Time
	banner       string
	bannerErr    bool
	width        int
	height       int
	fixedWidth   bool
	fixedHeight  bool
	showFooter   bool
	verbose      bool

	form      *tabs.Form
	confirm   *confirmState
	treeView  *tree.View
	treeTitle string
	expanded  map[string]bool
	tagPanels     tags.Panels
	tagInput      string
	tagDeleteStep int
	tagsStale     bool

	filterCursor      cursor.Model
	filterCursorDirty bool

	handlers map[reflect.Type]msgHandler

	registry   *tabs.Registry
	pickers    *picker.Registry
	bus        *command.Bus
	mode       Mode
	rootTabID  string
	rootTitle  string
	ctx        context.Context
	client     *api.Client
	watcher    *jobs.Watcher
	dispatcher *dispatcher.Dispatcher

	funding    state.FundingStore
	projects   state.ProjectStore
	categories state.CategoryStore
	vendors    state.VendorStore
	tagCache   *tags.Cache

	// bundle keys registered by the currently open tree, dropped on close
	treeBundleKeys []string

	searchDebounce time.Duration
}

// NewModel initialises the UI state with the root tabs and configuration.
func NewModel(ctx context.Context, client *api.Client, width, height int, showFooter, verbose bool, watcher *jobs.Watcher, rootTab string, searchDebounce time.Duration) *Model {
	registry := tabs.BuildRegistry()
	rootItems := tabs.RootItems()
	root := newLevel("root", "Tabs", rootItems, registry.Root())
	m := &Model{
		stack:          []*level{root},
		registry:       registry,
		pickers:        picker.NewRegistry(),
		bus:            command.New(),
		showFooter:     showFooter,
		verbose:        verbose,
		mode:           ModeBrowse,
		rootTitle:      defaultRootTitle,
		ctx:            ctx,
		client:         client,
		watcher:        watcher,
		dispatcher:     dispatcher.New(),
		funding:        state.NewFundingStore(),
		projects:       state.NewProjectStore(),
		categories:     state.NewCategoryStore(),
		vendors:        state.NewVendorStore(),
		tagCache:       tags.NewCache(),
		expanded:       map[string]bool{},
		searchDebounce: searchDebounce,
	}
	m.syncViewport(root)
	if width > 0 {
		m.width = width
		m.fixedWidth = true
	}
	if height > 0 {
		m.height = height
		m.fixedHeight = true
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c
	m.applyRootTabOverride(rootTab)
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.watcher != nil {
		cmds = append(cmds, waitForJobEvent(m.watcher))
	}
	if cmd := m.filterCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handled, cmd := m.handleActiveOverlay(msg); handled {
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, m.finishUpdate(cmds)
	}

	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, m.finishUpdate(cmds)
	}

	return m, m.finishUpdate(cmds)
}

// handleActiveOverlay routes key input to whichever widget owns the screen.
// Non-key messages always fall through to the typed handler table.
func (m *Model) handleActiveOverlay(msg tea.Msg) (bool, tea.Cmd) {
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		return false, nil
	}
	switch m.mode {
	case ModeForm:
		return m.handleFormKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(msg)
	case ModeTree:
		return m.handleTreeKey(msg)
	case ModeTagPicker:
		return m.handleTagPickerKey(msg)
	case ModeTagEditor:
		return m.handleTagEditorKey(msg)
	default:
		return false, nil
	}
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):          m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):   m.handleWindowSizeMsg,
		reflect.TypeOf(tabLoadedMsg{}):        m.handleTabLoadedMsg,
		reflect.TypeOf(treeLoadedMsg{}):       m.handleTreeLoadedMsg,
		reflect.TypeOf(tabs.ActionResult{}):   m.handleActionResultMsg,
		reflect.TypeOf(jobEventMsg{}):         m.handleJobEventMsg,
		reflect.TypeOf(jobDoneMsg{}):          m.handleJobDoneMsg,
		reflect.TypeOf(tags.SearchDueMsg{}):   m.handleTagPanelMsg,
		reflect.TypeOf(tags.SearchResultMsg{}): m.handleTagPanelMsg,
		reflect.TypeOf(tags.AssignDoneMsg{}):  m.handleTagAssignDoneMsg,
		reflect.TypeOf(tags.UnassignDoneMsg{}): m.handleTagUnassignDoneMsg,
		reflect.TypeOf(tags.MutateDoneMsg{}):  m.handleTagMutateDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// tabContext assembles the loader/action context from the shared stores.
func (m *Model) tabContext() tabs.Context {
	return tabs.Context{
		Ctx:        m.ctx,
		Client:     m.client,
		Funding:    m.funding,
		Projects:   m.projects,
		Categories: m.categories,
		Vendors:    m.vendors,
		TagCache:   m.tagCache,
		Verbose:    m.verbose,
	}
}
