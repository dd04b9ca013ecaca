// Package tui is the interactive saved-downloads list.
package tui

import (
	"context"

	"ytdlnis/internal/models"
	"ytdlnis/internal/saved"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the saved list state.
type Model struct {
	ctx     context.Context
	browser *saved.Browser
	query   string
	swipe   bool

	Sel     *saved.Selection
	Page    *saved.Page
	PageNum int
	Cursor  int

	UndoToken string
	Details   *models.DownloadItem
	StatusMsg string
	Err       error
	Width     int
	Height    int
}

// New returns a saved list model. Swipe keys are ignored unless swipe is set.
func New(ctx context.Context, b *saved.Browser, query string, swipe bool) Model {
	return Model{
		ctx:     ctx,
		browser: b,
		query:   query,
		swipe:   swipe,
		Sel:     saved.NewSelection(),
	}
}

// Init loads the first page.
func (m Model) Init() tea.Cmd {
	return LoadPageCmd(m.ctx, m.browser, m.PageNum, m.query)
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case PageLoadedMsg:
		m.Page = msg.Page
		m.PageNum = msg.Page.Page
		if m.Cursor >= len(m.Page.Items) {
			m.Cursor = max(len(m.Page.Items)-1, 0)
		}
		return m, nil

	case ActionDoneMsg:
		m.StatusMsg = msg.Status
		m.Err = nil
		if msg.UndoToken != "" {
			m.UndoToken = msg.UndoToken
		}
		if msg.ClearSelection {
			m.Sel.Clear()
		}
		return m, m.reload()

	case DetailsLoadedMsg:
		m.Details = msg.Item
		return m, nil

	case ErrMsg:
		m.Err = msg
		return m, nil
	}
	return m, nil
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Details != nil {
		if key.Matches(msg, Keys.Quit) {
			return m, tea.Quit
		}
		m.Details = nil
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}

	case key.Matches(msg, Keys.Down):
		if m.Cursor < m.itemCount()-1 {
			m.Cursor++
		}

	case key.Matches(msg, Keys.PrevPage):
		if m.PageNum > 0 {
			m.Cursor = 0
			return m, LoadPageCmd(m.ctx, m.browser, m.PageNum-1, m.query)
		}

	case key.Matches(msg, Keys.NextPage):
		if m.Page != nil && m.PageNum < m.Page.Pages-1 {
			m.Cursor = 0
			return m, LoadPageCmd(m.ctx, m.browser, m.PageNum+1, m.query)
		}

	case key.Matches(msg, Keys.Toggle):
		if item := m.current(); item != nil {
			m.Sel.Toggle(item.ID)
		}

	case key.Matches(msg, Keys.SelectAll):
		m.Sel.CheckAll()

	case key.Matches(msg, Keys.Invert):
		m.Sel.Invert()

	case key.Matches(msg, Keys.Escape):
		m.Sel.Clear()
		m.StatusMsg = ""

	case key.Matches(msg, Keys.Delete):
		if m.Sel.Count(m.total()) == 0 {
			m.StatusMsg = "Nothing selected"
			return m, nil
		}
		return m, DeleteSelectedCmd(m.ctx, m.browser, m.Sel.Clone())

	case key.Matches(msg, Keys.Queue):
		return m, QueueSelectedCmd(m.ctx, m.browser, m.Sel.Clone())

	case key.Matches(msg, Keys.SwipeLeft):
		if item := m.current(); item != nil && m.swipe {
			return m, SwipeLeftCmd(m.ctx, m.browser, item.ID)
		}

	case key.Matches(msg, Keys.SwipeRight):
		if item := m.current(); item != nil && m.swipe {
			return m, SwipeRightCmd(m.ctx, m.browser, item.ID)
		}

	case key.Matches(msg, Keys.Undo):
		if m.UndoToken == "" {
			m.StatusMsg = "Nothing to undo"
			return m, nil
		}
		token := m.UndoToken
		m.UndoToken = ""
		return m, UndoCmd(m.ctx, m.browser, token)

	case key.Matches(msg, Keys.Details):
		if item := m.current(); item != nil {
			return m, DetailsCmd(m.ctx, m.browser, item.ID)
		}
	}
	return m, nil
}

// current returns the item under the cursor.
func (m Model) current() *models.DownloadItem {
	if m.Page == nil || m.Cursor < 0 || m.Cursor >= len(m.Page.Items) {
		return nil
	}
	return m.Page.Items[m.Cursor]
}

func (m Model) itemCount() int {
	if m.Page == nil {
		return 0
	}
	return len(m.Page.Items)
}

func (m Model) total() int {
	if m.Page == nil {
		return 0
	}
	return m.Page.Total
}

// reload refreshes the current page.
func (m Model) reload() tea.Cmd {
	return LoadPageCmd(m.ctx, m.browser, m.PageNum, m.query)
}
