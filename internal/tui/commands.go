package tui

import (
	"context"
	"fmt"
	"time"

	"ytdlnis/internal/saved"

	tea "github.com/charmbracelet/bubbletea"
)

// Command factories for store operations. Each runs off the UI loop.

const storeTimeout = 30 * time.Second

// LoadPageCmd loads one page of saved downloads.
func LoadPageCmd(ctx context.Context, b *saved.Browser, page int, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		p, err := b.Page(ctx, page, query)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading saved downloads"}
		}
		return PageLoadedMsg{Page: p}
	}
}

// DeleteSelectedCmd deletes the selection.
func DeleteSelectedCmd(ctx context.Context, b *saved.Browser, sel *saved.Selection) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		n, err := b.DeleteSelected(ctx, sel)
		if err != nil {
			return ErrMsg{Err: err, Context: "deleting selection"}
		}
		return ActionDoneMsg{Status: fmt.Sprintf("Deleted %d items", n), ClearSelection: true}
	}
}

// QueueSelectedCmd queues the selection.
func QueueSelectedCmd(ctx context.Context, b *saved.Browser, sel *saved.Selection) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		n, err := b.QueueSelected(ctx, sel)
		if err != nil {
			return ErrMsg{Err: err, Context: "queueing selection"}
		}
		return ActionDoneMsg{Status: fmt.Sprintf("Queued %d items", n), ClearSelection: true}
	}
}

// SwipeLeftCmd deletes one item, keeping it for undo.
func SwipeLeftCmd(ctx context.Context, b *saved.Browser, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		token, item, err := b.SwipeLeft(ctx, id)
		if err != nil {
			return ErrMsg{Err: err, Context: "deleting item"}
		}
		return ActionDoneMsg{Status: fmt.Sprintf("Deleted %q (u to undo)", item.DisplayTitle()), UndoToken: token}
	}
}

// SwipeRightCmd queues one item.
func SwipeRightCmd(ctx context.Context, b *saved.Browser, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		if err := b.SwipeRight(ctx, id); err != nil {
			return ErrMsg{Err: err, Context: "queueing item"}
		}
		return ActionDoneMsg{Status: "Queued item"}
	}
}

// UndoCmd restores the last swiped-away item.
func UndoCmd(ctx context.Context, b *saved.Browser, token string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		item, err := b.Undo(ctx, token)
		if err != nil {
			return ErrMsg{Err: err, Context: "undo"}
		}
		return ActionDoneMsg{Status: fmt.Sprintf("Restored %q", item.DisplayTitle())}
	}
}

// DetailsCmd loads one item.
func DetailsCmd(ctx context.Context, b *saved.Browser, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()

		item, err := b.Details(ctx, id)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading details"}
		}
		return DetailsLoadedMsg{Item: item}
	}
}
