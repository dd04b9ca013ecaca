// Package saved lists, re-queues and deletes saved downloads.
package saved

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"ytdlnis/internal/contracts"
	"ytdlnis/internal/domain/consts"
	"ytdlnis/internal/domain/errs"
	"ytdlnis/internal/models"
	"ytdlnis/internal/utils/logging"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

var savedStatus = []models.DownloadStatus{models.StatusSaved}

// Page is one page of saved downloads.
type Page struct {
	Items []*models.DownloadItem
	Page  int
	Pages int
	Total int
}

// Browser works on downloads in the Saved state.
type Browser struct {
	downloads contracts.DownloadStore
	pageSize  int
	now       func() time.Time
}

// NewBrowser returns a saved-downloads browser showing pageSize items per page.
func NewBrowser(downloads contracts.DownloadStore, pageSize int) *Browser {
	if pageSize <= 0 {
		pageSize = consts.DefaultPageSize
	}
	pageSize = min(pageSize, consts.MaxPageSize)

	return &Browser{
		downloads: downloads,
		pageSize:  pageSize,
		now:       time.Now,
	}
}

// Page returns saved downloads newest first. Pages start at 0.
//
// A non-empty query fuzzy-filters on title and author, best matches first.
func (b *Browser) Page(ctx context.Context, page int, query string) (*Page, error) {
	page = max(page, 0)

	if query == "" {
		total, err := b.downloads.GetTotalSize(ctx, savedStatus)
		if err != nil {
			return nil, err
		}
		items, err := b.downloads.GetByStatus(ctx, savedStatus, uint64(b.pageSize), uint64(page*b.pageSize))
		if err != nil {
			return nil, err
		}
		return &Page{Items: items, Page: page, Pages: pageCount(total, b.pageSize), Total: total}, nil
	}

	all, err := b.downloads.GetByStatus(ctx, savedStatus, 0, 0)
	if err != nil {
		return nil, err
	}
	matched := filterItems(all, query)

	start := min(page*b.pageSize, len(matched))
	end := min(start+b.pageSize, len(matched))
	return &Page{
		Items: matched[start:end],
		Page:  page,
		Pages: pageCount(len(matched), b.pageSize),
		Total: len(matched),
	}, nil
}

// Total counts saved downloads.
func (b *Browser) Total(ctx context.Context) (int, error) {
	return b.downloads.GetTotalSize(ctx, savedStatus)
}

// Details returns one download.
func (b *Browser) Details(ctx context.Context, id int64) (*models.DownloadItem, error) {
	item, ok, err := b.downloads.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %d", errs.ErrItemNotFound, id)
	}
	return item, nil
}

// Queue re-queues one saved download.
func (b *Browser) Queue(ctx context.Context, id int64) error {
	item, err := b.savedItem(ctx, id)
	if err != nil {
		logging.E("Cannot queue download %d: %v", id, err)
		return err
	}

	if err := b.downloads.SetStatus(ctx, []int64{id}, models.StatusQueued); err != nil {
		return err
	}
	logging.S("Queued %q", item.DisplayTitle())
	return nil
}

// DeleteSelected deletes the selected saved downloads and clears the selection.
//
// Checked IDs outside the Saved state are ignored. Returns the number of deleted rows.
func (b *Browser) DeleteSelected(ctx context.Context, sel *Selection) (int, error) {
	ids, err := b.selectedIDs(ctx, sel, false)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := b.downloads.DeleteAllWithIDs(ctx, ids); err != nil {
		return 0, err
	}
	sel.Clear()

	logging.I("Deleted %d saved downloads", len(ids))
	return len(ids), nil
}

// QueueSelected re-queues the selected downloads and clears the selection.
//
// With an inverted or empty selection every saved download outside the checked set is queued.
func (b *Browser) QueueSelected(ctx context.Context, sel *Selection) (int, error) {
	ids, err := b.selectedIDs(ctx, sel, true)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := b.downloads.SetStatus(ctx, ids, models.StatusQueued); err != nil {
		return 0, err
	}
	sel.Clear()

	logging.I("Queued %d saved downloads", len(ids))
	return len(ids), nil
}

// SwipeLeft deletes a saved download and keeps it for Undo under the returned token.
func (b *Browser) SwipeLeft(ctx context.Context, id int64) (string, *models.DownloadItem, error) {
	item, err := b.savedItem(ctx, id)
	if err != nil {
		return "", nil, err
	}

	if n, err := b.downloads.PruneUndo(ctx, b.undoCutoff()); err != nil {
		logging.W("Failed to prune undo entries: %v", err)
	} else if n > 0 {
		logging.D(2, "Pruned %d stale undo entries", n)
	}

	entry := &models.UndoEntry{
		Token:     uuid.NewString(),
		Item:      item,
		CreatedAt: b.now(),
	}
	if err := b.downloads.PushUndo(ctx, entry); err != nil {
		return "", nil, err
	}
	if err := b.downloads.Delete(ctx, id); err != nil {
		return "", nil, err
	}

	logging.I("Deleted %q, undo with token %s", item.DisplayTitle(), entry.Token)
	return entry.Token, item, nil
}

// SwipeRight queues a saved download.
func (b *Browser) SwipeRight(ctx context.Context, id int64) error {
	return b.Queue(ctx, id)
}

// Undo restores the download deleted under token, keeping its ID.
func (b *Browser) Undo(ctx context.Context, token string) (*models.DownloadItem, error) {
	item, ok, err := b.downloads.RestoreUndo(ctx, token, b.undoCutoff())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrUndoExpired, token)
	}

	logging.S("Restored %q", item.DisplayTitle())
	return item, nil
}

// savedItem returns the download with id if it is in the Saved state.
func (b *Browser) savedItem(ctx context.Context, id int64) (*models.DownloadItem, error) {
	item, err := b.Details(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status != models.StatusSaved {
		return nil, fmt.Errorf("%w: %d is %s, not saved", errs.ErrItemNotFound, id, item.Status)
	}
	return item, nil
}

// selectedIDs resolves sel to saved download IDs. An empty plain selection means all when emptyMeansAll.
func (b *Browser) selectedIDs(ctx context.Context, sel *Selection, emptyMeansAll bool) ([]int64, error) {
	ids := sel.Checked()
	if sel.Inverted() || (emptyMeansAll && len(ids) == 0) {
		return b.downloads.GetItemIDsNotPresentIn(ctx, ids, savedStatus)
	}
	return b.downloads.GetItemIDsIn(ctx, ids, savedStatus)
}

// undoCutoff is the oldest creation time an undo entry may have.
func (b *Browser) undoCutoff() time.Time {
	return b.now().Add(-consts.UndoRetentionHours * time.Hour)
}

// filterItems fuzzy-matches query against "title author", best first.
func filterItems(items []*models.DownloadItem, query string) []*models.DownloadItem {
	targets := make([]string, len(items))
	for i, it := range items {
		targets[i] = it.DisplayTitle() + " " + it.Author
	}

	ranks := fuzzy.RankFindFold(query, targets)
	sort.Stable(ranks)

	out := make([]*models.DownloadItem, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, items[r.OriginalIndex])
	}
	return out
}

// pageCount returns how many pages total items fill.
func pageCount(total, size int) int {
	if total == 0 {
		return 1
	}
	return (total + size - 1) / size
}

// IsNotFound reports whether err means the item is gone.
func IsNotFound(err error) bool {
	return errors.Is(err, errs.ErrItemNotFound)
}
