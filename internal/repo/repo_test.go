package repo_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"ytdlnis/internal/database"
	"ytdlnis/internal/models"
	"ytdlnis/internal/repo"
)

func newStore(t *testing.T) *repo.Store {
	t.Helper()
	dbc, err := database.InitDB(filepath.Join(t.TempDir(), "ytdlnis.db"))
	if err != nil {
		t.Fatalf("failed to init database: %v", err)
	}
	t.Cleanup(func() { dbc.Close() })
	return repo.InitStores(dbc.DB)
}

func savedItem(url string) *models.DownloadItem {
	return &models.DownloadItem{
		URL:       url,
		Title:     "Title " + url,
		Author:    "Author",
		Type:      models.TypeAudio,
		Container: "mp3",
		Format:    models.Format{FormatID: "140", FormatNote: "medium audio", Container: "m4a"},
		AllFormats: []models.Format{
			{FormatID: "140", FormatNote: "medium audio"},
			{FormatID: "251", FormatNote: "high audio"},
		},
		AudioPreferences: models.AudioPreferences{
			EmbedThumb:          true,
			SponsorBlockFilters: []string{"sponsor"},
		},
		Status: models.StatusSaved,
	}
}

// Cookies ------------------------------------------------------------------------------------------------------------------

// TestCookieStoreCRUD checks cookie rows round-trip in insertion order -----------------------------------------------------
func TestCookieStoreCRUD(t *testing.T) {
	ctx := context.Background()
	cs := newStore(t).CookieStore()

	a := &models.CookieItem{URL: "https://a.com", Content: "line a"}
	b := &models.CookieItem{URL: "https://b.com", Content: "line b"}
	for _, c := range []*models.CookieItem{a, b} {
		if _, err := cs.Insert(ctx, c); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	all, err := cs.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != a.ID || all[1].ID != b.ID {
		t.Fatalf("expected rows in insertion order, got %+v", all)
	}

	b.Content = "line b2"
	if err := cs.Update(ctx, b); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, ok, err := cs.GetByURL(ctx, "https://b.com")
	if err != nil || !ok {
		t.Fatalf("expected row, got ok=%v err=%v", ok, err)
	}
	if got.Content != "line b2" {
		t.Fatalf("expected updated content, got %q", got.Content)
	}

	if err := cs.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := cs.GetByURL(ctx, "https://a.com"); ok {
		t.Fatal("expected deleted row to be gone")
	}

	if err := cs.DeleteAll(ctx); err != nil {
		t.Fatalf("delete all failed: %v", err)
	}
	if all, _ := cs.GetAll(ctx); len(all) != 0 {
		t.Fatalf("expected empty table, got %d rows", len(all))
	}
}

// Downloads ----------------------------------------------------------------------------------------------------------------

// TestDownloadRoundTrip checks JSON columns survive insert and fetch -------------------------------------------------------
func TestDownloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	ds := newStore(t).DownloadStore()

	item := savedItem("https://youtube.com/watch?v=1")
	id, err := ds.Insert(ctx, item)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got, ok, err := ds.GetItemByID(ctx, id)
	if err != nil || !ok {
		t.Fatalf("expected row, got ok=%v err=%v", ok, err)
	}
	if got.Format.FormatID != "140" || len(got.AllFormats) != 2 {
		t.Fatalf("unexpected formats: %+v / %+v", got.Format, got.AllFormats)
	}
	if !got.AudioPreferences.EmbedThumb || len(got.AudioPreferences.SponsorBlockFilters) != 1 {
		t.Fatalf("unexpected audio preferences: %+v", got.AudioPreferences)
	}
	if got.Status != models.StatusSaved || got.Type != models.TypeAudio {
		t.Fatalf("unexpected status/type: %s/%s", got.Status, got.Type)
	}

	if _, ok, err := ds.GetItemByID(ctx, id+100); err != nil || ok {
		t.Fatalf("expected missing row, got ok=%v err=%v", ok, err)
	}
}

// TestDownloadStatusQueries checks paging, counting and exclusion by status ------------------------------------------------
func TestDownloadStatusQueries(t *testing.T) {
	ctx := context.Background()
	ds := newStore(t).DownloadStore()

	var ids []int64
	for _, u := range []string{"https://a.com/1", "https://a.com/2", "https://a.com/3"} {
		id, err := ds.Insert(ctx, savedItem(u))
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		ids = append(ids, id)
	}
	queued := savedItem("https://a.com/q")
	queued.Status = models.StatusQueued
	if _, err := ds.Insert(ctx, queued); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	saved := []models.DownloadStatus{models.StatusSaved}
	total, err := ds.GetTotalSize(ctx, saved)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 saved, got %d", total)
	}

	page, err := ds.GetByStatus(ctx, saved, 2, 0)
	if err != nil {
		t.Fatalf("page failed: %v", err)
	}
	if len(page) != 2 || page[0].ID != ids[2] {
		t.Fatalf("expected newest first page of 2, got %d items", len(page))
	}

	rest, err := ds.GetItemIDsNotPresentIn(ctx, []int64{ids[0]}, saved)
	if err != nil {
		t.Fatalf("not-present query failed: %v", err)
	}
	if len(rest) != 2 || rest[0] != ids[2] || rest[1] != ids[1] {
		t.Fatalf("expected [%d %d], got %v", ids[2], ids[1], rest)
	}

	in, err := ds.GetItemIDsIn(ctx, []int64{ids[0], queued.ID, queued.ID + 100}, saved)
	if err != nil {
		t.Fatalf("in query failed: %v", err)
	}
	if len(in) != 1 || in[0] != ids[0] {
		t.Fatalf("expected only saved ID [%d], got %v", ids[0], in)
	}

	if err := ds.SetStatus(ctx, rest, models.StatusQueued); err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if total, _ := ds.GetTotalSize(ctx, saved); total != 1 {
		t.Fatalf("expected 1 saved after re-queue, got %d", total)
	}

	if err := ds.DeleteAllWithIDs(ctx, rest); err != nil {
		t.Fatalf("bulk delete failed: %v", err)
	}
	if total, _ := ds.GetTotalSize(ctx, []models.DownloadStatus{models.StatusQueued}); total != 1 {
		t.Fatalf("expected only the original queued item, got %d", total)
	}
}

// Undo ---------------------------------------------------------------------------------------------------------------------

// TestUndoRestoresIdentity checks a restored entry brings the item back under its original ID -----------------------------
func TestUndoRestoresIdentity(t *testing.T) {
	ctx := context.Background()
	ds := newStore(t).DownloadStore()

	item := savedItem("https://a.com/undo")
	id, err := ds.Insert(ctx, item)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if err := ds.PushUndo(ctx, &models.UndoEntry{Token: "tok", Item: item}); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if err := ds.Delete(ctx, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	restored, ok, err := ds.RestoreUndo(ctx, "tok", time.Now().Add(-time.Hour))
	if err != nil || !ok {
		t.Fatalf("expected undo entry, got ok=%v err=%v", ok, err)
	}
	if restored.ID != id {
		t.Fatalf("expected restored ID %d, got %d", id, restored.ID)
	}

	got, ok, err := ds.GetItemByID(ctx, id)
	if err != nil || !ok {
		t.Fatalf("expected restored row %d, got ok=%v err=%v", id, ok, err)
	}
	if got.Title != item.Title {
		t.Fatalf("expected title %q, got %q", item.Title, got.Title)
	}

	if _, ok, _ := ds.RestoreUndo(ctx, "tok", time.Time{}); ok {
		t.Fatal("expected token to be consumed")
	}
}

// TestUndoKeptOnFailedRestore checks a failed reinsert leaves the undo entry in place ---------------------------------------
func TestUndoKeptOnFailedRestore(t *testing.T) {
	ctx := context.Background()
	ds := newStore(t).DownloadStore()

	item := savedItem("https://a.com/busy")
	id, err := ds.Insert(ctx, item)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := ds.PushUndo(ctx, &models.UndoEntry{Token: "tok", Item: item}); err != nil {
		t.Fatalf("push failed: %v", err)
	}

	// The row still holds the ID, so the reinsert conflicts.
	if _, ok, err := ds.RestoreUndo(ctx, "tok", time.Time{}); err == nil || ok {
		t.Fatalf("expected restore conflict, got ok=%v err=%v", ok, err)
	}

	if err := ds.Delete(ctx, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	restored, ok, err := ds.RestoreUndo(ctx, "tok", time.Time{})
	if err != nil || !ok {
		t.Fatalf("expected entry kept after failed restore, got ok=%v err=%v", ok, err)
	}
	if restored.ID != id {
		t.Fatalf("expected restored ID %d, got %d", id, restored.ID)
	}
}

// TestUndoExpiry checks stale entries are neither returned nor kept --------------------------------------------------------
func TestUndoExpiry(t *testing.T) {
	ctx := context.Background()
	ds := newStore(t).DownloadStore()

	old := &models.UndoEntry{Token: "old", Item: savedItem("https://a.com/o"), CreatedAt: time.Now().Add(-48 * time.Hour)}
	fresh := &models.UndoEntry{Token: "fresh", Item: savedItem("https://a.com/f")}
	for _, e := range []*models.UndoEntry{old, fresh} {
		if err := ds.PushUndo(ctx, e); err != nil {
			t.Fatalf("push failed: %v", err)
		}
	}

	n, err := ds.PruneUndo(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 pruned entry, got %d", n)
	}

	if _, ok, _ := ds.RestoreUndo(ctx, "fresh", time.Now().Add(time.Hour)); ok {
		t.Fatal("expected entry older than the cutoff to be rejected")
	}
}

// Results ------------------------------------------------------------------------------------------------------------------

// TestResultStore checks result formats and upload dates round-trip --------------------------------------------------------
func TestResultStore(t *testing.T) {
	ctx := context.Background()
	rs := newStore(t).ResultStore()

	upload := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	r := &models.ResultItem{
		URL:        "https://a.com/r",
		Title:      "R",
		Formats:    []models.Format{{FormatID: "140", FormatNote: "audio"}},
		Chapters:   []models.Chapter{{Title: "Intro", StartTime: 0, EndTime: 10}},
		UploadDate: upload,
	}
	if _, err := rs.Insert(ctx, r); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	r.Formats = append(r.Formats, models.Format{FormatID: "251", FormatNote: "audio"})
	if err := rs.Update(ctx, r); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, ok, err := rs.GetByURL(ctx, r.URL)
	if err != nil || !ok {
		t.Fatalf("expected row, got ok=%v err=%v", ok, err)
	}
	if len(got.Formats) != 2 || len(got.Chapters) != 1 {
		t.Fatalf("unexpected formats/chapters: %+v / %+v", got.Formats, got.Chapters)
	}
	if !got.UploadDate.Equal(upload) {
		t.Fatalf("expected upload date %v, got %v", upload, got.UploadDate)
	}
}
