package cfg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"ytdlnis/internal/database"
	"ytdlnis/internal/domain/keys"
	"ytdlnis/internal/domain/paths"
	"ytdlnis/internal/models"
	"ytdlnis/internal/repo"
	"ytdlnis/internal/saved"
	"ytdlnis/internal/utils/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSession(t *testing.T) *session {
	t.Helper()
	logging.SetOutput(io.Discard)

	dbc, err := database.InitDB(filepath.Join(t.TempDir(), "ytdlnis.db"))
	if err != nil {
		t.Fatalf("failed to init database: %v", err)
	}
	t.Cleanup(func() { dbc.Close() })

	if err := paths.SetCacheDir(t.TempDir()); err != nil {
		t.Fatalf("failed to set cache dir: %v", err)
	}
	viper.Reset()
	t.Cleanup(viper.Reset)

	return &session{db: dbc, store: repo.InitStores(dbc.DB)}
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// TestCookieAddAndList checks added cookies are listed and written to the cookie file ------------------------------------------
func TestCookieAddAndList(t *testing.T) {
	s := newSession(t)
	line := ".example.com\tTRUE\t/\tFALSE\t0\tSID\tabc"

	if _, err := execute(t, addCookieCmd(s), "--url", "https://example.com", "--content", line); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := execute(t, listCookiesCmd(s))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "https://example.com") {
		t.Fatalf("expected listed URL, got:\n%s", out)
	}

	b, err := os.ReadFile(paths.CookieFilePath)
	if err != nil {
		t.Fatalf("expected cookie file: %v", err)
	}
	if !strings.Contains(string(b), line) {
		t.Fatalf("expected cookie line in file, got:\n%s", b)
	}

	if _, err := execute(t, addCookieCmd(s), "--content", line); err == nil {
		t.Fatalf("expected error without URL")
	}
}

// TestAudioCommandSavesItem checks the audio command stores a configured item ---------------------------------------------------
func TestAudioCommandSavesItem(t *testing.T) {
	s := newSession(t)
	viper.Set(keys.AudioFormat, "opus")
	viper.Set(keys.DownloadDir, t.TempDir())

	_, err := execute(t, audioCmd(s),
		"--url", "https://example.com/track",
		"--title", "Track",
		"--sponsorblock", "sponsor,intro",
		"--embed-thumb",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, err := s.store.DownloadStore().GetByStatus(context.Background(), []models.DownloadStatus{models.StatusSaved}, 0, 0)
	if err != nil || len(items) != 1 {
		t.Fatalf("expected 1 saved item, got %d (err %v)", len(items), err)
	}
	item := items[0]
	if item.Title != "Track" || item.Container != "opus" || !item.AudioPreferences.EmbedThumb {
		t.Fatalf("unexpected item: %+v", item)
	}
	if len(item.AudioPreferences.SponsorBlockFilters) != 2 {
		t.Fatalf("expected 2 sponsorblock filters, got %v", item.AudioPreferences.SponsorBlockFilters)
	}

	// Cutting needs a known duration.
	if _, err := execute(t, audioCmd(s), "--url", "https://example.com/other", "--cut", "*0:10-0:20"); err == nil {
		t.Fatalf("expected cut error without duration")
	}
}

// TestSelectionFrom checks plain and inverted selections ------------------------------------------------------------------------
func TestSelectionFrom(t *testing.T) {
	plain := selectionFrom([]int64{1, 2, 2}, false)
	if plain.Inverted() || plain.Count(10) != 2 || !plain.IsSelected(2) {
		t.Fatalf("unexpected plain selection: checked %v", plain.Checked())
	}

	inv := selectionFrom([]int64{3}, true)
	if !inv.Inverted() || inv.IsSelected(3) || !inv.IsSelected(4) || inv.Count(10) != 9 {
		t.Fatalf("unexpected inverted selection: checked %v", inv.Checked())
	}
}

// TestSavedCommands checks bulk delete guards and the swipe toggle --------------------------------------------------------------
func TestSavedCommands(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	ds := s.store.DownloadStore()

	var ids []int64
	for _, title := range []string{"one", "two", "three"} {
		id, err := ds.Insert(ctx, &models.DownloadItem{
			URL:    "https://example.com/" + title,
			Title:  title,
			Type:   models.TypeAudio,
			Status: models.StatusSaved,
		})
		if err != nil {
			t.Fatalf("failed to insert: %v", err)
		}
		ids = append(ids, id)
	}

	del := bulkSavedCmd(s, "delete", "Delete", true, (*saved.Browser).DeleteSelected)
	if _, err := execute(t, del); err == nil {
		t.Fatalf("expected error for empty delete selection")
	}

	del = bulkSavedCmd(s, "delete", "Delete", true, (*saved.Browser).DeleteSelected)
	keep := strconv.FormatInt(ids[1], 10)
	if _, err := execute(t, del, "--inverted", "--ids", keep); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	left, err := ds.GetByStatus(ctx, []models.DownloadStatus{models.StatusSaved}, 0, 0)
	if err != nil || len(left) != 1 || left[0].ID != ids[1] {
		t.Fatalf("expected only item %d left, got %d items (err %v)", ids[1], len(left), err)
	}

	viper.Set(keys.SwipeGestures, false)
	if _, err := execute(t, swipeLeftCmd(s), "--id", keep); !errors.Is(err, errSwipeDisabled) {
		t.Fatalf("expected errSwipeDisabled, got %v", err)
	}

	viper.Set(keys.SwipeGestures, true)
	out, err := execute(t, swipeLeftCmd(s), "--id", keep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	token := strings.TrimSpace(out[strings.LastIndex(out, "--token ")+len("--token "):])
	if _, err := execute(t, undoCmd(s), "--token", token); err != nil {
		t.Fatalf("unexpected undo error: %v", err)
	}
	if _, ok, _ := ds.GetItemByID(ctx, ids[1]); !ok {
		t.Fatalf("expected item %d restored", ids[1])
	}
}
