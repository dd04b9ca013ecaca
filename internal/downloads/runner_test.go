package downloads_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"ytdlnis/internal/command/execute"
	"ytdlnis/internal/contracts"
	"ytdlnis/internal/database"
	"ytdlnis/internal/downloads"
	"ytdlnis/internal/models"
	"ytdlnis/internal/repo"
)

func newStore(t *testing.T) contracts.DownloadStore {
	t.Helper()
	dbc, err := database.InitDB(filepath.Join(t.TempDir(), "ytdlnis.db"))
	if err != nil {
		t.Fatalf("failed to init database: %v", err)
	}
	t.Cleanup(func() { dbc.Close() })
	return repo.InitStores(dbc.DB).DownloadStore()
}

func queue(t *testing.T, ds contracts.DownloadStore, url string, typ models.DownloadType) int64 {
	t.Helper()
	id, err := ds.Insert(context.Background(), &models.DownloadItem{URL: url, Type: typ, Status: models.StatusQueued})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	return id
}

func status(t *testing.T, ds contracts.DownloadStore, id int64) models.DownloadStatus {
	t.Helper()
	item, ok, err := ds.GetItemByID(context.Background(), id)
	if err != nil || !ok {
		t.Fatalf("expected item %d, got ok=%v err=%v", id, ok, err)
	}
	return item.Status
}

// TestRunQueuedStatuses checks items end Completed or Error in queue order ------------------------------------------------
func TestRunQueuedStatuses(t *testing.T) {
	ds := newStore(t)
	good := queue(t, ds, "https://a.com/good", models.TypeAudio)
	bad := queue(t, ds, "https://a.com/bad", models.TypeAudio)
	video := queue(t, ds, "https://a.com/video", models.TypeVideo)

	out := filepath.Join(t.TempDir(), "song.opus")
	if err := os.WriteFile(out, []byte("data"), 0o644); err != nil {
		t.Fatalf("failed to write output: %v", err)
	}

	var seen []string
	r := downloads.NewRunner(ds, "", "yt-dlp")
	r.Exec = func(_ context.Context, _ string, args []string) (*execute.Result, error) {
		url := args[len(args)-1]
		seen = append(seen, url)
		if url == "https://a.com/bad" {
			return &execute.Result{LastLines: []string{"ERROR: Sign in to confirm you're not a bot"}}, errors.New("exit status 1")
		}
		return &execute.Result{OutputPaths: []string{out}}, nil
	}

	completed, failed, err := r.RunQueued(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completed != 1 || failed != 2 {
		t.Fatalf("expected 1 completed and 2 failed, got %d/%d", completed, failed)
	}
	if !slices.Equal(seen, []string{"https://a.com/good", "https://a.com/bad"}) {
		t.Fatalf("unexpected run order %v", seen)
	}

	if s := status(t, ds, good); s != models.StatusCompleted {
		t.Fatalf("expected Completed, got %s", s)
	}
	if s := status(t, ds, bad); s != models.StatusError {
		t.Fatalf("expected Error, got %s", s)
	}
	if s := status(t, ds, video); s != models.StatusError {
		t.Fatalf("expected unsupported type to be Error, got %s", s)
	}
}

// TestRunQueuedCancel checks cancellation marks the running item Cancelled -------------------------------------------------
func TestRunQueuedCancel(t *testing.T) {
	ds := newStore(t)
	first := queue(t, ds, "https://a.com/1", models.TypeAudio)
	second := queue(t, ds, "https://a.com/2", models.TypeAudio)

	ctx, cancel := context.WithCancel(context.Background())
	r := downloads.NewRunner(ds, "", "yt-dlp")
	r.Exec = func(ctx context.Context, _ string, _ []string) (*execute.Result, error) {
		cancel()
		return nil, ctx.Err()
	}

	if _, _, err := r.RunQueued(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if s := status(t, ds, first); s != models.StatusCancelled {
		t.Fatalf("expected Cancelled, got %s", s)
	}
	if s := status(t, ds, second); s != models.StatusQueued {
		t.Fatalf("expected second item untouched, got %s", s)
	}
}

// flakyStore fails the first fails final-status writes.
type flakyStore struct {
	contracts.DownloadStore
	fails, calls int
}

func (f *flakyStore) Update(ctx context.Context, d *models.DownloadItem) error {
	if d.Status == models.StatusCompleted {
		f.calls++
		if f.calls <= f.fails {
			return errors.New("database is locked")
		}
	}
	return f.DownloadStore.Update(ctx, d)
}

// TestFinalStatusRetried checks a busy database does not lose the final status ---------------------------------------------
func TestFinalStatusRetried(t *testing.T) {
	ds := newStore(t)
	id := queue(t, ds, "https://a.com/retry", models.TypeAudio)

	out := filepath.Join(t.TempDir(), "song.opus")
	if err := os.WriteFile(out, []byte("data"), 0o644); err != nil {
		t.Fatalf("failed to write output: %v", err)
	}

	flaky := &flakyStore{DownloadStore: ds, fails: 2}
	r := downloads.NewRunner(flaky, "", "yt-dlp")
	r.Exec = func(context.Context, string, []string) (*execute.Result, error) {
		return &execute.Result{OutputPaths: []string{out}}, nil
	}

	if completed, _, err := r.RunQueued(context.Background()); err != nil || completed != 1 {
		t.Fatalf("expected 1 completed, got %d (err %v)", completed, err)
	}
	if flaky.calls != 3 {
		t.Fatalf("expected 3 status writes, got %d", flaky.calls)
	}
	if s := status(t, ds, id); s != models.StatusCompleted {
		t.Fatalf("expected Completed, got %s", s)
	}
}
