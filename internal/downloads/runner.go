// Package downloads runs queued download items through yt-dlp.
package downloads

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"ytdlnis/internal/command/builder"
	"ytdlnis/internal/command/execute"
	"ytdlnis/internal/contracts"
	"ytdlnis/internal/models"
	"ytdlnis/internal/utils/logging"

	"github.com/mattn/go-shellwords"
)

// Final status writes are retried, the database may be busy.
const (
	statusRetries = 3
	statusBackoff = 100 * time.Millisecond
)

// ExecFunc runs a yt-dlp binary with args.
type ExecFunc func(ctx context.Context, bin string, args []string) (*execute.Result, error)

// Runner processes Queued items one at a time.
type Runner struct {
	Downloads  contracts.DownloadStore
	CookieFile string
	YtdlpPath  string
	Exec       ExecFunc

	// Stagger is the longest random pause between two downloads, 0 for none.
	Stagger time.Duration
}

// NewRunner returns a runner using the real yt-dlp executor.
func NewRunner(downloads contracts.DownloadStore, cookieFile, ytdlpPath string) *Runner {
	return &Runner{
		Downloads:  downloads,
		CookieFile: cookieFile,
		YtdlpPath:  ytdlpPath,
		Exec:       execute.Run,
	}
}

// RunQueued downloads every Queued item, oldest first.
//
// A failed item is marked Error and the run moves on. Cancelling ctx marks the
// current item Cancelled and stops.
func (r *Runner) RunQueued(ctx context.Context) (completed, failed int, err error) {
	items, err := r.Downloads.GetByStatus(ctx, []models.DownloadStatus{models.StatusQueued}, 0, 0)
	if err != nil {
		return 0, 0, err
	}
	slices.Reverse(items)

	logging.I("Processing %d queued downloads", len(items))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return completed, failed, err
		}
		if i > 0 {
			if err := waitJitter(ctx, r.Stagger); err != nil {
				return completed, failed, err
			}
		}

		switch err := r.RunItem(ctx, item); {
		case err == nil:
			completed++
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return completed, failed, err
		default:
			failed++
			logging.E("Download of %q failed: %v", item.DisplayTitle(), err)
		}
	}
	return completed, failed, nil
}

// RunItem downloads one item, recording its status as it goes.
func (r *Runner) RunItem(ctx context.Context, item *models.DownloadItem) error {
	args, err := r.args(item)
	if err != nil {
		return r.finish(item, models.StatusError, err)
	}

	item.Status = models.StatusActive
	item.DownloadStartTime = time.Now().Unix()
	if err := r.Downloads.Update(ctx, item); err != nil {
		return err
	}

	res, err := r.Exec(ctx, r.YtdlpPath, args)
	if err != nil {
		if ctx.Err() != nil {
			return r.finish(item, models.StatusCancelled, ctx.Err())
		}
		if res != nil {
			checkBotDetection(item.URL, res.LastLines)
		}
		return r.finish(item, models.StatusError, err)
	}

	if err := verifyOutputs(res.OutputPaths); err != nil {
		return r.finish(item, models.StatusError, err)
	}

	logging.S("Downloaded %q", item.DisplayTitle())
	return r.finish(item, models.StatusCompleted, nil)
}

// args builds the argument list for the item's type.
func (r *Runner) args(item *models.DownloadItem) ([]string, error) {
	switch item.Type {
	case models.TypeAudio:
		return builder.AudioArgs(item, r.CookieFile)
	case models.TypeCommand:
		args, err := shellwords.Parse(item.ExtraCommands)
		if err != nil {
			return nil, fmt.Errorf("invalid command for item %d: %w", item.ID, err)
		}
		return append(args, item.URL), nil
	default:
		return nil, fmt.Errorf("unsupported download type %q for item %d", item.Type, item.ID)
	}
}

// finish stores the final status and returns cause.
func (r *Runner) finish(item *models.DownloadItem, status models.DownloadStatus, cause error) error {
	item.Status = status

	// The run context may already be cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	for attempt := 0; attempt < statusRetries; attempt++ {
		if err = r.Downloads.Update(ctx, item); err == nil {
			break
		}
		if attempt < statusRetries-1 {
			logging.W("Retrying status update for %q (attempt %d/%d): %v", item.DisplayTitle(), attempt+1, statusRetries, err)
			time.Sleep(statusBackoff * time.Duration(attempt+1))
		}
	}
	if err != nil {
		logging.E("Failed to record status %s for %q after %d attempts: %v", status, item.DisplayTitle(), statusRetries, err)
		if cause == nil {
			return err
		}
	}
	return cause
}
