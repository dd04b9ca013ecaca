package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ytdlnis/internal/domain/consts"
	"ytdlnis/internal/models"

	"github.com/Masterminds/squirrel"
)

// PushUndo stores a deleted download item under its token.
func (ds *DownloadStore) PushUndo(ctx context.Context, entry *models.UndoEntry) error {
	if entry == nil || entry.Item == nil || entry.Token == "" {
		return errors.New("undo entry must have a token and an item")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	item, err := marshalJSON(entry.Item, fmt.Sprintf("undo entry %q", entry.Token))
	if err != nil {
		return err
	}

	query := squirrel.
		Insert(consts.DBUndo).
		Columns(consts.QUndoToken, consts.QUndoItem, consts.QUndoCreatedAt).
		Values(entry.Token, string(item), entry.CreatedAt).
		RunWith(ds.DB)

	if _, err := query.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to store undo entry %q: %w", entry.Token, err)
	}
	return nil
}

// RestoreUndo reinserts the item stored under token, keeping its ID, and consumes the entry.
//
// Entries created before notBefore are consumed without restoring. The entry survives a failed reinsert.
func (ds *DownloadStore) RestoreUndo(ctx context.Context, token string, notBefore time.Time) (item *models.DownloadItem, hasRows bool, err error) {
	tx, err := ds.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnErr(tx, &err, fmt.Sprintf("undo entry %q", token))

	var (
		raw       []byte
		createdAt time.Time
	)
	query := squirrel.
		Select(consts.QUndoItem, consts.QUndoCreatedAt).
		From(consts.DBUndo).
		Where(squirrel.Eq{consts.QUndoToken: token}).
		RunWith(tx)

	if err = query.QueryRowContext(ctx).Scan(&raw, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = tx.Rollback()
			return nil, false, err
		}
		return nil, false, fmt.Errorf("failed to query undo entry %q: %w", token, err)
	}

	expired := createdAt.Before(notBefore)
	if !expired {
		item = new(models.DownloadItem)
		unmarshalJSON(raw, item, fmt.Sprintf("undo entry %q", token))
		if _, err = insertDownload(ctx, tx, item); err != nil {
			return nil, false, fmt.Errorf("failed to restore undo entry %q: %w", token, err)
		}
	}

	del := squirrel.
		Delete(consts.DBUndo).
		Where(squirrel.Eq{consts.QUndoToken: token}).
		RunWith(tx)

	if _, err = del.ExecContext(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to remove undo entry %q: %w", token, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if expired {
		return nil, false, nil
	}
	return item, true, nil
}

// PruneUndo deletes undo entries created before the cutoff.
//
// Timestamps are compared in Go since stored values vary in fractional precision.
func (ds *DownloadStore) PruneUndo(ctx context.Context, before time.Time) (int64, error) {
	query := squirrel.
		Select(consts.QUndoToken, consts.QUndoCreatedAt).
		From(consts.DBUndo).
		RunWith(ds.DB)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to query undo entries: %w", err)
	}

	var stale []string
	for rows.Next() {
		var (
			token     string
			createdAt time.Time
		)
		if err := rows.Scan(&token, &createdAt); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan undo entry: %w", err)
		}
		if createdAt.Before(before) {
			stale = append(stale, token)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if len(stale) == 0 {
		return 0, nil
	}

	del := squirrel.
		Delete(consts.DBUndo).
		Where(squirrel.Eq{consts.QUndoToken: stale}).
		RunWith(ds.DB)

	result, err := del.ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to prune undo entries: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned undo entries: %w", err)
	}
	return n, nil
}
