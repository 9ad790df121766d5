package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

// CreateBookmark saves a posting for a user. Bookmarking the same URL again updates the
// title and note.
func (db *DB) CreateBookmark(ctx context.Context, userID uuid.UUID, req *types.CreateBookmarkRequest) (*types.Bookmark, error) {
	b := types.Bookmark{UserID: userID}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO bookmarks (user_id, company, job_url, job_title, note)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, job_url) DO UPDATE SET job_title = $4, note = $5
		 RETURNING id, company, job_url, job_title, note, created_at`,
		userID, req.Company, req.JobURL, req.JobTitle, req.Note,
	).Scan(&b.ID, &b.Company, &b.JobURL, &b.JobTitle, &b.Note, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create bookmark: %w", err)
	}
	return &b, nil
}

// ListBookmarks returns a user's bookmarks, newest first.
func (db *DB) ListBookmarks(ctx context.Context, userID uuid.UUID) ([]types.Bookmark, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, company, job_url, job_title, note, created_at
		 FROM bookmarks WHERE user_id = $1 ORDER BY created_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := make([]types.Bookmark, 0)
	for rows.Next() {
		var b types.Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.Company, &b.JobURL, &b.JobTitle, &b.Note, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

// DeleteBookmark removes a bookmark owned by userID. It reports whether a row was removed.
func (db *DB) DeleteBookmark(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM bookmarks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
