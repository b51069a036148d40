package database

import (
	"context"
	"time"
)

// UpsertSource records the playable URI for a video ID, replacing any
// previous entry.
func (d *Database) UpsertSource(ctx context.Context, src VideoSource) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("upsert_source", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = d.db.ExecContext(ctx, `
	INSERT INTO video_sources (video_id, uri, local, origin, updated_at)
	VALUES (?, ?, ?, ?, strftime('%s', 'now'))
	ON CONFLICT(video_id) DO UPDATE SET
		uri = excluded.uri,
		local = excluded.local,
		origin = excluded.origin,
		updated_at = excluded.updated_at
	`, src.VideoID, src.URI, src.Local, src.Origin)
	return err
}

// GetSource returns the source for a video ID, or sql.ErrNoRows.
func (d *Database) GetSource(ctx context.Context, videoID string) (*VideoSource, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_source", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		src       VideoSource
		updatedAt int64
	)
	err = d.db.QueryRowContext(ctx,
		"SELECT video_id, uri, local, origin, updated_at FROM video_sources WHERE video_id = ?", videoID,
	).Scan(&src.VideoID, &src.URI, &src.Local, &src.Origin, &updatedAt)
	if err != nil {
		return nil, err
	}
	src.UpdatedAt = time.Unix(updatedAt, 0)
	return &src, nil
}

// ListSources returns every known source ordered by video ID.
func (d *Database) ListSources(ctx context.Context) ([]VideoSource, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_sources", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx,
		"SELECT video_id, uri, local, origin, updated_at FROM video_sources ORDER BY video_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sources := []VideoSource{}
	for rows.Next() {
		var (
			src       VideoSource
			updatedAt int64
		)
		if err = rows.Scan(&src.VideoID, &src.URI, &src.Local, &src.Origin, &updatedAt); err != nil {
			return nil, err
		}
		src.UpdatedAt = time.Unix(updatedAt, 0)
		sources = append(sources, src)
	}
	err = rows.Err()
	return sources, err
}
