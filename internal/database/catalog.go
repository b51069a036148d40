package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const fileColumns = `id, path, name, video_id, status, error_kind, error_message, annotations,
	gameplay, notes, external_links, single_region, duplicate_ids, inverted_windows,
	bad_links, size, mod_time, indexed_at`

// UpsertFile inserts or replaces the row for file.Path and its outgoing links
// within a transaction. run tags the row as seen by the current index run.
func (d *Database) UpsertFile(tx *sql.Tx, file *AnnotationFile, links []Link, run int64) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("upsert_file", start, err) }()

	dups, err := json.Marshal(nonNil(file.DuplicateIDs))
	if err != nil {
		return err
	}
	inverted, err := json.Marshal(nonNil(file.InvertedWindows))
	if err != nil {
		return err
	}

	// The transaction controls the operation's lifecycle.
	ctx := context.Background()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO annotation_files (path, name, video_id, status, error_kind, error_message, annotations,
		gameplay, notes, external_links, single_region, duplicate_ids, inverted_windows, bad_links,
		size, mod_time, index_run, indexed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, strftime('%s', 'now'))
	ON CONFLICT(path) DO UPDATE SET
		name = excluded.name,
		video_id = excluded.video_id,
		status = excluded.status,
		error_kind = excluded.error_kind,
		error_message = excluded.error_message,
		annotations = excluded.annotations,
		gameplay = excluded.gameplay,
		notes = excluded.notes,
		external_links = excluded.external_links,
		single_region = excluded.single_region,
		duplicate_ids = excluded.duplicate_ids,
		inverted_windows = excluded.inverted_windows,
		bad_links = excluded.bad_links,
		size = excluded.size,
		mod_time = excluded.mod_time,
		index_run = excluded.index_run,
		indexed_at = excluded.indexed_at
	`,
		file.Path, file.Name, file.VideoID, string(file.Status), file.ErrorKind, file.ErrorMessage,
		file.Annotations, file.Gameplay, file.Notes, file.ExternalLinks, file.SingleRegion,
		string(dups), string(inverted), file.BadLinks, file.Size, file.ModTime.Unix(), run,
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", file.Path, err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM links WHERE from_path = ?", file.Path); err != nil {
		return fmt.Errorf("clear links of %s: %w", file.Path, err)
	}
	for _, l := range links {
		_, err = tx.ExecContext(ctx, `
		INSERT INTO links (from_path, from_video_id, annotation_id, to_video_id, click_url)
		VALUES (?, ?, ?, ?, ?)
		`, file.Path, file.VideoID, l.AnnotationID, l.ToVideoID, l.ClickURL)
		if err != nil {
			return fmt.Errorf("insert link %s -> %s: %w", file.VideoID, l.ToVideoID, err)
		}
	}
	return nil
}

// DeleteMissingFiles removes files, and their links, that were not seen by
// the index run tagged run. Must be called within a transaction.
func (d *Database) DeleteMissingFiles(tx *sql.Tx, run int64) (int64, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("delete_missing_files", start, err) }()

	ctx := context.Background()

	_, err = tx.ExecContext(ctx, `
	DELETE FROM links WHERE from_path IN (SELECT path FROM annotation_files WHERE index_run != ?)
	`, run)
	if err != nil {
		return 0, err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM annotation_files WHERE index_run != ?", run)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// GetFile retrieves a single file by path. It returns sql.ErrNoRows when the
// path is not in the catalog.
func (d *Database) GetFile(ctx context.Context, path string) (*AnnotationFile, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_file", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := d.db.QueryRowContext(ctx, "SELECT "+fileColumns+" FROM annotation_files WHERE path = ?", path)
	f, err := scanFile(row)
	return f, err
}

// GetFileByVideoID retrieves the file for a video ID. When several files
// carry the same ID, the one with the smallest path wins.
func (d *Database) GetFileByVideoID(ctx context.Context, videoID string) (*AnnotationFile, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_file_by_video_id", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := d.db.QueryRowContext(ctx,
		"SELECT "+fileColumns+" FROM annotation_files WHERE video_id = ? ORDER BY path LIMIT 1", videoID)
	f, err := scanFile(row)
	return f, err
}

// ListFiles returns catalog rows ordered by name.
func (d *Database) ListFiles(ctx context.Context, opts ListOptions) ([]AnnotationFile, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_files", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := "SELECT " + fileColumns + " FROM annotation_files"
	var args []interface{}
	if opts.Status != "" {
		query += " WHERE status = ?"
		args = append(args, string(opts.Status))
	}
	query += " ORDER BY name COLLATE NOCASE, path"
	if opts.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := []AnnotationFile{}
	for rows.Next() {
		var f *AnnotationFile
		f, err = scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	err = rows.Err()
	return files, err
}

// ListLinks returns every gameplay link. When fromVideoID is non-empty only
// the links leaving that video are returned.
func (d *Database) ListLinks(ctx context.Context, fromVideoID string) ([]Link, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_links", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
	SELECT l.from_path, l.from_video_id, l.annotation_id, l.to_video_id, l.click_url,
		EXISTS (SELECT 1 FROM annotation_files f WHERE f.video_id = l.to_video_id AND f.status = 'valid')
	FROM links l`
	var args []interface{}
	if fromVideoID != "" {
		query += " WHERE l.from_video_id = ?"
		args = append(args, fromVideoID)
	}
	query += " ORDER BY l.from_path, l.id"

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []Link{}
	for rows.Next() {
		var l Link
		if err = rows.Scan(&l.FromPath, &l.FromVideoID, &l.AnnotationID, &l.ToVideoID, &l.ClickURL, &l.Resolved); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	err = rows.Err()
	return links, err
}

// ComputeStats calculates catalog statistics from the tables.
func (d *Database) ComputeStats(ctx context.Context) (IndexStats, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_stats", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s IndexStats
	err = d.db.QueryRowContext(ctx, `
	SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN status = 'valid' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(annotations), 0),
		COALESCE(SUM(json_array_length(duplicate_ids)), 0)
	FROM annotation_files
	`).Scan(&s.TotalFiles, &s.ValidFiles, &s.TotalAnnotations, &s.DuplicateIDs)
	if err != nil {
		return s, err
	}
	s.InvalidFiles = s.TotalFiles - s.ValidFiles

	err = d.db.QueryRowContext(ctx, `
	SELECT COALESCE(SUM(resolved), 0), COALESCE(SUM(1 - resolved), 0) FROM (
		SELECT EXISTS (SELECT 1 FROM annotation_files f WHERE f.video_id = l.to_video_id AND f.status = 'valid') AS resolved
		FROM links l
	)
	`).Scan(&s.ResolvedLinks, &s.DanglingLinks)
	if err != nil {
		return s, err
	}

	err = d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM video_sources").Scan(&s.Sources)
	return s, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFile(row rowScanner) (*AnnotationFile, error) {
	var (
		f                  AnnotationFile
		status             string
		dups, inverted     string
		modTime, indexedAt int64
	)
	err := row.Scan(
		&f.ID, &f.Path, &f.Name, &f.VideoID, &status, &f.ErrorKind, &f.ErrorMessage, &f.Annotations,
		&f.Gameplay, &f.Notes, &f.ExternalLinks, &f.SingleRegion, &dups, &inverted,
		&f.BadLinks, &f.Size, &modTime, &indexedAt,
	)
	if err != nil {
		return nil, err
	}
	f.Status = FileStatus(status)
	f.ModTime = time.Unix(modTime, 0)
	f.IndexedAt = time.Unix(indexedAt, 0)
	if err := json.Unmarshal([]byte(dups), &f.DuplicateIDs); err != nil {
		return nil, fmt.Errorf("decode duplicate_ids of %s: %w", f.Path, err)
	}
	if err := json.Unmarshal([]byte(inverted), &f.InvertedWindows); err != nil {
		return nil, fmt.Errorf("decode inverted_windows of %s: %w", f.Path, err)
	}
	return &f, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
