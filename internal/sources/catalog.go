package sources

import (
	"context"
	"database/sql"
	"errors"

	"tube-adventures/internal/database"
	"tube-adventures/internal/playback"
)

// CatalogResolver serves sources recorded in the sqlite catalog.
type CatalogResolver struct {
	db *database.Database
}

// NewCatalogResolver returns a resolver backed by db.
func NewCatalogResolver(db *database.Database) *CatalogResolver {
	return &CatalogResolver{db: db}
}

// Name implements Resolver.
func (c *CatalogResolver) Name() string { return "catalog" }

// Resolve implements Resolver. Local entries whose file has since
// disappeared are treated as unknown.
func (c *CatalogResolver) Resolve(ctx context.Context, videoID string) (playback.Source, error) {
	row, err := c.db.GetSource(ctx, videoID)
	if errors.Is(err, sql.ErrNoRows) {
		return playback.Source{}, ErrNotFound
	}
	if err != nil {
		return playback.Source{}, err
	}
	if row.Local && !fileExists(row.URI) {
		log.Debug("cached source of %s is gone: %s", videoID, row.URI)
		return playback.Source{}, ErrNotFound
	}
	return playback.Source{VideoID: row.VideoID, URI: row.URI, Local: row.Local}, nil
}

// Store records src as found by the resolver named origin.
func (c *CatalogResolver) Store(ctx context.Context, src playback.Source, origin string) error {
	return c.db.UpsertSource(ctx, database.VideoSource{
		VideoID: src.VideoID,
		URI:     src.URI,
		Local:   src.Local,
		Origin:  origin,
	})
}
