package sources

import (
	"context"
	"path/filepath"

	"tube-adventures/internal/filesystem"
	"tube-adventures/internal/mediatypes"
	"tube-adventures/internal/playback"
	"tube-adventures/internal/videoid"
)

// DirectoryResolver finds local video files named "<label> <id><ext>".
type DirectoryResolver struct {
	dir   string
	retry filesystem.RetryConfig
}

// NewDirectoryResolver returns a resolver over the videos in dir.
func NewDirectoryResolver(dir string) *DirectoryResolver {
	return &DirectoryResolver{dir: dir, retry: filesystem.DefaultRetryConfig()}
}

// Name implements Resolver.
func (d *DirectoryResolver) Name() string { return "directory" }

// Resolve implements Resolver. Browser-playable containers are preferred
// over others carrying the same ID.
func (d *DirectoryResolver) Resolve(_ context.Context, videoID string) (playback.Source, error) {
	var fallback string
	for _, path := range filesystem.ListDir(d.dir, d.retry) {
		ext := filepath.Ext(path)
		if !mediatypes.IsVideo(ext) {
			continue
		}
		id, ok := videoid.FromFilename(path, ext)
		if !ok || id != videoID {
			continue
		}
		if mediatypes.IsBrowserPlayable(ext) {
			return playback.Source{VideoID: videoID, URI: path, Local: true}, nil
		}
		if fallback == "" {
			fallback = path
		}
	}
	if fallback != "" {
		return playback.Source{VideoID: videoID, URI: fallback, Local: true}, nil
	}
	return playback.Source{}, ErrNotFound
}
