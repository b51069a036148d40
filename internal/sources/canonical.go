package sources

import (
	"context"

	"tube-adventures/internal/filesystem"
	"tube-adventures/internal/playback"
	"tube-adventures/internal/videoid"
)

// CanonicalResolver turns any well-formed ID into its public watch URL.
// It is the last resort of a chain.
type CanonicalResolver struct{}

// Name implements Resolver.
func (CanonicalResolver) Name() string { return "canonical" }

// Resolve implements Resolver.
func (CanonicalResolver) Resolve(_ context.Context, videoID string) (playback.Source, error) {
	uri, ok := videoid.CanonicalURL(videoID)
	if !ok {
		return playback.Source{}, ErrNotFound
	}
	return playback.Source{VideoID: videoID, URI: uri}, nil
}

func fileExists(path string) bool {
	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())
	return err == nil && info.Mode().IsRegular()
}
