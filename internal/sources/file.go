package sources

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tube-adventures/internal/filesystem"
	"tube-adventures/internal/playback"
	"tube-adventures/internal/videoid"
)

// SourceFile is the YAML document read by FileResolver:
//
//	sources:
//	  BckqqsJiDUI: https://cdn.example.com/start.mp4
//	  yVebIlvkOnU: videos/ta01.webm
//
// Relative paths are resolved against the directory of the file.
type SourceFile struct {
	Sources map[string]string `yaml:"sources"`
}

// FileResolver serves sources from a YAML map loaded once.
type FileResolver struct {
	path    string
	sources map[string]playback.Source
}

// LoadFile reads and validates a source map.
func LoadFile(path string) (*FileResolver, error) {
	data, err := filesystem.ReadFileWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to read source map: %w", err)
	}
	return parseFile(path, data)
}

func parseFile(path string, data []byte) (*FileResolver, error) {
	var doc SourceFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse source map %s: %w", path, err)
	}

	base := filepath.Dir(path)
	f := &FileResolver{path: path, sources: make(map[string]playback.Source, len(doc.Sources))}
	for id, uri := range doc.Sources {
		if !videoid.Valid(id) {
			return nil, fmt.Errorf("source map %s: %q is not a video ID", path, id)
		}
		if uri == "" {
			return nil, fmt.Errorf("source map %s: empty source for %s", path, id)
		}
		src := playback.Source{VideoID: id, URI: uri}
		if u, err := url.Parse(uri); err != nil || u.Scheme == "" {
			src.Local = true
			if !filepath.IsAbs(uri) {
				src.URI = filepath.Join(base, uri)
			}
		}
		f.sources[id] = src
	}

	log.Info("Loaded %d video sources from %s", len(f.sources), path)
	return f, nil
}

// Name implements Resolver.
func (f *FileResolver) Name() string { return "file" }

// Len returns the number of entries in the map.
func (f *FileResolver) Len() int { return len(f.sources) }

// Resolve implements Resolver.
func (f *FileResolver) Resolve(_ context.Context, videoID string) (playback.Source, error) {
	if src, ok := f.sources[videoID]; ok {
		return src, nil
	}
	return playback.Source{}, ErrNotFound
}
