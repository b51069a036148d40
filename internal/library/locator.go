package library

import (
	"path/filepath"

	"tube-adventures/internal/filesystem"
	"tube-adventures/internal/logging"
	"tube-adventures/internal/videoid"
)

var log = logging.For("library")

// Locator finds annotation files in a single directory by the video ID
// embedded in their names.
type Locator struct {
	dir   string
	ext   string
	retry filesystem.RetryConfig
}

// NewLocator returns a locator over dir for files ending in ext (".xml").
func NewLocator(dir, ext string) *Locator {
	return &Locator{
		dir:   dir,
		ext:   ext,
		retry: filesystem.DefaultRetryConfig(),
	}
}

// Dir returns the directory searched by the locator.
func (l *Locator) Dir() string { return l.dir }

// Ext returns the annotation file extension.
func (l *Locator) Ext() string { return l.ext }

// Locate returns the first file, in name order, whose embedded ID equals
// videoID. An unreadable directory is the same as an empty one.
func (l *Locator) Locate(videoID string) (string, bool) {
	for _, path := range filesystem.ListDir(l.dir, l.retry) {
		if id, ok := videoid.FromFilename(path, l.ext); ok && id == videoID {
			return path, true
		}
	}
	log.Debug("no annotation file for %s in %s", videoID, l.dir)
	return "", false
}

// Files lists the annotation files in the directory in name order.
func (l *Locator) Files() []string {
	var files []string
	for _, path := range filesystem.ListDir(l.dir, l.retry) {
		if filepath.Ext(path) == l.ext {
			files = append(files, path)
		}
	}
	return files
}
