package videoid

import (
	"path/filepath"
	"strings"
)

// Length is the number of characters in a video ID.
const Length = 11

const watchURLBase = "https://www.youtube.com/watch?v="

// Markers precede the ID in a watch URL, tried in this order.
var markers = []string{"watch?v=", "&v="}

// FromURL extracts the video ID from a watch URL. The URL is not parsed:
// each marker is searched for in turn and the first occurrence followed by
// Length characters without a space wins.
func FromURL(url string) (string, bool) {
	for _, marker := range markers {
		rest := url
		for {
			i := strings.Index(rest, marker)
			if i < 0 {
				break
			}
			rest = rest[i+len(marker):]
			if len(rest) >= Length && !strings.Contains(rest[:Length], " ") {
				return rest[:Length], true
			}
		}
	}
	return "", false
}

// FromFilename extracts the video ID from an annotation file named
// "<label> <id><ext>". The extension comparison is case-sensitive.
func FromFilename(path, ext string) (string, bool) {
	name := filepath.Base(path)
	if filepath.Ext(name) != ext {
		return "", false
	}

	stem := strings.TrimSuffix(name, ext)
	if len(stem) <= Length {
		return "", false
	}

	space := strings.LastIndexByte(stem, ' ')
	if space < 0 || space+1+Length != len(stem) {
		return "", false
	}
	return stem[space+1:], true
}

// CanonicalURL returns the watch URL for id.
func CanonicalURL(id string) (string, bool) {
	if !Valid(id) {
		return "", false
	}
	return watchURLBase + id, true
}

// Valid reports whether id has the length of a video ID.
func Valid(id string) bool {
	return len(id) == Length
}
