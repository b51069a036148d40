package database

import "time"

// FileStatus is the decode outcome recorded for an annotation file.
type FileStatus string

const (
	FileStatusValid   FileStatus = "valid"
	FileStatusInvalid FileStatus = "invalid"
)

// AnnotationFile is the catalog row for one annotation file.
type AnnotationFile struct {
	ID              int64      `json:"id"`
	Path            string     `json:"path"`
	Name            string     `json:"name"`
	VideoID         string     `json:"videoId,omitempty"`
	Status          FileStatus `json:"status"`
	ErrorKind       string     `json:"errorKind,omitempty"`
	ErrorMessage    string     `json:"errorMessage,omitempty"`
	Annotations     int        `json:"annotations"`
	Gameplay        int        `json:"gameplay"`
	Notes           int        `json:"notes"`
	ExternalLinks   int        `json:"externalLinks"`
	SingleRegion    int        `json:"singleRegion"`
	DuplicateIDs    []string   `json:"duplicateIds,omitempty"`
	InvertedWindows []string   `json:"invertedWindows,omitempty"`
	BadLinks        int        `json:"badLinks"`
	Size            int64      `json:"size"`
	ModTime         time.Time  `json:"modTime"`
	IndexedAt       time.Time  `json:"indexedAt"`
}

// Link is a gameplay edge from one video to another. Resolved is set when
// the target video has a valid annotation file in the catalog.
type Link struct {
	FromPath     string `json:"fromPath"`
	FromVideoID  string `json:"fromVideoId"`
	AnnotationID string `json:"annotationId"`
	ToVideoID    string `json:"toVideoId"`
	ClickURL     string `json:"clickUrl"`
	Resolved     bool   `json:"resolved"`
}

// VideoSource maps a video ID to a playable URI.
type VideoSource struct {
	VideoID   string    `json:"videoId"`
	URI       string    `json:"uri"`
	Local     bool      `json:"local"`
	Origin    string    `json:"origin"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListOptions filters ListFiles.
type ListOptions struct {
	Status FileStatus
	Limit  int
	Offset int
}

// IndexStats summarizes the catalog.
type IndexStats struct {
	TotalFiles       int       `json:"totalFiles"`
	ValidFiles       int       `json:"validFiles"`
	InvalidFiles     int       `json:"invalidFiles"`
	TotalAnnotations int       `json:"totalAnnotations"`
	ResolvedLinks    int       `json:"resolvedLinks"`
	DanglingLinks    int       `json:"danglingLinks"`
	DuplicateIDs     int       `json:"duplicateIds"`
	Sources          int       `json:"sources"`
	LastIndexed      time.Time `json:"lastIndexed"`
}
