package mediatypes

import "strings"

// FileType represents the role of a file in an adventure library.
type FileType string

const (
	// FileTypeAnnotation represents an annotation XML file.
	FileTypeAnnotation FileType = "annotation"
	// FileTypeVideo represents a playable video file.
	FileTypeVideo FileType = "video"
	// FileTypeOther represents an unknown or unsupported file type.
	FileTypeOther FileType = "other"
)

// AnnotationExtension is the default extension of annotation files.
const AnnotationExtension = ".xml"

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
	".ts":   true,
	".ogv":  true,
}

// BrowserPlayable lists the containers a browser host can play without
// transcoding.
var BrowserPlayable = map[string]bool{
	".mp4":  true,
	".webm": true,
	".m4v":  true,
	".ogv":  true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	".xml": "application/xml",

	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
	".ts":   "video/mp2t",
	".ogv":  "video/ogg",
}

// GetFileType returns the FileType for a given file extension. Matching is
// case-insensitive; the extension includes the leading dot (e.g., ".mp4").
func GetFileType(ext string) FileType {
	ext = strings.ToLower(ext)
	if ext == AnnotationExtension {
		return FileTypeAnnotation
	}
	if VideoExtensions[ext] {
		return FileTypeVideo
	}
	return FileTypeOther
}

// GetMimeType returns the MIME type for a given file extension.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[strings.ToLower(ext)]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsVideo returns true if the extension is a supported video format.
func IsVideo(ext string) bool {
	return GetFileType(ext) == FileTypeVideo
}

// IsBrowserPlayable returns true if a browser can play the container natively.
func IsBrowserPlayable(ext string) bool {
	return BrowserPlayable[strings.ToLower(ext)]
}
