// Package videoid derives the 11-character video ID that names both a video
// and its annotation file, from click URLs and from annotation filenames.
// A missing ID is a normal negative result, never an error.
package videoid
