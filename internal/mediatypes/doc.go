// Package mediatypes classifies files of an adventure library by extension.
//
// It is dependency-free so any package can import it without creating
// import cycles.
//
//	mediatypes.GetFileType(".mp4")      // FileTypeVideo
//	mediatypes.GetFileType(".xml")      // FileTypeAnnotation
//	mediatypes.GetMimeType(".webm")     // "video/webm"
//	mediatypes.IsBrowserPlayable(".mkv") // false
package mediatypes
