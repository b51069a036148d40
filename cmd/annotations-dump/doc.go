// Command annotations-dump prints and checks annotation files.
//
// Usage:
//
//	annotations-dump <file>...
//	annotations-dump -audit [-ext .xml] [-workers N] <dir>...
//
// Without flags every annotation of each file is printed with its ID, type,
// visibility window, quoted text and click URL.
//
// With -audit every file of each directory is decoded and checked: the file
// must parse, its name must end in a video ID, annotation IDs must be
// unique, windows must not end before they start and gameplay links must
// name a video. Video IDs claimed by more than one file are reported too.
//
// Exit status is 0 when nothing was flagged, 1 when a file failed a check
// and 2 on bad usage.
package main
