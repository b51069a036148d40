// Package database provides the SQLite catalog for tube-adventures.
//
// It stores:
//   - one row per annotation file with its decode status and audit counts
//   - the gameplay links between videos
//   - the known playable source for each video ID
//   - small key/value metadata such as the last index run
//
// The database uses WAL mode for concurrent readers and creates its schema
// on open.
package database
