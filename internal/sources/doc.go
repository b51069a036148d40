// Package sources resolves video IDs to playable sources.
//
// A [Chain] tries, in order, a directory of local video files, a YAML
// source map, the sqlite catalog and finally the public watch URL. The
// first resolver that knows the ID wins; sources found outside the catalog
// can be written back to it with [Chain.WithCache].
package sources
