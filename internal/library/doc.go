/*
Package library manages the directory of annotation files.

[Locator] resolves a video ID to its annotation file by scanning the
directory for a name ending in " <id><ext>". [Inspect] decodes one file and
audits it (duplicate IDs, inverted windows, click URLs that name no video),
and [Scan] does that for the whole directory in parallel.

[Indexer] writes the scan into the sqlite catalog on start, on an interval
and on demand. [Watcher] turns fsnotify events into debounced re-index
requests.
*/
package library
