/*
Package filesystem provides the file reader and directory lister used by the
annotation decoder and the library, with retry logic for NFS stale file
handle errors.

# Purpose

Annotation corpora are often kept on network shares. This package wraps
os.Stat, os.ReadFile and os.ReadDir with retry logic for ESTALE (errno 116)
and exposes ListDir, a directory lister that never fails: file-system errors
are logged and turned into an empty result, which callers treat as
"nothing found".

# Retry Behavior

  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms, doubled per attempt
  - MaxBackoff: 500ms

Only ESTALE triggers retries. All other errors fail immediately. A missing
file keeps its fs.ErrNotExist identity so callers can tell "not found" from
"cannot read".

# Metrics

Set an Observer with SetObserver (the metrics package provides one) to record
operation durations, errors and retry counts.
*/
package filesystem
