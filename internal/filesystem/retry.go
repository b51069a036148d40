package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"tube-adventures/internal/logging"
)

var log = logging.For("filesystem")

// RetryConfig configures retry behavior for filesystem operations
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns sensible defaults for NFS retry behavior
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

// isNFSStaleError checks if an error is an NFS stale file handle error
func isNFSStaleError(err error) bool {
	if err == nil {
		return false
	}

	// ESTALE is errno 116 on Linux
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.ESTALE
	}

	return false
}

// withRetry runs fn until it succeeds, fails with a non-ESTALE error, or the
// retry budget is spent. op names the operation for logs and metrics.
func withRetry[T any](op, path string, config RetryConfig, fn func() (T, error)) (T, error) {
	start := time.Now()
	backoff := config.InitialBackoff
	var lastErr error
	var zero T

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		v, err := fn()
		if err == nil {
			if attempt > 0 {
				log.Info("%s succeeded on retry %d for %s", op, attempt, path)
				observeRetrySuccess(op)
			}
			observeOperation(op, time.Since(start), nil)
			return v, nil
		}

		lastErr = err
		if !isNFSStaleError(err) {
			observeOperation(op, time.Since(start), err)
			return zero, err
		}

		observeStaleError(op)

		// Don't sleep after the last attempt
		if attempt < config.MaxRetries {
			observeRetryAttempt(op)
			log.Debug("%s stale file handle for %s, retrying in %v (attempt %d/%d)",
				op, path, backoff, attempt+1, config.MaxRetries)
			time.Sleep(backoff)

			backoff *= 2
			if backoff > config.MaxBackoff {
				backoff = config.MaxBackoff
			}
		}
	}

	log.Warn("%s failed after %d retries for %s: %v", op, config.MaxRetries, path, lastErr)
	observeRetryFailure(op)
	observeOperation(op, time.Since(start), lastErr)
	return zero, lastErr
}

// StatWithRetry performs os.Stat with retry logic for NFS stale file handle errors
func StatWithRetry(path string, config RetryConfig) (os.FileInfo, error) {
	return withRetry("stat", path, config, func() (os.FileInfo, error) {
		return os.Stat(path)
	})
}

// ReadFileWithRetry reads a whole file. A missing file is reported with an
// error satisfying errors.Is(err, fs.ErrNotExist); every other failure is a
// read error.
func ReadFileWithRetry(path string, config RetryConfig) ([]byte, error) {
	return withRetry("read", path, config, func() ([]byte, error) {
		return os.ReadFile(path)
	})
}

// OpenWithRetry opens a file for reading, retrying stale NFS handles.
func OpenWithRetry(path string, config RetryConfig) (*os.File, error) {
	return withRetry("open", path, config, func() (*os.File, error) {
		return os.Open(path)
	})
}

// ReadDirWithRetry performs os.ReadDir with retry logic for NFS stale file handle errors
func ReadDirWithRetry(dir string, config RetryConfig) ([]os.DirEntry, error) {
	return withRetry("readdir", dir, config, func() ([]os.DirEntry, error) {
		return os.ReadDir(dir)
	})
}

// ListDir returns the full paths of the regular files in dir, sorted by
// name. Any filesystem error yields an empty result.
func ListDir(dir string, config RetryConfig) []string {
	entries, err := ReadDirWithRetry(dir, config)
	if err != nil {
		log.Warn("cannot list %s: %v", dir, err)
		return nil
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths
}
