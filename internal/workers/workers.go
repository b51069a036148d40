package workers

import (
	"os"
	"runtime"
	"strconv"
)

// EnvOverride names the environment variable that pins the worker count.
const EnvOverride = "ANNOTATION_WORKERS"

// Count returns the number of workers for a pool sized at multiplier
// workers per available CPU, capped at limit (0 means no cap). GOMAXPROCS
// is used rather than NumCPU so container CPU limits are respected.
//
// A positive integer in ANNOTATION_WORKERS overrides the calculation but is
// still capped at limit.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv(EnvOverride); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	workers := int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}
	return workers
}

// ForCPU returns one worker per CPU, for pure decoding of in-memory data.
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForMixed returns 1.5 workers per CPU, for read-then-decode work such as
// indexing an annotation directory.
func ForMixed(limit int) int {
	return Count(1.5, limit)
}
