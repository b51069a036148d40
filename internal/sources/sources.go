package sources

import (
	"context"
	"errors"
	"fmt"

	"tube-adventures/internal/logging"
	"tube-adventures/internal/metrics"
	"tube-adventures/internal/playback"
)

var log = logging.For("sources")

// ErrNotFound is returned when a resolver knows no source for a video ID.
var ErrNotFound = errors.New("no source for video")

// Resolver maps a video ID to something a playback host can open.
type Resolver interface {
	Resolve(ctx context.Context, videoID string) (playback.Source, error)
	// Name labels the resolver in logs and metrics.
	Name() string
}

// Chain tries resolvers in order and returns the first source found.
type Chain struct {
	resolvers []Resolver
	cache     *CatalogResolver
}

// NewChain builds a chain over resolvers. Nil entries are skipped.
func NewChain(resolvers ...Resolver) *Chain {
	c := &Chain{}
	for _, r := range resolvers {
		if r != nil {
			c.resolvers = append(c.resolvers, r)
		}
	}
	return c
}

// WithCache records every source found by a resolver other than the
// catalog itself into the catalog.
func (c *Chain) WithCache(cache *CatalogResolver) *Chain {
	c.cache = cache
	return c
}

// Name implements Resolver.
func (c *Chain) Name() string { return "chain" }

// Resolvers returns the names of the chained resolvers in order.
func (c *Chain) Resolvers() []string {
	names := make([]string, len(c.resolvers))
	for i, r := range c.resolvers {
		names[i] = r.Name()
	}
	return names
}

// Resolve implements Resolver. Errors other than ErrNotFound are logged and
// the next resolver is tried; the chain fails with ErrNotFound joined with
// those errors.
func (c *Chain) Resolve(ctx context.Context, videoID string) (playback.Source, error) {
	var errs []error
	for _, r := range c.resolvers {
		if err := ctx.Err(); err != nil {
			return playback.Source{}, err
		}

		src, err := r.Resolve(ctx, videoID)
		switch {
		case err == nil:
			metrics.SourceResolutionsTotal.WithLabelValues(r.Name(), "found").Inc()
			log.Debug("%s resolved %s to %s", r.Name(), videoID, src.URI)
			c.remember(ctx, r, src)
			return src, nil
		case errors.Is(err, ErrNotFound):
			metrics.SourceResolutionsTotal.WithLabelValues(r.Name(), "not_found").Inc()
		default:
			metrics.SourceResolutionsTotal.WithLabelValues(r.Name(), "error").Inc()
			log.Warn("%s failed to resolve %s: %v", r.Name(), videoID, err)
			errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
		}
	}
	return playback.Source{}, errors.Join(append([]error{fmt.Errorf("%w %s", ErrNotFound, videoID)}, errs...)...)
}

func (c *Chain) remember(ctx context.Context, r Resolver, src playback.Source) {
	if c.cache == nil || r == Resolver(c.cache) {
		return
	}
	if err := c.cache.Store(ctx, src, r.Name()); err != nil {
		log.Warn("failed to cache source of %s: %v", src.VideoID, err)
	}
}
