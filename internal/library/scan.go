package library

import (
	"context"

	"golang.org/x/sync/errgroup"

	"tube-adventures/internal/workers"
)

// Scan inspects every annotation file of the locator's directory in
// parallel. Reports come back in file name order. limit caps the worker
// count; zero picks one from the CPU count.
func Scan(ctx context.Context, loc *Locator, limit int) ([]Report, error) {
	files := loc.Files()
	reports := make([]Report, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers.ForMixed(limit))

	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = Inspect(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}
