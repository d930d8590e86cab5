package crud

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Fetcher loads one reference list.
type Fetcher func(ctx context.Context) ([]Option, error)

// Prefetcher loads every reference list a modal needs at once. A failing
// list comes back empty and is logged; it never fails the others.
type Prefetcher struct {
	fetchers map[string]Fetcher
	log      *logrus.Logger
}

func NewPrefetcher(fetchers map[string]Fetcher, log *logrus.Logger) *Prefetcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Prefetcher{fetchers: fetchers, log: log}
}

// Run returns once every fetch has settled.
func (p *Prefetcher) Run(ctx context.Context) *References {
	refs := NewReferences()
	var g errgroup.Group
	for name, fetch := range p.fetchers {
		g.Go(func() error {
			opts, err := fetch(ctx)
			if err != nil {
				p.log.WithError(err).WithField("reference", name).Warn("reference data unavailable, using empty list")
				opts = []Option{}
			}
			refs.Set(name, opts)
			return nil
		})
	}
	_ = g.Wait()
	return refs
}
