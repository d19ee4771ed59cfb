package migrate

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/adfharrison1/go-docmigrate/pkg/domain"
)

// Migrate brings every document in the batch up to the current schema
// version, preserving the caller's order. Nil entries stand for "no document
// at this position" and pass through unchanged. When WithWriteBack was
// supplied, documents that actually changed are persisted in a single bulk
// write before the batch is returned.
//
// Any revision error, version-mismatch, embedded-schema error or store error
// aborts the whole call; the batched write happens strictly last, so a failed
// call leaves no partial store state behind.
func (s *Schema) Migrate(ctx context.Context, docs []domain.Document, opts ...RunOption) ([]domain.Document, error) {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validateProjection(cfg.projection); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return docs, nil
	}

	b := s.bucketize(docs, cfg.projection)

	// Embedded fields migrate against the values extracted at bucketing
	// time, independently of the top-level revision chain, so both run
	// concurrently. Results are spliced only after every branch succeeded.
	var (
		final    *bucket
		mu       sync.Mutex
		nestedUp = make(map[string][]domain.Document, len(b.embedded))
	)
	g, gctx := errgroup.WithContext(ctx)
	for field, values := range b.embedded {
		g.Go(func() error {
			out, err := s.embedded[field].Migrate(gctx, values)
			if err != nil {
				return fmt.Errorf("embedded field %q: %w", field, err)
			}
			mu.Lock()
			nestedUp[field] = out
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		fb, err := s.drive(gctx, b)
		if err != nil {
			return err
		}
		final = fb
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// final holds every document sorted by original index, so slot i of the
	// bucket is input position i.
	for field, out := range nestedUp {
		for i, doc := range final.docs {
			if doc == nil || out[i] == nil {
				continue
			}
			doc[field] = out[i]
		}
	}

	if cfg.store != nil {
		if err := s.writeBack(final, cfg); err != nil {
			return nil, err
		}
	}
	return final.docs, nil
}

// MigrateOne migrates a single document. A nil document passes through
// unchanged, at every recursion level.
func (s *Schema) MigrateOne(ctx context.Context, doc domain.Document, opts ...RunOption) (domain.Document, error) {
	out, err := s.Migrate(ctx, []domain.Document{doc}, opts...)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}
