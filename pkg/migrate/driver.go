package migrate

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/adfharrison1/go-docmigrate/pkg/domain"
)

// drive walks the buckets from the lowest version present up to the current
// schema version, applying the due revision to each bucket and merging its
// output forward. It returns the single bucket holding every document, in
// original input order, at the current version.
func (s *Schema) drive(ctx context.Context, b *bucketed) (*bucket, error) {
	current := s.SchemaVersion()
	if b.byVersion[current] == nil {
		b.byVersion[current] = &bucket{}
	}
	for v := b.minVersion; v < current; v++ {
		bk := b.byVersion[v]
		if bk == nil || len(bk.docs) == 0 {
			continue
		}
		out, err := s.applyRevision(ctx, v, bk.docs)
		if err != nil {
			return nil, err
		}
		if err := checkVersions(v, out); err != nil {
			return nil, err
		}
		next := b.byVersion[v+1]
		if next == nil {
			next = &bucket{}
		}
		b.byVersion[v+1] = mergeBuckets(&bucket{docs: out, meta: bk.meta}, next)
		delete(b.byVersion, v)
	}
	return b.byVersion[current], nil
}

// applyRevision runs revision v over a bucket's documents. A batched revision
// receives the whole slice in one call; a per-document revision is applied to
// every document concurrently, since sibling documents have no ordering
// dependency on each other.
func (s *Schema) applyRevision(ctx context.Context, v int, docs []domain.Document) ([]domain.Document, error) {
	rev := s.revisions[v]
	if rev.batched() {
		out, err := rev.updateMany(ctx, docs)
		if err != nil {
			return nil, fmt.Errorf("revision %d: %w", v, err)
		}
		if len(out) != len(docs) {
			return nil, fmt.Errorf("revision %d: returned %d documents for %d inputs", v, len(out), len(docs))
		}
		return out, nil
	}

	out := make([]domain.Document, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	for i, doc := range docs {
		g.Go(func() error {
			res, err := rev.update(gctx, doc)
			if err != nil {
				return fmt.Errorf("revision %d: %w", v, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// checkVersions validates the revision postcondition: every document produced
// by revision v must be tagged v+1. Anything else means the revision is
// broken, and the merge loop below could not be trusted to terminate.
func checkVersions(v int, docs []domain.Document) error {
	want := v + 1
	for _, doc := range docs {
		if doc == nil {
			return fmt.Errorf("%w: revision %d returned a nil document", ErrVersionMismatch, v)
		}
		got, _ := doc.Version()
		if got != want {
			return fmt.Errorf("%w: revision %d expected _v=%d, got _v=%d in %v", ErrVersionMismatch, v, want, got, doc)
		}
	}
	return nil
}

// mergeBuckets interleaves the freshly migrated bucket with the bucket
// already waiting at the next version, keeping the combined bucket sorted by
// original input position. Both inputs are already sorted, so a linear
// two-pointer walk suffices; on equal indices the migrated documents win.
func mergeBuckets(migrated, waiting *bucket) *bucket {
	total := len(migrated.docs) + len(waiting.docs)
	merged := &bucket{
		docs: make([]domain.Document, 0, total),
		meta: make([]position, 0, total),
	}
	i, j := 0, 0
	for i < len(migrated.docs) && j < len(waiting.docs) {
		if migrated.meta[i].index <= waiting.meta[j].index {
			merged.add(migrated.docs[i], migrated.meta[i])
			i++
		} else {
			merged.add(waiting.docs[j], waiting.meta[j])
			j++
		}
	}
	for ; i < len(migrated.docs); i++ {
		merged.add(migrated.docs[i], migrated.meta[i])
	}
	for ; j < len(waiting.docs); j++ {
		merged.add(waiting.docs[j], waiting.meta[j])
	}
	return merged
}
