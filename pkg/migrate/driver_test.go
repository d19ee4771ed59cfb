package migrate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-docmigrate/pkg/domain"
)

func TestDrive_HeterogeneousVersions(t *testing.T) {
	// Two revisions; documents enter at versions 0, 2 and 1. r0 must see only
	// the version-0 document, r1 must see the version-1 document plus r0's
	// output, and the final bucket must match the caller's order.
	var (
		mu    sync.Mutex
		r0Saw []string
		r1Saw []string
	)
	record := func(saw *[]string) func(domain.Document) {
		return func(doc domain.Document) {
			mu.Lock()
			*saw = append(*saw, doc.ID())
			mu.Unlock()
		}
	}
	s := MustNewSchema([]Revision{
		bump(1, record(&r0Saw)),
		bump(2, record(&r1Saw)),
	})

	docs := []domain.Document{
		{"_id": "a", "_v": 0},
		{"_id": "b", "_v": 2},
		{"_id": "c", "_v": 1},
	}
	final, err := s.drive(context.Background(), s.bucketize(docs, nil))
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, r0Saw)
	assert.ElementsMatch(t, []string{"a", "c"}, r1Saw)

	require.Len(t, final.docs, 3)
	assert.Equal(t, "a", final.docs[0].ID())
	assert.Equal(t, "b", final.docs[1].ID())
	assert.Equal(t, "c", final.docs[2].ID())
	for i, meta := range final.meta {
		assert.Equal(t, i, meta.index)
	}
	assert.Equal(t, 2, final.docs[0]["_v"])
	assert.Equal(t, 2, final.docs[2]["_v"])
}

func TestDrive_AllCurrentAppliesNothing(t *testing.T) {
	calls := 0
	s := MustNewSchema([]Revision{
		PerDocument(func(ctx context.Context, doc domain.Document) (domain.Document, error) {
			calls++
			return doc, nil
		}),
	})

	docs := []domain.Document{{"_id": "a", "_v": 1}, {"_id": "b", "_v": 1}}
	final, err := s.drive(context.Background(), s.bucketize(docs, nil))
	require.NoError(t, err)

	assert.Equal(t, 0, calls)
	require.Len(t, final.docs, 2)
	assert.Equal(t, docs[0], final.docs[0])
}

func TestDrive_BatchedRevisionGetsWholeBucket(t *testing.T) {
	var batchSizes []int
	s := MustNewSchema([]Revision{
		Batched(func(ctx context.Context, docs []domain.Document) ([]domain.Document, error) {
			batchSizes = append(batchSizes, len(docs))
			out := make([]domain.Document, len(docs))
			for i, doc := range docs {
				up := doc.Clone()
				up["_v"] = 1
				out[i] = up
			}
			return out, nil
		}),
	})

	docs := []domain.Document{
		{"_id": "a", "_v": 0},
		{"_id": "b", "_v": 0},
		{"_id": "c", "_v": 0},
	}
	final, err := s.drive(context.Background(), s.bucketize(docs, nil))
	require.NoError(t, err)

	assert.Equal(t, []int{3}, batchSizes)
	assert.Equal(t, "b", final.docs[1].ID())
}

func TestDrive_BatchedRevisionWrongLength(t *testing.T) {
	s := MustNewSchema([]Revision{
		Batched(func(ctx context.Context, docs []domain.Document) ([]domain.Document, error) {
			return docs[:1], nil
		}),
	})

	docs := []domain.Document{{"_v": 0}, {"_v": 0}}
	_, err := s.drive(context.Background(), s.bucketize(docs, nil))
	assert.Error(t, err)
}

func TestDrive_VersionMismatchFailsBeforeNextRevision(t *testing.T) {
	r1Calls := 0
	s := MustNewSchema([]Revision{
		bump(7, nil), // broken: should tag 1
		PerDocument(func(ctx context.Context, doc domain.Document) (domain.Document, error) {
			r1Calls++
			return doc, nil
		}),
	})

	docs := []domain.Document{{"_id": "a", "_v": 0}}
	_, err := s.drive(context.Background(), s.bucketize(docs, nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVersionMismatch)
	assert.Contains(t, err.Error(), "a")
	assert.Equal(t, 0, r1Calls)
}

func TestDrive_RevisionErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	s := MustNewSchema([]Revision{
		PerDocument(func(ctx context.Context, doc domain.Document) (domain.Document, error) {
			return nil, boom
		}),
	})

	_, err := s.drive(context.Background(), s.bucketize([]domain.Document{{"_v": 0}}, nil))
	assert.ErrorIs(t, err, boom)
}

func TestMergeBuckets_StableInterleave(t *testing.T) {
	migrated := &bucket{
		docs: []domain.Document{{"_id": "a"}, {"_id": "d"}},
		meta: []position{{index: 0}, {index: 3}},
	}
	waiting := &bucket{
		docs: []domain.Document{{"_id": "b"}, {"_id": "c"}, {"_id": "e"}},
		meta: []position{{index: 1}, {index: 2}, {index: 4}},
	}

	merged := mergeBuckets(migrated, waiting)

	require.Len(t, merged.docs, 5)
	for i, want := range []string{"a", "b", "c", "d", "e"} {
		assert.Equal(t, want, merged.docs[i].ID())
		assert.Equal(t, i, merged.meta[i].index)
	}
}
