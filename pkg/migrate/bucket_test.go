package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-docmigrate/pkg/domain"
)

func TestBucketize_PartitionsByVersion(t *testing.T) {
	s := MustNewSchema([]Revision{bump(1, nil), bump(2, nil)})

	docs := []domain.Document{
		{"_id": "a", "_v": 0},
		{"_id": "b", "_v": 2},
		{"_id": "c", "_v": 1},
		{"_id": "d", "_v": 0},
	}
	b := s.bucketize(docs, nil)

	assert.Equal(t, 0, b.minVersion)
	require.Len(t, b.byVersion, 3)
	assert.Len(t, b.byVersion[0].docs, 2)
	assert.Len(t, b.byVersion[1].docs, 1)
	assert.Len(t, b.byVersion[2].docs, 1)

	// Position metadata keeps the caller's order.
	assert.Equal(t, 0, b.byVersion[0].meta[0].index)
	assert.Equal(t, 3, b.byVersion[0].meta[1].index)
	assert.Equal(t, 2, b.byVersion[1].meta[0].index)

	// Staleness follows the version tag.
	assert.True(t, b.byVersion[0].meta[0].stale)
	assert.True(t, b.byVersion[1].meta[0].stale)
	assert.False(t, b.byVersion[2].meta[0].stale)
}

func TestBucketize_NilDocumentIsCurrent(t *testing.T) {
	s := MustNewSchema([]Revision{bump(1, nil)})

	b := s.bucketize([]domain.Document{nil, {"_id": "a", "_v": 0}}, nil)

	require.NotNil(t, b.byVersion[1])
	assert.Nil(t, b.byVersion[1].docs[0])
	assert.False(t, b.byVersion[1].meta[0].stale)
	assert.True(t, b.byVersion[0].meta[0].stale)
}

func TestBucketize_MissingVersionTagMeansZero(t *testing.T) {
	s := MustNewSchema([]Revision{bump(1, nil)})

	b := s.bucketize([]domain.Document{{"_id": "a"}}, nil)

	require.NotNil(t, b.byVersion[0])
	assert.True(t, b.byVersion[0].meta[0].stale)
}

func TestBucketize_VersionAboveCurrentPassesThrough(t *testing.T) {
	s := MustNewSchema([]Revision{bump(1, nil)})

	b := s.bucketize([]domain.Document{{"_id": "a", "_v": 5}}, nil)

	require.NotNil(t, b.byVersion[1])
	assert.False(t, b.byVersion[1].meta[0].stale)
	assert.Equal(t, 5, b.byVersion[1].docs[0]["_v"])
}

func TestBucketize_NumericVersionTags(t *testing.T) {
	// Decoded documents carry the tag as float64 (JSON) or int64 (msgpack).
	s := MustNewSchema([]Revision{bump(1, nil), bump(2, nil)})

	b := s.bucketize([]domain.Document{
		{"_id": "a", "_v": float64(1)},
		{"_id": "b", "_v": int64(2)},
	}, nil)

	assert.Len(t, b.byVersion[1].docs, 1)
	assert.Len(t, b.byVersion[2].docs, 1)
}

func TestBucketize_EmbeddedTracking(t *testing.T) {
	nested := MustNewSchema([]Revision{bump(1, nil)})
	s := MustNewSchema(nil, WithEmbedded("profile", nested))

	docs := []domain.Document{
		{"_id": "a", "_v": 0, "name": "alice", "profile": domain.Document{"_v": 0}},
		{"_id": "b", "_v": 0, "profile": map[string]interface{}{"_v": 1}},
		{"_id": "c", "_v": 0},
		nil,
	}
	b := s.bucketize(docs, nil)

	values := b.embedded["profile"]
	require.Len(t, values, 4)
	assert.NotNil(t, values[0])
	assert.NotNil(t, values[1])
	assert.Nil(t, values[2])
	assert.Nil(t, values[3])

	bk := b.byVersion[0]
	require.Len(t, bk.docs, 4)
	// Stale embedded content forces the parent stale even though _v is current.
	assert.True(t, bk.meta[0].stale)
	// Embedded content already current: parent stays clean.
	assert.False(t, bk.meta[1].stale)
	assert.False(t, bk.meta[2].stale)

	// Field-name snapshots are taken for later unset computation.
	assert.Contains(t, bk.meta[0].snapshot, "name")
	assert.Contains(t, bk.meta[0].snapshot, "profile")
	assert.Nil(t, bk.meta[3].snapshot)
}

func TestBucketize_ExcludedEmbeddedFieldIgnored(t *testing.T) {
	nested := MustNewSchema([]Revision{bump(1, nil)})
	s := MustNewSchema(nil, WithEmbedded("profile", nested))

	docs := []domain.Document{
		{"_id": "a", "_v": 0, "profile": domain.Document{"_v": 0}},
	}
	b := s.bucketize(docs, domain.Projection{"profile": domain.Exclude})

	_, tracked := b.embedded["profile"]
	assert.False(t, tracked)
	// Without the excluded field's staleness, the parent stays clean.
	assert.False(t, b.byVersion[0].meta[0].stale)
}
