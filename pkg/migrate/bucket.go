package migrate

import (
	"github.com/adfharrison1/go-docmigrate/pkg/domain"
)

// position is the per-document bookkeeping created once at bucketing time:
// where the document sat in the caller's input, whether it needs writing
// back, and (when embedded tracking is on) which fields it originally had.
type position struct {
	index    int
	stale    bool
	snapshot map[string]struct{}
}

// bucket groups documents that share the same pending version, in original
// input order. docs and meta run in lockstep.
type bucket struct {
	docs []domain.Document
	meta []position
}

func (b *bucket) add(doc domain.Document, pos position) {
	b.docs = append(b.docs, doc)
	b.meta = append(b.meta, pos)
}

// bucketed is the result of partitioning one input batch: one bucket per
// distinct version present, plus the ordered value slice of every tracked
// embedded field.
type bucketed struct {
	byVersion  map[int]*bucket
	minVersion int
	embedded   map[string][]domain.Document
}

// bucketize partitions the input batch by declared version. A nil document
// stands for "no document at this position": it is placed in the current
// bucket, carries no staleness, and passes through untouched. Documents
// tagged above the current version are treated as already current. A missing
// or non-numeric version tag means the document predates versioning and owes
// the whole chain.
func (s *Schema) bucketize(docs []domain.Document, proj domain.Projection) *bucketed {
	current := s.SchemaVersion()
	b := &bucketed{
		byVersion:  make(map[int]*bucket),
		minVersion: current,
	}

	trackEmbedded := s.hasEmbedded()
	if trackEmbedded {
		b.embedded = make(map[string][]domain.Document, len(s.embedded))
		for _, field := range s.embeddedFields {
			if proj.Excludes(field) {
				continue
			}
			b.embedded[field] = make([]domain.Document, len(docs))
		}
	}

	for i, doc := range docs {
		pos := position{index: i}
		version := current
		if doc != nil {
			if v, ok := doc.Version(); ok {
				version = v
			} else {
				version = 0
			}
			pos.stale = version < current
			if version > current {
				// Ahead of every known revision: pass through unexamined.
				version = current
			}
			if trackEmbedded {
				pos.snapshot = make(map[string]struct{}, len(doc))
				for name := range doc {
					pos.snapshot[name] = struct{}{}
				}
				for field := range b.embedded {
					sub := asDocument(doc[field])
					b.embedded[field][i] = sub
					if sub == nil {
						continue
					}
					subVersion, _ := sub.Version()
					if subVersion < s.embedded[field].SchemaVersion() {
						// The parent body is rewritten to pick up the
						// upgraded sub-document even when the parent's own
						// version is already current.
						pos.stale = true
					}
				}
			}
		}
		if version < b.minVersion {
			b.minVersion = version
		}
		bk := b.byVersion[version]
		if bk == nil {
			bk = &bucket{}
			b.byVersion[version] = bk
		}
		bk.add(doc, pos)
	}
	return b
}

// asDocument coerces an embedded field value to a Document, returning nil for
// absent or non-document values.
func asDocument(v interface{}) domain.Document {
	switch d := v.(type) {
	case domain.Document:
		return d
	case map[string]interface{}:
		return domain.Document(d)
	default:
		return nil
	}
}
