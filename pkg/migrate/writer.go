package migrate

import (
	"sort"

	"github.com/adfharrison1/go-docmigrate/pkg/domain"
)

// writeBack persists every document flagged stale in one bulk write. Documents
// that did not change are left untouched in the store, and when nothing is
// stale no store call is made at all.
//
// Without embedded fields each stale document is a whole-document replacement:
// the full body was fetched, so replacing it is always safe. With embedded
// fields the write is field-level instead: excluded embedded fields may never
// have been loaded, and a full replace would silently erase them. The update
// sets the fetched body and unsets fields that were present on the original
// snapshot but are gone from the migrated document, unless the field is itself
// a declared embedded field.
func (s *Schema) writeBack(b *bucket, cfg runConfig) error {
	var ops []domain.BulkWriteOp
	for i, doc := range b.docs {
		if doc == nil || !b.meta[i].stale {
			continue
		}
		if !s.hasEmbedded() {
			ops = append(ops, domain.BulkWriteOp{ID: doc.ID(), Replace: doc})
			continue
		}
		var unset []string
		for name := range b.meta[i].snapshot {
			if _, kept := doc[name]; kept {
				continue
			}
			if s.isEmbeddedField(name) {
				continue
			}
			unset = append(unset, name)
		}
		sort.Strings(unset)
		ops = append(ops, domain.BulkWriteOp{ID: doc.ID(), Set: doc, Unset: unset})
	}
	if len(ops) == 0 {
		return nil
	}
	return cfg.store.BulkWrite(cfg.collection, ops)
}
