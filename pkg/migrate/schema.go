package migrate

import (
	"fmt"
	"sort"

	"github.com/adfharrison1/go-docmigrate/pkg/domain"
)

// Schema is the immutable configuration for one versioned document type: its
// revision chain and, optionally, the nested schemas of embedded-document
// fields. A Schema is built once and shared by reference; it carries no
// mutable state, so concurrent Migrate calls are safe.
type Schema struct {
	revisions      []Revision
	embedded       map[string]*Schema
	embeddedFields []string // sorted, for deterministic iteration
}

// SchemaOption configures a Schema during construction.
type SchemaOption func(*Schema)

// WithEmbedded declares that the named field holds an embedded document
// migrated by the given nested schema. The nested schema versions its
// documents independently of the parent. Embedded migration runs
// concurrently with the parent's own revision chain, so the parent's
// transforms must leave declared embedded fields alone; the migrated value
// is spliced back in afterwards.
func WithEmbedded(field string, nested *Schema) SchemaOption {
	return func(s *Schema) {
		s.embedded[field] = nested
	}
}

// NewSchema builds a schema from its revision chain. Revision i upgrades
// documents from version i to i+1; the chain length defines the current
// schema version.
func NewSchema(revisions []Revision, opts ...SchemaOption) (*Schema, error) {
	s := &Schema{
		revisions: revisions,
		embedded:  make(map[string]*Schema),
	}
	for i, rev := range revisions {
		if !rev.valid() {
			return nil, fmt.Errorf("revision %d: exactly one transform shape must be set", i)
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	for field, nested := range s.embedded {
		if nested == nil {
			return nil, fmt.Errorf("embedded field %q: nil schema", field)
		}
		s.embeddedFields = append(s.embeddedFields, field)
	}
	sort.Strings(s.embeddedFields)
	return s, nil
}

// MustNewSchema is like NewSchema but panics on a malformed configuration.
// Intended for package-level schema declarations.
func MustNewSchema(revisions []Revision, opts ...SchemaOption) *Schema {
	s, err := NewSchema(revisions, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// SchemaVersion returns the current schema version: the number of registered
// revisions, and the version tag considered up to date.
func (s *Schema) SchemaVersion() int {
	return len(s.revisions)
}

func (s *Schema) hasEmbedded() bool {
	return len(s.embedded) > 0
}

func (s *Schema) isEmbeddedField(name string) bool {
	_, ok := s.embedded[name]
	return ok
}

func validateProjection(p domain.Projection) error {
	for field, rule := range p {
		if rule != domain.Exclude {
			return fmt.Errorf("%w: field %q has rule %d", ErrInvalidProjection, field, rule)
		}
	}
	return nil
}
