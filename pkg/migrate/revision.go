package migrate

import (
	"context"

	"github.com/adfharrison1/go-docmigrate/pkg/domain"
)

// UpdateFunc upgrades a single document from one schema version to the next.
// The returned document must carry the next version tag.
type UpdateFunc func(ctx context.Context, doc domain.Document) (domain.Document, error)

// UpdateManyFunc upgrades a whole batch of same-version documents in one call.
// Output order must match input order, and every returned document must carry
// the next version tag.
type UpdateManyFunc func(ctx context.Context, docs []domain.Document) ([]domain.Document, error)

// Revision is one step of a schema's revision chain: the transform that takes
// documents from version i to version i+1. It is a tagged variant with exactly
// one of the two transform shapes set, decided at schema construction time.
type Revision struct {
	update     UpdateFunc
	updateMany UpdateManyFunc
}

// PerDocument builds a revision that upgrades documents one at a time.
// Documents in the same bucket are upgraded concurrently. Transforms run
// while any fields registered with WithEmbedded are being migrated by their
// nested schemas, so they must not read or write those fields.
func PerDocument(fn UpdateFunc) Revision {
	return Revision{update: fn}
}

// Batched builds a revision that upgrades a whole bucket in a single call.
func Batched(fn UpdateManyFunc) Revision {
	return Revision{updateMany: fn}
}

func (r Revision) batched() bool {
	return r.updateMany != nil
}

func (r Revision) valid() bool {
	return (r.update != nil) != (r.updateMany != nil)
}
