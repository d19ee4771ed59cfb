package migrate

import "github.com/adfharrison1/go-docmigrate/pkg/domain"

type runConfig struct {
	store      domain.DocStore
	collection string
	projection domain.Projection
}

// RunOption configures a single Migrate or MigrateOne call.
type RunOption func(*runConfig)

// WithWriteBack makes the call persist every document that actually changed,
// as one bulk write against the given collection. Without this option the
// migration is computed but nothing is written.
func WithWriteBack(store domain.DocStore, collection string) RunOption {
	return func(cfg *runConfig) {
		cfg.store = store
		cfg.collection = collection
	}
}

// WithProjection declares which fields were excluded when the input documents
// were fetched. Excluded embedded fields are never migrated, never checked
// for staleness, and never unset in the store.
func WithProjection(p domain.Projection) RunOption {
	return func(cfg *runConfig) {
		cfg.projection = p
	}
}
