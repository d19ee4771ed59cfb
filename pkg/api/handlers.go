package api

import (
	"github.com/adfharrison1/go-docmigrate/pkg/domain"
	"github.com/adfharrison1/go-docmigrate/pkg/migrate"
)

// Handler provides HTTP handlers for the database API. Collections with a
// registered schema are lazily migrated on every read: documents come back at
// the current schema version, and the ones that changed are written back in
// the same request.
type Handler struct {
	storage domain.DocStore
	schemas map[string]*migrate.Schema
}

// NewHandler creates a new API handler with dependency injection
func NewHandler(storage domain.DocStore, schemas map[string]*migrate.Schema) *Handler {
	if schemas == nil {
		schemas = make(map[string]*migrate.Schema)
	}
	return &Handler{
		storage: storage,
		schemas: schemas,
	}
}

// schemaFor returns the migration schema registered for a collection, or nil
func (h *Handler) schemaFor(collName string) *migrate.Schema {
	return h.schemas[collName]
}
