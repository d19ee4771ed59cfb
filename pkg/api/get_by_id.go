package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-docmigrate/pkg/migrate"
)

// HandleGetById handles GET requests to retrieve a specific document by ID.
// If the collection has a registered schema the document is migrated to the
// current version before it is returned, and written back when it changed.
func (h *Handler) HandleGetById(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]
	docId := vars["id"]

	log.Printf("INFO: handleGetById called for collection '%s', document '%s'", collName, docId)

	doc, err := h.storage.GetById(collName, docId)
	if err != nil {
		log.Printf("ERROR: Document '%s' not found in collection '%s': %v", docId, collName, err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if schema := h.schemaFor(collName); schema != nil {
		doc, err = schema.MigrateOne(r.Context(), doc,
			migrate.WithWriteBack(h.storage, collName))
		if err != nil {
			log.Printf("ERROR: Migration failed for document '%s' in collection '%s': %v", docId, collName, err)
			WriteJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	log.Printf("INFO: Retrieved document '%s' from collection '%s'", docId, collName)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}
