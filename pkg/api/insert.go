package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-docmigrate/pkg/domain"
)

// HandleInsert handles POST requests to insert documents into collections.
// When the collection has a registered schema, a document without a version
// tag is stamped with the current schema version: new documents never owe
// migrations.
func (h *Handler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]

	log.Printf("INFO: handleInsert called for collection '%s'", collName)

	var doc map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		log.Printf("ERROR: Decoding body failed: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	document := domain.Document{}
	for k, v := range doc {
		document[k] = v
	}

	if schema := h.schemaFor(collName); schema != nil {
		if _, ok := document.Version(); !ok {
			document[domain.VersionField] = schema.SchemaVersion()
		}
	}

	if err := h.storage.Insert(collName, document); err != nil {
		log.Printf("ERROR: Insert failed for collection '%s': %v", collName, err)
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("INFO: Insert successful for collection '%s'", collName)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(document)
}
