package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-docmigrate/pkg/migrate"
)

// HandleFindAll handles GET requests to find documents with filter criteria.
// Matching documents from a schema-registered collection are migrated as one
// batch; the stale ones are persisted in a single bulk write.
func (h *Handler) HandleFindAll(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collName := vars["coll"]

	log.Printf("INFO: handleFindAll called for collection '%s'", collName)

	// Parse query parameters to build filter
	filter := make(map[string]interface{})
	for key, values := range r.URL.Query() {
		if len(values) == 0 {
			continue
		}
		value := values[0]
		if num, err := strconv.ParseFloat(value, 64); err == nil {
			filter[key] = num
		} else {
			filter[key] = value
		}
	}

	docs, err := h.storage.FindAll(collName, filter)
	if err != nil {
		log.Printf("ERROR: Collection '%s' not found: %v", collName, err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if schema := h.schemaFor(collName); schema != nil {
		docs, err = schema.Migrate(r.Context(), docs,
			migrate.WithWriteBack(h.storage, collName))
		if err != nil {
			log.Printf("ERROR: Migration failed for collection '%s': %v", collName, err)
			WriteJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	log.Printf("INFO: Found %d documents in collection '%s'", len(docs), collName)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(docs)
}
