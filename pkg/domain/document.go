package domain

// Document represents a document in the database
type Document map[string]interface{}

const (
	// VersionField is the schema version tag carried by versioned documents
	VersionField = "_v"
	// IDField is the unique document identifier
	IDField = "_id"
)

// Version returns the document's declared schema version. Documents decoded
// from JSON or msgpack may carry the tag as any numeric type, so all of them
// are accepted. The second return is false when the tag is missing or not a
// number; such documents are treated as version 0 (pre-versioning).
func (d Document) Version() (int, bool) {
	if d == nil {
		return 0, false
	}
	raw, exists := d[VersionField]
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		return int(v), true
	case float32:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// ID returns the document identifier, or "" when unset.
func (d Document) ID() string {
	if id, ok := d[IDField].(string); ok {
		return id
	}
	return ""
}

// Clone returns a shallow copy of the document
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Collection represents a collection of documents
type Collection struct {
	Name      string              `json:"name"`
	Documents map[string]Document `json:"documents"`
}

// NewCollection creates a new collection
func NewCollection(name string) *Collection {
	return &Collection{
		Name:      name,
		Documents: make(map[string]Document),
	}
}
