package domain

// BulkWriteOp is a single operation inside a bulk write. Exactly one write
// shape is set: Replace for a whole-document replacement, or Set (optionally
// with Unset) for a field-level update. Documents are matched by ID; the
// stored identifier is never rewritten by either shape.
type BulkWriteOp struct {
	ID      string
	Replace Document
	Set     Document
	Unset   []string
}

// IsReplace reports whether the operation is a whole-document replacement.
func (op BulkWriteOp) IsReplace() bool {
	return op.Replace != nil
}

// DocStore defines the interface for storage operations
// This is the core business interface that implementations must conform to
type DocStore interface {
	Insert(collName string, doc Document) error
	FindAll(collName string, filter map[string]interface{}) ([]Document, error)
	GetById(collName, docId string) (Document, error)
	DeleteById(collName, docId string) error
	BulkWrite(collName string, ops []BulkWriteOp) error
	GetCollection(collName string) (*Collection, error)
	LoadFromFile(filename string) error
	SaveToFile(filename string) error
}
