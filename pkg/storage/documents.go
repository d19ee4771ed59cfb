package storage

import (
	"fmt"

	"github.com/adfharrison1/go-docmigrate/pkg/domain"
)

// Insert inserts a document into a collection, creating the collection if
// needed. A document without an ID is assigned one.
func (se *StorageEngine) Insert(collName string, doc domain.Document) error {
	if err := se.insert(collName, doc); err != nil {
		return err
	}
	return se.SaveAfterTransaction()
}

func (se *StorageEngine) insert(collName string, doc domain.Document) error {
	se.mu.Lock()
	defer se.mu.Unlock()

	collection := se.getOrCreateCollection(collName)

	id := doc.ID()
	if id == "" {
		id = se.nextID(collName)
		doc[domain.IDField] = id
	}
	if _, exists := collection.Documents[id]; exists {
		return fmt.Errorf("document with id %s already exists in collection %s", id, collName)
	}

	collection.Documents[id] = doc
	se.markDirty(collName)
	return nil
}

// GetById retrieves a specific document by its ID
func (se *StorageEngine) GetById(collName, docId string) (domain.Document, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	collection, err := se.getCollectionInternal(collName)
	if err != nil {
		return nil, err
	}

	doc, exists := collection.Documents[docId]
	if !exists {
		return nil, fmt.Errorf("document with id %s not found in collection %s", docId, collName)
	}

	return doc, nil
}

// FindAll returns all documents in a collection that match the filter, or
// every document when the filter is empty.
func (se *StorageEngine) FindAll(collName string, filter map[string]interface{}) ([]domain.Document, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	collection, err := se.getCollectionInternal(collName)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(collection.Documents))
	for _, doc := range collection.Documents {
		if MatchesFilter(doc, filter) {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// DeleteById removes a specific document by its ID
func (se *StorageEngine) DeleteById(collName, docId string) error {
	if err := se.deleteById(collName, docId); err != nil {
		return err
	}
	return se.SaveAfterTransaction()
}

func (se *StorageEngine) deleteById(collName, docId string) error {
	se.mu.Lock()
	defer se.mu.Unlock()

	collection, err := se.getCollectionInternal(collName)
	if err != nil {
		return err
	}

	if _, exists := collection.Documents[docId]; !exists {
		return fmt.Errorf("document with id %s not found in collection %s", docId, collName)
	}

	delete(collection.Documents, docId)
	se.markDirty(collName)
	return nil
}

// BulkWrite applies a batch of replace and set/unset operations atomically:
// every target document is checked for existence before any operation is
// applied, so a failed batch changes nothing. The stored document identifier
// is never rewritten by either operation shape.
func (se *StorageEngine) BulkWrite(collName string, ops []domain.BulkWriteOp) error {
	if err := se.bulkWrite(collName, ops); err != nil {
		return err
	}
	return se.SaveAfterTransaction()
}

func (se *StorageEngine) bulkWrite(collName string, ops []domain.BulkWriteOp) error {
	se.mu.Lock()
	defer se.mu.Unlock()

	collection, err := se.getCollectionInternal(collName)
	if err != nil {
		return err
	}

	for _, op := range ops {
		if op.ID == "" {
			return fmt.Errorf("bulk write operation without document id in collection %s", collName)
		}
		if _, exists := collection.Documents[op.ID]; !exists {
			return fmt.Errorf("document with id %s not found in collection %s", op.ID, collName)
		}
	}

	for _, op := range ops {
		if op.IsReplace() {
			replacement := op.Replace.Clone()
			replacement[domain.IDField] = op.ID
			collection.Documents[op.ID] = replacement
			continue
		}
		doc := collection.Documents[op.ID]
		for key, value := range op.Set {
			if key != domain.IDField {
				doc[key] = value
			}
		}
		for _, key := range op.Unset {
			if key != domain.IDField {
				delete(doc, key)
			}
		}
	}

	se.markDirty(collName)
	return nil
}
