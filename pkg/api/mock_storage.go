package api

import (
	"fmt"
	"sync"

	"github.com/adfharrison1/go-docmigrate/pkg/domain"
)

// MockDocStore provides a mock implementation of domain.DocStore for testing
type MockDocStore struct {
	mu             sync.RWMutex
	collections    map[string]map[string]domain.Document
	insertCalls    int
	findCalls      int
	bulkWriteCalls int
	bulkWriteOps   []domain.BulkWriteOp
}

// NewMockDocStore creates a new mock document store
func NewMockDocStore() *MockDocStore {
	return &MockDocStore{
		collections: make(map[string]map[string]domain.Document),
	}
}

// Insert adds a document to a collection
func (m *MockDocStore) Insert(collName string, doc domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.insertCalls++

	if m.collections[collName] == nil {
		m.collections[collName] = make(map[string]domain.Document)
	}
	id := doc.ID()
	if id == "" {
		id = fmt.Sprintf("%d", len(m.collections[collName])+1)
		doc[domain.IDField] = id
	}
	m.collections[collName][id] = doc
	return nil
}

// GetById returns a document by ID
func (m *MockDocStore) GetById(collName, docId string) (domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, exists := m.collections[collName][docId]
	if !exists {
		return nil, fmt.Errorf("document with id %s not found in collection %s", docId, collName)
	}
	return doc, nil
}

// FindAll returns every document in a collection (filters are ignored by the mock)
func (m *MockDocStore) FindAll(collName string, filter map[string]interface{}) ([]domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.findCalls++

	coll, exists := m.collections[collName]
	if !exists {
		return nil, fmt.Errorf("collection %s not found", collName)
	}
	docs := make([]domain.Document, 0, len(coll))
	for _, doc := range coll {
		docs = append(docs, doc)
	}
	return docs, nil
}

// DeleteById removes a document by ID
func (m *MockDocStore) DeleteById(collName, docId string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.collections[collName][docId]; !exists {
		return fmt.Errorf("document with id %s not found in collection %s", docId, collName)
	}
	delete(m.collections[collName], docId)
	return nil
}

// BulkWrite applies replace and set/unset operations
func (m *MockDocStore) BulkWrite(collName string, ops []domain.BulkWriteOp) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bulkWriteCalls++
	m.bulkWriteOps = append(m.bulkWriteOps, ops...)

	coll, exists := m.collections[collName]
	if !exists {
		return fmt.Errorf("collection %s not found", collName)
	}
	for _, op := range ops {
		if op.IsReplace() {
			replacement := op.Replace.Clone()
			replacement[domain.IDField] = op.ID
			coll[op.ID] = replacement
			continue
		}
		doc, exists := coll[op.ID]
		if !exists {
			return fmt.Errorf("document with id %s not found in collection %s", op.ID, collName)
		}
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
	return nil
}

// GetCollection returns the named collection
func (m *MockDocStore) GetCollection(collName string) (*domain.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs, exists := m.collections[collName]
	if !exists {
		return nil, fmt.Errorf("collection %s not found", collName)
	}
	coll := domain.NewCollection(collName)
	for id, doc := range docs {
		coll.Documents[id] = doc
	}
	return coll, nil
}

// LoadFromFile is a no-op for the mock
func (m *MockDocStore) LoadFromFile(filename string) error { return nil }

// SaveToFile is a no-op for the mock
func (m *MockDocStore) SaveToFile(filename string) error { return nil }

// GetInsertCalls returns the number of Insert calls
func (m *MockDocStore) GetInsertCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.insertCalls
}

// GetBulkWriteCalls returns the number of BulkWrite calls
func (m *MockDocStore) GetBulkWriteCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bulkWriteCalls
}

// GetCollectionCount returns the number of documents in a collection
func (m *MockDocStore) GetCollectionCount(collName string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collName])
}
