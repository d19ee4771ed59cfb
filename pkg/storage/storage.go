package storage

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/adfharrison1/go-docmigrate/pkg/domain"
)

type CollectionState int

const (
	CollectionStateLoaded CollectionState = iota
	CollectionStateDirty
)

type CollectionInfo struct {
	Name          string
	DocumentCount int64
	LastModified  time.Time
	State         CollectionState
}

// StorageEngine is an in-memory document store with optional single-file
// persistence. It implements domain.DocStore, including the bulk write
// contract used for migration write-backs.
type StorageEngine struct {
	mu          sync.RWMutex
	collections map[string]*domain.Collection
	info        map[string]*CollectionInfo

	// Configuration
	dataDir         string
	dataFile        string
	transactionSave bool

	// Per-collection ID counters for thread-safe ID generation
	idCounters   map[string]*int64
	idCountersMu sync.Mutex
}

// NewStorageEngine creates a new storage engine
func NewStorageEngine(options ...StorageOption) *StorageEngine {
	engine := &StorageEngine{
		collections:     make(map[string]*domain.Collection),
		info:            make(map[string]*CollectionInfo),
		idCounters:      make(map[string]*int64),
		dataDir:         ".",
		transactionSave: true,
	}

	for _, option := range options {
		option(engine)
	}

	return engine
}

// GetCollection returns a collection by name
func (se *StorageEngine) GetCollection(collName string) (*domain.Collection, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()
	return se.getCollectionInternal(collName)
}

// getCollectionInternal returns a collection without locking (caller must hold se.mu)
func (se *StorageEngine) getCollectionInternal(collName string) (*domain.Collection, error) {
	collection, exists := se.collections[collName]
	if !exists {
		return nil, fmt.Errorf("collection %s not found", collName)
	}
	return collection, nil
}

// getOrCreateCollection returns the named collection, creating it if needed
// (caller must hold se.mu for writing)
func (se *StorageEngine) getOrCreateCollection(collName string) *domain.Collection {
	if collection, exists := se.collections[collName]; exists {
		return collection
	}
	collection := domain.NewCollection(collName)
	se.collections[collName] = collection
	se.info[collName] = &CollectionInfo{
		Name:         collName,
		State:        CollectionStateDirty,
		LastModified: time.Now(),
	}
	return collection
}

// markDirty flags a collection for persistence (caller must hold se.mu for writing)
func (se *StorageEngine) markDirty(collName string) {
	if info, exists := se.info[collName]; exists {
		info.State = CollectionStateDirty
		info.DocumentCount = int64(len(se.collections[collName].Documents))
		info.LastModified = time.Now()
	}
}

// nextID generates a unique document ID for a collection
func (se *StorageEngine) nextID(collName string) string {
	se.idCountersMu.Lock()
	defer se.idCountersMu.Unlock()
	counter, exists := se.idCounters[collName]
	if !exists {
		var c int64
		counter = &c
		se.idCounters[collName] = counter
	}
	*counter++
	return fmt.Sprintf("%d", *counter)
}

// DataFilePath returns the resolved persistence path: the configured data
// file joined onto the data directory, unless the file path is already
// absolute. Empty when no data file was configured.
func (se *StorageEngine) DataFilePath() string {
	if se.dataFile == "" {
		return ""
	}
	if filepath.IsAbs(se.dataFile) {
		return se.dataFile
	}
	return filepath.Join(se.dataDir, se.dataFile)
}

// SaveAfterTransaction saves the data file after a write, if transaction
// saves are enabled and a data file was configured.
func (se *StorageEngine) SaveAfterTransaction() error {
	if !se.transactionSave || se.dataFile == "" {
		return nil
	}
	return se.SaveToFile(se.DataFilePath())
}

// IsTransactionSaveEnabled returns whether transaction-based saves are enabled
func (se *StorageEngine) IsTransactionSaveEnabled() bool {
	return se.transactionSave
}
