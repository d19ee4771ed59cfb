package storage

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/adfharrison1/go-docmigrate/pkg/domain"
)

// SaveToFile saves all collections to a single file
func (se *StorageEngine) SaveToFile(filename string) error {
	se.mu.RLock()
	storageData := NewStorageData()
	for collName, collection := range se.collections {
		storageData.Collections[collName] = make(map[string]interface{}, len(collection.Documents))
		for docID, doc := range collection.Documents {
			storageData.Collections[collName][docID] = map[string]interface{}(doc.Clone())
		}
	}
	se.mu.RUnlock()

	msgpackData, err := msgpack.Marshal(storageData)
	if err != nil {
		return fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	compressedData := make([]byte, lz4.CompressBlockBound(len(msgpackData)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(msgpackData, compressedData, hashTable[:])
	if err != nil {
		return fmt.Errorf("failed to compress data: %w", err)
	}
	// n == 0 means the block was not compressible; store it raw.
	var flags uint8
	body := compressedData[:n]
	if n == 0 {
		flags = FlagUncompressed
		body = msgpackData
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := WriteHeader(file, flags); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := file.Write(body); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	se.mu.Lock()
	for _, info := range se.info {
		info.State = CollectionStateLoaded
	}
	se.mu.Unlock()

	log.Printf("DEBUG: Saved %d collections to %s (%d bytes compressed)", len(storageData.Collections), filename, n)
	return nil
}

// LoadFromFile loads all collections from a single file. A missing file is
// not an error; the engine simply starts empty.
func (se *StorageEngine) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	header, err := ReadHeader(file)
	if err != nil {
		return fmt.Errorf("invalid file header: %w", err)
	}

	body, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	decompressedData := body
	if header.Flags&FlagUncompressed == 0 {
		// The block format does not record the decompressed size, so grow
		// the buffer until the block fits.
		bufSize := len(body) * 4
		if bufSize < 1024 {
			bufSize = 1024
		}
		var n int
		for {
			decompressedData = make([]byte, bufSize)
			n, err = lz4.UncompressBlock(body, decompressedData)
			if err == nil {
				break
			}
			if bufSize > 1<<30 {
				return fmt.Errorf("failed to decompress data: %w", err)
			}
			bufSize *= 2
		}
		decompressedData = decompressedData[:n]
	}

	var storageData StorageData
	if err := msgpack.Unmarshal(decompressedData, &storageData); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}

	se.mu.Lock()
	defer se.mu.Unlock()
	for collName, rawDocs := range storageData.Collections {
		collection := domain.NewCollection(collName)
		// Track the highest numeric ID so the counter resumes past it and
		// new documents get unique IDs.
		maxID := int64(0)
		for docID, rawDoc := range rawDocs {
			fields, ok := rawDoc.(map[string]interface{})
			if !ok {
				return fmt.Errorf("malformed document %s in collection %s", docID, collName)
			}
			collection.Documents[docID] = domain.Document(fields)
			if id, err := strconv.ParseInt(docID, 10, 64); err == nil && id > maxID {
				maxID = id
			}
		}
		se.idCountersMu.Lock()
		se.idCounters[collName] = &maxID
		se.idCountersMu.Unlock()
		se.collections[collName] = collection
		se.info[collName] = &CollectionInfo{
			Name:          collName,
			DocumentCount: int64(len(collection.Documents)),
			State:         CollectionStateLoaded,
			LastModified:  time.Now(),
		}
	}
	return nil
}
