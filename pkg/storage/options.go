package storage

type StorageOption func(*StorageEngine)

// WithDataDir sets the directory that relative data file paths are resolved
// against (default: current directory)
func WithDataDir(dir string) StorageOption {
	return func(engine *StorageEngine) {
		engine.dataDir = dir
	}
}

// WithDataFile sets the single-file persistence target used by
// SaveAfterTransaction
func WithDataFile(filename string) StorageOption {
	return func(engine *StorageEngine) {
		engine.dataFile = filename
	}
}

// WithTransactionSave enables saving after every write transaction (default: true)
func WithTransactionSave(enabled bool) StorageOption {
	return func(engine *StorageEngine) {
		engine.transactionSave = enabled
	}
}
