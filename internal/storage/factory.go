package storage

import "fmt"

// DefaultStoreKind is the backend used when a caller does not choose
// one. modernc sqlite is pure Go, so there is no build-time reason to
// gate it.
func DefaultStoreKind() string { return "sqlite" }

func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "memory":
		return NewMemoryStore(), nil
	case "", "sqlite":
		return NewSQLiteStore(sqlitePath), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
