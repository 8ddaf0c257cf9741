package quota

import "fmt"

// NewStore builds the store named by backend ("memory" or "lru").
func NewStore(backend string, size int) (QuotaStore, error) {
	switch backend {
	case "memory", "":
		return NewMemoryStore(), nil
	case "lru":
		return NewLRUStore(size)
	default:
		return nil, fmt.Errorf("unsupported quota store backend: %s", backend)
	}
}
