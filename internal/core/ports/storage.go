package ports

import "context"

// Storage is a client's durable key/value area. Values are plain strings.
type Storage interface {
	// Get returns the value under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes every pair atomically: either all keys are stored or none.
	Set(ctx context.Context, values map[string]string) error
	// Remove deletes keys; missing keys are not an error.
	Remove(ctx context.Context, keys ...string) error
}

// StorageProvider hands out storage namespaced by client id.
type StorageProvider interface {
	ForClient(clientID string) Storage
	Ping(ctx context.Context) error
}
