// Package storage holds the in-process client storage and selects the
// configured durable driver.
package storage

import (
	"context"
	"sync"

	"github.com/ulbi/ukm-portal/internal/core/ports"
)

// Memory keeps every client's values in process memory. Values do not
// survive a restart.
type Memory struct {
	mu      sync.RWMutex
	clients map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{clients: make(map[string]map[string]string)}
}

func (m *Memory) ForClient(clientID string) ports.Storage {
	return &memoryClient{m: m, id: clientID}
}

func (m *Memory) Ping(context.Context) error { return nil }

// Clients returns how many clients currently hold at least one value.
func (m *Memory) Clients() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

type memoryClient struct {
	m  *Memory
	id string
}

func (c *memoryClient) Get(_ context.Context, key string) (string, bool, error) {
	c.m.mu.RLock()
	defer c.m.mu.RUnlock()
	v, ok := c.m.clients[c.id][key]
	return v, ok, nil
}

func (c *memoryClient) Set(_ context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	bucket := c.m.clients[c.id]
	if bucket == nil {
		bucket = make(map[string]string, len(values))
		c.m.clients[c.id] = bucket
	}
	for k, v := range values {
		bucket[k] = v
	}
	return nil
}

func (c *memoryClient) Remove(_ context.Context, keys ...string) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	bucket := c.m.clients[c.id]
	for _, k := range keys {
		delete(bucket, k)
	}
	if len(bucket) == 0 {
		delete(c.m.clients, c.id)
	}
	return nil
}
