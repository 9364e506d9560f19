package database

import "sync"

// MemoryKV is a map-backed gateway for tests and ephemeral runs. Writes
// can be made to fail on demand so callers can exercise their
// persist-failure handling.
type MemoryKV struct {
	mu       sync.Mutex
	data     map[string]string
	writeErr error
}

// NewMemoryKV creates an empty in-memory store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

// Get reads the value stored under key
func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	return value, ok, nil
}

// Set writes the value under key, replacing any previous value
func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.data[key] = value
	return nil
}

// Remove deletes the key; removing an absent key is not an error
func (m *MemoryKV) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	delete(m.data, key)
	return nil
}

// Close is a no-op for the in-memory store
func (m *MemoryKV) Close() error {
	return nil
}

// FailWrites makes every following Set and Remove return err. Pass nil
// to restore normal behavior.
func (m *MemoryKV) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}
