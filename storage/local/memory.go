package localstore

import "sync"

// MemoryBackend keeps values in memory, optionally capped at `quota` bytes
// like a browser's local storage.
type MemoryBackend struct {
	mutex sync.RWMutex
	table map[string][]byte
	used  int
	quota int // 0: unlimited
}

var _ Backend = (*MemoryBackend)(nil)

func NewMemoryBackend(quota int) *MemoryBackend {
	return &MemoryBackend{table: make(map[string][]byte), quota: quota}
}

func (b *MemoryBackend) Read(key string) ([]byte, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	data, ok := b.table[key]
	if !ok {
		return nil, ErrNotExist
	}
	res := make([]byte, len(data))
	copy(res, data)
	return res, nil
}

func (b *MemoryBackend) Write(key string, data []byte) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	used := b.used - entrySize(key, b.table[key]) + entrySize(key, data)
	if b.quota > 0 && used > b.quota {
		return ErrQuotaExceeded
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	b.table[key] = stored
	b.used = used
	return nil
}

func (b *MemoryBackend) Delete(key string) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	data, ok := b.table[key]
	if !ok {
		return ErrNotExist
	}
	b.used -= entrySize(key, data)
	delete(b.table, key)
	return nil
}

func entrySize(key string, data []byte) int {
	if data == nil {
		return 0
	}
	return len(key) + len(data)
}
