package session

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/recoilme/pudge"
)

// PudgeBackend keeps sessions in a pudge key/value file.
type PudgeBackend struct {
	db *pudge.Db
}

// OpenPudge opens (or creates) the session database with a one second fsync.
func OpenPudge(file string) (*PudgeBackend, error) {
	cfg := &pudge.Config{
		SyncInterval: 1} // every second fsync
	db, err := pudge.Open(file, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "open session db %s", file)
	}
	return &PudgeBackend{db: db}, nil
}

func (p *PudgeBackend) Get(key string) ([]byte, error) {
	var val []byte
	if err := p.db.Get(key, &val); err != nil {
		if errors.Is(err, pudge.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return val, nil
}

func (p *PudgeBackend) Set(key string, value []byte) error {
	return p.db.Set(key, value)
}

func (p *PudgeBackend) Delete(key string) error {
	err := p.db.Delete(key)
	if errors.Is(err, pudge.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

func (p *PudgeBackend) Keys() ([]string, error) {
	raw, err := p.db.Keys(nil, 0, 0, true)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, string(k))
	}
	return keys, nil
}

func (p *PudgeBackend) Close() error {
	return p.db.Close()
}

// MemoryBackend is a process-local backend.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string][]byte)}
}

func (m *MemoryBackend) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), val...), nil
}

func (m *MemoryBackend) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryBackend) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		return ErrNotFound
	}
	delete(m.entries, key)
	return nil
}

func (m *MemoryBackend) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	return keys, nil
}

// Len reports the number of stored entries.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
