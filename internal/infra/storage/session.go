package storage

import (
	"log/slog"
	"sync"

	"coinboard/internal/domain"
	"coinboard/internal/infra"
)

// Backend is a durable store that may fail.
type Backend interface {
	Load(key string) (string, bool, error)
	Save(key, value string) error
}

// SessionStore adapts a Backend to domain.KeyValueStore.
// After the first failed write it switches to memory-only mode for the rest of the
// session: writes land in memory and reads prefer memory over the backend.
type SessionStore struct {
	backend Backend

	mu         sync.RWMutex
	memoryOnly bool
	overlay    map[string]string
}

// NewSessionStore wraps backend
func NewSessionStore(backend Backend) *SessionStore {
	return &SessionStore{
		backend: backend,
		overlay: make(map[string]string),
	}
}

// Get returns the value for key. Backend read failures are reported as absent.
func (s *SessionStore) Get(key string) (string, bool) {
	s.mu.RLock()
	v, ok := s.overlay[key]
	s.mu.RUnlock()
	if ok {
		return v, true
	}

	v, ok, err := s.backend.Load(key)
	if err != nil {
		infra.GlobalMetrics.RecordStorageFailure()
		slog.Warn("Storage read failed", slog.String("key", key), slog.Any("error", err))
		return "", false
	}
	return v, ok
}

// Put writes through to the backend. On failure the value is kept in memory and a
// *domain.StorageError is returned so the caller can log it and carry on.
func (s *SessionStore) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.memoryOnly {
		s.overlay[key] = value
		return nil
	}

	if err := s.backend.Save(key, value); err != nil {
		s.memoryOnly = true
		s.overlay[key] = value
		infra.GlobalMetrics.RecordStorageFailure()
		slog.Warn("Storage write failed, continuing in memory-only mode",
			slog.String("key", key), slog.Any("error", err))
		return &domain.StorageError{Op: "put", Key: key, Err: err}
	}
	return nil
}

// MemoryOnly reports whether a write has failed during this session
func (s *SessionStore) MemoryOnly() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.memoryOnly
}
