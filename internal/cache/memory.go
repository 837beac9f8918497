package cache

import (
	"context"
	"sync"
)

type memorySession struct {
	token    string
	userInfo string
}

// MemoryCache keeps sessions in process memory. Sessions do not survive a
// restart; it serves local development and tests.
type MemoryCache struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{sessions: make(map[string]memorySession)}
}

func (m *MemoryCache) SaveSession(_ context.Context, sid, token, userInfo string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sid] = memorySession{token: token, userInfo: userInfo}
	return nil
}

func (m *MemoryCache) LoadSession(_ context.Context, sid string) (string, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.sessions[sid]
	return s.token, s.userInfo, nil
}

func (m *MemoryCache) ClearSession(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sid)
	return nil
}

func (m *MemoryCache) SessionToken(_ context.Context, sid string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[sid].token, nil
}

func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
