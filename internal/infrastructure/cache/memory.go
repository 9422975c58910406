// Package cache adaptadores del puerto ports.Cache: memoria del proceso o Redis.
package cache

import (
	"context"
	"crypto/subtle"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
)

var _ ports.Cache = (*Memory)(nil)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory caché en memoria con expiración. Una goroutine limpia las entradas vencidas cada
// cleanupInterval hasta que se llame Close.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewMemory crea la caché e inicia la limpieza periódica.
func NewMemory(cleanupInterval time.Duration) *Memory {
	m := &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go m.cleanupLoop(cleanupInterval)
	}
	return m
}

func (m *Memory) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.deleteExpired()
		}
	}
}

func (m *Memory) deleteExpired() {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.entries {
		if !e.expiresAt.After(now) {
			delete(m.entries, k)
		}
	}
}

// Get implementa ports.Cache.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || !e.expiresAt.After(m.now()) {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set implementa ports.Cache. Copia value.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	v := make([]byte, len(value))
	copy(v, value)
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: v, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

// Delete implementa ports.Cache.
func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	m.mu.Unlock()
	return nil
}

// DeletePrefix implementa ports.Cache.
func (m *Memory) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	m.mu.Unlock()
	return nil
}

// CompareAndDelete implementa ports.Cache.
func (m *Memory) CompareAndDelete(_ context.Context, key string, value []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok || !e.expiresAt.After(m.now()) {
		return false, nil
	}
	if subtle.ConstantTimeCompare(e.value, value) != 1 {
		return false, nil
	}
	delete(m.entries, key)
	return true, nil
}

// Len número de entradas (incluye vencidas aún no limpiadas).
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close detiene la limpieza periódica.
func (m *Memory) Close() error {
	m.once.Do(func() { close(m.stop) })
	return nil
}
