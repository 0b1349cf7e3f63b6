package store

import (
	"context"
	"errors"
	"sync"
)

// Memory is an in-process store. A positive quota bounds the total size of keys and values.
type Memory struct {
	mu    sync.Mutex
	data  map[string]string
	used  int
	quota int
}

// NewMemory returns an empty in-memory store; quota <= 0 means unlimited.
func NewMemory(quota int) *Memory {
	return &Memory{data: make(map[string]string), quota: quota}
}

var errQuotaExceeded = errors.New("quota exceeded")

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setLocked(key, value)
}

func (m *Memory) setLocked(key, value string) error {
	used := m.used + len(key) + len(value)
	if old, ok := m.data[key]; ok {
		used -= len(key) + len(old)
	}
	if m.quota > 0 && used > m.quota {
		return unavailable("set", key, errQuotaExceeded)
	}
	m.data[key] = value
	m.used = used
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.data[key]; ok {
		m.used -= len(key) + len(old)
		delete(m.data, key)
	}
	return nil
}

// Update runs fn and stores its result while holding the store lock.
func (m *Memory) Update(_ context.Context, key string, fn UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.data[key]
	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	return m.setLocked(key, next)
}

// Keys returns the number of stored keys.
func (m *Memory) Keys() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
