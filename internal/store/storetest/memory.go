// Package storetest provides an in-memory store.KV for tests. It honors
// TTLs against an adjustable clock so grant-expiry behavior can be tested
// without a live server.
package storetest

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"sync"
	"time"
)

type entry struct {
	value     string
	fields    map[string]string
	expiresAt time.Time // zero = no expiry
}

// MemoryKV is an in-memory implementation of store.KV.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]*entry
	now  time.Time
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]*entry), now: time.Now()}
}

// Advance moves the fake clock forward, expiring any keys whose TTL elapses.
func (m *MemoryKV) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

func (m *MemoryKV) live(key string) *entry {
	e, ok := m.data[key]
	if !ok {
		return nil
	}
	if !e.expiresAt.IsZero() && !m.now.Before(e.expiresAt) {
		delete(m.data, key)
		return nil
	}
	return e
}

func (m *MemoryKV) HGetAll(_ context.Context, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.live(key)
	out := make(map[string]string)
	if e != nil {
		for k, v := range e.fields {
			out[k] = v
		}
	}
	return out, nil
}

func (m *MemoryKV) HSet(_ context.Context, key string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.live(key)
	if e == nil {
		e = &entry{fields: make(map[string]string)}
		m.data[key] = e
	}
	if e.fields == nil {
		e.fields = make(map[string]string)
	}
	for k, v := range fields {
		e.fields[k] = fmt.Sprintf("%v", v)
	}
	return nil
}

func (m *MemoryKV) HIncrBy(_ context.Context, key, field string, incr int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.live(key)
	if e == nil {
		e = &entry{fields: make(map[string]string)}
		m.data[key] = e
	}
	if e.fields == nil {
		e.fields = make(map[string]string)
	}
	cur, _ := strconv.ParseInt(e.fields[field], 10, 64)
	cur += incr
	e.fields[field] = strconv.FormatInt(cur, 10)
	return cur, nil
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e := m.live(key); e != nil {
		return e.value, nil
	}
	return "", nil
}

func (m *MemoryKV) SetEX(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := &entry{value: value}
	if ttl > 0 {
		e.expiresAt = m.now.Add(ttl)
	}
	m.data[key] = e
	return nil
}

func (m *MemoryKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *MemoryKV) Keys(_ context.Context, pattern string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for key := range m.data {
		if m.live(key) == nil {
			continue
		}
		if ok, _ := path.Match(pattern, key); ok {
			out = append(out, key)
		}
	}
	return out, nil
}
