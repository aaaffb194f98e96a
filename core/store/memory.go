package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryRecord struct {
	data     []byte
	deadline time.Time // zero means no expiry
}

// Memory is an in-process Store used by tests and local development. It
// honors TTLs via an injectable clock so expiry behavior is testable.
type Memory struct {
	mu      sync.Mutex
	records map[string]memoryRecord
	now     func() time.Time
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]memoryRecord),
		now:     time.Now,
	}
}

// SetClock overrides the time source. Tests use it to fast-forward TTLs.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *Memory) live(rec memoryRecord) bool {
	return rec.deadline.IsZero() || rec.deadline.After(m.now())
}

// GetJSON decodes the live value at key into dst.
func (m *Memory) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[key]
	if !ok || !m.live(rec) {
		delete(m.records, key)
		return false, nil
	}
	if err := json.Unmarshal(rec.data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value at key, replacing any previous record.
func (m *Memory) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = memoryRecord{data: data, deadline: m.deadline(ttl)}
	return nil
}

// Delete removes the record at key.
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

// SetIfAbsent creates the record unless a live one already exists.
func (m *Memory) SetIfAbsent(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.records[key]; ok && m.live(rec) {
		return false, nil
	}
	m.records[key] = memoryRecord{data: data, deadline: m.deadline(ttl)}
	return true, nil
}

func (m *Memory) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}
