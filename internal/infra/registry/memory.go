// Package registry provides the in-process reminder registry: a
// mutex-guarded map from server "HH:MM" bucket to the set of subscribed
// users. It is rebuilt from the ledger store at startup.
package registry

import (
	"context"
	"sort"
	"sync"
)

type Memory struct {
	mu      sync.RWMutex
	buckets map[string]map[int64]struct{}
}

func NewMemory() *Memory {
	return &Memory{buckets: make(map[string]map[int64]struct{})}
}

func (m *Memory) Register(_ context.Context, bucket string, tgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.buckets[bucket]
	if !ok {
		set = make(map[int64]struct{})
		m.buckets[bucket] = set
	}
	set[tgID] = struct{}{}
	return nil
}

func (m *Memory) Unregister(_ context.Context, bucket string, tgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if set, ok := m.buckets[bucket]; ok {
		delete(set, tgID)
		if len(set) == 0 {
			delete(m.buckets, bucket)
		}
	}
	return nil
}

// Bucket returns a sorted snapshot of the bucket's membership.
func (m *Memory) Bucket(_ context.Context, bucket string) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := m.buckets[bucket]
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
