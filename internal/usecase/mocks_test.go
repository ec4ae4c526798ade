// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"telegram-calorie-diary/internal/domain"
	"telegram-calorie-diary/internal/domain/model"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memLedgerRepo is a small in-memory implementation used by unit tests.
type memLedgerRepo struct {
	mu      sync.RWMutex
	store   map[int64]*model.Ledger
	saveErr error // used by tests to simulate save failures
	findErr error
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{store: make(map[int64]*model.Ledger)}
}

func cloneLedger(l *model.Ledger) *model.Ledger {
	cp := *l
	cp.ReminderTimes = append([]string(nil), l.ReminderTimes...)
	cp.Days = make([]model.DayEntry, len(l.Days))
	for i, d := range l.Days {
		cp.Days[i] = model.DayEntry{Date: d.Date, Calories: append([]int(nil), d.Calories...)}
	}
	return &cp
}

func (m *memLedgerRepo) Find(_ context.Context, tgID int64) (*model.Ledger, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.store[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneLedger(l), nil
}

func (m *memLedgerRepo) Save(_ context.Context, l *model.Ledger) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[l.TelegramID] = cloneLedger(l)
	return nil
}

func (m *memLedgerRepo) Delete(_ context.Context, tgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, tgID)
	return nil
}

func (m *memLedgerRepo) All(_ context.Context) ([]*model.Ledger, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Ledger, 0, len(m.store))
	for _, l := range m.store {
		out = append(out, cloneLedger(l))
	}
	return out, nil
}

func (m *memLedgerRepo) has(tgID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.store[tgID]
	return ok
}

// memRegistry is an in-memory reminder registry for unit tests.
type memRegistry struct {
	mu      sync.RWMutex
	buckets map[string]map[int64]struct{}
}

func newMemRegistry() *memRegistry {
	return &memRegistry{buckets: make(map[string]map[int64]struct{})}
}

func (m *memRegistry) Register(_ context.Context, bucket string, tgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buckets[bucket] == nil {
		m.buckets[bucket] = make(map[int64]struct{})
	}
	m.buckets[bucket][tgID] = struct{}{}
	return nil
}

func (m *memRegistry) Unregister(_ context.Context, bucket string, tgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buckets[bucket], tgID)
	return nil
}

func (m *memRegistry) Bucket(_ context.Context, bucket string) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []int64
	for id := range m.buckets[bucket] {
		out = append(out, id)
	}
	return out, nil
}

func (m *memRegistry) contains(bucket string, tgID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.buckets[bucket][tgID]
	return ok
}

// memSender records every outbound message.
type memSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

type sentMessage struct {
	TelegramID int64
	Text       string
}

func newMemSender() *memSender { return &memSender{} }

func (m *memSender) SendMessage(_ context.Context, tgID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{TelegramID: tgID, Text: text})
	return nil
}

func (m *memSender) last() (sentMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMessage{}, false
	}
	return m.sent[len(m.sent)-1], true
}
