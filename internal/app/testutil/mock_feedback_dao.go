package testutil

import (
	"context"
	"sort"
	"sync"

	"callguard/internal/app/model"
	"callguard/internal/app/repository"
)

// MockFeedbackDAO is an in-memory repository.FeedbackDAO. ErrorMap forces a
// method, keyed by name, to fail.
type MockFeedbackDAO struct {
	mu      sync.RWMutex
	records map[string]model.Feedback

	ErrorMap map[string]error
}

var _ repository.FeedbackDAO = (*MockFeedbackDAO)(nil)

// NewMockFeedbackDAO returns an empty store, optionally seeded.
func NewMockFeedbackDAO(seed ...model.Feedback) *MockFeedbackDAO {
	m := &MockFeedbackDAO{records: make(map[string]model.Feedback), ErrorMap: make(map[string]error)}
	for _, f := range seed {
		m.records[f.ID] = f
	}
	return m
}

func (m *MockFeedbackDAO) fail(method string) error {
	return m.ErrorMap[method]
}

func (m *MockFeedbackDAO) Close() error { return m.fail("Close") }

func (m *MockFeedbackDAO) Create(ctx context.Context, f *model.Feedback) error {
	if err := m.fail("Create"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[f.ID] = *f
	return nil
}

func (m *MockFeedbackDAO) Get(ctx context.Context, id string) (*model.Feedback, error) {
	if err := m.fail("Get"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (m *MockFeedbackDAO) UpdateUserFeedback(ctx context.Context, id, userFeedback string) (*model.Feedback, error) {
	if err := m.fail("UpdateUserFeedback"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	f.UserFeedback = userFeedback
	m.records[id] = f
	return &f, nil
}

func (m *MockFeedbackDAO) List(ctx context.Context, limit, offset int) ([]model.Feedback, error) {
	if err := m.fail("List"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	all := make([]model.Feedback, 0, len(m.records))
	for _, f := range m.records {
		all = append(all, f)
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if offset >= len(all) {
		return []model.Feedback{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *MockFeedbackDAO) Count(ctx context.Context) (int, error) {
	if err := m.fail("Count"); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

// Len returns the number of stored records.
func (m *MockFeedbackDAO) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
