package service_test

import (
	"context"
	"sync"

	"github.com/niksmo/minizon/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type notificationRecorder struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (r *notificationRecorder) Notify(_ context.Context, n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *notificationRecorder) kinds() []domain.NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]domain.NotificationKind, len(r.notes))
	for i, n := range r.notes {
		kinds[i] = n.Kind
	}
	return kinds
}

func (r *notificationRecorder) last() domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return domain.Notification{}
	}
	return r.notes[len(r.notes)-1]
}

func (r *notificationRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = nil
}

type MockCartStorage struct {
	mock.Mock
}

func (m *MockCartStorage) LoadCart(ctx context.Context) ([]domain.LineItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]domain.LineItem)
	return items, args.Error(1)
}

func (m *MockCartStorage) SaveCart(ctx context.Context, items []domain.LineItem) error {
	return m.Called(ctx, items).Error(0)
}

func (m *MockCartStorage) LoadSaved(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]domain.Product)
	return ps, args.Error(1)
}

func (m *MockCartStorage) SaveSaved(ctx context.Context, ps []domain.Product) error {
	return m.Called(ctx, ps).Error(0)
}

func product(id string, price float64) domain.Product {
	return domain.Product{
		ID:      id,
		Name:    "Product " + id,
		Price:   price,
		InStock: true,
	}
}
