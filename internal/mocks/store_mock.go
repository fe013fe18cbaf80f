package mocks

import (
	"context"

	"github.com/omriShneor/schedule_bot/internal/database"
	"github.com/stretchr/testify/mock"
)

// MockEventStore is a mock implementation of event persistence
type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) GetOrCreateUser(ctx context.Context, telegramID string) (int64, error) {
	args := m.Called(ctx, telegramID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventStore) CreateEvent(ctx context.Context, event *database.Event) (*database.Event, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Event), args.Error(1)
}

func (m *MockEventStore) ListEvents(ctx context.Context, f database.EventFilter) ([]database.Event, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Event), args.Error(1)
}

func (m *MockEventStore) UpdateEvent(ctx context.Context, userID, id int64, u database.EventUpdate) error {
	args := m.Called(ctx, userID, id, u)
	return args.Error(0)
}

func (m *MockEventStore) DeleteEvents(ctx context.Context, userID int64, ids []int64) (int64, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(int64), args.Error(1)
}
