package dialogue

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/omriShneor/schedule_bot/internal/extract"
)

// mockExtractor is a mock implementation of the field extractors
type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Event(ctx context.Context, text string, today time.Time) extract.Fields {
	args := m.Called(ctx, text, today)
	return args.Get(0).(extract.Fields)
}

func (m *mockExtractor) Range(ctx context.Context, text string, today time.Time) extract.DateRange {
	args := m.Called(ctx, text, today)
	return args.Get(0).(extract.DateRange)
}

func (m *mockExtractor) Target(ctx context.Context, text string, today time.Time) extract.Target {
	args := m.Called(ctx, text, today)
	return args.Get(0).(extract.Target)
}

func (m *mockExtractor) Changes(ctx context.Context, text string, today time.Time) extract.Fields {
	args := m.Called(ctx, text, today)
	return args.Get(0).(extract.Fields)
}
