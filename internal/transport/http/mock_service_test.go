package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"trexxdash/pkg/contracts/domain"
)

// MockDashboardService is a mock implementation of DashboardServiceInterface
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Overview(ctx context.Context) *domain.Overview {
	return m.Called().Get(0).(*domain.Overview)
}

func (m *MockDashboardService) Summary(ctx context.Context) (*domain.SummaryPanel, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SummaryPanel), args.Error(1)
}

func (m *MockDashboardService) Forecast(ctx context.Context) (*domain.ForecastPanel, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ForecastPanel), args.Error(1)
}

func (m *MockDashboardService) Teams(ctx context.Context) (*domain.TeamsPanel, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TeamsPanel), args.Error(1)
}

func (m *MockDashboardService) Segments(ctx context.Context) (*domain.SegmentsPanel, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SegmentsPanel), args.Error(1)
}

func (m *MockDashboardService) Models(ctx context.Context) (*domain.ModelsPanel, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelsPanel), args.Error(1)
}

func (m *MockDashboardService) Catalog(ctx context.Context) domain.ArtifactCatalog {
	return m.Called().Get(0).(domain.ArtifactCatalog)
}

func (m *MockDashboardService) Table(ctx context.Context, name string) (*domain.TableData, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TableData), args.Error(1)
}

func (m *MockDashboardService) EndSession(ctx context.Context) (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}
