package http

import (
	"context"

	"trexxdash/pkg/contracts/domain"
)

// DashboardServiceInterface defines the operations the dashboard handlers need
type DashboardServiceInterface interface {
	Overview(ctx context.Context) *domain.Overview
	Summary(ctx context.Context) (*domain.SummaryPanel, error)
	Forecast(ctx context.Context) (*domain.ForecastPanel, error)
	Teams(ctx context.Context) (*domain.TeamsPanel, error)
	Segments(ctx context.Context) (*domain.SegmentsPanel, error)
	Models(ctx context.Context) (*domain.ModelsPanel, error)

	Catalog(ctx context.Context) domain.ArtifactCatalog
	Table(ctx context.Context, name string) (*domain.TableData, error)
	EndSession(ctx context.Context) (bool, error)
}
