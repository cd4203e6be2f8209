package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"trexxdash/internal/artifacts"
	"trexxdash/internal/infrastructure"
	"trexxdash/internal/panels"
	"trexxdash/pkg/contracts/domain"
)

// SessionEnder is implemented by providers that keep per-session caches.
type SessionEnder interface {
	End(id string) bool
}

// DashboardService loads artifacts for the caller and builds panels from
// them. It holds no state of its own; caching lives in the provider.
type DashboardService struct {
	provider artifacts.Provider
	opts     panels.Options
	logger   *slog.Logger
	metrics  *infrastructure.DashboardMetrics
	tracer   trace.Tracer
	now      func() time.Time
}

// NewDashboardService creates a dashboard service. metrics may be nil.
func NewDashboardService(provider artifacts.Provider, opts panels.Options, logger *slog.Logger, metrics *infrastructure.DashboardMetrics) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("DashboardService initialized",
		slog.Float64("high_probability_threshold", opts.HighProbabilityThreshold),
		slog.Int("top_features", opts.TopFeatures),
		slog.String("row_policy", string(opts.RowPolicy)))

	return &DashboardService{
		provider: provider,
		opts:     opts,
		logger:   infrastructure.WithComponent(logger, "dashboard_service"),
		metrics:  metrics,
		tracer:   otel.Tracer(infrastructure.InstrumentationName),
		now:      time.Now,
	}
}

// tables loads names through the caller's loader. Absent datasets come back
// as nil entries.
func (s *DashboardService) tables(ctx context.Context, names ...artifacts.Name) ([]*artifacts.Table, error) {
	loader := s.provider.LoaderFor(ctx)
	out := make([]*artifacts.Table, len(names))
	for i, n := range names {
		t, ok, err := loader.Load(ctx, n)
		if err != nil {
			return nil, err
		}
		if ok {
			out[i] = t
		}
	}
	return out, nil
}

// build runs one panel builder inside a span and records its outcome.
func build[T any](ctx context.Context, s *DashboardService, panel string, fn func() (*T, []domain.RowIssue, error)) (*T, error) {
	ctx, span := s.tracer.Start(ctx, "panels.build", trace.WithAttributes(attribute.String("panel", panel)))
	defer span.End()

	start := time.Now()
	v, issues, err := fn()
	status := statusOf(err)
	if m, ok := any(v).(*domain.ModelsPanel); ok && err == nil {
		status = m.Status
	}
	infrastructure.RecordPanelBuild(ctx, s.metrics, panel, string(status), time.Since(start))

	logger := s.logger
	switch status {
	case domain.PanelStatusFailed:
		infrastructure.RecordError(ctx, err)
		logger.ErrorContext(ctx, "panel build failed",
			slog.String("panel", panel),
			slog.String("error", err.Error()))
	case domain.PanelStatusUnavailable, domain.PanelStatusPartial:
		logger.InfoContext(ctx, "panel built without some artifacts",
			slog.String("panel", panel),
			slog.String("status", string(status)))
	}
	s.reportIssues(ctx, logger, panel, issues)

	span.SetAttributes(attribute.String("panel.status", string(status)))
	return v, err
}

func statusOf(err error) domain.PanelStatus {
	switch {
	case err == nil:
		return domain.PanelStatusOK
	case errors.Is(err, panels.ErrInsufficientData):
		return domain.PanelStatusUnavailable
	default:
		return domain.PanelStatusFailed
	}
}

func (s *DashboardService) reportIssues(ctx context.Context, logger *slog.Logger, panel string, issues []domain.RowIssue) {
	if len(issues) == 0 {
		return
	}
	type key struct{ dataset, rule string }
	counts := make(map[key]int)
	for _, is := range issues {
		counts[key{is.Dataset, is.Rule}]++
		logger.WarnContext(ctx, "malformed row",
			slog.String("panel", panel),
			slog.String("dataset", is.Dataset),
			slog.Int("row", is.Row),
			slog.String("field", is.Field),
			slog.String("rule", is.Rule),
			slog.String("value", is.Value),
			slog.String("action", is.Action))
	}
	for k, n := range counts {
		infrastructure.RecordMalformedRows(ctx, s.metrics, k.dataset, k.rule, n)
	}
}

// Summary builds the executive KPI panel.
func (s *DashboardService) Summary(ctx context.Context) (*domain.SummaryPanel, error) {
	return build(ctx, s, domain.PanelSummary, func() (*domain.SummaryPanel, []domain.RowIssue, error) {
		t, err := s.tables(ctx, artifacts.TeamForecasts, artifacts.RevenueForecast, artifacts.FanProbabilities)
		if err != nil {
			return nil, nil, err
		}
		p, err := panels.BuildSummary(t[0], t[1], t[2], s.opts)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Issues, nil
	})
}

// Forecast builds the revenue forecast panel.
func (s *DashboardService) Forecast(ctx context.Context) (*domain.ForecastPanel, error) {
	return build(ctx, s, domain.PanelForecast, func() (*domain.ForecastPanel, []domain.RowIssue, error) {
		t, err := s.tables(ctx, artifacts.RevenueForecast)
		if err != nil {
			return nil, nil, err
		}
		p, err := panels.BuildForecast(t[0], s.opts)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Issues, nil
	})
}

// Teams builds the team revenue panel.
func (s *DashboardService) Teams(ctx context.Context) (*domain.TeamsPanel, error) {
	return build(ctx, s, domain.PanelTeams, func() (*domain.TeamsPanel, []domain.RowIssue, error) {
		t, err := s.tables(ctx, artifacts.TeamForecasts)
		if err != nil {
			return nil, nil, err
		}
		p, err := panels.BuildTeams(t[0], s.opts)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Issues, nil
	})
}

// Segments builds the fan segmentation panel.
func (s *DashboardService) Segments(ctx context.Context) (*domain.SegmentsPanel, error) {
	return build(ctx, s, domain.PanelSegments, func() (*domain.SegmentsPanel, []domain.RowIssue, error) {
		t, err := s.tables(ctx, artifacts.ClusterAnalysis, artifacts.FanProbabilities)
		if err != nil {
			return nil, nil, err
		}
		p, err := panels.BuildSegments(t[0], t[1], s.opts)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Issues, nil
	})
}

// Models builds the model performance panel. Missing inputs are reported in
// the panel status, not as an error.
func (s *DashboardService) Models(ctx context.Context) (*domain.ModelsPanel, error) {
	return build(ctx, s, domain.PanelModels, func() (*domain.ModelsPanel, []domain.RowIssue, error) {
		t, err := s.tables(ctx, artifacts.ModelComparison, artifacts.XGBoostImportance)
		if err != nil {
			return nil, nil, err
		}
		p, err := panels.BuildModels(t[0], t[1], s.opts)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Issues, nil
	})
}

// Overview builds every panel concurrently. A panel that cannot be built is
// reported in its own result and never affects the others.
func (s *DashboardService) Overview(ctx context.Context) *domain.Overview {
	ctx, span := s.tracer.Start(ctx, "dashboard.overview")
	defer span.End()

	ov := &domain.Overview{GeneratedAt: s.now().UTC()}

	var g errgroup.Group
	g.Go(func() error {
		ov.Summary = panelResult(s.Summary(ctx))
		return nil
	})
	g.Go(func() error {
		ov.Forecast = panelResult(s.Forecast(ctx))
		return nil
	})
	g.Go(func() error {
		ov.Teams = panelResult(s.Teams(ctx))
		return nil
	})
	g.Go(func() error {
		ov.Segments = panelResult(s.Segments(ctx))
		return nil
	})
	g.Go(func() error {
		ov.Models = modelsResult(s.Models(ctx))
		return nil
	})
	_ = g.Wait()

	return ov
}

func panelResult[T any](v *T, err error) domain.PanelResult[T] {
	if err == nil {
		return domain.PanelResult[T]{Status: domain.PanelStatusOK, Data: v}
	}
	var unavailable *panels.UnavailableError
	if errors.As(err, &unavailable) {
		return domain.PanelResult[T]{
			Status:  domain.PanelStatusUnavailable,
			Missing: unavailable.MissingArtifacts(),
			Error:   err.Error(),
		}
	}
	return domain.PanelResult[T]{Status: domain.PanelStatusFailed, Error: err.Error()}
}

func modelsResult(v *domain.ModelsPanel, err error) domain.PanelResult[domain.ModelsPanel] {
	if err != nil {
		return panelResult(v, err)
	}
	res := domain.PanelResult[domain.ModelsPanel]{Status: v.Status, Missing: v.Missing}
	if v.Status != domain.PanelStatusUnavailable {
		res.Data = v
	}
	return res
}

// Catalog reports which artifacts the caller's loader can see.
func (s *DashboardService) Catalog(ctx context.Context) domain.ArtifactCatalog {
	statuses := s.provider.LoaderFor(ctx).Describe(ctx)
	catalog := domain.ArtifactCatalog{
		Artifacts: make([]domain.ArtifactStatus, 0, len(statuses)),
		Total:     len(statuses),
	}
	for _, st := range statuses {
		if st.Available {
			catalog.Available++
		}
		catalog.Artifacts = append(catalog.Artifacts, domain.ArtifactStatus{
			Dataset:        string(st.Name),
			File:           st.File,
			Available:      st.Available,
			Rows:           st.Rows,
			Columns:        st.Columns,
			MissingColumns: st.MissingColumns,
		})
	}
	return catalog
}

// Table returns the raw rows of one dataset by logical name.
func (s *DashboardService) Table(ctx context.Context, name string) (*domain.TableData, error) {
	n, err := artifacts.ParseName(name)
	if err != nil {
		return nil, err
	}
	t, ok, err := s.provider.LoaderFor(ctx).Load(ctx, n)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, n.FileName())
	}
	return &domain.TableData{Dataset: string(n), Columns: t.Columns(), Rows: t.Records()}, nil
}

// EndSession drops the cache of the session carried by ctx.
func (s *DashboardService) EndSession(ctx context.Context) (bool, error) {
	ender, ok := s.provider.(SessionEnder)
	if !ok {
		return false, ErrSessionScopeDisabled
	}
	id := artifacts.SessionFromContext(ctx)
	ended := ender.End(id)
	s.logger.InfoContext(ctx, "session ended",
		slog.String("session_id", id),
		slog.Bool("existed", ended))
	return ended, nil
}
