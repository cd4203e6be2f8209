package artifacts

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"trexxdash/internal/infrastructure"
)

// Provider hands out the loader serving the caller identified by ctx.
type Provider interface {
	LoaderFor(ctx context.Context) *Loader
}

// Loader resolves logical names to files inside fsys and memoizes the
// parsed tables in its Cache.
type Loader struct {
	fsys    fs.FS
	cache   *Cache
	logger  *slog.Logger
	metrics *infrastructure.DashboardMetrics
	tracer  trace.Tracer
}

// Option configures a Loader
type Option func(*Loader)

// WithLogger sets the loader's logger
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMetrics records loads and cache lookups on metrics
func WithMetrics(metrics *infrastructure.DashboardMetrics) Option {
	return func(l *Loader) { l.metrics = metrics }
}

// WithTracer sets the tracer used for read spans
func WithTracer(tracer trace.Tracer) Option {
	return func(l *Loader) {
		if tracer != nil {
			l.tracer = tracer
		}
	}
}

// NewLoader creates a loader reading from fsys. A nil cache gets a fresh one.
func NewLoader(fsys fs.FS, cache *Cache, opts ...Option) *Loader {
	if cache == nil {
		cache = NewCache()
	}
	l := &Loader{
		fsys:   fsys,
		cache:  cache,
		logger: infrastructure.GetLogger(),
		tracer: otel.Tracer(infrastructure.InstrumentationName),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = infrastructure.WithComponent(l.logger, "artifact_loader")
	return l
}

// NewDirLoader creates a loader rooted at an artifacts directory.
func NewDirLoader(dir string, cache *Cache, opts ...Option) *Loader {
	return NewLoader(os.DirFS(dir), cache, opts...)
}

// LoaderFor returns l itself: a plain loader serves every caller.
func (l *Loader) LoaderFor(context.Context) *Loader { return l }

// Cache returns the cache backing l.
func (l *Loader) Cache() *Cache { return l.cache }

// Load returns the table for name. ok is false when the artifact is absent,
// which includes files that exist but cannot be read or parsed. The only
// error is ErrUnknownDataset.
func (l *Loader) Load(ctx context.Context, name Name) (table *Table, ok bool, err error) {
	if name.FileName() == "" {
		return nil, false, &unknownNameError{name: name}
	}

	table, ok, hit := l.cache.fetch(name, func() (*Table, bool) {
		return l.read(ctx, name)
	})
	infrastructure.RecordCacheLookup(ctx, l.metrics, string(name), hit)
	return table, ok, nil
}

func (l *Loader) read(ctx context.Context, name Name) (*Table, bool) {
	file := name.FileName()
	ctx, span := l.tracer.Start(ctx, "artifacts.read", trace.WithAttributes(
		attribute.String("dataset", string(name)),
		attribute.String("file", file),
	))
	defer span.End()

	start := time.Now()
	outcome := infrastructure.LoadOutcomeLoaded
	defer func() {
		span.SetAttributes(attribute.String("outcome", outcome))
		infrastructure.RecordArtifactLoad(ctx, l.metrics, string(name), outcome, time.Since(start))
	}()

	f, err := l.fsys.Open(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			outcome = infrastructure.LoadOutcomeAbsent
			l.logger.InfoContext(ctx, "artifact not found",
				slog.String("dataset", string(name)),
				slog.String("file", file))
			return nil, false
		}
		outcome = infrastructure.LoadOutcomeFailed
		infrastructure.RecordError(ctx, err)
		l.logger.ErrorContext(ctx, "artifact open failed",
			slog.String("dataset", string(name)),
			slog.String("file", file),
			slog.String("error", err.Error()))
		return nil, false
	}
	defer f.Close()

	table, err := ReadCSV(name, f)
	if err != nil {
		outcome = infrastructure.LoadOutcomeFailed
		infrastructure.RecordError(ctx, err)
		l.logger.ErrorContext(ctx, "artifact parse failed",
			slog.String("dataset", string(name)),
			slog.String("file", file),
			slog.String("error", err.Error()))
		return nil, false
	}

	if missing := table.Missing(name.ExpectedColumns()...); len(missing) > 0 {
		l.logger.WarnContext(ctx, "artifact lacks expected columns",
			slog.String("dataset", string(name)),
			slog.Any("missing_columns", missing))
	}

	l.logger.DebugContext(ctx, "artifact loaded",
		slog.String("dataset", string(name)),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.columns)),
		slog.Duration("duration", time.Since(start)))
	span.SetAttributes(attribute.Int("rows", table.Len()))
	return table, true
}

// Status summarises one catalogued dataset for diagnostics.
type Status struct {
	Name           Name
	File           string
	Available      bool
	Rows           int
	Columns        []string
	MissingColumns []string
}

// Describe loads every catalogued dataset through the cache and reports what
// is available.
func (l *Loader) Describe(ctx context.Context) []Status {
	names := Names()
	out := make([]Status, 0, len(names))
	for _, n := range names {
		s := Status{Name: n, File: n.FileName()}
		if t, ok, _ := l.Load(ctx, n); ok {
			s.Available = true
			s.Rows = t.Len()
			s.Columns = t.Columns()
			s.MissingColumns = t.Missing(n.ExpectedColumns()...)
		}
		out = append(out, s)
	}
	return out
}

type unknownNameError struct {
	name Name
}

func (e *unknownNameError) Error() string {
	return ErrUnknownDataset.Error() + ": " + string(e.name)
}

func (e *unknownNameError) Unwrap() error { return ErrUnknownDataset }
