// Command trexx-report builds every dashboard panel from an artifacts
// directory once and writes the result as JSON or as an Excel workbook.
//
//	trexx-report -artifacts ./artifacts -format xlsx -out dashboard.xlsx
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"trexxdash/internal/app"
	"trexxdash/internal/artifacts"
	"trexxdash/internal/config"
	apierrors "trexxdash/internal/errors"
	"trexxdash/internal/exporter"
	"trexxdash/internal/infrastructure"
	"trexxdash/internal/services"
	"trexxdash/pkg/contracts"
	"trexxdash/pkg/contracts/domain"
)

const (
	formatJSON = "json"
	formatXLSX = "xlsx"
)

type options struct {
	artifactsDir string
	format       string
	out          string
	rowPolicy    string
	verbose      bool
	version      bool
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "trexx-report:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	defaults := config.Default()

	var o options
	fs := flag.NewFlagSet("trexx-report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.artifactsDir, "artifacts", defaults.Artifacts.Dir, "directory holding the model artifact CSV files")
	fs.StringVar(&o.format, "format", formatJSON, "output format: json or xlsx")
	fs.StringVar(&o.out, "out", "", "output file (defaults to stdout)")
	fs.StringVar(&o.rowPolicy, "row-policy", defaults.Panels.RowPolicy, "malformed row policy: pass, reject or clamp")
	fs.BoolVar(&o.verbose, "v", false, "log at debug level")
	fs.BoolVar(&o.version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	o.format = strings.ToLower(o.format)
	if o.format != formatJSON && o.format != formatXLSX {
		return o, apierrors.NewConfigError(fmt.Sprintf("unsupported format %q", o.format), nil)
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if o.version {
		_, err := fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return err
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := infrastructure.WithComponent(infrastructure.NewLogger(stderr, &slog.HandlerOptions{Level: level}), "report")

	if !config.DirExists(o.artifactsDir) {
		return apierrors.NewArtifactError("artifacts directory not found", os.ErrNotExist).
			WithContext("dir", o.artifactsDir)
	}

	panelsCfg := config.Default().Panels
	panelsCfg.RowPolicy = o.rowPolicy
	opts, err := app.PanelOptions(panelsCfg)
	if err != nil {
		return apierrors.NewConfigError("invalid row policy", err)
	}

	loader := artifacts.NewLoader(os.DirFS(o.artifactsDir), nil, artifacts.WithLogger(logger))
	svc := services.NewDashboardService(loader, opts, logger, nil)

	ov := svc.Overview(ctx)
	logPanels(ctx, logger, ov)

	w := stdout
	if o.out != "" {
		if err := os.MkdirAll(filepath.Dir(o.out), 0o755); err != nil {
			return apierrors.NewStorageError("failed to create output directory", err)
		}
		f, err := os.Create(o.out)
		if err != nil {
			return apierrors.NewStorageError("failed to create output file", err)
		}
		defer f.Close()
		w = f
	}

	switch o.format {
	case formatXLSX:
		err = exporter.WriteWorkbook(w, ov)
	default:
		err = exporter.WriteJSON(w, ov)
	}
	if err != nil {
		return apierrors.NewExportError(fmt.Sprintf("failed to write %s report", o.format), err)
	}

	if o.out != "" {
		logger.InfoContext(ctx, "report written",
			slog.String("format", o.format),
			slog.String("path", o.out))
	}
	return nil
}

// logPanels reports each panel's status so a degraded run is visible on
// stderr even when stdout carries the report.
func logPanels(ctx context.Context, logger *slog.Logger, ov *domain.Overview) {
	statuses := []struct {
		panel  string
		status domain.PanelStatus
		err    string
	}{
		{domain.PanelSummary, ov.Summary.Status, ov.Summary.Error},
		{domain.PanelForecast, ov.Forecast.Status, ov.Forecast.Error},
		{domain.PanelTeams, ov.Teams.Status, ov.Teams.Error},
		{domain.PanelSegments, ov.Segments.Status, ov.Segments.Error},
		{domain.PanelModels, ov.Models.Status, ov.Models.Error},
	}
	for _, s := range statuses {
		if s.status == domain.PanelStatusOK {
			logger.DebugContext(ctx, "panel ready", slog.String("panel", s.panel))
			continue
		}
		logger.WarnContext(ctx, "panel degraded",
			slog.String("panel", s.panel),
			slog.String("status", string(s.status)),
			slog.String("error", s.err))
	}
}
