package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths holds the resolved filesystem locations the application touches.
type Paths struct {
	WorkingDir    string
	ExecutableDir string
	ArtifactsDir  string
	LogFile       string
}

// ResolvePaths turns the configured relative locations into absolute ones.
// A relative artifacts directory is looked up under the working directory
// first and next to the executable second; when neither exists the working
// directory candidate is used so that a later-created directory is picked up.
func (c *Config) ResolvePaths() (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	exeDir := ""
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		exeDir = filepath.Dir(exe)
	}

	p := &Paths{
		WorkingDir:    wd,
		ExecutableDir: exeDir,
		ArtifactsDir:  resolveDir(c.Artifacts.Dir, wd, exeDir),
	}
	if c.Logging.FilePath != "" {
		p.LogFile = resolveFile(c.Logging.FilePath, wd)
	}
	return p, nil
}

func resolveDir(dir, wd, exeDir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	candidate := filepath.Join(wd, dir)
	if DirExists(candidate) || exeDir == "" {
		return candidate
	}
	if alt := filepath.Join(exeDir, dir); DirExists(alt) {
		return alt
	}
	return candidate
}

func resolveFile(path, wd string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(wd, path)
}

// DirExists reports whether path exists and is a directory
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved locations for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("working", p.WorkingDir),
			slog.String("executable", p.ExecutableDir),
			slog.String("artifacts", p.ArtifactsDir),
		),
		slog.Bool("artifacts_exists", DirExists(p.ArtifactsDir)),
		slog.String("log_file", p.LogFile),
	)
}
