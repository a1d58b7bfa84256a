package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the directory layout of the application. All paths are
// resolved relative to the working directory unless overridden.
type Paths struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
	ChartsDir  string `yaml:"charts_dir" envconfig:"CHARTS_DIR" default:"data/charts"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// DefaultPaths returns the default directory layout.
func DefaultPaths() Paths {
	return Paths{
		DataDir:    "data",
		ReportsDir: filepath.Join("data", "reports"),
		ChartsDir:  filepath.Join("data", "charts"),
		LogsDir:    "logs",
	}
}

// EnsureDirectories creates every configured directory that does not exist.
func (p Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.ChartsDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DataPath resolves a file name inside the data directory.
func (p Paths) DataPath(name string) string {
	return filepath.Join(p.DataDir, name)
}

// ReportPath resolves a file name inside the reports directory.
func (p Paths) ReportPath(name string) string {
	return filepath.Join(p.ReportsDir, name)
}

// ChartPath resolves a file name inside the charts directory.
func (p Paths) ChartPath(name string) string {
	return filepath.Join(p.ChartsDir, name)
}
