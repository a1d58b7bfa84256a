// Package services holds the stateful core of the dashboard: one Session
// owns the loaded dataset, the active filter and theme, and coordinates
// the dataset, filter, stats and exporter packages on behalf of the
// transport layer.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"

	"gradeviz/internal/charts"
	"gradeviz/internal/config"
	"gradeviz/internal/dataset"
	apperrors "gradeviz/internal/errors"
	"gradeviz/internal/exporter"
	"gradeviz/internal/filter"
	"gradeviz/internal/stats"
	"gradeviz/internal/validation"
	"gradeviz/pkg/contracts/domain"
)

// ChangeEvent describes a dataset or view mutation, broadcast to
// websocket subscribers so open dashboards refresh.
type ChangeEvent struct {
	Kind       string             `json:"kind"`
	RowCount   int                `json:"row_count"`
	Theme      string             `json:"theme"`
	Provenance *domain.Provenance `json:"provenance,omitempty"`
}

// Change event kinds.
const (
	EventDatasetReplaced = "dataset_replaced"
	EventFilterChanged   = "filter_changed"
	EventThemeChanged    = "theme_changed"
)

// Session is the single mutable view over the exam dataset. All methods
// are safe for concurrent use.
type Session struct {
	mu sync.RWMutex

	table      *domain.ExamTable
	spec       domain.ExamFilter
	provenance domain.Provenance
	theme      string

	// regenerateOnRead reproduces the legacy always-fresh behavior where
	// every read drew a new synthetic dataset. Off by default so repeated
	// reads observe the same data. Only applies while the dataset is
	// generated, never to a loaded CSV.
	regenerateOnRead bool
	lastGen          *dataset.GenerateOptions

	cfg       *config.Config
	logger    *slog.Logger
	generator *dataset.Generator
	loader    *dataset.Loader
	writer    *dataset.Writer
	exporter  *exporter.Exporter
	files     *validation.FileValidator
	validate  *validator.Validate

	onChange func(ChangeEvent)
}

// NewSession creates a session with no dataset loaded.
func NewSession(cfg *config.Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		theme:     cfg.Theme.Name,
		cfg:       cfg,
		logger:    logger,
		generator: dataset.NewGenerator(logger, cfg.Generator),
		loader:    dataset.NewLoader(logger),
		writer:    dataset.NewWriter(logger),
		exporter:  exporter.New(logger, cfg.Export.RenderTimeout),
		files:     validation.NewFileValidator(logger),
		validate:  validator.New(),
	}
}

// OnChange registers the change broadcast callback. The callback runs
// outside the session lock.
func (s *Session) OnChange(fn func(ChangeEvent)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Session) notify(kind string) {
	s.mu.RLock()
	fn := s.onChange
	event := ChangeEvent{Kind: kind, Theme: s.theme}
	if s.table != nil {
		event.RowCount = s.table.Len()
		prov := s.provenance
		event.Provenance = &prov
	}
	s.mu.RUnlock()

	if fn != nil {
		fn(event)
	}
}

// EnsureDataset makes sure a dataset is loaded: the default CSV file is
// loaded when present, otherwise a fresh dataset is generated and
// persisted so restarts see the same data.
func (s *Session) EnsureDataset(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.table != nil
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	path := s.cfg.Paths.DataPath(config.DefaultCSVName)
	if _, err := os.Stat(path); err == nil {
		return s.LoadCSV(ctx, path)
	}

	s.logger.InfoContext(ctx, "no dataset on disk, generating default",
		slog.String("path", path),
		slog.Int("count", s.cfg.Generator.DefaultCount))
	return s.Generate(ctx, dataset.GenerateOptions{Count: s.cfg.Generator.DefaultCount})
}

// Generate replaces the dataset with a synthetic one and persists it to
// the default CSV path. The active filter is reset.
func (s *Session) Generate(ctx context.Context, opts dataset.GenerateOptions) error {
	table, err := s.generator.GenerateExam(ctx, opts)
	if err != nil {
		return err
	}

	path := s.cfg.Paths.DataPath(config.DefaultCSVName)
	if err := s.writer.WriteExam(ctx, path, table); err != nil {
		return err
	}

	s.mu.Lock()
	s.table = table
	s.provenance = table.Provenance
	s.spec = domain.ExamFilter{}
	s.lastGen = &opts
	s.mu.Unlock()

	s.notify(EventDatasetReplaced)
	return nil
}

// LoadCSV replaces the dataset with the contents of a CSV file. The file
// is checked before parsing and left untouched on failure. The active
// filter is reset.
func (s *Session) LoadCSV(ctx context.Context, path string) error {
	if err := s.files.ValidateCSVInput(path, s.cfg.Export.MaxCSVBytes); err != nil {
		return err
	}

	table, err := s.loader.LoadExam(ctx, path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.table = table
	s.provenance = table.Provenance
	s.spec = domain.ExamFilter{}
	s.lastGen = nil
	s.mu.Unlock()

	s.notify(EventDatasetReplaced)
	return nil
}

// SetFilter validates and applies a filter specification, returning the
// surviving row count. A specification matching zero rows is rejected
// and the previous filter stays active.
func (s *Session) SetFilter(ctx context.Context, spec domain.ExamFilter) (int, error) {
	if err := s.validate.StructCtx(ctx, spec); err != nil {
		return 0, apperrors.NewAppValidationError(fmt.Sprintf("invalid filter: %v", err))
	}

	s.mu.Lock()
	if s.table == nil {
		s.mu.Unlock()
		return 0, apperrors.NewNotFoundError("no dataset loaded")
	}
	filtered, err := filter.ApplyExam(s.table, spec)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	s.spec = spec
	s.mu.Unlock()

	s.notify(EventFilterChanged)
	return filtered.Len(), nil
}

// Filter returns the active filter specification.
func (s *Session) Filter() domain.ExamFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spec
}

// SetRegenerateOnRead toggles drawing a fresh synthetic dataset before
// every read.
func (s *Session) SetRegenerateOnRead(on bool) {
	s.mu.Lock()
	s.regenerateOnRead = on
	s.mu.Unlock()
}

// Filtered returns the dataset view under the active filter.
func (s *Session) Filtered(ctx context.Context) (*domain.ExamTable, error) {
	s.mu.RLock()
	regen := s.regenerateOnRead && s.lastGen != nil
	var opts dataset.GenerateOptions
	if regen {
		opts = *s.lastGen
	}
	s.mu.RUnlock()

	if regen {
		if err := s.Generate(ctx, opts); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.table == nil {
		return nil, apperrors.NewNotFoundError("no dataset loaded")
	}
	if s.spec.IsZero() {
		return s.table, nil
	}
	return filter.ApplyExam(s.table, s.spec)
}

// Snapshot computes the KPI snapshot of the filtered view.
func (s *Session) Snapshot(ctx context.Context) (domain.KPISnapshot, error) {
	table, err := s.Filtered(ctx)
	if err != nil {
		return domain.KPISnapshot{}, err
	}
	return stats.ExamSnapshot(table)
}

// Provenance reports where the current dataset came from.
func (s *Session) Provenance() (domain.Provenance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.table == nil {
		return domain.Provenance{}, apperrors.NewNotFoundError("no dataset loaded")
	}
	return s.provenance, nil
}

// Theme returns the active chart theme.
func (s *Session) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme switches the chart theme between "light" and "dark".
func (s *Session) SetTheme(name string) error {
	if name != "light" && name != "dark" {
		return apperrors.NewAppValidationError(fmt.Sprintf("unknown theme %q", name))
	}

	s.mu.Lock()
	s.theme = name
	s.mu.Unlock()

	s.notify(EventThemeChanged)
	return nil
}

// ChartBuilder returns a chart builder for the active theme.
func (s *Session) ChartBuilder() *charts.Builder {
	return charts.NewBuilder(s.Theme())
}

// ExportCSV streams the filtered view as CSV.
func (s *Session) ExportCSV(ctx context.Context, w io.Writer) error {
	table, err := s.Filtered(ctx)
	if err != nil {
		return err
	}
	return s.exporter.StreamExamCSV(ctx, w, table)
}

// ExportExcel streams the filtered view as an Excel workbook with a KPI
// sheet and an embedded chart.
func (s *Session) ExportExcel(ctx context.Context, w io.Writer) error {
	table, err := s.Filtered(ctx)
	if err != nil {
		return err
	}
	snapshot, err := stats.ExamSnapshot(table)
	if err != nil {
		return err
	}
	return s.exporter.WriteExamWorkbook(ctx, w, table, snapshot)
}

// RenderDashboard writes the chart dashboard of the filtered view under
// the charts directory and returns the written path.
func (s *Session) RenderDashboard(ctx context.Context, format exporter.RenderFormat) (string, error) {
	table, err := s.Filtered(ctx)
	if err != nil {
		return "", err
	}
	return s.exporter.ExamDashboard(ctx, s.ChartBuilder(), table, s.cfg.Paths.ChartsDir, format)
}

// DashboardHTML renders the combined chart page of the filtered view
// directly to w, used by the /charts endpoint.
func (s *Session) DashboardHTML(ctx context.Context, w io.Writer) error {
	table, err := s.Filtered(ctx)
	if err != nil {
		return err
	}
	page, err := s.ChartBuilder().ExamPage(table)
	if err != nil {
		return err
	}
	return page.Render(w)
}
