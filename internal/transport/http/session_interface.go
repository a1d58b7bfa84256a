package http

import (
	"context"
	"io"

	"gradeviz/internal/dataset"
	"gradeviz/internal/exporter"
	"gradeviz/pkg/contracts/domain"
)

// SessionInterface defines the session operations the handlers need.
type SessionInterface interface {
	Generate(ctx context.Context, opts dataset.GenerateOptions) error
	SetRegenerateOnRead(on bool)
	LoadCSV(ctx context.Context, path string) error
	SetFilter(ctx context.Context, spec domain.ExamFilter) (int, error)
	Filter() domain.ExamFilter
	Filtered(ctx context.Context) (*domain.ExamTable, error)
	Snapshot(ctx context.Context) (domain.KPISnapshot, error)
	Provenance() (domain.Provenance, error)
	Theme() string
	SetTheme(name string) error
	ExportCSV(ctx context.Context, w io.Writer) error
	ExportExcel(ctx context.Context, w io.Writer) error
	RenderDashboard(ctx context.Context, format exporter.RenderFormat) (string, error)
	DashboardHTML(ctx context.Context, w io.Writer) error
}
