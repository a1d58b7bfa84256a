package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"gradeviz/internal/errors"
	"gradeviz/pkg/contracts/domain"
)

// Exporter produces download artifacts from tables. One instance is
// shared by the HTTP handlers and the report CLI.
type Exporter struct {
	logger        *slog.Logger
	renderTimeout time.Duration
}

// New creates an exporter. renderTimeout bounds a single browser capture.
func New(logger *slog.Logger, renderTimeout time.Duration) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	if renderTimeout <= 0 {
		renderTimeout = 45 * time.Second
	}
	return &Exporter{logger: logger, renderTimeout: renderTimeout}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// StreamExamCSV writes an exam table as CSV to w, BOM first so Excel
// detects the encoding. Used for HTTP downloads where no file is kept.
func (e *Exporter) StreamExamCSV(ctx context.Context, w io.Writer, table *domain.ExamTable) error {
	if table == nil || len(table.Rows) == 0 {
		return errors.NewEmptyResultError("cannot export zero records")
	}

	e.logger.InfoContext(ctx, "streaming CSV export",
		slog.String("schema", string(domain.SchemaExam)),
		slog.Int("record_count", len(table.Rows)))

	if _, err := w.Write(utf8BOM); err != nil {
		return errors.NewIOError("cannot write BOM", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(domain.ExamColumns); err != nil {
		return errors.NewIOError("cannot write CSV header", err)
	}
	for i, r := range table.Rows {
		record := []string{
			strconv.Itoa(r.StudentID),
			r.FirstName,
			r.LastName,
			r.Term,
			strconv.Itoa(r.Score),
			strconv.Itoa(r.Grade),
		}
		if err := cw.Write(record); err != nil {
			return errors.NewIOError(fmt.Sprintf("cannot write CSV record %d", i), err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.NewIOError("cannot flush CSV output", err)
	}
	return nil
}

// StreamProfileCSV is StreamExamCSV for the profile schema.
func (e *Exporter) StreamProfileCSV(ctx context.Context, w io.Writer, table *domain.ProfileTable) error {
	if table == nil || len(table.Rows) == 0 {
		return errors.NewEmptyResultError("cannot export zero records")
	}

	e.logger.InfoContext(ctx, "streaming CSV export",
		slog.String("schema", string(domain.SchemaProfile)),
		slog.Int("record_count", len(table.Rows)))

	if _, err := w.Write(utf8BOM); err != nil {
		return errors.NewIOError("cannot write BOM", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(domain.ProfileColumns); err != nil {
		return errors.NewIOError("cannot write CSV header", err)
	}
	for i, r := range table.Rows {
		scholarship := "0"
		if r.Scholarship {
			scholarship = "1"
		}
		record := []string{
			r.Date.Format(domain.DateLayout),
			strconv.Itoa(r.StudentID),
			strconv.Itoa(r.Year),
			r.Specialization,
			r.City,
			r.Gender,
			strconv.FormatFloat(r.AvgGrade, 'f', -1, 64),
			strconv.Itoa(r.ECTSCompleted),
			strconv.FormatFloat(r.WeeklyHours, 'f', -1, 64),
			strconv.FormatFloat(r.AttendanceRate, 'f', -1, 64),
			scholarship,
		}
		if err := cw.Write(record); err != nil {
			return errors.NewIOError(fmt.Sprintf("cannot write CSV record %d", i), err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.NewIOError("cannot flush CSV output", err)
	}
	return nil
}
