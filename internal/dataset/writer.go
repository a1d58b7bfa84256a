package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gradeviz/internal/errors"
	"gradeviz/pkg/contracts/domain"
)

// Writer persists tables as CSV. It is the loader's inverse: a table
// written and re-loaded compares equal row for row.
type Writer struct {
	logger *slog.Logger
	// bom prefixes files with a UTF-8 BOM so Excel opens them correctly.
	bom bool
}

// NewWriter creates a CSV writer. BOM prefixing is on by default.
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger, bom: true}
}

// WriteExam writes an exam table to path in canonical column order.
func (w *Writer) WriteExam(ctx context.Context, path string, table *domain.ExamTable) error {
	records := make([][]string, 0, len(table.Rows))
	for _, r := range table.Rows {
		records = append(records, []string{
			strconv.Itoa(r.StudentID),
			r.FirstName,
			r.LastName,
			r.Term,
			strconv.Itoa(r.Score),
			strconv.Itoa(r.Grade),
		})
	}
	return w.write(ctx, path, domain.ExamColumns, records)
}

// WriteProfile writes a profile table to path in canonical column order.
// Floats use the shortest representation that parses back to the same
// value, so precision loaded from a file survives a write.
func (w *Writer) WriteProfile(ctx context.Context, path string, table *domain.ProfileTable) error {
	records := make([][]string, 0, len(table.Rows))
	for _, r := range table.Rows {
		scholarship := "0"
		if r.Scholarship {
			scholarship = "1"
		}
		records = append(records, []string{
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
		})
	}
	return w.write(ctx, path, domain.ProfileColumns, records)
}

func (w *Writer) write(ctx context.Context, path string, headers []string, records [][]string) error {
	w.logger.InfoContext(ctx, "writing CSV file",
		slog.String("path", path),
		slog.Int("record_count", len(records)))

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewIOError(fmt.Sprintf("cannot create directory %s", dir), err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewIOError(fmt.Sprintf("cannot create %s", path), err)
	}
	defer file.Close()

	if w.bom {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return errors.NewIOError("cannot write BOM", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return errors.NewIOError("cannot write CSV header", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return errors.NewIOError(fmt.Sprintf("cannot write CSV record %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.NewIOError("cannot flush CSV output", err)
	}
	return nil
}
