package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"gradeviz/internal/errors"
	"gradeviz/internal/stats"
	"gradeviz/pkg/contracts/domain"
)

const (
	dataSheet = "Podaci"
	kpiSheet  = "KPI"
)

// WriteExamWorkbook streams an Excel workbook to w with the exam rows, a
// KPI sheet, and a native column chart of the grade distribution.
func (e *Exporter) WriteExamWorkbook(ctx context.Context, w io.Writer, table *domain.ExamTable, snapshot domain.KPISnapshot) error {
	if table == nil || len(table.Rows) == 0 {
		return errors.NewEmptyResultError("cannot export zero records")
	}

	e.logger.InfoContext(ctx, "building Excel export",
		slog.String("schema", string(domain.SchemaExam)),
		slog.Int("record_count", len(table.Rows)))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return errors.NewIOError("cannot rename data sheet", err)
	}
	if _, err := f.NewSheet(kpiSheet); err != nil {
		return errors.NewIOError("cannot create KPI sheet", err)
	}

	if err := e.writeExamRows(f, table); err != nil {
		return err
	}
	if err := e.writeExamKPIs(f, table, snapshot); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return errors.NewIOError("cannot write workbook", err)
	}
	return nil
}

func (e *Exporter) writeExamRows(f *excelize.File, table *domain.ExamTable) error {
	header := make([]interface{}, len(domain.ExamColumns))
	for i, c := range domain.ExamColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(dataSheet, "A1", &header); err != nil {
		return errors.NewIOError("cannot write workbook header", err)
	}

	for i, r := range table.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{r.StudentID, r.FirstName, r.LastName, r.Term, r.Score, r.Grade}
		if err := f.SetSheetRow(dataSheet, cell, &row); err != nil {
			return errors.NewIOError(fmt.Sprintf("cannot write workbook row %d", i), err)
		}
	}
	return nil
}

func (e *Exporter) writeExamKPIs(f *excelize.File, table *domain.ExamTable, snapshot domain.KPISnapshot) error {
	rows := [][]interface{}{
		{"pokazatelj", "vrijednost"},
		{"broj studenata", snapshot.Count},
		{"prosjek bodova", snapshot.Mean},
		{"medijan bodova", snapshot.Median},
		{"std. devijacija", snapshot.Std},
		{"min bodova", snapshot.Min},
		{"max bodova", snapshot.Max},
		{"položilo", snapshot.PassedCount},
		{"palo", snapshot.FailedCount},
		{"prolaznost %", snapshot.PassRate},
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(kpiSheet, cell, &rows[i]); err != nil {
			return errors.NewIOError("cannot write KPI row", err)
		}
	}

	// Grade distribution feeds the embedded chart, grades 1 through 5.
	dist := stats.GradeDistribution(table)
	distStart := len(rows) + 2
	title := []interface{}{"ocjena", "broj studenata"}
	cell, _ := excelize.CoordinatesToCellName(1, distStart)
	if err := f.SetSheetRow(kpiSheet, cell, &title); err != nil {
		return errors.NewIOError("cannot write distribution header", err)
	}
	for g := domain.MinGrade; g <= domain.MaxGrade; g++ {
		cell, _ := excelize.CoordinatesToCellName(1, distStart+g)
		row := []interface{}{g, dist[g]}
		if err := f.SetSheetRow(kpiSheet, cell, &row); err != nil {
			return errors.NewIOError("cannot write distribution row", err)
		}
	}

	first := distStart + 1
	last := distStart + domain.MaxGrade
	chart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$%d", kpiSheet, distStart),
			Categories: fmt.Sprintf("%s!$A$%d:$A$%d", kpiSheet, first, last),
			Values:     fmt.Sprintf("%s!$B$%d:$B$%d", kpiSheet, first, last),
		}},
		Title:  []excelize.RichTextRun{{Text: "Broj studenata po ocjeni"}},
		Legend: excelize.ChartLegend{Position: "none"},
	}
	if err := f.AddChart(kpiSheet, "D2", chart); err != nil {
		return errors.NewIOError("cannot embed chart", err)
	}
	return nil
}

// WriteProfileWorkbook streams an Excel workbook with the profile rows
// and a KPI sheet. The embedded chart shows students per specialization.
func (e *Exporter) WriteProfileWorkbook(ctx context.Context, w io.Writer, table *domain.ProfileTable, snapshot domain.KPISnapshot) error {
	if table == nil || len(table.Rows) == 0 {
		return errors.NewEmptyResultError("cannot export zero records")
	}

	e.logger.InfoContext(ctx, "building Excel export",
		slog.String("schema", string(domain.SchemaProfile)),
		slog.Int("record_count", len(table.Rows)))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return errors.NewIOError("cannot rename data sheet", err)
	}
	if _, err := f.NewSheet(kpiSheet); err != nil {
		return errors.NewIOError("cannot create KPI sheet", err)
	}

	header := make([]interface{}, len(domain.ProfileColumns))
	for i, c := range domain.ProfileColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(dataSheet, "A1", &header); err != nil {
		return errors.NewIOError("cannot write workbook header", err)
	}
	for i, r := range table.Rows {
		scholarship := 0
		if r.Scholarship {
			scholarship = 1
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			r.Date.Format(domain.DateLayout), r.StudentID, r.Year,
			r.Specialization, r.City, r.Gender,
			r.AvgGrade, r.ECTSCompleted, r.WeeklyHours, r.AttendanceRate, scholarship,
		}
		if err := f.SetSheetRow(dataSheet, cell, &row); err != nil {
			return errors.NewIOError(fmt.Sprintf("cannot write workbook row %d", i), err)
		}
	}

	if err := e.writeProfileKPIs(f, table, snapshot); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return errors.NewIOError("cannot write workbook", err)
	}
	return nil
}

func (e *Exporter) writeProfileKPIs(f *excelize.File, table *domain.ProfileTable, snapshot domain.KPISnapshot) error {
	rows := [][]interface{}{
		{"pokazatelj", "vrijednost"},
		{"broj studenata", snapshot.Count},
		{"prosjek ocjena", snapshot.Mean},
		{"medijan ocjena", snapshot.Median},
		{"std. devijacija", snapshot.Std},
		{"stipendisti", snapshot.PassedCount},
		{"udio stipendista %", snapshot.PassRate},
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(kpiSheet, cell, &rows[i]); err != nil {
			return errors.NewIOError("cannot write KPI row", err)
		}
	}

	groups := stats.ProfileSpecializationStats(table)
	distStart := len(rows) + 2
	title := []interface{}{"smjer", "broj studenata"}
	cell, _ := excelize.CoordinatesToCellName(1, distStart)
	if err := f.SetSheetRow(kpiSheet, cell, &title); err != nil {
		return errors.NewIOError("cannot write distribution header", err)
	}
	for i, g := range groups {
		cell, _ := excelize.CoordinatesToCellName(1, distStart+1+i)
		row := []interface{}{g.Key, g.Count}
		if err := f.SetSheetRow(kpiSheet, cell, &row); err != nil {
			return errors.NewIOError("cannot write distribution row", err)
		}
	}

	first := distStart + 1
	last := distStart + len(groups)
	chart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$%d", kpiSheet, distStart),
			Categories: fmt.Sprintf("%s!$A$%d:$A$%d", kpiSheet, first, last),
			Values:     fmt.Sprintf("%s!$B$%d:$B$%d", kpiSheet, first, last),
		}},
		Title:  []excelize.RichTextRun{{Text: "Broj studenata po smjeru"}},
		Legend: excelize.ChartLegend{Position: "none"},
	}
	if err := f.AddChart(kpiSheet, "D2", chart); err != nil {
		return errors.NewIOError("cannot embed chart", err)
	}
	return nil
}
