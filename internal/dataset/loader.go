package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"gradeviz/internal/errors"
	"gradeviz/pkg/contracts/domain"
)

// examAliases maps accepted header spellings onto canonical exam columns.
// Matching is case-insensitive.
var examAliases = map[string][]string{
	"student_id": {"student_id", "id", "studentid", "šifra"},
	"ime":        {"ime", "first_name", "firstname", "name"},
	"prezime":    {"prezime", "last_name", "lastname", "surname"},
	"termin":     {"termin", "term", "ispitni_rok"},
	"bodovi":     {"bodovi", "score", "points", "bod"},
	"ocjena":     {"ocjena", "grade", "ocj"},
}

// profileAliases maps accepted header spellings onto canonical profile columns.
var profileAliases = map[string][]string{
	"date":            {"date", "datum"},
	"student_id":      {"student_id", "id", "studentid"},
	"year":            {"year", "godina"},
	"specialization":  {"specialization", "smjer"},
	"city":            {"city", "grad"},
	"gender":          {"gender", "spol"},
	"avg_grade":       {"avg_grade", "prosjek"},
	"ects_completed":  {"ects_completed", "ects"},
	"weekly_hours":    {"weekly_hours", "sati_tjedno"},
	"attendance_rate": {"attendance_rate", "dolaznost"},
	"scholarship":     {"scholarship", "stipendija"},
}

// Loader reads and validates student CSV files. A row with any invalid
// cell fails the whole load; nothing is coerced silently.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadExam parses the file at path into an exam table.
func (l *Loader) LoadExam(ctx context.Context, path string) (*domain.ExamTable, error) {
	header, rows, err := l.readAll(ctx, path)
	if err != nil {
		return nil, err
	}

	cols, err := mapColumns(header, examAliases, domain.ExamColumns, path)
	if err != nil {
		return nil, err
	}

	table := &domain.ExamTable{Rows: make([]domain.ExamRecord, 0, len(rows))}
	seenIDs := make(map[int]struct{}, len(rows))

	for i, row := range rows {
		line := i + 2 // header is line 1
		rec, err := parseExamRow(row, cols, line)
		if err != nil {
			return nil, err
		}
		if _, dup := seenIDs[rec.StudentID]; dup {
			return nil, errors.NewRangeError(
				fmt.Sprintf("line %d: duplicate student_id %d", line, rec.StudentID))
		}
		seenIDs[rec.StudentID] = struct{}{}
		table.Rows = append(table.Rows, rec)
	}

	table.Provenance = loadedProvenance(path, len(table.Rows))

	l.logger.InfoContext(ctx, "loaded exam dataset",
		slog.String("path", path),
		slog.Int("rows", len(table.Rows)))

	return table, nil
}

// LoadProfile parses the file at path into a profile table.
func (l *Loader) LoadProfile(ctx context.Context, path string) (*domain.ProfileTable, error) {
	header, rows, err := l.readAll(ctx, path)
	if err != nil {
		return nil, err
	}

	cols, err := mapColumns(header, profileAliases, domain.ProfileColumns, path)
	if err != nil {
		return nil, err
	}

	table := &domain.ProfileTable{Rows: make([]domain.ProfileRecord, 0, len(rows))}
	seenIDs := make(map[int]struct{}, len(rows))

	for i, row := range rows {
		line := i + 2
		rec, err := parseProfileRow(row, cols, line)
		if err != nil {
			return nil, err
		}
		if _, dup := seenIDs[rec.StudentID]; dup {
			return nil, errors.NewRangeError(
				fmt.Sprintf("line %d: duplicate student_id %d", line, rec.StudentID))
		}
		seenIDs[rec.StudentID] = struct{}{}
		table.Rows = append(table.Rows, rec)
	}

	table.Provenance = loadedProvenance(path, len(table.Rows))

	l.logger.InfoContext(ctx, "loaded profile dataset",
		slog.String("path", path),
		slog.Int("rows", len(table.Rows)))

	return table, nil
}

// readAll opens the CSV and returns its header and data rows. The file
// handle is released on every path, including parse failure.
func (l *Loader) readAll(ctx context.Context, path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.NewIOError(fmt.Sprintf("cannot open %s", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, errors.NewSchemaError(fmt.Sprintf("%s is empty", path), nil)
	}
	if err != nil {
		return nil, nil, errors.NewIOError(fmt.Sprintf("cannot read header of %s", path), err)
	}
	stripBOM(header)

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.NewIOError(fmt.Sprintf("cannot read %s", path), err)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, nil, errors.NewSchemaError(fmt.Sprintf("%s contains no data rows", path), nil)
	}

	return header, rows, nil
}

// mapColumns resolves the header into canonical column indices. Missing
// required columns are a schema error naming everything that is absent.
func mapColumns(header []string, aliases map[string][]string, required []string, path string) (map[string]int, error) {
	lower := make(map[string]int, len(header))
	for i, col := range header {
		lower[strings.ToLower(strings.TrimSpace(col))] = i
	}

	cols := make(map[string]int, len(required))
	for canonical, names := range aliases {
		for _, alias := range names {
			if idx, ok := lower[alias]; ok {
				cols[canonical] = idx
				break
			}
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := cols[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewSchemaError(
			fmt.Sprintf("%s is missing required columns: %s", path, strings.Join(missing, ", ")), nil).
			WithContext("missing", missing).
			WithContext("found", header)
	}

	return cols, nil
}

func parseExamRow(row []string, cols map[string]int, line int) (domain.ExamRecord, error) {
	var rec domain.ExamRecord

	id, err := cellInt(row, cols, "student_id", line)
	if err != nil {
		return rec, err
	}
	score, err := cellInt(row, cols, "bodovi", line)
	if err != nil {
		return rec, err
	}
	grade, err := cellInt(row, cols, "ocjena", line)
	if err != nil {
		return rec, err
	}

	if score < domain.MinScore || score > domain.MaxScore {
		return rec, errors.NewRangeError(
			fmt.Sprintf("line %d: bodovi %d outside [%d, %d]", line, score, domain.MinScore, domain.MaxScore))
	}
	if grade < domain.MinGrade || grade > domain.MaxGrade {
		return rec, errors.NewRangeError(
			fmt.Sprintf("line %d: ocjena %d outside [%d, %d]", line, grade, domain.MinGrade, domain.MaxGrade))
	}

	rec = domain.ExamRecord{
		StudentID: id,
		FirstName: cell(row, cols, "ime"),
		LastName:  cell(row, cols, "prezime"),
		Term:      cell(row, cols, "termin"),
		Score:     score,
		Grade:     grade,
	}

	for _, field := range []struct{ name, value string }{
		{"ime", rec.FirstName}, {"prezime", rec.LastName}, {"termin", rec.Term},
	} {
		if field.value == "" {
			return rec, errors.NewAppValidationError(
				fmt.Sprintf("line %d: column %q must not be empty", line, field.name))
		}
	}

	return rec, nil
}

func parseProfileRow(row []string, cols map[string]int, line int) (domain.ProfileRecord, error) {
	var rec domain.ProfileRecord

	dateStr := cell(row, cols, "date")
	date, err := time.Parse(domain.DateLayout, dateStr)
	if err != nil {
		return rec, errors.NewCoercionError(
			fmt.Sprintf("line %d: date %q is not a valid %s date", line, dateStr, domain.DateLayout), err)
	}

	id, err := cellInt(row, cols, "student_id", line)
	if err != nil {
		return rec, err
	}
	year, err := cellInt(row, cols, "year", line)
	if err != nil {
		return rec, err
	}
	ects, err := cellInt(row, cols, "ects_completed", line)
	if err != nil {
		return rec, err
	}
	avgGrade, err := cellFloat(row, cols, "avg_grade", line)
	if err != nil {
		return rec, err
	}
	hours, err := cellFloat(row, cols, "weekly_hours", line)
	if err != nil {
		return rec, err
	}
	attendance, err := cellFloat(row, cols, "attendance_rate", line)
	if err != nil {
		return rec, err
	}
	scholarship, err := cellBool(row, cols, "scholarship", line)
	if err != nil {
		return rec, err
	}

	switch {
	case year < domain.MinYear || year > domain.MaxYear:
		return rec, errors.NewRangeError(
			fmt.Sprintf("line %d: year %d outside [%d, %d]", line, year, domain.MinYear, domain.MaxYear))
	case avgGrade < domain.MinAvgGrade || avgGrade > domain.MaxAvgGrade:
		return rec, errors.NewRangeError(
			fmt.Sprintf("line %d: avg_grade %.2f outside [%.1f, %.1f]", line, avgGrade, domain.MinAvgGrade, domain.MaxAvgGrade))
	case ects < domain.MinECTS || ects > domain.MaxECTS:
		return rec, errors.NewRangeError(
			fmt.Sprintf("line %d: ects_completed %d outside [%d, %d]", line, ects, domain.MinECTS, domain.MaxECTS))
	case hours < 0:
		return rec, errors.NewRangeError(
			fmt.Sprintf("line %d: weekly_hours %.1f must not be negative", line, hours))
	case attendance < 0 || attendance > 1:
		return rec, errors.NewRangeError(
			fmt.Sprintf("line %d: attendance_rate %.2f outside [0, 1]", line, attendance))
	}

	gender := cell(row, cols, "gender")
	if gender != "M" && gender != "F" {
		return rec, errors.NewRangeError(
			fmt.Sprintf("line %d: gender %q must be M or F", line, gender))
	}

	rec = domain.ProfileRecord{
		Date:           date,
		StudentID:      id,
		Year:           year,
		Specialization: cell(row, cols, "specialization"),
		City:           cell(row, cols, "city"),
		Gender:         gender,
		AvgGrade:       avgGrade,
		ECTSCompleted:  ects,
		WeeklyHours:    hours,
		AttendanceRate: attendance,
		Scholarship:    scholarship,
	}

	for _, field := range []struct{ name, value string }{
		{"specialization", rec.Specialization}, {"city", rec.City},
	} {
		if field.value == "" {
			return rec, errors.NewAppValidationError(
				fmt.Sprintf("line %d: column %q must not be empty", line, field.name))
		}
	}

	return rec, nil
}

func cell(row []string, cols map[string]int, name string) string {
	idx := cols[name]
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func cellInt(row []string, cols map[string]int, name string, line int) (int, error) {
	raw := cell(row, cols, name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewCoercionError(
			fmt.Sprintf("line %d: column %q value %q is not an integer", line, name, raw), err)
	}
	return v, nil
}

func cellFloat(row []string, cols map[string]int, name string, line int) (float64, error) {
	raw := cell(row, cols, name)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.NewCoercionError(
			fmt.Sprintf("line %d: column %q value %q is not a number", line, name, raw), err)
	}
	return v, nil
}

func cellBool(row []string, cols map[string]int, name string, line int) (bool, error) {
	raw := cell(row, cols, name)
	switch raw {
	case "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	}
	return false, errors.NewCoercionError(
		fmt.Sprintf("line %d: column %q value %q is not a boolean", line, name, raw), nil)
}

func stripBOM(header []string) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
}

func loadedProvenance(path string, rows int) domain.Provenance {
	return domain.Provenance{
		ID:       uuid.New().String(),
		Source:   path,
		RowCount: rows,
		LoadedAt: time.Now().UTC(),
	}
}
