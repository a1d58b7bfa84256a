package domain

import (
	"fmt"
	"sort"
)

// SchemaKind identifies which CSV schema a table follows.
type SchemaKind string

const (
	// SchemaExam is the exam-result variant:
	// student_id, ime, prezime, termin, bodovi, ocjena.
	SchemaExam SchemaKind = "exam"
	// SchemaProfile is the student-profile variant:
	// date, student_id, year, specialization, city, gender, avg_grade,
	// ects_completed, weekly_hours, attendance_rate, scholarship.
	SchemaProfile SchemaKind = "profile"
)

// Score domain bounds for the exam variant.
const (
	MinScore = 0
	MaxScore = 100
	MinGrade = 1
	MaxGrade = 5

	// PassingGrade is the lowest passing grade. Records with a lower
	// grade count as failed in every pass-rate statistic.
	PassingGrade = 2

	// PassingScore is the score threshold that maps to PassingGrade.
	PassingScore = 50
)

// ExamRecord is a single row of the exam-result schema. Column names on the
// wire stay Croatian to keep generated files loadable by the original tooling.
type ExamRecord struct {
	StudentID int    `json:"student_id" csv:"student_id" validate:"gt=0"`
	FirstName string `json:"ime" csv:"ime" validate:"required"`
	LastName  string `json:"prezime" csv:"prezime" validate:"required"`
	Term      string `json:"termin" csv:"termin" validate:"required"`
	Score     int    `json:"bodovi" csv:"bodovi" validate:"min=0,max=100"`
	Grade     int    `json:"ocjena" csv:"ocjena" validate:"min=1,max=5"`
}

// FullName returns "ime prezime".
func (r ExamRecord) FullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}

// Passed reports whether the record counts as a pass.
func (r ExamRecord) Passed() bool {
	return r.Grade >= PassingGrade
}

// ExamColumns is the canonical column order of the exam schema.
var ExamColumns = []string{"student_id", "ime", "prezime", "termin", "bodovi", "ocjena"}

// ExamTable is an ordered sequence of exam records sharing the exam schema.
// Row order reflects generation or read order and carries no semantic
// meaning for aggregation.
type ExamTable struct {
	Rows       []ExamRecord `json:"rows"`
	Provenance Provenance   `json:"provenance"`
}

// Len returns the number of rows.
func (t *ExamTable) Len() int { return len(t.Rows) }

// Terms returns the distinct exam terms present, sorted ascending.
func (t *ExamTable) Terms() []string {
	seen := make(map[string]struct{}, 4)
	var terms []string
	for _, r := range t.Rows {
		if _, ok := seen[r.Term]; !ok {
			seen[r.Term] = struct{}{}
			terms = append(terms, r.Term)
		}
	}
	sort.Strings(terms)
	return terms
}

// Scores returns the score column as float64 values, in row order.
func (t *ExamTable) Scores() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = float64(r.Score)
	}
	return out
}
