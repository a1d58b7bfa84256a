package domain

import (
	"sort"
	"time"
)

// Profile schema domain bounds.
const (
	MinAvgGrade = 2.0
	MaxAvgGrade = 5.0
	MinECTS     = 0
	MaxECTS     = 120
	MinYear     = 1
	MaxYear     = 2

	// ScholarshipGradeThreshold and ScholarshipAttendanceThreshold define
	// the derived scholarship rule. The flag is never sampled on its own:
	// scholarship = avg_grade >= 4.0 AND attendance_rate >= 0.85.
	ScholarshipGradeThreshold      = 4.0
	ScholarshipAttendanceThreshold = 0.85
)

// DateLayout is the wire format of the profile schema date column.
const DateLayout = "2006-01-02"

// ProfileRecord is a single row of the student-profile schema.
type ProfileRecord struct {
	Date           time.Time `json:"date" csv:"date"`
	StudentID      int       `json:"student_id" csv:"student_id" validate:"gt=0"`
	Year           int       `json:"year" csv:"year" validate:"min=1,max=2"`
	Specialization string    `json:"specialization" csv:"specialization" validate:"required"`
	City           string    `json:"city" csv:"city" validate:"required"`
	Gender         string    `json:"gender" csv:"gender" validate:"oneof=M F"`
	AvgGrade       float64   `json:"avg_grade" csv:"avg_grade" validate:"min=2,max=5"`
	ECTSCompleted  int       `json:"ects_completed" csv:"ects_completed" validate:"min=0,max=120"`
	WeeklyHours    float64   `json:"weekly_hours" csv:"weekly_hours" validate:"min=0"`
	AttendanceRate float64   `json:"attendance_rate" csv:"attendance_rate" validate:"min=0,max=1"`
	Scholarship    bool      `json:"scholarship" csv:"scholarship"`
}

// ScholarshipEligible evaluates the derived scholarship rule for the record.
// Generated and validated data must satisfy Scholarship == ScholarshipEligible().
func (r ProfileRecord) ScholarshipEligible() bool {
	return r.AvgGrade >= ScholarshipGradeThreshold &&
		r.AttendanceRate >= ScholarshipAttendanceThreshold
}

// ProfileColumns is the canonical column order of the profile schema.
var ProfileColumns = []string{
	"date", "student_id", "year", "specialization", "city", "gender",
	"avg_grade", "ects_completed", "weekly_hours", "attendance_rate", "scholarship",
}

// ProfileTable is an ordered sequence of profile records.
type ProfileTable struct {
	Rows       []ProfileRecord `json:"rows"`
	Provenance Provenance      `json:"provenance"`
}

// Len returns the number of rows.
func (t *ProfileTable) Len() int { return len(t.Rows) }

// Specializations returns the distinct specializations present, sorted.
func (t *ProfileTable) Specializations() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range t.Rows {
		if _, ok := seen[r.Specialization]; !ok {
			seen[r.Specialization] = struct{}{}
			out = append(out, r.Specialization)
		}
	}
	sort.Strings(out)
	return out
}

// AvgGrades returns the avg_grade column in row order.
func (t *ProfileTable) AvgGrades() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.AvgGrade
	}
	return out
}
