package domain

// ExamFilter is the typed filter specification for exam tables. Every field
// is optional; set fields are combined with logical AND. A single field
// never carries more than one value (no OR within a dimension).
type ExamFilter struct {
	// Term matches records whose exam term equals the given value.
	Term *string `json:"term,omitempty"`
	// Grade matches records with exactly this grade.
	Grade *int `json:"grade,omitempty" validate:"omitempty,min=1,max=5"`
	// MinScore/MaxScore bound the score column inclusively.
	MinScore *int `json:"min_score,omitempty" validate:"omitempty,min=0,max=100"`
	MaxScore *int `json:"max_score,omitempty" validate:"omitempty,min=0,max=100"`
	// PassedOnly keeps only records with a passing grade.
	PassedOnly bool `json:"passed_only,omitempty"`
	// Search is a case-insensitive substring match on first or last name.
	Search string `json:"search,omitempty"`
}

// IsZero reports whether no predicate is set.
func (f ExamFilter) IsZero() bool {
	return f.Term == nil && f.Grade == nil && f.MinScore == nil &&
		f.MaxScore == nil && !f.PassedOnly && f.Search == ""
}

// ProfileFilter is the typed filter specification for profile tables.
type ProfileFilter struct {
	Specialization *string `json:"specialization,omitempty"`
	City           *string `json:"city,omitempty"`
	Gender         *string `json:"gender,omitempty" validate:"omitempty,oneof=M F"`
	Year           *int    `json:"year,omitempty" validate:"omitempty,min=1,max=2"`
	// MinAvgGrade/MaxAvgGrade bound the avg_grade column inclusively.
	MinAvgGrade *float64 `json:"min_avg_grade,omitempty" validate:"omitempty,min=2,max=5"`
	MaxAvgGrade *float64 `json:"max_avg_grade,omitempty" validate:"omitempty,min=2,max=5"`
	// ScholarshipOnly keeps only scholarship holders.
	ScholarshipOnly bool `json:"scholarship_only,omitempty"`
	// Search is a case-insensitive substring match on specialization or city.
	Search string `json:"search,omitempty"`
}

// IsZero reports whether no predicate is set.
func (f ProfileFilter) IsZero() bool {
	return f.Specialization == nil && f.City == nil && f.Gender == nil &&
		f.Year == nil && f.MinAvgGrade == nil && f.MaxAvgGrade == nil &&
		!f.ScholarshipOnly && f.Search == ""
}
