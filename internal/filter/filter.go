// Package filter applies typed filter specifications to student tables.
// Filtering is pure and stateless: the same table and specification always
// yield the same result, and an empty result is an explicit error rather
// than a silently empty table.
package filter

import (
	"strings"

	"gradeviz/internal/errors"
	"gradeviz/pkg/contracts/domain"
)

// ApplyExam returns the subsequence of rows satisfying every set predicate
// of the specification. Predicates combine with logical AND. When no row
// survives, an EmptyResultError is returned so callers surface the
// condition instead of charting nothing.
func ApplyExam(table *domain.ExamTable, spec domain.ExamFilter) (*domain.ExamTable, error) {
	rows := make([]domain.ExamRecord, 0, len(table.Rows))
	for _, r := range table.Rows {
		if matchExam(r, spec) {
			rows = append(rows, r)
		}
	}

	if len(rows) == 0 {
		return nil, errors.NewEmptyResultError("no records match the current filter")
	}

	return &domain.ExamTable{Rows: rows, Provenance: table.Provenance}, nil
}

func matchExam(r domain.ExamRecord, spec domain.ExamFilter) bool {
	if spec.Term != nil && r.Term != *spec.Term {
		return false
	}
	if spec.Grade != nil && r.Grade != *spec.Grade {
		return false
	}
	if spec.MinScore != nil && r.Score < *spec.MinScore {
		return false
	}
	if spec.MaxScore != nil && r.Score > *spec.MaxScore {
		return false
	}
	if spec.PassedOnly && !r.Passed() {
		return false
	}
	if spec.Search != "" {
		q := strings.ToLower(spec.Search)
		if !strings.Contains(strings.ToLower(r.FirstName), q) &&
			!strings.Contains(strings.ToLower(r.LastName), q) {
			return false
		}
	}
	return true
}

// ApplyProfile is ApplyExam for the profile schema.
func ApplyProfile(table *domain.ProfileTable, spec domain.ProfileFilter) (*domain.ProfileTable, error) {
	rows := make([]domain.ProfileRecord, 0, len(table.Rows))
	for _, r := range table.Rows {
		if matchProfile(r, spec) {
			rows = append(rows, r)
		}
	}

	if len(rows) == 0 {
		return nil, errors.NewEmptyResultError("no records match the current filter")
	}

	return &domain.ProfileTable{Rows: rows, Provenance: table.Provenance}, nil
}

func matchProfile(r domain.ProfileRecord, spec domain.ProfileFilter) bool {
	if spec.Specialization != nil && r.Specialization != *spec.Specialization {
		return false
	}
	if spec.City != nil && r.City != *spec.City {
		return false
	}
	if spec.Gender != nil && r.Gender != *spec.Gender {
		return false
	}
	if spec.Year != nil && r.Year != *spec.Year {
		return false
	}
	if spec.MinAvgGrade != nil && r.AvgGrade < *spec.MinAvgGrade {
		return false
	}
	if spec.MaxAvgGrade != nil && r.AvgGrade > *spec.MaxAvgGrade {
		return false
	}
	if spec.ScholarshipOnly && !r.Scholarship {
		return false
	}
	if spec.Search != "" {
		q := strings.ToLower(spec.Search)
		if !strings.Contains(strings.ToLower(r.Specialization), q) &&
			!strings.Contains(strings.ToLower(r.City), q) {
			return false
		}
	}
	return true
}
