package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "gradeviz/internal/errors"
	"gradeviz/pkg/contracts/domain"
)

func examTable() *domain.ExamTable {
	return &domain.ExamTable{Rows: []domain.ExamRecord{
		{StudentID: 1, FirstName: "Ana", LastName: "Horvat", Term: "veljaca", Score: 91, Grade: 5},
		{StudentID: 2, FirstName: "Marko", LastName: "Kovacevic", Term: "lipanj", Score: 48, Grade: 1},
		{StudentID: 3, FirstName: "Ivana", LastName: "Babic", Term: "veljaca", Score: 72, Grade: 3},
		{StudentID: 4, FirstName: "Petar", LastName: "Juric", Term: "rujan", Score: 55, Grade: 2},
	}}
}

func intPtr(v int) *int         { return &v }
func strPtr(v string) *string   { return &v }
func fltPtr(v float64) *float64 { return &v }

func TestApplyExamPredicates(t *testing.T) {
	tests := []struct {
		name    string
		spec    domain.ExamFilter
		wantIDs []int
	}{
		{
			name:    "zero filter keeps everything",
			spec:    domain.ExamFilter{},
			wantIDs: []int{1, 2, 3, 4},
		},
		{
			name:    "term",
			spec:    domain.ExamFilter{Term: strPtr("veljaca")},
			wantIDs: []int{1, 3},
		},
		{
			name:    "grade",
			spec:    domain.ExamFilter{Grade: intPtr(5)},
			wantIDs: []int{1},
		},
		{
			name:    "score range",
			spec:    domain.ExamFilter{MinScore: intPtr(50), MaxScore: intPtr(80)},
			wantIDs: []int{3, 4},
		},
		{
			name:    "passed only",
			spec:    domain.ExamFilter{PassedOnly: true},
			wantIDs: []int{1, 3, 4},
		},
		{
			name:    "search is case-insensitive over both names",
			spec:    domain.ExamFilter{Search: "kovac"},
			wantIDs: []int{2},
		},
		{
			name:    "predicates combine with AND",
			spec:    domain.ExamFilter{Term: strPtr("veljaca"), MinScore: intPtr(80)},
			wantIDs: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyExam(examTable(), tt.spec)
			require.NoError(t, err)

			ids := make([]int, 0, len(got.Rows))
			for _, r := range got.Rows {
				ids = append(ids, r.StudentID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestApplyExamEmptyResult(t *testing.T) {
	_, err := ApplyExam(examTable(), domain.ExamFilter{Term: strPtr("nepostojeci")})
	require.Error(t, err)
	assert.True(t, apperrors.IsEmptyResult(err))
}

func TestApplyExamIdempotent(t *testing.T) {
	spec := domain.ExamFilter{PassedOnly: true}

	once, err := ApplyExam(examTable(), spec)
	require.NoError(t, err)
	twice, err := ApplyExam(once, spec)
	require.NoError(t, err)

	assert.Equal(t, once.Rows, twice.Rows, "filtering a filtered table must be a no-op")
}

func TestApplyExamDoesNotMutateInput(t *testing.T) {
	table := examTable()
	_, err := ApplyExam(table, domain.ExamFilter{Grade: intPtr(5)})
	require.NoError(t, err)
	assert.Len(t, table.Rows, 4, "the source table must stay intact")
}

func profileTable() *domain.ProfileTable {
	return &domain.ProfileTable{Rows: []domain.ProfileRecord{
		{StudentID: 1, Year: 1, Specialization: "Programsko inzenjerstvo", City: "Zagreb", Gender: "F", AvgGrade: 4.4, Scholarship: true},
		{StudentID: 2, Year: 2, Specialization: "Mrezne tehnologije", City: "Split", Gender: "M", AvgGrade: 3.1},
		{StudentID: 3, Year: 1, Specialization: "Programsko inzenjerstvo", City: "Rijeka", Gender: "M", AvgGrade: 2.6},
	}}
}

func TestApplyProfilePredicates(t *testing.T) {
	tests := []struct {
		name    string
		spec    domain.ProfileFilter
		wantIDs []int
	}{
		{
			name:    "specialization",
			spec:    domain.ProfileFilter{Specialization: strPtr("Programsko inzenjerstvo")},
			wantIDs: []int{1, 3},
		},
		{
			name:    "grade band and year",
			spec:    domain.ProfileFilter{Year: intPtr(1), MinAvgGrade: fltPtr(3.0)},
			wantIDs: []int{1},
		},
		{
			name:    "scholarship only",
			spec:    domain.ProfileFilter{ScholarshipOnly: true},
			wantIDs: []int{1},
		},
		{
			name:    "search matches city",
			spec:    domain.ProfileFilter{Search: "spli"},
			wantIDs: []int{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyProfile(profileTable(), tt.spec)
			require.NoError(t, err)

			ids := make([]int, 0, len(got.Rows))
			for _, r := range got.Rows {
				ids = append(ids, r.StudentID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestApplyProfileEmptyResult(t *testing.T) {
	_, err := ApplyProfile(profileTable(), domain.ProfileFilter{City: strPtr("Osijek")})
	require.Error(t, err)
	assert.True(t, apperrors.IsEmptyResult(err))
}
