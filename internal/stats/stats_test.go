package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "gradeviz/internal/errors"
	"gradeviz/pkg/contracts/domain"
)

func TestDescribe(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}

	s, err := Describe(values)
	require.NoError(t, err)

	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 30, s.Mean, 1e-9)
	assert.InDelta(t, 30, s.Median, 1e-9)
	assert.InDelta(t, 10, s.Min, 1e-9)
	assert.InDelta(t, 50, s.Max, 1e-9)
	// Sample std of 10..50 step 10.
	assert.InDelta(t, math.Sqrt(250), s.Std, 1e-9)
}

func TestDescribeSingleValue(t *testing.T) {
	s, err := Describe([]float64{42})
	require.NoError(t, err)
	assert.InDelta(t, 42, s.Mean, 1e-9)
	assert.InDelta(t, 0, s.Std, 1e-9)
}

func TestDescribeEmptyIsEmptyResult(t *testing.T) {
	_, err := Describe(nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsEmptyResult(err))
}

func TestQuantile(t *testing.T) {
	values := []float64{4, 1, 3, 2}

	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{1, 4},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Quantile(values, tt.q), 1e-9, "q=%v", tt.q)
	}

	// Input must stay unsorted.
	assert.Equal(t, []float64{4, 1, 3, 2}, values)
}

func TestFiveNumberSummary(t *testing.T) {
	five, err := FiveNumberSummary([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.InDelta(t, 1, five.Min, 1e-9)
	assert.InDelta(t, 2, five.Q1, 1e-9)
	assert.InDelta(t, 3, five.Median, 1e-9)
	assert.InDelta(t, 4, five.Q3, 1e-9)
	assert.InDelta(t, 5, five.Max, 1e-9)
}

func TestNewHistogram(t *testing.T) {
	h := NewHistogram([]float64{0, 9, 10, 55, 100}, 0, 100, 10)

	require.Len(t, h.Counts, 10)
	assert.Equal(t, "0-10", h.Labels[0])
	assert.Equal(t, 2, h.Counts[0], "0 and 9 fall into the first bucket")
	assert.Equal(t, 1, h.Counts[1], "a boundary value goes to the higher bucket")
	assert.Equal(t, 1, h.Counts[5])
	assert.Equal(t, 1, h.Counts[9], "the maximum stays in the last bucket")
}

func snapshotTable() *domain.ExamTable {
	return &domain.ExamTable{Rows: []domain.ExamRecord{
		{StudentID: 1, Term: "veljaca", Score: 90, Grade: 5},
		{StudentID: 2, Term: "veljaca", Score: 70, Grade: 3},
		{StudentID: 3, Term: "lipanj", Score: 40, Grade: 1},
		{StudentID: 4, Term: "lipanj", Score: 60, Grade: 2},
	}}
}

func TestExamSnapshot(t *testing.T) {
	s, err := ExamSnapshot(snapshotTable())
	require.NoError(t, err)

	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 65, s.Mean, 1e-9)
	assert.InDelta(t, 65, s.Median, 1e-9)
	assert.Equal(t, 3, s.PassedCount)
	assert.Equal(t, 1, s.FailedCount)
	assert.InDelta(t, 75, s.PassRate, 1e-9)

	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 1, 4: 0, 5: 1}, s.GradeDistribution,
		"every grade bucket must be present, zeros included")
}

func TestExamSnapshotEmpty(t *testing.T) {
	_, err := ExamSnapshot(&domain.ExamTable{})
	require.Error(t, err)
	assert.True(t, apperrors.IsEmptyResult(err))

	_, err = ExamSnapshot(nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsEmptyResult(err))
}

func TestExamTermStatsSortedByTerm(t *testing.T) {
	groups := ExamTermStats(snapshotTable())
	require.Len(t, groups, 2)

	assert.Equal(t, "lipanj", groups[0].Key)
	assert.Equal(t, 2, groups[0].Count)
	assert.InDelta(t, 50, groups[0].Mean, 1e-9)
	assert.InDelta(t, 50, groups[0].PassRate, 1e-9)

	assert.Equal(t, "veljaca", groups[1].Key)
	assert.InDelta(t, 80, groups[1].Mean, 1e-9)
	assert.InDelta(t, 100, groups[1].PassRate, 1e-9)
}

func TestProfileSnapshotScholarshipAsPass(t *testing.T) {
	table := &domain.ProfileTable{Rows: []domain.ProfileRecord{
		{StudentID: 1, Specialization: "PI", AvgGrade: 4.5, Scholarship: true},
		{StudentID: 2, Specialization: "PI", AvgGrade: 3.0},
		{StudentID: 3, Specialization: "MT", AvgGrade: 2.5},
	}}

	s, err := ProfileSnapshot(table)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 1, s.PassedCount)
	assert.InDelta(t, 100.0/3, s.PassRate, 1e-9)

	require.Len(t, s.Groups, 2)
	assert.Equal(t, "MT", s.Groups[0].Key)
	assert.Equal(t, "PI", s.Groups[1].Key)
	assert.InDelta(t, 3.75, s.Groups[1].Mean, 1e-9)
}
