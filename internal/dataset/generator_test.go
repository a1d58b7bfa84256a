package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradeviz/internal/config"
	apperrors "gradeviz/internal/errors"
	"gradeviz/pkg/contracts/domain"
)

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	return NewGenerator(nil, config.Generator{DefaultCount: 50, MaxCount: 500})
}

func TestGenerateExamDeterministicPerSeed(t *testing.T) {
	g := testGenerator(t)
	seed := int64(42)

	first, err := g.GenerateExam(context.Background(), GenerateOptions{Seed: &seed, Count: 80})
	require.NoError(t, err)
	second, err := g.GenerateExam(context.Background(), GenerateOptions{Seed: &seed, Count: 80})
	require.NoError(t, err)

	assert.Equal(t, first, second, "same seed must reproduce the same table, provenance included")
	assert.Equal(t, "gen-42-80", first.Provenance.ID)
	assert.True(t, first.Provenance.LoadedAt.IsZero(),
		"seeded runs must not carry a wall-clock stamp")
}

func TestGenerateExamSeedsDiffer(t *testing.T) {
	g := testGenerator(t)
	seedA, seedB := int64(1), int64(2)

	a, err := g.GenerateExam(context.Background(), GenerateOptions{Seed: &seedA, Count: 50})
	require.NoError(t, err)
	b, err := g.GenerateExam(context.Background(), GenerateOptions{Seed: &seedB, Count: 50})
	require.NoError(t, err)

	assert.NotEqual(t, a.Rows, b.Rows, "different seeds should diverge")
}

func TestGenerateExamInvariants(t *testing.T) {
	g := testGenerator(t)
	seed := int64(7)

	table, err := g.GenerateExam(context.Background(), GenerateOptions{Seed: &seed, Count: 200})
	require.NoError(t, err)
	require.Len(t, table.Rows, 200)

	seenIDs := make(map[int]struct{})
	seenNames := make(map[string]struct{})
	for _, r := range table.Rows {
		if _, dup := seenIDs[r.StudentID]; dup {
			t.Fatalf("duplicate student_id %d", r.StudentID)
		}
		seenIDs[r.StudentID] = struct{}{}

		full := r.FullName()
		if _, dup := seenNames[full]; dup {
			t.Fatalf("duplicate full name %q", full)
		}
		seenNames[full] = struct{}{}

		assert.GreaterOrEqual(t, r.Score, domain.MinScore)
		assert.LessOrEqual(t, r.Score, domain.MaxScore)
		assert.Equal(t, config.ScoreToGrade(r.Score), r.Grade,
			"grade must follow the score thresholds")
		assert.Contains(t, config.ExamTerms, r.Term)
	}
}

func TestGenerateExamCountValidation(t *testing.T) {
	g := NewGenerator(nil, config.Generator{DefaultCount: 10, MaxCount: 20})

	t.Run("count above maximum", func(t *testing.T) {
		_, err := g.GenerateExam(context.Background(), GenerateOptions{Count: 21})
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	})

	t.Run("zero count falls back to default", func(t *testing.T) {
		table, err := g.GenerateExam(context.Background(), GenerateOptions{})
		require.NoError(t, err)
		assert.Len(t, table.Rows, 10)
	})
}

func TestGenerateProfileInvariants(t *testing.T) {
	g := testGenerator(t)
	seed := int64(99)

	table, err := g.GenerateProfile(context.Background(), GenerateOptions{Seed: &seed, Count: 150})
	require.NoError(t, err)
	require.Len(t, table.Rows, 150)

	for _, r := range table.Rows {
		assert.GreaterOrEqual(t, r.Year, domain.MinYear)
		assert.LessOrEqual(t, r.Year, domain.MaxYear)
		assert.GreaterOrEqual(t, r.AvgGrade, domain.MinAvgGrade)
		assert.LessOrEqual(t, r.AvgGrade, domain.MaxAvgGrade)
		assert.GreaterOrEqual(t, r.AttendanceRate, 0.0)
		assert.LessOrEqual(t, r.AttendanceRate, 1.0)
		assert.GreaterOrEqual(t, r.ECTSCompleted, domain.MinECTS)
		assert.LessOrEqual(t, r.ECTSCompleted, domain.MaxECTS)
		assert.Contains(t, []string{"M", "F"}, r.Gender)

		// The flag is derived, never sampled.
		assert.Equal(t, r.ScholarshipEligible(), r.Scholarship)
	}
}

func TestGenerateProfileDeterministicPerSeed(t *testing.T) {
	g := testGenerator(t)
	seed := int64(5)

	first, err := g.GenerateProfile(context.Background(), GenerateOptions{Seed: &seed, Count: 60})
	require.NoError(t, err)
	second, err := g.GenerateProfile(context.Background(), GenerateOptions{Seed: &seed, Count: 60})
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
}

func TestGeneratedProvenanceUnseeded(t *testing.T) {
	g := testGenerator(t)

	table, err := g.GenerateExam(context.Background(), GenerateOptions{Count: 5})
	require.NoError(t, err)

	assert.Equal(t, domain.GeneratedSource, table.Provenance.Source)
	assert.NotEmpty(t, table.Provenance.ID)
	assert.Equal(t, 5, table.Provenance.RowCount)
}
