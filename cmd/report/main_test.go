package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradeviz/internal/charts"
	"gradeviz/internal/exporter"
	"gradeviz/internal/stats"
	"gradeviz/pkg/contracts/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExamFilterSpec(t *testing.T) {
	spec := examFilterSpec("veljaca", 4, 50, 90, true, "ana")

	require.NotNil(t, spec.Term)
	assert.Equal(t, "veljaca", *spec.Term)
	require.NotNil(t, spec.Grade)
	assert.Equal(t, 4, *spec.Grade)
	require.NotNil(t, spec.MinScore)
	assert.Equal(t, 50, *spec.MinScore)
	assert.True(t, spec.PassedOnly)
	assert.Equal(t, "ana", spec.Search)

	assert.True(t, examFilterSpec("", 0, -1, -1, false, "").IsZero())
}

func TestProfileFilterSpec(t *testing.T) {
	spec := profileFilterSpec("PI", "Zagreb", "F", 2, 3.5, 4.5, true, "za")

	require.NotNil(t, spec.Specialization)
	assert.Equal(t, "PI", *spec.Specialization)
	require.NotNil(t, spec.City)
	assert.Equal(t, "Zagreb", *spec.City)
	require.NotNil(t, spec.Gender)
	assert.Equal(t, "F", *spec.Gender)
	require.NotNil(t, spec.Year)
	assert.Equal(t, 2, *spec.Year)
	require.NotNil(t, spec.MinAvgGrade)
	assert.Equal(t, 3.5, *spec.MinAvgGrade)
	require.NotNil(t, spec.MaxAvgGrade)
	assert.Equal(t, 4.5, *spec.MaxAvgGrade)
	assert.True(t, spec.ScholarshipOnly)
	assert.Equal(t, "za", spec.Search)

	assert.True(t, profileFilterSpec("", "", "", 0, 0, 0, false, "").IsZero())
}

func TestWriteExamArtifacts(t *testing.T) {
	dir := t.TempDir()
	table := &domain.ExamTable{Rows: []domain.ExamRecord{
		{StudentID: 1, FirstName: "Ana", LastName: "Horvat", Term: "veljaca", Score: 91, Grade: 5},
		{StudentID: 2, FirstName: "Marko", LastName: "Kovacevic", Term: "lipanj", Score: 48, Grade: 1},
	}}
	snapshot, err := stats.ExamSnapshot(table)
	require.NoError(t, err)

	exp := exporter.New(discardLogger(), 0)
	err = writeExamArtifacts(context.Background(), exp, charts.NewBuilder("light"), table, snapshot, dir, "html", discardLogger())
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "izvjestaj_ispit.csv"))
	assert.FileExists(t, filepath.Join(dir, "izvjestaj_ispit.xlsx"))
	assert.FileExists(t, filepath.Join(dir, "exam_dashboard.html"))

	data, err := os.ReadFile(filepath.Join(dir, "izvjestaj_ispit.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "student_id,ime,prezime,termin,bodovi,ocjena")
}

func TestWriteProfileArtifacts(t *testing.T) {
	dir := t.TempDir()
	date, err := time.Parse(domain.DateLayout, "2025-03-01")
	require.NoError(t, err)

	table := &domain.ProfileTable{Rows: []domain.ProfileRecord{
		{
			Date: date, StudentID: 1, Year: 1,
			Specialization: "PI", City: "Zagreb", Gender: "F",
			AvgGrade: 4.4, ECTSCompleted: 30, WeeklyHours: 12.5,
			AttendanceRate: 0.9, Scholarship: true,
		},
	}}
	snapshot, err := stats.ProfileSnapshot(table)
	require.NoError(t, err)

	exp := exporter.New(discardLogger(), 0)
	err = writeProfileArtifacts(context.Background(), exp, charts.NewBuilder("dark"), table, snapshot, dir, "html", discardLogger())
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "izvjestaj_profil.csv"))
	assert.FileExists(t, filepath.Join(dir, "izvjestaj_profil.xlsx"))
	assert.FileExists(t, filepath.Join(dir, "profile_dashboard.html"))
}
