package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "gradeviz/internal/errors"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validExamCSV = `student_id,ime,prezime,termin,bodovi,ocjena
1,Ana,Horvat,veljaca,91,5
2,Marko,Kovacevic,lipanj,48,1
3,Ivana,Babic,rujan,72,3
`

func TestLoadExamValid(t *testing.T) {
	l := NewLoader(nil)
	path := writeTempCSV(t, validExamCSV)

	table, err := l.LoadExam(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, 1, table.Rows[0].StudentID)
	assert.Equal(t, "Ana", table.Rows[0].FirstName)
	assert.Equal(t, "Horvat", table.Rows[0].LastName)
	assert.Equal(t, "veljaca", table.Rows[0].Term)
	assert.Equal(t, 91, table.Rows[0].Score)
	assert.Equal(t, 5, table.Rows[0].Grade)

	assert.Equal(t, path, table.Provenance.Source)
	assert.Equal(t, 3, table.Provenance.RowCount)
	assert.NotEmpty(t, table.Provenance.ID)
}

func TestLoadExamHeaderAliases(t *testing.T) {
	l := NewLoader(nil)
	path := writeTempCSV(t, "ID,Name,Surname,Term,Score,Grade\n1,Ana,Horvat,veljaca,91,5\n")

	table, err := l.LoadExam(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Ana", table.Rows[0].FirstName)
}

func TestLoadExamBOMHeader(t *testing.T) {
	l := NewLoader(nil)
	path := writeTempCSV(t, "\uFEFF"+validExamCSV)

	table, err := l.LoadExam(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 3)
}

func TestLoadExamErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errType apperrors.ErrorType
	}{
		{
			name:    "missing column",
			content: "student_id,ime,prezime,bodovi,ocjena\n1,Ana,Horvat,91,5\n",
			errType: apperrors.ErrTypeSchema,
		},
		{
			name:    "empty file",
			content: "",
			errType: apperrors.ErrTypeSchema,
		},
		{
			name:    "header only",
			content: "student_id,ime,prezime,termin,bodovi,ocjena\n",
			errType: apperrors.ErrTypeSchema,
		},
		{
			name:    "non-numeric score",
			content: "student_id,ime,prezime,termin,bodovi,ocjena\n1,Ana,Horvat,veljaca,abc,5\n",
			errType: apperrors.ErrTypeCoercion,
		},
		{
			name:    "score out of range",
			content: "student_id,ime,prezime,termin,bodovi,ocjena\n1,Ana,Horvat,veljaca,104,5\n",
			errType: apperrors.ErrTypeRange,
		},
		{
			name:    "grade out of range",
			content: "student_id,ime,prezime,termin,bodovi,ocjena\n1,Ana,Horvat,veljaca,91,6\n",
			errType: apperrors.ErrTypeRange,
		},
		{
			name: "duplicate student id",
			content: "student_id,ime,prezime,termin,bodovi,ocjena\n" +
				"1,Ana,Horvat,veljaca,91,5\n1,Marko,Babic,lipanj,48,1\n",
			errType: apperrors.ErrTypeRange,
		},
		{
			name:    "empty name",
			content: "student_id,ime,prezime,termin,bodovi,ocjena\n1,,Horvat,veljaca,91,5\n",
			errType: apperrors.ErrTypeValidation,
		},
	}

	l := NewLoader(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempCSV(t, tt.content)
			before, err := os.ReadFile(path)
			require.NoError(t, err)

			_, loadErr := l.LoadExam(context.Background(), path)
			require.Error(t, loadErr)
			assert.True(t, apperrors.IsType(loadErr, tt.errType),
				"want %s, got %v", tt.errType, loadErr)

			// A rejected load must not touch the input file.
			after, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestLoadExamMissingFile(t *testing.T) {
	l := NewLoader(nil)
	_, err := l.LoadExam(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeIO))
}

const validProfileCSV = `date,student_id,year,specialization,city,gender,avg_grade,ects_completed,weekly_hours,attendance_rate,scholarship
2025-02-14,1,1,Programsko inzenjerstvo,Zagreb,F,4.35,32,14.5,0.91,1
2025-06-30,2,2,Mrezne tehnologije,Split,M,3.10,55,9.0,0.70,0
`

func TestLoadProfileValid(t *testing.T) {
	l := NewLoader(nil)
	path := writeTempCSV(t, validProfileCSV)

	table, err := l.LoadProfile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	first := table.Rows[0]
	assert.Equal(t, "2025-02-14", first.Date.Format("2006-01-02"))
	assert.Equal(t, 1, first.Year)
	assert.Equal(t, "Zagreb", first.City)
	assert.Equal(t, "F", first.Gender)
	assert.InDelta(t, 4.35, first.AvgGrade, 1e-9)
	assert.True(t, first.Scholarship)
	assert.False(t, table.Rows[1].Scholarship)
}

func TestLoadProfileErrors(t *testing.T) {
	header := "date,student_id,year,specialization,city,gender,avg_grade,ects_completed,weekly_hours,attendance_rate,scholarship\n"
	tests := []struct {
		name    string
		row     string
		errType apperrors.ErrorType
	}{
		{
			name:    "bad date",
			row:     "14.02.2025,1,1,PI,Zagreb,F,4.35,32,14.5,0.91,1\n",
			errType: apperrors.ErrTypeCoercion,
		},
		{
			name:    "year out of range",
			row:     "2025-02-14,1,3,PI,Zagreb,F,4.35,32,14.5,0.91,1\n",
			errType: apperrors.ErrTypeRange,
		},
		{
			name:    "avg grade out of range",
			row:     "2025-02-14,1,1,PI,Zagreb,F,5.30,32,14.5,0.91,1\n",
			errType: apperrors.ErrTypeRange,
		},
		{
			name:    "attendance above one",
			row:     "2025-02-14,1,1,PI,Zagreb,F,4.35,32,14.5,1.20,1\n",
			errType: apperrors.ErrTypeRange,
		},
		{
			name:    "unknown gender",
			row:     "2025-02-14,1,1,PI,Zagreb,X,4.35,32,14.5,0.91,1\n",
			errType: apperrors.ErrTypeRange,
		},
		{
			name:    "bad scholarship flag",
			row:     "2025-02-14,1,1,PI,Zagreb,F,4.35,32,14.5,0.91,yes\n",
			errType: apperrors.ErrTypeCoercion,
		},
	}

	l := NewLoader(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempCSV(t, header+tt.row)
			_, err := l.LoadProfile(context.Background(), path)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.errType),
				"want %s, got %v", tt.errType, err)
		})
	}
}
