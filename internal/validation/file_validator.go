// Package validation checks filesystem preconditions before datasets are
// read or artifacts written. Content validation lives in the dataset
// loader; this package only looks at paths and sizes.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "gradeviz/internal/errors"
)

// FileValidator provides common file validation for all executables.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateCSVInput checks that path points at a readable CSV file no
// larger than maxBytes. A zero maxBytes disables the size cap.
func (v *FileValidator) ValidateCSVInput(path string, maxBytes int64) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Input file does not exist",
			slog.String("file", path))
		return apperrors.NewIOError(fmt.Sprintf("file %s does not exist", path), err)
	}
	if err != nil {
		v.logger.Error("Failed to stat input file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewIOError(fmt.Sprintf("failed to stat %s", path), err)
	}
	if info.IsDir() {
		v.logger.Error("Input path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" {
		v.logger.Error("Input file is not a CSV file",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewAppValidationError(
			fmt.Sprintf("file %s is not a CSV file (extension: %s)", path, ext))
	}

	if maxBytes > 0 && info.Size() > maxBytes {
		v.logger.Error("Input file exceeds size cap",
			slog.String("file", path),
			slog.Int64("size", info.Size()),
			slog.Int64("max", maxBytes))
		return apperrors.NewAppValidationError(
			fmt.Sprintf("file %s is %d bytes, cap is %d", path, info.Size(), maxBytes))
	}

	// Confirm readability before the loader commits to parsing.
	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Input file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewIOError(fmt.Sprintf("file %s is not readable", path), err)
	}
	file.Close()

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures the directory exists and is writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewIOError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewIOError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateOutputPath checks the target file's directory and rejects
// paths that escape it through traversal segments.
func (v *FileValidator) ValidateOutputPath(path string) error {
	if strings.Contains(path, "..") {
		v.logger.Error("Output path contains traversal segments",
			slog.String("path", path))
		return apperrors.NewAppValidationError(fmt.Sprintf("output path %s contains traversal segments", path))
	}
	return v.ValidateOutputDirectory(filepath.Dir(path))
}
