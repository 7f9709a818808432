package validation

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gemscope/internal/errors"
	"gemscope/internal/infrastructure"
)

// Extensions accepted for the diamond dataset.
var datasetExtensions = []string{".csv"}

// FileValidator checks command-line inputs and outputs before a run so that
// path problems surface as typed errors instead of mid-pipeline failures.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: infrastructure.WithComponent(logger, "file_validator"),
	}
}

// ValidateFile checks that path exists, is a regular file and can be opened.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist", slog.String("file", path))
		return errors.NewNotFoundError(path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file", slog.String("path", path))
		return errors.NewAppValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateDataset checks the dataset path and that its first line looks
// like a CSV header carrying the required columns.
func (v *FileValidator) ValidateDataset(path string, requiredColumns []string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !contains(datasetExtensions, ext) {
		v.logger.Error("Dataset is not a CSV file",
			slog.String("file", path),
			slog.String("extension", ext))
		return errors.NewAppValidationError(fmt.Sprintf("%s is not a CSV file (extension: %q)", path, ext))
	}

	header, err := firstLine(path)
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	columns := strings.Split(strings.ToLower(strings.TrimPrefix(header, "\ufeff")), ",")
	for i := range columns {
		columns[i] = strings.Trim(strings.TrimSpace(columns[i]), `"`)
	}
	for _, col := range requiredColumns {
		if !contains(columns, col) {
			v.logger.Error("Dataset header is missing a column",
				slog.String("file", path),
				slog.String("column", col))
			return errors.NewAppValidationError(fmt.Sprintf("missing column %q", col))
		}
	}

	return nil
}

// ValidateOutputDirectory ensures dir exists or can be created, and is writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	tmp.Close()
	os.Remove(tmp.Name())

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}

func firstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", nil
	}
	return sc.Text(), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
