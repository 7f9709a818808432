package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gemscope/internal/dataprocessing"
	"gemscope/internal/infrastructure"
	"gemscope/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	dir    string
	logger *slog.Logger
}

// NewCSVWriter creates a writer rooted at dir. Relative paths given to
// WriteCSV resolve against it.
func NewCSVWriter(dir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{dir: dir, logger: infrastructure.WithComponent(logger, "csv_writer")}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// Write encodes options to w.
func (c *CSVWriter) Write(w io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSV writes options to a file, creating parent directories.
func (c *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := c.resolvePath(filePath)

	c.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	if err := c.Write(file, options); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteRecords writes diamond records with a header row and BOM.
func (c *CSVWriter) WriteRecords(w io.Writer, records []domain.Record) error {
	return c.Write(w, recordOptions(records))
}

// ExportSubset writes records to <dir>/<name>.csv and returns the path.
func (c *CSVWriter) ExportSubset(name string, records []domain.Record) (string, error) {
	if err := c.WriteCSV(name+".csv", recordOptions(records)); err != nil {
		return "", err
	}
	return c.resolvePath(name + ".csv"), nil
}

// WriteAggregates writes every aggregate of res as long-form rows.
// Counts are whole numbers and mean prices carry two decimals.
func (c *CSVWriter) WriteAggregates(w io.Writer, res *dataprocessing.Result) error {
	var rows [][]string
	for _, a := range res.Aggregates.List() {
		for _, k := range a.Keys() {
			value := formatFloat(a.Values[k])
			if a.Metric == dataprocessing.MetricMeanPrice {
				value = formatMoney(a.Values[k])
			}
			rows = append(rows, []string{a.Subset, string(a.Field), string(a.Metric), k, value})
		}
	}

	return c.Write(w, WriteOptions{
		Headers:   []string{"subset", "field", "metric", "category", "value"},
		Records:   rows,
		BOMPrefix: true,
	})
}

func recordOptions(records []domain.Record) WriteOptions {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = recordRow(r)
	}
	return WriteOptions{Headers: recordHeaders, Records: rows, BOMPrefix: true}
}

func (c *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || c.dir == "" {
		return filePath
	}
	return filepath.Join(c.dir, filePath)
}
