package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"gemscope/internal/dataprocessing"
	"gemscope/internal/infrastructure"
	"gemscope/pkg/contracts/domain"
)

// AggregatesSheet is the name of the sheet listing grouped statistics.
const AggregatesSheet = "Aggregates"

// WorkbookWriter exports a pipeline result as an Excel workbook.
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer.
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: infrastructure.WithComponent(logger, "workbook_writer")}
}

// Write encodes res as xlsx to w.
func (wb *WorkbookWriter) Write(w io.Writer, res *dataprocessing.Result) error {
	f, err := wb.build(res)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile saves res as an xlsx file at path.
func (wb *WorkbookWriter) WriteFile(path string, res *dataprocessing.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := wb.build(res)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	wb.logger.Info("Workbook saved", slog.String("path", path))
	return nil
}

func (wb *WorkbookWriter) build(res *dataprocessing.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, name := range dataprocessing.SubsetNames() {
		records, _ := res.Subset(name)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to add sheet %s: %w", name, err)
		}

		if err := writeRecordSheet(f, name, records, header); err != nil {
			f.Close()
			return nil, err
		}
	}

	if _, err := f.NewSheet(AggregatesSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to add sheet %s: %w", AggregatesSheet, err)
	}
	if err := writeAggregateSheet(f, res, header); err != nil {
		f.Close()
		return nil, err
	}

	wb.logger.Debug("Workbook built",
		slog.Int("cleaned", len(res.Cleaned)),
		slog.Int("segment", len(res.Segment)))
	return f, nil
}

func writeRecordSheet(f *excelize.File, sheet string, records []domain.Record, header int) error {
	if err := setRow(f, sheet, 1, toRow(recordHeaders)); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(recordHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for i, r := range records {
		row := []interface{}{r.ID, r.Carat, string(r.Cut), string(r.Color), string(r.Clarity), r.Price, r.X, r.Y, r.Z}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// writeAggregateSheet lists every aggregate as long-form rows.
func writeAggregateSheet(f *excelize.File, res *dataprocessing.Result, header int) error {
	if err := setRow(f, AggregatesSheet, 1, []interface{}{"subset", "field", "metric", "category", "value"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(AggregatesSheet, "A1", "E1", header); err != nil {
		return fmt.Errorf("failed to style aggregate header: %w", err)
	}

	row := 2
	for _, a := range res.Aggregates.List() {
		for _, k := range a.Keys() {
			values := []interface{}{a.Subset, string(a.Field), string(a.Metric), k, a.Values[k]}
			if err := setRow(f, AggregatesSheet, row, values); err != nil {
				return err
			}
			row++
		}
	}

	stageRow := row + 1
	if err := setRow(f, AggregatesSheet, stageRow, []interface{}{"stage", "rows"}); err != nil {
		return err
	}
	for i, s := range res.Stages {
		if err := setRow(f, AggregatesSheet, stageRow+1+i, []interface{}{s.Stage, s.Rows}); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
