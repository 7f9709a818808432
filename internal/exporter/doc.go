// Package exporter writes pipeline output to files and HTTP responses.
//
// CSVWriter encodes one record subset as UTF-8 CSV with a byte order mark
// so spreadsheet tools detect the encoding. WorkbookWriter produces an
// .xlsx file with one sheet per subset and an Aggregates sheet:
//
//	wb := exporter.NewWorkbookWriter(logger)
//	if err := wb.Write(w, result); err != nil { ... }
package exporter
