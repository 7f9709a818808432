package exporter

import (
	"strconv"

	"gemscope/pkg/contracts/domain"
)

// recordHeaders is the column layout of an exported record.
var recordHeaders = []string{"id", "carat", "cut", "color", "clarity", "price", "x", "y", "z"}

// formatFloat formats a measurement with the shortest exact representation
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatMoney formats a price statistic with exactly 2 decimal places
func formatMoney(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func recordRow(r domain.Record) []string {
	return []string{
		r.ID,
		formatFloat(r.Carat),
		string(r.Cut),
		string(r.Color),
		string(r.Clarity),
		formatFloat(r.Price),
		formatFloat(r.X),
		formatFloat(r.Y),
		formatFloat(r.Z),
	}
}
