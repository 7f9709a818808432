package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gemscope/pkg/contracts/domain"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"zero value", 0, "0"},
		{"integer", 326, "326"},
		{"carat weight", 0.23, "0.23"},
		{"dimension", 3.95, "3.95"},
		{"trailing zeros dropped", 4.500, "4.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFloat(tt.input))
		})
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "335.50", formatMoney(335.5))
	assert.Equal(t, "6450.00", formatMoney(6450))
	assert.Equal(t, "0.33", formatMoney(1.0/3))
}

func TestRecordRow(t *testing.T) {
	r := domain.Record{ID: "7", Carat: 1.01, Cut: domain.CutVeryGood, Color: domain.ColorF, Clarity: domain.ClarityIF, Price: 5000, X: 6.4, Y: 6.38, Z: 3.95}

	row := recordRow(r)
	assert.Len(t, row, len(recordHeaders))
	assert.Equal(t, []string{"7", "1.01", "Very Good", "F", "IF", "5000", "6.4", "6.38", "3.95"}, row)
}
