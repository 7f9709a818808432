package dataprocessing

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemscope/internal/shared/testutil"
	"gemscope/pkg/contracts/domain"
)

func loadFixture(t *testing.T) []domain.Record {
	t.Helper()
	records, err := NewLoader(nil).Load(context.Background(), strings.NewReader(testutil.DiamondsCSV))
	require.NoError(t, err)
	return records
}

func stone(id string, carat float64, color domain.Color, clarity domain.Clarity, cut domain.Cut, price, x, y, z float64) domain.Record {
	return domain.Record{ID: id, Carat: carat, Color: color, Clarity: clarity, Cut: cut, Price: price, X: x, Y: y, Z: z}
}

func ids(records []domain.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestClean(t *testing.T) {
	valid := stone("ok", 0.5, domain.ColorD, domain.ClarityIF, domain.CutIdeal, 1000, 4, 4, 2.5)

	tests := []struct {
		name string
		in   domain.Record
		keep bool
	}{
		{"complete row", valid, true},
		{"carat at bound", stone("b", 2.0, "H", "SI1", "Good", 9000, 8, 8, 5), true},
		{"carat above bound", stone("c", 2.01, "D", "IF", "Ideal", 9000, 8, 8, 5), false},
		{"zero x", stone("x", 0.5, "D", "IF", "Ideal", 1000, 0, 4, 2.5), false},
		{"zero y", stone("y", 0.5, "D", "IF", "Ideal", 1000, 4, 0, 2.5), false},
		{"zero z", stone("z", 0.5, "D", "IF", "Ideal", 1000, 4, 4, 0), false},
		{"missing price", stone("p", 0.5, "D", "IF", "Ideal", math.NaN(), 4, 4, 2.5), false},
		{"missing carat", stone("k", math.NaN(), "D", "IF", "Ideal", 1000, 4, 4, 2.5), false},
		{"missing cut", stone("u", 0.5, "D", "IF", "", 1000, 4, 4, 2.5), false},
		{"missing id", stone("", 0.5, "D", "IF", "Ideal", 1000, 4, 4, 2.5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Clean([]domain.Record{tt.in})
			if tt.keep {
				assert.Len(t, out, 1)
			} else {
				assert.Empty(t, out)
			}
		})
	}
}

func TestClean_Properties(t *testing.T) {
	records := loadFixture(t)
	cleaned := Clean(records)

	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8", "12"}, ids(cleaned))

	for _, r := range cleaned {
		assert.NotZero(t, r.X)
		assert.NotZero(t, r.Y)
		assert.NotZero(t, r.Z)
		assert.LessOrEqual(t, r.Carat, domain.MaxCarat)
		assert.False(t, r.HasMissing())
	}

	assert.Equal(t, cleaned, Clean(cleaned), "clean is idempotent")
	assert.Len(t, records, 12, "input is not modified")
}

func TestClean_Empty(t *testing.T) {
	out := Clean(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestFilters(t *testing.T) {
	criteria := DefaultCriteria()
	cleaned := Clean(loadFixture(t))

	byColor := FilterColor(cleaned, criteria.Colors)
	assert.Equal(t, []string{"1", "2", "6", "7", "8", "12"}, ids(byColor))

	byClarity := FilterClarity(byColor, criteria.Clarities)
	assert.Equal(t, []string{"1", "6", "7", "8", "12"}, ids(byClarity))

	segment := FilterCut(byClarity, criteria.Cuts)
	assert.Equal(t, testutil.SegmentIDs, ids(segment))

	t.Run("filters commute", func(t *testing.T) {
		reordered := FilterColor(FilterClarity(FilterCut(cleaned, criteria.Cuts), criteria.Clarities), criteria.Colors)
		assert.Equal(t, segment, reordered)
	})

	t.Run("segment rows are unchanged cleaned rows", func(t *testing.T) {
		byID := make(map[string]domain.Record, len(cleaned))
		for _, r := range cleaned {
			byID[r.ID] = r
		}
		for _, r := range segment {
			orig, ok := byID[r.ID]
			require.True(t, ok)
			assert.Equal(t, orig, r)
		}
	})

	t.Run("segment grades are curated", func(t *testing.T) {
		for _, r := range segment {
			assert.Contains(t, criteria.Colors, r.Color)
			assert.Contains(t, criteria.Clarities, r.Clarity)
			assert.Contains(t, criteria.Cuts, r.Cut)
		}
	})
}

func TestFilters_UnknownGradeExcluded(t *testing.T) {
	records := []domain.Record{
		stone("1", 0.5, "d", "IF", "Ideal", 1000, 4, 4, 2.5),
		stone("2", 0.5, "D", "SI3", "Ideal", 1000, 4, 4, 2.5),
		stone("3", 0.5, "D", "IF", "Excellent", 1000, 4, 4, 2.5),
	}
	criteria := DefaultCriteria()

	assert.Equal(t, []string{"2", "3"}, ids(FilterColor(records, criteria.Colors)))
	assert.Equal(t, []string{"1", "3"}, ids(FilterClarity(records, criteria.Clarities)))
	assert.Equal(t, []string{"1", "2"}, ids(FilterCut(records, criteria.Cuts)))
	assert.Empty(t, FilterColor(records, nil))
}

func TestPipeline_ThreeRowScenario(t *testing.T) {
	records := []domain.Record{
		stone("1", 0.5, domain.ColorD, domain.ClarityIF, domain.CutIdeal, 1000, 4, 4, 2.5),
		stone("2", 2.5, domain.ColorD, domain.ClarityIF, domain.CutIdeal, 9000, 5, 5, 3),
		stone("3", 0.3, "H", domain.ClarityIF, domain.CutIdeal, 500, 3, 3, 2),
	}
	criteria := DefaultCriteria()

	segment := FilterCut(FilterClarity(FilterColor(Clean(records), criteria.Colors), criteria.Clarities), criteria.Cuts)
	require.Len(t, segment, 1)
	assert.Equal(t, records[0], segment[0])
}
