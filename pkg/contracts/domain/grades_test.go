package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeRanks(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		value string
		want  int
	}{
		{"best color", FieldColor, "D", 0},
		{"segment edge color", FieldColor, "G", 3},
		{"far color", FieldColor, "Z", 22},
		{"lowercase color", FieldColor, "d", -1},
		{"two letter color", FieldColor, "DE", -1},
		{"flawless", FieldClarity, "FL", 0},
		{"vs2", FieldClarity, "VS2", 5},
		{"unknown clarity", FieldClarity, "VS3", -1},
		{"fair", FieldCut, "Fair", 0},
		{"ideal", FieldCut, "Ideal", 4},
		{"spaced cut", FieldCut, "Very Good", 2},
		{"unknown field", Field("depth"), "60", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.field.Rank(tt.value))
		})
	}
}

func TestParseField(t *testing.T) {
	f, ok := ParseField(" Clarity ")
	assert.True(t, ok)
	assert.Equal(t, FieldClarity, f)

	_, ok = ParseField("price")
	assert.False(t, ok)
}

func TestRecord(t *testing.T) {
	r := Record{ID: "1", Carat: 0.5, Cut: CutIdeal, Color: ColorE, Clarity: ClarityVS1, Price: 1000, X: 5, Y: 5, Z: 3}
	assert.False(t, r.HasMissing())
	assert.False(t, r.HasDegenerateGeometry())
	assert.Equal(t, "VS1", r.Category(FieldClarity))
	assert.Empty(t, r.Category(Field("table")))

	missing := r
	missing.Price = math.NaN()
	assert.True(t, missing.HasMissing())

	ungraded := r
	ungraded.Cut = ""
	assert.True(t, ungraded.HasMissing())

	flat := r
	flat.Z = 0
	assert.True(t, flat.HasDegenerateGeometry())
}
