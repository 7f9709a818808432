package domain

import "strings"

// Color is a GIA color grade, D (colorless) through Z (light yellow).
type Color string

// Color grades that appear in the curated segment and its neighbours.
const (
	ColorD Color = "D"
	ColorE Color = "E"
	ColorF Color = "F"
	ColorG Color = "G"
	ColorH Color = "H"
	ColorI Color = "I"
	ColorJ Color = "J"
)

const colorScale = "DEFGHIJKLMNOPQRSTUVWXYZ"

// Rank returns the position of the grade on the D..Z scale, or -1 when the
// value is not a color grade.
func (c Color) Rank() int {
	if len(c) != 1 {
		return -1
	}
	return strings.IndexByte(colorScale, c[0])
}

// Valid reports whether c is a known color grade.
func (c Color) Valid() bool { return c.Rank() >= 0 }

// Clarity is a clarity grade, flawless through included.
type Clarity string

const (
	ClarityFL   Clarity = "FL"
	ClarityIF   Clarity = "IF"
	ClarityVVS1 Clarity = "VVS1"
	ClarityVVS2 Clarity = "VVS2"
	ClarityVS1  Clarity = "VS1"
	ClarityVS2  Clarity = "VS2"
	ClaritySI1  Clarity = "SI1"
	ClaritySI2  Clarity = "SI2"
	ClarityI1   Clarity = "I1"
	ClarityI2   Clarity = "I2"
	ClarityI3   Clarity = "I3"
)

var clarityScale = []Clarity{
	ClarityFL, ClarityIF, ClarityVVS1, ClarityVVS2, ClarityVS1, ClarityVS2,
	ClaritySI1, ClaritySI2, ClarityI1, ClarityI2, ClarityI3,
}

// Rank returns the position of the grade from best to worst, or -1.
func (c Clarity) Rank() int {
	for i, v := range clarityScale {
		if v == c {
			return i
		}
	}
	return -1
}

// Valid reports whether c is a known clarity grade.
func (c Clarity) Valid() bool { return c.Rank() >= 0 }

// Cut is the quality of a stone's faceting.
type Cut string

const (
	CutFair     Cut = "Fair"
	CutGood     Cut = "Good"
	CutVeryGood Cut = "Very Good"
	CutPremium  Cut = "Premium"
	CutIdeal    Cut = "Ideal"
)

var cutScale = []Cut{CutFair, CutGood, CutVeryGood, CutPremium, CutIdeal}

// Rank returns the position of the grade from Fair to Ideal, or -1.
func (c Cut) Rank() int {
	for i, v := range cutScale {
		if v == c {
			return i
		}
	}
	return -1
}

// Valid reports whether c is a known cut grade.
func (c Cut) Valid() bool { return c.Rank() >= 0 }

// Field names a categorical column a record set can be grouped by.
type Field string

const (
	FieldColor   Field = "color"
	FieldClarity Field = "clarity"
	FieldCut     Field = "cut"
)

// Rank orders a category value of the field on its grading scale.
// Unknown fields or values rank -1.
func (f Field) Rank(value string) int {
	switch f {
	case FieldColor:
		return Color(value).Rank()
	case FieldClarity:
		return Clarity(value).Rank()
	case FieldCut:
		return Cut(value).Rank()
	default:
		return -1
	}
}

// Valid reports whether f is a groupable field.
func (f Field) Valid() bool {
	return f == FieldColor || f == FieldClarity || f == FieldCut
}

// ParseField parses a field name, case-insensitively.
func ParseField(s string) (Field, bool) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	return f, f.Valid()
}
