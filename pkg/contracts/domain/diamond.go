package domain

import "math"

// MaxCarat is the upper bound of the size band under analysis.
const MaxCarat = 2.0

// Record is one diamond observation.
//
// A numeric value that was absent in the source is NaN and an absent grade
// is the empty string; HasMissing reports either.
type Record struct {
	ID      string  `json:"id" validate:"required"`
	Carat   float64 `json:"carat" validate:"gte=0"`
	Cut     Cut     `json:"cut"`
	Color   Color   `json:"color"`
	Clarity Clarity `json:"clarity"`
	Price   float64 `json:"price" validate:"gte=0"`
	X       float64 `json:"x" validate:"gte=0"`
	Y       float64 `json:"y" validate:"gte=0"`
	Z       float64 `json:"z" validate:"gte=0"`
}

// HasMissing reports whether any field of the record is absent.
func (r Record) HasMissing() bool {
	if r.ID == "" || r.Cut == "" || r.Color == "" || r.Clarity == "" {
		return true
	}
	for _, v := range [...]float64{r.Carat, r.Price, r.X, r.Y, r.Z} {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// HasDegenerateGeometry reports whether any dimension is zero.
func (r Record) HasDegenerateGeometry() bool {
	return r.X == 0 || r.Y == 0 || r.Z == 0
}

// Category returns the record's value for a categorical field.
func (r Record) Category(f Field) string {
	switch f {
	case FieldColor:
		return string(r.Color)
	case FieldClarity:
		return string(r.Clarity)
	case FieldCut:
		return string(r.Cut)
	default:
		return ""
	}
}
