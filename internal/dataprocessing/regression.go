package dataprocessing

import (
	"encoding/json"
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"gemscope/pkg/contracts/domain"
)

// ErrInsufficientData is returned when a statistic needs more distinct
// observations than the input has.
var ErrInsufficientData = errors.New("insufficient data")

// Line is an ordinary least squares fit of price on carat.
type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r_squared"`
	N         int     `json:"n"`
}

// MarshalJSON writes an undefined R2, as for a constant price, as null.
func (l Line) MarshalJSON() ([]byte, error) {
	type line Line
	return json.Marshal(struct {
		line
		R2 *float64 `json:"r_squared"`
	}{line: line(l), R2: finite(l.R2)})
}

// HasR2 reports whether R2 is defined.
func (l Line) HasR2() bool { return finite(l.R2) != nil }

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.Intercept + l.Slope*x
}

// FitLine regresses price on carat. It needs at least two records with
// distinct carat weights.
func FitLine(records []domain.Record) (Line, error) {
	if len(records) < 2 {
		return Line{}, ErrInsufficientData
	}

	xs := make([]float64, len(records))
	ys := make([]float64, len(records))
	distinct := false
	for i, r := range records {
		xs[i] = r.Carat
		ys[i] = r.Price
		if xs[i] != xs[0] {
			distinct = true
		}
	}
	if !distinct {
		return Line{}, ErrInsufficientData
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return Line{
		Slope:     beta,
		Intercept: alpha,
		R2:        stat.RSquared(xs, ys, nil, alpha, beta),
		N:         len(records),
	}, nil
}

// finite returns nil for NaN and infinities.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
