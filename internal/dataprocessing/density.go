package dataprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// densityCut is how many bandwidths the grid extends past the data.
const densityCut = 2.0

// Density is a Gaussian kernel density estimate sampled on a grid.
type Density struct {
	Grid      []float64
	Values    []float64
	Bandwidth float64
	Min, Max  float64
	Median    float64
	Q1, Q3    float64
}

// MaxValue is the largest density on the grid.
func (d Density) MaxValue() float64 {
	var m float64
	for _, v := range d.Values {
		if v > m {
			m = v
		}
	}
	return m
}

// EstimateDensity samples a Gaussian KDE of values at points evenly spaced
// grid positions. Bandwidth follows Scott's rule; a constant sample gets a
// bandwidth proportional to its magnitude.
func EstimateDensity(values []float64, points int) (Density, error) {
	if len(values) == 0 {
		return Density{}, ErrInsufficientData
	}
	if points < 2 {
		points = 2
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	d := Density{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
	}

	sd := 0.0
	if len(sorted) > 1 {
		sd = stat.StdDev(sorted, nil)
	}
	d.Bandwidth = sd * math.Pow(float64(len(sorted)), -0.2)
	if d.Bandwidth == 0 || math.IsNaN(d.Bandwidth) {
		d.Bandwidth = math.Max(math.Abs(d.Median)*0.05, 1)
	}

	lo := d.Min - densityCut*d.Bandwidth
	hi := d.Max + densityCut*d.Bandwidth
	step := (hi - lo) / float64(points-1)

	kernel := distuv.Normal{Mu: 0, Sigma: d.Bandwidth}
	n := float64(len(sorted))

	d.Grid = make([]float64, points)
	d.Values = make([]float64, points)
	for i := range d.Grid {
		x := lo + float64(i)*step
		var sum float64
		for _, v := range sorted {
			sum += kernel.Prob(x - v)
		}
		d.Grid[i] = x
		d.Values[i] = sum / n
	}

	return d, nil
}
