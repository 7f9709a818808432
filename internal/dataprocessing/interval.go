package dataprocessing

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"gemscope/pkg/contracts/domain"
)

// ConfidenceLevel is the coverage of the mean price intervals.
const ConfidenceLevel = 0.95

// Interval is a Student t confidence interval for a mean. With a single
// observation Low and High equal Mean.
type Interval struct {
	Mean float64 `json:"mean"`
	Low  float64 `json:"low"`
	High float64 `json:"high"`
	N    int     `json:"n"`
}

// MeanPriceIntervalBy computes a ConfidenceLevel interval of the mean price
// per value of field. Records with an empty value for field are skipped.
func MeanPriceIntervalBy(records []domain.Record, field domain.Field) map[string]Interval {
	prices := make(map[string][]float64)
	for _, r := range records {
		if k := r.Category(field); k != "" {
			prices[k] = append(prices[k], r.Price)
		}
	}

	out := make(map[string]Interval, len(prices))
	for k, ps := range prices {
		out[k] = meanInterval(ps)
	}
	return out
}

func meanInterval(xs []float64) Interval {
	n := len(xs)
	if n == 1 {
		return Interval{Mean: xs[0], Low: xs[0], High: xs[0], N: 1}
	}

	mean, sd := stat.MeanStdDev(xs, nil)
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}.Quantile(1 - (1-ConfidenceLevel)/2)
	half := t * sd / math.Sqrt(float64(n))
	return Interval{Mean: mean, Low: mean - half, High: mean + half, N: n}
}
