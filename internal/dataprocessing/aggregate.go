package dataprocessing

import (
	"sort"

	"github.com/shopspring/decimal"

	"gemscope/pkg/contracts/domain"
)

// Metric names the statistic an Aggregate holds.
type Metric string

const (
	MetricCount     Metric = "count"
	MetricMeanPrice Metric = "mean_price"
)

// Aggregate maps each category value present in a record set to a scalar.
// Categories with no rows are absent.
type Aggregate struct {
	Field  domain.Field       `json:"field"`
	Metric Metric             `json:"metric"`
	Values map[string]float64 `json:"values"`
}

// Keys returns the category values in grading-scale order. Values outside
// the known scale sort last, alphabetically.
func (a Aggregate) Keys() []string {
	keys := make([]string, 0, len(a.Values))
	for k := range a.Values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := a.Field.Rank(keys[i]), a.Field.Rank(keys[j])
		switch {
		case ri < 0 && rj < 0:
			return keys[i] < keys[j]
		case ri < 0:
			return false
		case rj < 0:
			return true
		default:
			return ri < rj
		}
	})
	return keys
}

// Total sums the values.
func (a Aggregate) Total() float64 {
	var total float64
	for _, v := range a.Values {
		total += v
	}
	return total
}

// Len is the number of categories.
func (a Aggregate) Len() int { return len(a.Values) }

// CountBy counts records per value of field. Records with an empty value
// for field are skipped.
func CountBy(records []domain.Record, field domain.Field) Aggregate {
	agg := Aggregate{Field: field, Metric: MetricCount, Values: make(map[string]float64)}
	for _, r := range records {
		if k := r.Category(field); k != "" {
			agg.Values[k]++
		}
	}
	return agg
}

// MeanPriceBy averages price per value of field. Sums are accumulated in
// decimal so the mean does not depend on record order.
func MeanPriceBy(records []domain.Record, field domain.Field) Aggregate {
	type acc struct {
		sum decimal.Decimal
		n   int64
	}

	groups := make(map[string]*acc)
	for _, r := range records {
		k := r.Category(field)
		if k == "" {
			continue
		}
		g, ok := groups[k]
		if !ok {
			g = &acc{sum: decimal.Zero}
			groups[k] = g
		}
		g.sum = g.sum.Add(decimal.NewFromFloat(r.Price))
		g.n++
	}

	agg := Aggregate{Field: field, Metric: MetricMeanPrice, Values: make(map[string]float64, len(groups))}
	for k, g := range groups {
		agg.Values[k] = g.sum.Div(decimal.NewFromInt(g.n)).InexactFloat64()
	}
	return agg
}
