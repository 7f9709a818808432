package charts

import (
	"github.com/wcharczuk/go-chart/v2"

	"gemscope/internal/dataprocessing"
)

const barHalfWidth = 0.35

// clarityBar draws mean segment price per clarity grade, best grade first,
// with a black whisker spanning each mean's confidence interval. Bars are
// filled series over a zero-based axis so the whiskers share coordinates.
func (r *Renderer) clarityBar(format Format, means dataprocessing.Aggregate, intervals map[string]dataprocessing.Interval) (renderable, error) {
	if means.Len() == 0 {
		return nil, ErrNoData
	}

	keys := means.Keys()
	labels := make([]string, 0, len(keys))
	series := make([]chart.Series, 0, 2*len(keys))
	var top float64
	for i, k := range keys {
		x := float64(i)
		v := means.Values[k]
		col := paletteColor(i)
		labels = append(labels, format.label(k))
		top = max(top, v)

		series = append(series, chart.ContinuousSeries{
			XValues: []float64{x - barHalfWidth, x - barHalfWidth, x + barHalfWidth, x + barHalfWidth},
			YValues: []float64{0, v, v, 0},
			Style:   chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1},
		})

		ci, ok := intervals[k]
		if !ok || ci.High <= ci.Low {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{x, x},
			YValues: []float64{max(ci.Low, 0), ci.High},
			Style:   chart.Style{StrokeColor: lineColor, StrokeWidth: 2},
		})
		top = max(top, ci.High)
	}
	if top <= 0 {
		top = 1
	}

	return chart.Chart{
		Title:      PanelPriceByClarity.Title(),
		TitleStyle: titleStyle(),
		Width:      r.width,
		Height:     r.height,
		Background: background(),
		XAxis:      categoryAxis("Clarity", labels),
		YAxis: chart.YAxis{
			Name:           "Mean price",
			Range:          &chart.ContinuousRange{Min: 0, Max: top * 1.1},
			ValueFormatter: priceFormatter,
		},
		Series: series,
	}, nil
}
