package charts

import (
	"github.com/wcharczuk/go-chart/v2"

	"gemscope/internal/dataprocessing"
	"gemscope/pkg/contracts/domain"
)

const (
	violinPoints    = 64
	violinHalfWidth = 0.4
	medianHalfWidth = 0.12
)

// priceViolin draws a mirrored price density per color grade. Each violin
// is scaled to its own peak so every grade spans the same width; a thick
// bar marks the interquartile range and a short line the median.
func (r *Renderer) priceViolin(format Format, records []domain.Record) (renderable, error) {
	prices := make(map[string][]float64)
	for _, rec := range records {
		if rec.Color == "" {
			continue
		}
		prices[string(rec.Color)] = append(prices[string(rec.Color)], rec.Price)
	}
	if len(prices) == 0 {
		return nil, ErrNoData
	}

	colors := dataprocessing.CountBy(records, domain.FieldColor).Keys()
	series := make([]chart.Series, 0, 3*len(colors))
	labels := make([]string, 0, len(colors))
	minY, maxY := prices[colors[0]][0], prices[colors[0]][0]

	for i, color := range colors {
		d, err := dataprocessing.EstimateDensity(prices[color], violinPoints)
		if err != nil {
			return nil, err
		}

		center := float64(i)
		col := paletteColor(i)
		label := format.label(color)
		labels = append(labels, label)

		series = append(series,
			chart.ContinuousSeries{
				Name:    label,
				XValues: outline(d, center),
				YValues: mirror(d.Grid),
				Style:   chart.Style{StrokeColor: col, StrokeWidth: 1.5},
			},
			chart.ContinuousSeries{
				XValues: []float64{center, center},
				YValues: []float64{d.Q1, d.Q3},
				Style:   chart.Style{StrokeColor: col.WithAlpha(160), StrokeWidth: 5},
			},
			chart.ContinuousSeries{
				XValues: []float64{center - medianHalfWidth, center + medianHalfWidth},
				YValues: []float64{d.Median, d.Median},
				Style:   chart.Style{StrokeColor: lineColor, StrokeWidth: 1.5},
			},
		)

		minY = min(minY, d.Grid[0])
		maxY = max(maxY, d.Grid[len(d.Grid)-1])
	}

	return chart.Chart{
		Title:      PanelPriceByColor.Title(),
		TitleStyle: titleStyle(),
		Width:      r.width,
		Height:     r.height,
		Background: background(),
		XAxis:      categoryAxis("Color", labels),
		YAxis: chart.YAxis{
			Name:           "Price",
			Range:          paddedRange(minY, maxY, 0.02),
			ValueFormatter: priceFormatter,
		},
		Series: series,
	}, nil
}

// outline returns the x coordinates of a closed violin around center: the
// right edge bottom to top, then the left edge top to bottom.
func outline(d dataprocessing.Density, center float64) []float64 {
	peak := d.MaxValue()
	n := len(d.Values)
	xs := make([]float64, 0, 2*n+1)
	width := func(v float64) float64 {
		if peak == 0 {
			return 0
		}
		return violinHalfWidth * v / peak
	}
	for i := 0; i < n; i++ {
		xs = append(xs, center+width(d.Values[i]))
	}
	for i := n - 1; i >= 0; i-- {
		xs = append(xs, center-width(d.Values[i]))
	}
	return append(xs, xs[0])
}

// mirror pairs with outline: the grid upwards, downwards, then closed.
func mirror(grid []float64) []float64 {
	n := len(grid)
	ys := make([]float64, 0, 2*n+1)
	ys = append(ys, grid...)
	for i := n - 1; i >= 0; i-- {
		ys = append(ys, grid[i])
	}
	return append(ys, ys[0])
}
