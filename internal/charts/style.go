package charts

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	titleFontSize = 14
	bodyFontSize  = 11

	// categoryMargin is the axis space beyond the first and last category.
	categoryMargin = 0.6
)

var (
	mutedColor = drawing.ColorFromHex("777777")
	lineColor  = drawing.ColorBlack

	// palette is the qualitative series palette; categories are colored by
	// their position in the grading scale.
	palette = []drawing.Color{
		drawing.ColorFromHex("4c72b0"),
		drawing.ColorFromHex("dd8452"),
		drawing.ColorFromHex("55a868"),
		drawing.ColorFromHex("c44e52"),
		drawing.ColorFromHex("8172b3"),
		drawing.ColorFromHex("937860"),
		drawing.ColorFromHex("da8bc3"),
		drawing.ColorFromHex("8c8c8c"),
		drawing.ColorFromHex("ccb974"),
		drawing.ColorFromHex("64b5cd"),
	}
)

// paletteColor picks the i-th palette entry; negative ranks are muted.
func paletteColor(i int) drawing.Color {
	if i < 0 {
		return mutedColor
	}
	return palette[i%len(palette)]
}

func background() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 30, Left: 16, Right: 16, Bottom: 16}}
}

func titleStyle() chart.Style {
	return chart.Style{FontSize: titleFontSize}
}

// pointStyle renders dots only, with no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    3,
		DotColor:    col.WithAlpha(200),
	}
}

// dashedLineStyle is the regression line style.
func dashedLineStyle() chart.Style {
	return chart.Style{
		StrokeColor:     lineColor,
		StrokeWidth:     2,
		StrokeDashArray: []float64{6, 4},
	}
}

func priceFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("$%.0f", f)
	}
	return ""
}

func caratFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.2f", f)
	}
	return ""
}

// paddedRange widens [min, max] by frac of its span on both sides. A zero
// span is widened to one unit so the axis stays drawable.
func paddedRange(min, max, frac float64) *chart.ContinuousRange {
	span := max - min
	if span <= 0 || math.IsNaN(span) {
		return &chart.ContinuousRange{Min: min - 1, Max: max + 1}
	}
	return &chart.ContinuousRange{Min: min - span*frac, Max: max + span*frac}
}

// categoryAxis places one labelled tick per category at 0..n-1, bracketed by
// unlabelled ticks categoryMargin beyond either end. go-chart takes the axis
// range from the outermost ticks, so a lone category still gets a usable
// range.
func categoryAxis(name string, labels []string) chart.XAxis {
	ticks := make([]chart.Tick, 0, len(labels)+2)
	ticks = append(ticks, chart.Tick{Value: -categoryMargin})
	for i, l := range labels {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: l})
	}
	ticks = append(ticks, chart.Tick{Value: float64(len(labels)-1) + categoryMargin})

	return chart.XAxis{
		Name:  name,
		Range: &chart.ContinuousRange{Min: ticks[0].Value, Max: ticks[len(ticks)-1].Value},
		Ticks: ticks,
	}
}

// percentLabel labels a pie slice with its share of total.
func percentLabel(label string, value, total float64) string {
	if total == 0 {
		return label
	}
	return fmt.Sprintf("%s %.1f%%", label, 100*value/total)
}
