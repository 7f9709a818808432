package charts

import (
	"github.com/wcharczuk/go-chart/v2"

	"gemscope/internal/dataprocessing"
)

func (r *Renderer) colorPie(format Format, counts dataprocessing.Aggregate) (renderable, error) {
	return r.pie(format, PanelColorDistribution.Title(), counts)
}

func (r *Renderer) cutPie(format Format, counts dataprocessing.Aggregate) (renderable, error) {
	return r.pie(format, PanelCutDistribution.Title(), counts)
}

// pie draws one slice per category in grading order, labelled with its
// percentage share.
func (r *Renderer) pie(format Format, title string, counts dataprocessing.Aggregate) (renderable, error) {
	if counts.Total() <= 0 {
		return nil, ErrNoData
	}

	total := counts.Total()
	values := make([]chart.Value, 0, counts.Len())
	for i, k := range counts.Keys() {
		v := counts.Values[k]
		values = append(values, chart.Value{
			Value: v,
			Label: percentLabel(format.label(k), v, total),
			Style: chart.Style{FillColor: paletteColor(i), StrokeColor: paletteColor(i)},
		})
	}

	return chart.PieChart{
		Title:      title,
		TitleStyle: titleStyle(),
		Width:      r.width,
		Height:     r.height,
		Background: background(),
		Values:     values,
	}, nil
}
