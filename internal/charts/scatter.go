package charts

import (
	stderrors "errors"
	"log/slog"

	"github.com/wcharczuk/go-chart/v2"

	"gemscope/internal/dataprocessing"
	"gemscope/pkg/contracts/domain"
)

// priceScatter draws segment price against carat, one dot series per cut,
// overlaid with the least-squares line as a dashed black segment.
func (r *Renderer) priceScatter(format Format, records []domain.Record) (renderable, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}

	type points struct{ xs, ys []float64 }
	byCut := make(map[string]*points)
	minX, maxX := records[0].Carat, records[0].Carat
	minY, maxY := records[0].Price, records[0].Price
	for _, rec := range records {
		p, ok := byCut[string(rec.Cut)]
		if !ok {
			p = &points{}
			byCut[string(rec.Cut)] = p
		}
		p.xs = append(p.xs, rec.Carat)
		p.ys = append(p.ys, rec.Price)
		minX, maxX = min(minX, rec.Carat), max(maxX, rec.Carat)
		minY, maxY = min(minY, rec.Price), max(maxY, rec.Price)
	}

	cuts := dataprocessing.CountBy(records, domain.FieldCut).Keys()
	series := make([]chart.Series, 0, len(cuts)+1)
	for _, cut := range cuts {
		p := byCut[cut]
		series = append(series, chart.ContinuousSeries{
			Name:    format.label(cut),
			XValues: p.xs,
			YValues: p.ys,
			Style:   pointStyle(paletteColor(domain.Cut(cut).Rank())),
		})
	}

	line, err := dataprocessing.FitLine(records)
	switch {
	case err == nil:
		series = append(series, chart.ContinuousSeries{
			Name:    "Linear fit",
			XValues: []float64{minX, maxX},
			YValues: []float64{line.At(minX), line.At(maxX)},
			Style:   dashedLineStyle(),
		})
		minY = min(minY, line.At(minX), line.At(maxX))
		maxY = max(maxY, line.At(minX), line.At(maxX))
	case stderrors.Is(err, dataprocessing.ErrInsufficientData):
		r.logger.Debug("regression line skipped", slog.Int("records", len(records)))
	default:
		return nil, err
	}

	c := chart.Chart{
		Title:      PanelPriceVsCarat.Title(),
		TitleStyle: titleStyle(),
		Width:      r.width,
		Height:     r.height,
		Background: background(),
		XAxis: chart.XAxis{
			Name:           "Carat",
			Range:          paddedRange(minX, maxX, 0.05),
			ValueFormatter: caratFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Price",
			Range:          paddedRange(minY, maxY, 0.05),
			ValueFormatter: priceFormatter,
		},
		Series: series,
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}
	return c, nil
}
