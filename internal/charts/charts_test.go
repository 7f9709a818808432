package charts

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"

	"gemscope/internal/config"
	"gemscope/internal/dataprocessing"
	"gemscope/internal/shared/testutil"
	"gemscope/pkg/contracts/domain"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func fixtureResult(t *testing.T) *dataprocessing.Result {
	t.Helper()
	records, err := dataprocessing.NewLoader(nil).Load(context.Background(), strings.NewReader(testutil.DiamondsCSV))
	require.NoError(t, err)
	res, err := dataprocessing.NewProcessor(nil, dataprocessing.DefaultCriteria()).Run(context.Background(), records)
	require.NoError(t, err)
	return res
}

func emptySegmentResult(t *testing.T) *dataprocessing.Result {
	t.Helper()
	records, err := dataprocessing.NewLoader(nil).Load(context.Background(), strings.NewReader(testutil.DiamondsCSV))
	require.NoError(t, err)
	criteria := dataprocessing.DefaultCriteria()
	criteria.Cuts = []domain.Cut{domain.CutFair}
	res, err := dataprocessing.NewProcessor(nil, criteria).Run(context.Background(), records)
	require.NoError(t, err)
	return res
}

func newTestRenderer() *Renderer {
	return NewRenderer(config.ChartsConfig{Width: 480, Height: 320}, nil)
}

func TestParsePanel(t *testing.T) {
	for _, p := range Panels() {
		got, err := ParsePanel(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
		assert.NotEmpty(t, p.Title())
	}

	_, err := ParsePanel("histogram")
	assert.ErrorIs(t, err, ErrUnknownPanel)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in          string
		want        Format
		contentType string
		wantErr     bool
	}{
		{"svg", FormatSVG, "image/svg+xml", false},
		{"PNG", FormatPNG, "image/png", false},
		{"gif", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.contentType, got.ContentType())
		})
	}
}

func TestRenderer_RenderSVG(t *testing.T) {
	r := newTestRenderer()
	res := fixtureResult(t)

	for _, panel := range Panels() {
		t.Run(string(panel), func(t *testing.T) {
			img, err := r.Render(panel, FormatSVG, res)
			require.NoError(t, err)
			assert.False(t, img.Empty)
			assert.Equal(t, panel, img.Panel)
			assert.Equal(t, "image/svg+xml", img.ContentType())
			assert.Contains(t, string(img.Data), "<svg")
		})
	}
}

func TestRenderer_RenderPNG(t *testing.T) {
	img, err := newTestRenderer().Render(PanelPriceVsCarat, FormatPNG, fixtureResult(t))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img.Data, pngMagic))
}

func TestRenderer_ScatterHasDashedFit(t *testing.T) {
	img, err := newTestRenderer().Render(PanelPriceVsCarat, FormatSVG, fixtureResult(t))
	require.NoError(t, err)
	assert.Contains(t, string(img.Data), "stroke-dasharray")
}

func TestRenderer_EmptySegmentPlaceholder(t *testing.T) {
	r := newTestRenderer()
	res := emptySegmentResult(t)

	tests := []struct {
		panel Panel
		empty bool
	}{
		{PanelColorDistribution, false},
		{PanelPriceByColor, false},
		{PanelCutDistribution, true},
		{PanelPriceVsCarat, true},
		{PanelPriceByClarity, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.panel), func(t *testing.T) {
			for _, format := range []Format{FormatSVG, FormatPNG} {
				img, err := r.Render(tt.panel, format, res)
				require.NoError(t, err)
				assert.Equal(t, tt.empty, img.Empty)
				assert.NotEmpty(t, img.Data)
			}
		})
	}

	img, err := r.Render(PanelCutDistribution, FormatSVG, res)
	require.NoError(t, err)
	assert.Contains(t, string(img.Data), "No data")
}

func TestRenderer_SingleSegmentRow(t *testing.T) {
	res := &dataprocessing.Result{
		Segment: []domain.Record{{ID: "1", Carat: 0.5, Color: "D", Clarity: "IF", Cut: "Ideal", Price: 1000, X: 4, Y: 4, Z: 2.5}},
	}
	res.Aggregates.SegmentMeanPriceByClarity = dataprocessing.MeanPriceBy(res.Segment, domain.FieldClarity)
	res.Aggregates.SegmentCountByCut = dataprocessing.CountBy(res.Segment, domain.FieldCut)

	r := newTestRenderer()
	for _, panel := range []Panel{PanelPriceVsCarat, PanelPriceByClarity, PanelCutDistribution} {
		img, err := r.Render(panel, FormatSVG, res)
		require.NoError(t, err, panel)
		assert.False(t, img.Empty, panel)
	}
}

func TestRenderer_UnknownPanel(t *testing.T) {
	_, err := newTestRenderer().Render(Panel("radar"), FormatSVG, fixtureResult(t))
	assert.ErrorIs(t, err, ErrUnknownPanel)
}

func TestRenderDashboard(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	r := NewRenderer(config.ChartsConfig{Width: 480, Height: 320}, logger)

	images, err := r.RenderDashboard(context.Background(), FormatSVG, fixtureResult(t))
	require.NoError(t, err)
	require.Len(t, images, len(Panels()))
	for i, p := range Panels() {
		assert.Equal(t, p, images[i].Panel)
		assert.NotEmpty(t, images[i].Data)
	}
	testutil.AssertNoErrors(t, handler)
}

func TestRenderDashboard_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestRenderer().RenderDashboard(ctx, FormatSVG, fixtureResult(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestViolinOutline(t *testing.T) {
	d := dataprocessing.Density{Grid: []float64{1, 2, 3}, Values: []float64{0, 2, 1}}

	xs := outline(d, 1)
	ys := mirror(d.Grid)
	require.Len(t, xs, 7)
	require.Len(t, ys, 7)
	assert.Equal(t, []float64{1, 1.4, 1.2, 0.8, 0.6, 1, 1}, xs)
	assert.Equal(t, []float64{1, 2, 3, 3, 2, 1, 1}, ys)
}

func TestRenderer_SingleColorGrade(t *testing.T) {
	records := []domain.Record{
		{ID: "1", Carat: 0.30, Cut: "Ideal", Color: "D", Clarity: "IF", Price: 900, X: 4.3, Y: 4.3, Z: 2.7},
		{ID: "2", Carat: 0.40, Cut: "Premium", Color: "D", Clarity: "VS1", Price: 1100, X: 4.7, Y: 4.7, Z: 2.9},
		{ID: "3", Carat: 0.50, Cut: "Ideal", Color: "D", Clarity: "VVS2", Price: 1600, X: 5.1, Y: 5.1, Z: 3.1},
	}
	res, err := dataprocessing.NewProcessor(nil, dataprocessing.DefaultCriteria()).Run(context.Background(), records)
	require.NoError(t, err)
	require.Equal(t, 1, res.Aggregates.CountByColor.Len())

	r := newTestRenderer()
	for _, format := range []Format{FormatSVG, FormatPNG} {
		img, err := r.Render(PanelPriceByColor, format, res)
		require.NoError(t, err, format)
		assert.False(t, img.Empty, format)
	}

	images, err := r.RenderDashboard(context.Background(), FormatSVG, res)
	require.NoError(t, err)
	assert.Len(t, images, len(Panels()))
}

func TestRenderer_EscapesCategoryLabels(t *testing.T) {
	const hostile = "<script>alert(1)</script>"
	records := []domain.Record{
		{ID: "1", Carat: 0.3, Cut: hostile, Color: hostile, Clarity: hostile, Price: 900, X: 4, Y: 4, Z: 2.5},
		{ID: "2", Carat: 0.5, Cut: hostile, Color: "D", Clarity: hostile, Price: 1500, X: 5, Y: 5, Z: 3},
	}
	res := &dataprocessing.Result{Cleaned: records, Segment: records}
	res.Aggregates.CountByColor = dataprocessing.CountBy(records, domain.FieldColor)
	res.Aggregates.SegmentCountByCut = dataprocessing.CountBy(records, domain.FieldCut)
	res.Aggregates.SegmentMeanPriceByClarity = dataprocessing.MeanPriceBy(records, domain.FieldClarity)

	r := newTestRenderer()
	for _, panel := range Panels() {
		t.Run(string(panel), func(t *testing.T) {
			img, err := r.Render(panel, FormatSVG, res)
			require.NoError(t, err)
			assert.NotContains(t, string(img.Data), "<script")
		})
	}

	img, err := r.Render(PanelColorDistribution, FormatSVG, res)
	require.NoError(t, err)
	assert.Contains(t, string(img.Data), "&lt;script&gt;")
}

func TestFormatLabel(t *testing.T) {
	tests := []struct {
		format Format
		in     string
		want   string
	}{
		{FormatSVG, "Very Good", "Very Good"},
		{FormatSVG, `<b>&"`, "&lt;b&gt;&amp;&#34;"},
		{FormatPNG, `<b>&"`, `<b>&"`},
	}
	for _, tt := range tests {
		t.Run(string(tt.format)+"/"+tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format.label(tt.in))
		})
	}
}

func TestCategoryAxis(t *testing.T) {
	tests := []struct {
		name     string
		labels   []string
		min, max float64
	}{
		{"single category", []string{"D"}, -0.6, 0.6},
		{"three categories", []string{"D", "E", "F"}, -0.6, 2.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis := categoryAxis("Color", tt.labels)
			require.Len(t, axis.Ticks, len(tt.labels)+2)
			assert.Equal(t, tt.min, axis.Ticks[0].Value)
			assert.Equal(t, tt.max, axis.Ticks[len(axis.Ticks)-1].Value)
			assert.Empty(t, axis.Ticks[0].Label)
			assert.Equal(t, tt.labels[0], axis.Ticks[1].Label)
			assert.Equal(t, tt.min, axis.Range.GetMin())
			assert.Equal(t, tt.max, axis.Range.GetMax())
		})
	}
}

func TestRenderer_ClarityBarIntervals(t *testing.T) {
	segment := []domain.Record{
		{ID: "1", Clarity: "IF", Price: 1000},
		{ID: "2", Clarity: "IF", Price: 2000},
		{ID: "3", Clarity: "IF", Price: 3000},
		{ID: "4", Clarity: "VS1", Price: 800},
	}
	means := dataprocessing.MeanPriceBy(segment, domain.FieldClarity)
	intervals := dataprocessing.MeanPriceIntervalBy(segment, domain.FieldClarity)

	got, err := newTestRenderer().clarityBar(FormatSVG, means, intervals)
	require.NoError(t, err)
	c, ok := got.(chart.Chart)
	require.True(t, ok)

	// two bars and one whisker; a single observation has no interval
	require.Len(t, c.Series, 3)
	whisker, ok := c.Series[1].(chart.ContinuousSeries)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0}, whisker.XValues)
	assert.Equal(t, 0.0, whisker.YValues[0], "interval is clipped at zero")
	assert.InDelta(t, 4484.14, whisker.YValues[1], 0.01)
	assert.InDelta(t, 4484.14*1.1, c.YAxis.Range.GetMax(), 0.1)

	var buf bytes.Buffer
	require.NoError(t, c.Render(chart.SVG, &buf))
}
