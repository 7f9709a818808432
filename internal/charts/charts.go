package charts

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"gemscope/internal/config"
	"gemscope/internal/dataprocessing"
	"gemscope/internal/errors"
	"gemscope/internal/infrastructure"
	"gemscope/pkg/contracts/domain"
)

// ErrNoData is returned by a panel builder when its input subset is empty.
var ErrNoData = stderrors.New("no data to plot")

// ErrUnknownPanel is returned for a panel name outside Panels.
var ErrUnknownPanel = stderrors.New("unknown panel")

// ErrUnknownFormat is returned for an output format other than svg or png.
var ErrUnknownFormat = stderrors.New("unknown image format")

// Panel identifies one dashboard chart.
type Panel string

const (
	PanelColorDistribution Panel = "color-distribution"
	PanelPriceByColor      Panel = "price-by-color"
	PanelCutDistribution   Panel = "cut-distribution"
	PanelPriceVsCarat      Panel = "price-vs-carat"
	PanelPriceByClarity    Panel = "price-by-clarity"
)

// Panels lists every panel in dashboard order.
func Panels() []Panel {
	return []Panel{
		PanelColorDistribution,
		PanelPriceByColor,
		PanelCutDistribution,
		PanelPriceVsCarat,
		PanelPriceByClarity,
	}
}

// ParsePanel validates a panel name.
func ParsePanel(s string) (Panel, error) {
	for _, p := range Panels() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPanel, s)
}

// Title is the heading shown above the panel.
func (p Panel) Title() string {
	switch p {
	case PanelColorDistribution:
		return "Color distribution"
	case PanelPriceByColor:
		return "Color vs. price"
	case PanelCutDistribution:
		return "Cut distribution"
	case PanelPriceVsCarat:
		return "Price vs. carat"
	case PanelPriceByClarity:
		return "Price vs. clarity"
	default:
		return string(p)
	}
}

// Format is an output image encoding.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat validates an image format, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType is the MIME type of the encoding.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// label prepares category text for the encoding. go-chart writes SVG text
// nodes verbatim, so markup in data values is escaped there.
func (f Format) label(s string) string {
	if f == FormatSVG {
		return html.EscapeString(s)
	}
	return s
}

func (f Format) provider() chart.RendererProvider {
	if f == FormatPNG {
		return chart.PNG
	}
	return chart.SVG
}

// Image is one rendered panel.
type Image struct {
	Panel  Panel
	Format Format
	Data   []byte
	// Empty marks a "no data" placeholder.
	Empty bool
}

// ContentType is the MIME type of Data.
func (i Image) ContentType() string { return i.Format.ContentType() }

// renderable is satisfied by chart.Chart, chart.PieChart and chart.BarChart.
type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// Renderer draws dashboard panels from a pipeline result.
type Renderer struct {
	width  int
	height int
	logger *slog.Logger
}

// NewRenderer creates a renderer producing images of the configured size.
func NewRenderer(cfg config.ChartsConfig, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		width:  cfg.Width,
		height: cfg.Height,
		logger: infrastructure.WithComponent(logger, "chart_renderer"),
	}
}

// Render draws one panel. An empty input subset yields a placeholder image
// with Empty set, not an error.
func (r *Renderer) Render(panel Panel, format Format, res *dataprocessing.Result) (Image, error) {
	img := Image{Panel: panel, Format: format}

	c, err := r.build(panel, format, res)
	if stderrors.Is(err, ErrNoData) {
		data, perr := r.placeholder(format, panel.Title())
		if perr != nil {
			return img, errors.NewRenderError("failed to draw placeholder", perr).WithContext("panel", string(panel))
		}
		r.logger.Debug("panel has no data", slog.String("panel", string(panel)))
		img.Data, img.Empty = data, true
		return img, nil
	}
	if err != nil {
		return img, err
	}

	var buf bytes.Buffer
	if err := c.Render(format.provider(), &buf); err != nil {
		return img, errors.NewRenderError("failed to render chart", err).
			WithContext("panel", string(panel)).
			WithContext("format", string(format))
	}

	img.Data = buf.Bytes()
	return img, nil
}

func (r *Renderer) build(panel Panel, format Format, res *dataprocessing.Result) (renderable, error) {
	switch panel {
	case PanelColorDistribution:
		return r.colorPie(format, res.Aggregates.CountByColor)
	case PanelPriceByColor:
		return r.priceViolin(format, res.Cleaned)
	case PanelCutDistribution:
		return r.cutPie(format, res.Aggregates.SegmentCountByCut)
	case PanelPriceVsCarat:
		return r.priceScatter(format, res.Segment)
	case PanelPriceByClarity:
		return r.clarityBar(format, res.Aggregates.SegmentMeanPriceByClarity,
			dataprocessing.MeanPriceIntervalBy(res.Segment, domain.FieldClarity))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPanel, panel)
	}
}

// placeholder draws the panel title and a "no data" notice on a blank canvas.
func (r *Renderer) placeholder(format Format, title string) ([]byte, error) {
	rr, err := format.provider()(r.width, r.height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	rr.SetFillColor(drawing.ColorWhite)
	rr.SetStrokeColor(mutedColor)
	rr.SetStrokeWidth(1)
	rr.MoveTo(0, 0)
	rr.LineTo(r.width, 0)
	rr.LineTo(r.width, r.height)
	rr.LineTo(0, r.height)
	rr.Close()
	rr.FillStroke()

	rr.SetFont(font)
	rr.SetFontColor(mutedColor)

	rr.SetFontSize(titleFontSize)
	tb := rr.MeasureText(title)
	rr.Text(title, (r.width-tb.Width())/2, r.height/2-tb.Height())

	msg := "No data for the current selection"
	rr.SetFontSize(bodyFontSize)
	mb := rr.MeasureText(msg)
	rr.Text(msg, (r.width-mb.Width())/2, r.height/2+mb.Height())

	var buf bytes.Buffer
	if err := rr.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
