package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"gemscope/internal/charts"
	"gemscope/internal/dataprocessing"
	apierrors "gemscope/internal/errors"
	"gemscope/internal/infrastructure"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// colorGradePath is where the reference color scale image is served.
const colorGradePath = "/assets/color-grade"

// DashboardHandler renders the analysis page and its reference image
type DashboardHandler struct {
	service      AnalysisServiceInterface
	renderer     *charts.Renderer
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

type dashboardView struct {
	Title      string
	Dataset    string
	Intro      []string
	ImageURL   string
	Stages     []dataprocessing.StageCount
	Criteria   criteriaView
	Panels     []panelView
	Regression *dataprocessing.Line
	Conclusion string
}

type criteriaView struct {
	MaxCarat  float64
	Colors    string
	Clarities string
	Cuts      string
}

type panelView struct {
	ID        string
	Title     string
	Narrative []string
	SVG       template.HTML
	Empty     bool
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service AnalysisServiceInterface, renderer *charts.Renderer, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		renderer:     renderer,
		logger:       infrastructure.WithComponent(logger, "dashboard_handler"),
		errorHandler: errorHandler,
	}
}

// RegisterRoutes adds the page routes to r. They live at the root, so they
// are registered rather than mounted.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ServeDashboard)
	r.Get(colorGradePath, h.ServeColorGrade)
}

// ServeDashboard handles GET /
func (h *DashboardHandler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := h.service.Run(ctx)
	if err != nil {
		h.fail(w, r, "analysis failed", err)
		return
	}

	images, err := h.renderer.RenderDashboard(ctx, charts.FormatSVG, res)
	if err != nil {
		h.fail(w, r, "dashboard rendering failed", err)
		return
	}

	view := dashboardView{
		Title:      dashboardTitle,
		Dataset:    h.service.DatasetPath(),
		Intro:      introText,
		Stages:     res.Stages,
		Criteria:   newCriteriaView(res.Criteria),
		Panels:     make([]panelView, 0, len(images)),
		Conclusion: conclusionText,
	}
	if line, err := dataprocessing.FitLine(res.Segment); err == nil {
		view.Regression = &line
	}
	if _, err := h.service.ImagePath(); err == nil {
		view.ImageURL = colorGradePath
	}

	for _, img := range images {
		view.Panels = append(view.Panels, panelView{
			ID:        string(img.Panel),
			Title:     img.Panel.Title(),
			Narrative: panelText[img.Panel],
			// category labels are escaped by the renderer
			SVG:   template.HTML(img.Data),
			Empty: img.Empty,
		})
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, view); err != nil {
		infrastructure.WithError(infrastructure.LoggerWithContext(ctx, h.logger), err).
			ErrorContext(ctx, "dashboard template failed")
		h.errorHandler.HandleError(w, r, apierrors.ErrInternalServer)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// ServeColorGrade handles GET /assets/color-grade
func (h *DashboardHandler) ServeColorGrade(w http.ResponseWriter, r *http.Request) {
	path, err := h.service.ImagePath()
	if err != nil {
		h.fail(w, r, "reference image unavailable", err)
		return
	}
	http.ServeFile(w, r, path)
}

func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger := infrastructure.WithError(infrastructure.LoggerWithContext(r.Context(), h.logger), err)
	logger.WarnContext(r.Context(), msg, slog.String("path", r.URL.Path))
	h.errorHandler.HandleError(w, r, toAPIError(err))
}

func newCriteriaView(c dataprocessing.SegmentCriteria) criteriaView {
	return criteriaView{
		MaxCarat:  c.MaxCarat,
		Colors:    joinGrades(c.Colors),
		Clarities: joinGrades(c.Clarities),
		Cuts:      joinGrades(c.Cuts),
	}
}

func joinGrades[T ~string](grades []T) string {
	parts := make([]string, len(grades))
	for i, g := range grades {
		parts[i] = string(g)
	}
	return strings.Join(parts, ", ")
}
