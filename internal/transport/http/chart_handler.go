package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gemscope/internal/charts"
	apierrors "gemscope/internal/errors"
	"gemscope/internal/infrastructure"
	gsmw "gemscope/internal/middleware"
)

// ChartHandler serves individual dashboard panels as images
type ChartHandler struct {
	service      AnalysisServiceInterface
	renderer     *charts.Renderer
	validator    *gsmw.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewChartHandler creates a new chart handler
func NewChartHandler(service AnalysisServiceInterface, renderer *charts.Renderer, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ChartHandler {
	return &ChartHandler{
		service:      service,
		renderer:     renderer,
		validator:    gsmw.NewQueryParamValidator(logger, errorHandler),
		logger:       infrastructure.WithComponent(logger, "chart_handler"),
		errorHandler: errorHandler,
	}
}

// Routes returns the chart routes
func (h *ChartHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{panel}.{format}", h.GetChart)
	r.Get("/{panel}", h.GetChart)
	return r
}

// GetChart handles GET /charts/{panel}.{format} and GET /charts/{panel}?format=
func (h *ChartHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	panel, err := charts.ParsePanel(chi.URLParam(r, "panel"))
	if err != nil {
		h.fail(w, r, "unknown panel requested", err)
		return
	}

	rawFormat := chi.URLParam(r, "format")
	if rawFormat == "" {
		var ok bool
		rawFormat, ok = h.validator.ValidateEnum(w, r, "format",
			[]string{string(charts.FormatSVG), string(charts.FormatPNG)}, string(charts.FormatSVG))
		if !ok {
			return
		}
	}
	format, err := charts.ParseFormat(rawFormat)
	if err != nil {
		h.fail(w, r, "unknown chart format requested", err)
		return
	}

	res, err := h.service.Run(r.Context())
	if err != nil {
		h.fail(w, r, "analysis failed", err)
		return
	}

	img, err := h.renderer.Render(panel, format, res)
	if err != nil {
		h.fail(w, r, "chart rendering failed", err)
		return
	}

	if img.Empty {
		h.logger.InfoContext(r.Context(), "chart has no data",
			slog.String("panel", string(panel)))
		w.Header().Set("X-Chart-Empty", "true")
	}

	w.Header().Set("Content-Type", img.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Data)
}

func (h *ChartHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger := infrastructure.WithError(infrastructure.LoggerWithContext(r.Context(), h.logger), err)
	logger.WarnContext(r.Context(), msg, slog.String("path", r.URL.Path))
	h.errorHandler.HandleError(w, r, toAPIError(err))
}
