package http

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"gemscope/internal/dataprocessing"
	apierrors "gemscope/internal/errors"
	"gemscope/internal/infrastructure"
	gsmw "gemscope/internal/middleware"
	"gemscope/internal/services"
)

// AnalysisHandler serves the JSON analysis API
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	validator    *gsmw.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// pageQuery holds the decoded paging parameters of a subset listing.
type pageQuery struct {
	Offset int `query:"offset" validate:"gte=0"`
	Limit  int `query:"limit" validate:"gte=1,lte=1000"`
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		validator:    gsmw.NewQueryParamValidator(logger, errorHandler),
		logger:       infrastructure.WithComponent(logger, "analysis_handler"),
		errorHandler: errorHandler,
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/subsets", h.ListSubsets)
	r.Get("/subsets/{name}", h.GetSubset)
	r.Get("/describe/{name}", h.GetDescribe)
	r.Get("/regression", h.GetRegression)

	return r
}

// GetSummary handles GET /api/analysis/summary
func (h *AnalysisHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.fail(w, r, "failed to build summary", err)
		return
	}

	render.JSON(w, r, summary)
}

// ListSubsets handles GET /api/analysis/subsets
func (h *AnalysisHandler) ListSubsets(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"subsets": dataprocessing.SubsetNames(),
	})
}

// GetSubset handles GET /api/analysis/subsets/{name}
func (h *AnalysisHandler) GetSubset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	offset, ok := h.validator.ValidateInt(w, r, "offset", 0, math.MaxInt, 0)
	if !ok {
		return
	}
	limit, ok := h.validator.ValidateInt(w, r, "limit", 1, services.MaxPageLimit, services.DefaultPageLimit)
	if !ok {
		return
	}
	q := pageQuery{Offset: offset, Limit: limit}
	if !h.validator.ValidateStruct(w, r, &q) {
		return
	}

	infrastructure.LoggerWithContext(r.Context(), h.logger).DebugContext(r.Context(), "fetching subset page",
		slog.String("subset", name),
		slog.Int("offset", q.Offset),
		slog.Int("limit", q.Limit))

	page, err := h.service.Subset(r.Context(), name, q.Offset, q.Limit)
	if err != nil {
		h.fail(w, r, "failed to fetch subset", err)
		return
	}

	render.JSON(w, r, page)
}

// GetDescribe handles GET /api/analysis/describe/{name}
func (h *AnalysisHandler) GetDescribe(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	table, err := h.service.Describe(r.Context(), name)
	if err != nil {
		h.fail(w, r, "failed to describe subset", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"subset": name,
		"table":  table,
	})
}

// GetRegression handles GET /api/analysis/regression
func (h *AnalysisHandler) GetRegression(w http.ResponseWriter, r *http.Request) {
	line, err := h.service.Regression(r.Context())
	if err != nil {
		h.fail(w, r, "failed to fit regression", err)
		return
	}

	render.JSON(w, r, line)
}

func (h *AnalysisHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger := infrastructure.WithError(infrastructure.LoggerWithContext(r.Context(), h.logger), err)
	logger.WarnContext(r.Context(), msg, slog.String("path", r.URL.Path))
	h.errorHandler.HandleError(w, r, toAPIError(err))
}
