package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gemscope/internal/dataprocessing"
	apierrors "gemscope/internal/errors"
	"gemscope/internal/exporter"
	"gemscope/internal/infrastructure"
	"gemscope/internal/services"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHandler streams subsets and the workbook as downloads
type ExportHandler struct {
	service      AnalysisServiceInterface
	csv          *exporter.CSVWriter
	workbook     *exporter.WorkbookWriter
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates a new export handler
func NewExportHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		csv:          exporter.NewCSVWriter("", logger),
		workbook:     exporter.NewWorkbookWriter(logger),
		logger:       infrastructure.WithComponent(logger, "export_handler"),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/workbook.xlsx", h.DownloadWorkbook)
	r.Get("/aggregates.csv", h.DownloadAggregates)
	r.Get("/{name}.csv", h.DownloadSubset)
	return r
}

// DownloadSubset handles GET /api/export/{name}.csv
func (h *ExportHandler) DownloadSubset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !slices.Contains(dataprocessing.SubsetNames(), name) {
		h.fail(w, r, "unknown subset requested", fmt.Errorf("%w: %q", services.ErrUnknownSubset, name))
		return
	}

	res, err := h.service.Run(r.Context())
	if err != nil {
		h.fail(w, r, "analysis failed", err)
		return
	}

	records, _ := res.Subset(name)
	var buf bytes.Buffer
	if err := h.csv.WriteRecords(&buf, records); err != nil {
		h.fail(w, r, "subset export failed", err)
		return
	}

	h.logger.InfoContext(r.Context(), "subset exported",
		slog.String("subset", name),
		slog.Int("records", len(records)))
	h.send(w, name+".csv", contentTypeCSV, buf.Bytes())
}

// DownloadAggregates handles GET /api/export/aggregates.csv
func (h *ExportHandler) DownloadAggregates(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Run(r.Context())
	if err != nil {
		h.fail(w, r, "analysis failed", err)
		return
	}

	var buf bytes.Buffer
	if err := h.csv.WriteAggregates(&buf, res); err != nil {
		h.fail(w, r, "aggregates export failed", err)
		return
	}
	h.send(w, "aggregates.csv", contentTypeCSV, buf.Bytes())
}

// DownloadWorkbook handles GET /api/export/workbook.xlsx
func (h *ExportHandler) DownloadWorkbook(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Run(r.Context())
	if err != nil {
		h.fail(w, r, "analysis failed", err)
		return
	}

	var buf bytes.Buffer
	if err := h.workbook.Write(&buf, res); err != nil {
		h.fail(w, r, "workbook export failed", err)
		return
	}

	h.logger.InfoContext(r.Context(), "workbook exported", slog.Int("bytes", buf.Len()))
	h.send(w, "gemscope.xlsx", contentTypeXLSX, buf.Bytes())
}

func (h *ExportHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger := infrastructure.WithError(infrastructure.LoggerWithContext(r.Context(), h.logger), err)
	logger.WarnContext(r.Context(), msg, slog.String("path", r.URL.Path))
	h.errorHandler.HandleError(w, r, toAPIError(err))
}

// send buffers the body so a failed export still yields a problem response.
func (h *ExportHandler) send(w http.ResponseWriter, filename, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
