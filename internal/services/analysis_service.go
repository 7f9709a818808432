package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gemscope/internal/config"
	"gemscope/internal/dataprocessing"
	"gemscope/internal/infrastructure"
	"gemscope/pkg/contracts/domain"
)

// Paging bounds for subset listings.
const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000
)

// AnalysisService runs the diamond pipeline over the configured dataset.
type AnalysisService struct {
	dataset   config.DatasetConfig
	loader    *dataprocessing.Loader
	processor *dataprocessing.Processor
	metrics   *infrastructure.PipelineMetrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// Summary is the API view of a pipeline run.
type Summary struct {
	Dataset    string                         `json:"dataset"`
	Criteria   dataprocessing.SegmentCriteria `json:"criteria"`
	Stages     []dataprocessing.StageCount    `json:"stages"`
	Aggregates dataprocessing.Aggregates      `json:"aggregates"`
	Regression *dataprocessing.Line           `json:"regression,omitempty"`
}

// SubsetPage is one page of a record subset.
type SubsetPage struct {
	Subset  string          `json:"subset"`
	Total   int             `json:"total"`
	Offset  int             `json:"offset"`
	Limit   int             `json:"limit"`
	Records []domain.Record `json:"records"`
}

// NewAnalysisService creates the service. metrics and tracer may be nil.
func NewAnalysisService(dataset config.DatasetConfig, criteria dataprocessing.SegmentCriteria, metrics *infrastructure.PipelineMetrics, tracer trace.Tracer, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.InstrumentationName)
	}

	logger = infrastructure.WithComponent(logger, "analysis_service")
	logger.Info("AnalysisService initialized",
		slog.String("csv_path", dataset.CSVPath),
		slog.Float64("max_carat", criteria.MaxCarat))

	return &AnalysisService{
		dataset:   dataset,
		loader:    dataprocessing.NewLoader(logger),
		processor: dataprocessing.NewProcessor(logger, criteria),
		metrics:   metrics,
		tracer:    tracer,
		logger:    logger,
	}
}

// DatasetPath is the CSV the service reads.
func (s *AnalysisService) DatasetPath() string { return s.dataset.CSVPath }

// Run loads the dataset and executes the pipeline once.
func (s *AnalysisService) Run(ctx context.Context) (*dataprocessing.Result, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.run",
		trace.WithAttributes(attribute.String("dataset.path", s.dataset.CSVPath)))
	defer span.End()

	start := time.Now()
	res, err := s.run(ctx)
	duration := time.Since(start)

	var stages map[string]int
	if res != nil {
		stages = res.StageRows()
	}
	s.metrics.RecordRun(ctx, duration, err, stages)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		infrastructure.WithError(s.logger, err).ErrorContext(ctx, "pipeline run failed",
			slog.Duration("duration", duration))
		return nil, err
	}

	s.logger.DebugContext(ctx, "pipeline run finished", slog.Duration("duration", duration))
	return res, nil
}

func (s *AnalysisService) run(ctx context.Context) (*dataprocessing.Result, error) {
	records, err := s.loader.LoadFile(ctx, s.dataset.CSVPath)
	if err != nil {
		return nil, err
	}
	infrastructure.AddSpanEvent(ctx, "dataset.loaded", attribute.Int("rows", len(records)))

	res, err := s.processor.Run(ctx, records)
	if err != nil {
		return nil, err
	}

	attrs := make([]attribute.KeyValue, 0, len(res.Stages))
	for _, st := range res.Stages {
		attrs = append(attrs, attribute.Int("rows."+st.Stage, st.Rows))
	}
	infrastructure.AddSpanEvent(ctx, "pipeline.completed", attrs...)
	return res, nil
}

// Summary runs the pipeline and returns stage counts, aggregates and, when
// the segment supports it, the price-on-carat fit.
func (s *AnalysisService) Summary(ctx context.Context) (*Summary, error) {
	res, err := s.Run(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Dataset:    s.dataset.CSVPath,
		Criteria:   res.Criteria,
		Stages:     res.Stages,
		Aggregates: res.Aggregates,
	}
	if line, err := dataprocessing.FitLine(res.Segment); err == nil {
		summary.Regression = &line
	}
	return summary, nil
}

// Subset returns records [offset, offset+limit) of the named subset.
// A limit of 0 selects DefaultPageLimit.
func (s *AnalysisService) Subset(ctx context.Context, name string, offset, limit int) (*SubsetPage, error) {
	if limit == 0 {
		limit = DefaultPageLimit
	}
	if offset < 0 || limit < 1 || limit > MaxPageLimit {
		return nil, fmt.Errorf("%w: offset=%d limit=%d", ErrInvalidPage, offset, limit)
	}

	records, err := s.subset(ctx, name)
	if err != nil {
		return nil, err
	}

	page := &SubsetPage{Subset: name, Total: len(records), Offset: offset, Limit: limit, Records: []domain.Record{}}
	if offset < len(records) {
		end := min(offset+limit, len(records))
		page.Records = records[offset:end]
	}
	return page, nil
}

// Describe returns descriptive statistics for the named subset.
func (s *AnalysisService) Describe(ctx context.Context, name string) (dataprocessing.DescribeTable, error) {
	records, err := s.subset(ctx, name)
	if err != nil {
		return dataprocessing.DescribeTable{}, err
	}

	table, err := dataprocessing.Describe(records)
	if stderrors.Is(err, dataprocessing.ErrInsufficientData) {
		return table, fmt.Errorf("%w: subset %s is empty", ErrInsufficientData, name)
	}
	return table, err
}

// Regression fits price on carat over the segment.
func (s *AnalysisService) Regression(ctx context.Context) (dataprocessing.Line, error) {
	records, err := s.subset(ctx, dataprocessing.SubsetSegment)
	if err != nil {
		return dataprocessing.Line{}, err
	}

	line, err := dataprocessing.FitLine(records)
	if stderrors.Is(err, dataprocessing.ErrInsufficientData) {
		return line, fmt.Errorf("%w: segment has %d rows", ErrInsufficientData, len(records))
	}
	return line, err
}

// ImagePath returns the reference image path, or ErrImageNotFound.
func (s *AnalysisService) ImagePath() (string, error) {
	if s.dataset.ImagePath == "" {
		return "", ErrImageNotFound
	}
	info, err := os.Stat(s.dataset.ImagePath)
	if err != nil || info.IsDir() {
		return "", ErrImageNotFound
	}
	return s.dataset.ImagePath, nil
}

func (s *AnalysisService) subset(ctx context.Context, name string) ([]domain.Record, error) {
	if !validSubset(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubset, name)
	}

	res, err := s.Run(ctx)
	if err != nil {
		return nil, err
	}

	records, _ := res.Subset(name)
	return records, nil
}

func validSubset(name string) bool {
	for _, n := range dataprocessing.SubsetNames() {
		if n == name {
			return true
		}
	}
	return false
}
