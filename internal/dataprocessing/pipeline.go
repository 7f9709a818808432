package dataprocessing

import (
	"context"
	"log/slog"

	"gemscope/internal/config"
	"gemscope/internal/infrastructure"
	"gemscope/pkg/contracts/domain"
)

// Stage names, in pipeline order.
const (
	StageLoaded  = "loaded"
	StageCleaned = "cleaned"
	StageColor   = "color"
	StageClarity = "clarity"
	StageSegment = "segment"
)

// Subset names exposed to the presentation layer.
const (
	SubsetCleaned      = "cleaned"
	SubsetColorClarity = "color-clarity"
	SubsetSegment      = "segment"
)

// SubsetNames lists every subset name in pipeline order.
func SubsetNames() []string {
	return []string{SubsetCleaned, SubsetColorClarity, SubsetSegment}
}

// SegmentCriteria defines the cleaning bound and the curated grade sets.
type SegmentCriteria struct {
	MaxCarat  float64          `json:"max_carat"`
	Colors    []domain.Color   `json:"colors"`
	Clarities []domain.Clarity `json:"clarities"`
	Cuts      []domain.Cut     `json:"cuts"`
}

// DefaultCriteria is the near-colorless, eye-clean, well-cut segment.
func DefaultCriteria() SegmentCriteria {
	return SegmentCriteria{
		MaxCarat:  domain.MaxCarat,
		Colors:    []domain.Color{domain.ColorD, domain.ColorE, domain.ColorF, domain.ColorG},
		Clarities: []domain.Clarity{domain.ClarityIF, domain.ClarityVVS1, domain.ClarityVVS2, domain.ClarityVS1, domain.ClarityVS2},
		Cuts:      []domain.Cut{domain.CutVeryGood, domain.CutPremium, domain.CutIdeal},
	}
}

// CriteriaFromConfig converts the analysis section of the configuration.
func CriteriaFromConfig(cfg config.AnalysisConfig) SegmentCriteria {
	c := SegmentCriteria{MaxCarat: cfg.MaxCarat}
	for _, v := range cfg.Colors {
		c.Colors = append(c.Colors, domain.Color(v))
	}
	for _, v := range cfg.Clarities {
		c.Clarities = append(c.Clarities, domain.Clarity(v))
	}
	for _, v := range cfg.Cuts {
		c.Cuts = append(c.Cuts, domain.Cut(v))
	}
	return c
}

// StageCount is the number of rows left after a stage.
type StageCount struct {
	Stage string `json:"stage"`
	Rows  int    `json:"rows"`
}

// Aggregates are the grouped statistics computed on each run.
type Aggregates struct {
	CountByColor              Aggregate `json:"count_by_color"`
	CountByCut                Aggregate `json:"count_by_cut"`
	MeanPriceByColor          Aggregate `json:"mean_price_by_color"`
	SegmentCountByCut         Aggregate `json:"segment_count_by_cut"`
	SegmentMeanPriceByClarity Aggregate `json:"segment_mean_price_by_clarity"`
}

// SubsetAggregate is an aggregate tagged with the subset it was computed on.
type SubsetAggregate struct {
	Subset string
	Aggregate
}

// List returns the aggregates in presentation order.
func (a Aggregates) List() []SubsetAggregate {
	return []SubsetAggregate{
		{SubsetCleaned, a.CountByColor},
		{SubsetCleaned, a.CountByCut},
		{SubsetCleaned, a.MeanPriceByColor},
		{SubsetSegment, a.SegmentCountByCut},
		{SubsetSegment, a.SegmentMeanPriceByClarity},
	}
}

// Result is the read-only output of one pipeline run.
type Result struct {
	Criteria     SegmentCriteria
	Cleaned      []domain.Record
	ColorClarity []domain.Record
	Segment      []domain.Record
	Aggregates   Aggregates
	Stages       []StageCount
}

// Subset returns the named record set.
func (r *Result) Subset(name string) ([]domain.Record, bool) {
	switch name {
	case SubsetCleaned:
		return r.Cleaned, true
	case SubsetColorClarity:
		return r.ColorClarity, true
	case SubsetSegment:
		return r.Segment, true
	default:
		return nil, false
	}
}

// StageRows returns the stage counts keyed by stage name.
func (r *Result) StageRows() map[string]int {
	m := make(map[string]int, len(r.Stages))
	for _, s := range r.Stages {
		m[s.Stage] = s.Rows
	}
	return m
}

// Processor runs the cleaning, filtering and aggregation stages.
type Processor struct {
	logger   *slog.Logger
	criteria SegmentCriteria
}

// NewProcessor creates a processor for the given criteria.
func NewProcessor(logger *slog.Logger, criteria SegmentCriteria) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:   infrastructure.WithComponent(logger, "processor"),
		criteria: criteria,
	}
}

// Criteria returns the processor's segment criteria.
func (p *Processor) Criteria() SegmentCriteria { return p.criteria }

// Run applies clean, color, clarity and cut in that order and computes the
// aggregates. Empty stages are not an error. The only error is a done ctx.
func (p *Processor) Run(ctx context.Context, records []domain.Record) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cleaned := CleanBelow(records, p.criteria.MaxCarat)
	byColor := FilterColor(cleaned, p.criteria.Colors)
	colorClarity := FilterClarity(byColor, p.criteria.Clarities)
	segment := FilterCut(colorClarity, p.criteria.Cuts)

	res := &Result{
		Criteria:     p.criteria,
		Cleaned:      cleaned,
		ColorClarity: colorClarity,
		Segment:      segment,
		Aggregates: Aggregates{
			CountByColor:              CountBy(cleaned, domain.FieldColor),
			CountByCut:                CountBy(cleaned, domain.FieldCut),
			MeanPriceByColor:          MeanPriceBy(cleaned, domain.FieldColor),
			SegmentCountByCut:         CountBy(segment, domain.FieldCut),
			SegmentMeanPriceByClarity: MeanPriceBy(segment, domain.FieldClarity),
		},
		Stages: []StageCount{
			{Stage: StageLoaded, Rows: len(records)},
			{Stage: StageCleaned, Rows: len(cleaned)},
			{Stage: StageColor, Rows: len(byColor)},
			{Stage: StageClarity, Rows: len(colorClarity)},
			{Stage: StageSegment, Rows: len(segment)},
		},
	}

	attrs := make([]any, 0, len(res.Stages))
	for _, s := range res.Stages {
		attrs = append(attrs, slog.Int(s.Stage, s.Rows))
	}
	p.logger.InfoContext(ctx, "pipeline completed", attrs...)

	if len(segment) == 0 {
		p.logger.WarnContext(ctx, "segment is empty", slog.Int("cleaned", len(cleaned)))
	}

	return res, nil
}
