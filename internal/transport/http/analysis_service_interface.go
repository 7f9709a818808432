package http

import (
	"context"

	"gemscope/internal/dataprocessing"
	"gemscope/internal/services"
)

// AnalysisServiceInterface defines the analysis operations the handlers use
type AnalysisServiceInterface interface {
	Run(ctx context.Context) (*dataprocessing.Result, error)
	Summary(ctx context.Context) (*services.Summary, error)
	Subset(ctx context.Context, name string, offset, limit int) (*services.SubsetPage, error)
	Describe(ctx context.Context, name string) (dataprocessing.DescribeTable, error)
	Regression(ctx context.Context) (dataprocessing.Line, error)
	ImagePath() (string, error)
	DatasetPath() string
}
