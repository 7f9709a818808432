package http

import (
	"context"
	"log/slog"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gemscope/internal/dataprocessing"
	apierrors "gemscope/internal/errors"
	"gemscope/internal/services"
	"gemscope/internal/shared/testutil"
)

// MockAnalysisService is a mock implementation of AnalysisServiceInterface
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Run(ctx context.Context) (*dataprocessing.Result, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dataprocessing.Result), args.Error(1)
}

func (m *MockAnalysisService) Summary(ctx context.Context) (*services.Summary, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Summary), args.Error(1)
}

func (m *MockAnalysisService) Subset(ctx context.Context, name string, offset, limit int) (*services.SubsetPage, error) {
	args := m.Called(name, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SubsetPage), args.Error(1)
}

func (m *MockAnalysisService) Describe(ctx context.Context, name string) (dataprocessing.DescribeTable, error) {
	args := m.Called(name)
	return args.Get(0).(dataprocessing.DescribeTable), args.Error(1)
}

func (m *MockAnalysisService) Regression(ctx context.Context) (dataprocessing.Line, error) {
	args := m.Called()
	return args.Get(0).(dataprocessing.Line), args.Error(1)
}

func (m *MockAnalysisService) ImagePath() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockAnalysisService) DatasetPath() string {
	args := m.Called()
	return args.String(0)
}

// fixtureResult runs the pipeline over the shared diamonds fixture.
func fixtureResult(t *testing.T) *dataprocessing.Result {
	t.Helper()
	return runFixture(t, testutil.WriteDiamondsCSV(t))
}

func runFixture(t *testing.T, path string) *dataprocessing.Result {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	records, err := dataprocessing.NewLoader(logger).LoadFile(context.Background(), path)
	require.NoError(t, err)
	res, err := dataprocessing.NewProcessor(logger, dataprocessing.DefaultCriteria()).Run(context.Background(), records)
	require.NoError(t, err)
	return res
}

func testDeps(t *testing.T) (*slog.Logger, *testutil.BufferedSlogHandler, *apierrors.ErrorHandler) {
	t.Helper()
	logger, handler := testutil.NewTestLogger(t)
	return logger, handler, apierrors.NewErrorHandler(logger, false)
}

// mount serves routes under prefix the way the application does.
func mount(prefix string, routes chi.Router) chi.Router {
	r := chi.NewRouter()
	r.Mount(prefix, routes)
	return r
}
