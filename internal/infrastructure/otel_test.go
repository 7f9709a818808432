package infrastructure

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemscope/internal/shared/testutil"
)

func TestOTelInitialization(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	providers, err := InitializeOTel(nil, logger)
	require.NoError(t, err)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelInitialization_MetricsDisabled(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableMetrics = false

	providers, err := InitializeOTel(cfg, nil)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.Nil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter, "falls back to a no-op meter")

	_, err = CreatePipelineMetrics(providers.Meter)
	assert.NoError(t, err)
}

func TestOTelInitialization_UnknownExporter(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.TraceExporter = "zipkin"

	_, err := InitializeOTel(cfg, nil)
	assert.Error(t, err)
}

func TestTraceCorrelation(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), nil)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := providers.Tracer.Start(context.Background(), "test-operation")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)
	assert.Empty(t, TraceIDFromContext(context.Background()))

	AddSpanEvent(ctx, "noted")
	RecordError(ctx, errors.New("boom"))
}

func TestPipelineMetricsExported(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), nil)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)

	metrics.RecordRun(context.Background(), 120*time.Millisecond, nil, map[string]int{
		"loaded":  12,
		"cleaned": 9,
		"segment": 4,
	})

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "pipeline_runs_total")
	assert.Contains(t, body, "pipeline_run_duration_seconds")
	assert.Contains(t, body, `pipeline_stage_rows{`)
	assert.Contains(t, body, `stage="segment"`)
}

func TestPipelineMetrics_NilSafe(t *testing.T) {
	var metrics *PipelineMetrics
	assert.NotPanics(t, func() {
		metrics.RecordRun(context.Background(), time.Second, errors.New("x"), nil)
	})
}

func TestCreateHTTPMetrics(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), nil)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateHTTPMetrics(providers.Meter)
	require.NoError(t, err)
	assert.NotNil(t, metrics.RequestsTotal)
	assert.NotNil(t, metrics.RequestDuration)
	assert.NotNil(t, metrics.ActiveRequests)
}
