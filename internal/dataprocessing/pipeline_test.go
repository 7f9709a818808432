package dataprocessing

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemscope/internal/config"
	"gemscope/internal/shared/testutil"
	"gemscope/pkg/contracts/domain"
)

func TestProcessor_Run(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	p := NewProcessor(logger, DefaultCriteria())

	res, err := p.Run(context.Background(), loadFixture(t))
	require.NoError(t, err)

	assert.Equal(t, []StageCount{
		{Stage: StageLoaded, Rows: 12},
		{Stage: StageCleaned, Rows: 9},
		{Stage: StageColor, Rows: 6},
		{Stage: StageClarity, Rows: 5},
		{Stage: StageSegment, Rows: 4},
	}, res.Stages)
	assert.Equal(t, testutil.SegmentIDs, ids(res.Segment))
	assert.Len(t, res.ColorClarity, 5)

	agg := res.Aggregates
	assert.Equal(t, float64(len(res.Cleaned)), agg.CountByColor.Total())
	assert.Equal(t, float64(len(res.Cleaned)), agg.CountByCut.Total())
	assert.Equal(t, map[string]float64{"Ideal": 2, "Premium": 1, "Very Good": 1}, agg.SegmentCountByCut.Values)
	assert.Equal(t, map[string]float64{"IF": 5000, "VVS1": 2757, "VS1": 326, "VS2": 9000}, agg.SegmentMeanPriceByClarity.Values)
	assert.Equal(t, 6450.0, agg.MeanPriceByColor.Values["G"])

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "pipeline completed")
	testutil.AssertLogAttr(t, handler, "segment", int64(4))
	testutil.AssertNoErrors(t, handler)
}

func TestProcessor_EmptySegment(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	criteria := DefaultCriteria()
	criteria.Cuts = []domain.Cut{domain.CutFair}

	res, err := NewProcessor(logger, criteria).Run(context.Background(), loadFixture(t))
	require.NoError(t, err)

	assert.Empty(t, res.Segment)
	assert.Zero(t, res.Aggregates.SegmentCountByCut.Len())
	assert.Zero(t, res.Aggregates.SegmentMeanPriceByClarity.Len())
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "segment is empty")
}

func TestProcessor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewProcessor(nil, DefaultCriteria()).Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestResult_Subset(t *testing.T) {
	res, err := NewProcessor(nil, DefaultCriteria()).Run(context.Background(), loadFixture(t))
	require.NoError(t, err)

	tests := []struct {
		name   string
		wantN  int
		wantOK bool
	}{
		{SubsetCleaned, 9, true},
		{SubsetColorClarity, 5, true},
		{SubsetSegment, 4, true},
		{"raw", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, ok := res.Subset(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Len(t, recs, tt.wantN)
		})
	}

	assert.Equal(t, 9, res.StageRows()[StageCleaned])
	assert.Len(t, SubsetNames(), 3)
}

func TestCriteriaFromConfig(t *testing.T) {
	cfg := config.Default().Analysis
	assert.Equal(t, DefaultCriteria(), CriteriaFromConfig(cfg))

	cfg.MaxCarat = 1
	cfg.Cuts = []string{"Ideal"}
	c := CriteriaFromConfig(cfg)
	assert.Equal(t, 1.0, c.MaxCarat)
	assert.Equal(t, []domain.Cut{domain.CutIdeal}, c.Cuts)
}
