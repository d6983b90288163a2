package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rainfall-trends/internal/domain"
	"github.com/couchcryptid/rainfall-trends/internal/observability"
	"github.com/couchcryptid/rainfall-trends/internal/pipeline"
	"github.com/couchcryptid/rainfall-trends/internal/report"
	"github.com/couchcryptid/rainfall-trends/internal/source"
)

// --- mocks ---

type mockSource struct {
	rows [][]string
	err  error
}

func (m *mockSource) Name() string { return "mock.xlsx" }

func (m *mockSource) Load(_ context.Context) (dataframe.DataFrame, error) {
	if m.err != nil {
		return dataframe.DataFrame{}, m.err
	}
	return source.NewWideTable(m.rows)
}

type mockLoader struct {
	name   string
	err    error
	loaded []*report.Report
}

func (m *mockLoader) Name() string { return m.name }

func (m *mockLoader) Load(_ context.Context, r *report.Report) error {
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, r)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPipeline(loaders ...pipeline.Loader) (*pipeline.Pipeline, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(pipeline.NewTransformer(discardLogger()), loaders, discardLogger(), metrics, 5)
	return p, metrics
}

func outcomes(m *observability.Metrics, outcome string) float64 {
	return testutil.ToFloat64(m.AnalysesTotal.WithLabelValues(outcome))
}

var mumbai = [][]string{
	{"Year", "January", "February", "June", "July"},
	{"2011", "0.5", "0", "600", "850"},
	{"2012", "1.5", "", "400", "950"},
}

// --- tests ---

func TestPipeline_Analyze_HappyPath(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	ldr := &mockLoader{name: "mock"}
	p, metrics := newPipeline(ldr)

	rep, err := p.Analyze(context.Background(), &mockSource{rows: mumbai}, "id-1")
	require.NoError(t, err)

	assert.Equal(t, "id-1", rep.ID)
	assert.Equal(t, "mock.xlsx", rep.Source)
	assert.Len(t, rep.Records, 8)
	require.Len(t, rep.AnnualTotals, 2)
	assert.InDelta(t, 1450.5, rep.AnnualTotals[0].TotalRainfall, 1e-9)
	assert.InDelta(t, 1351.5, rep.AnnualTotals[1].TotalRainfall, 1e-9)
	assert.Len(t, rep.MonthlyAverages, 12)
	assert.Len(t, rep.Preview.Rows, 2)

	require.Len(t, ldr.loaded, 1)
	assert.Same(t, rep, ldr.loaded[0])

	assert.InDelta(t, 1, outcomes(metrics, observability.OutcomeSuccess), 0)
	assert.InDelta(t, 8, testutil.ToFloat64(metrics.RecordsReshaped), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ReportsPublished.WithLabelValues("mock")), 0)
}

func TestPipeline_Analyze_MissingYear(t *testing.T) {
	ldr := &mockLoader{name: "mock"}
	p, metrics := newPipeline(ldr)

	rep, err := p.Analyze(context.Background(), &mockSource{rows: [][]string{
		{"Jahr", "January"},
		{"2011", "3"},
	}}, "id-2")

	var missing *domain.MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Nil(t, rep)
	assert.Empty(t, ldr.loaded)
	assert.InDelta(t, 1, outcomes(metrics, observability.OutcomeMissingColumn), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.RecordsReshaped), 0)
}

func TestPipeline_Analyze_DateFormat(t *testing.T) {
	p, metrics := newPipeline()

	_, err := p.Analyze(context.Background(), &mockSource{rows: [][]string{
		{"Year", "January", "Feb"},
		{"2011", "1", "2"},
	}}, "id-3")

	var badDate *domain.DateFormatError
	require.ErrorAs(t, err, &badDate)
	assert.InDelta(t, 1, outcomes(metrics, observability.OutcomeDateFormat), 0)
}

func TestPipeline_Analyze_SourceError(t *testing.T) {
	p, metrics := newPipeline()

	_, err := p.Analyze(context.Background(), &mockSource{err: source.ErrEmptyTable}, "id-4")

	require.ErrorIs(t, err, pipeline.ErrSource)
	require.ErrorIs(t, err, source.ErrEmptyTable)
	assert.Contains(t, err.Error(), "mock.xlsx")
	assert.InDelta(t, 1, outcomes(metrics, observability.OutcomeSourceError), 0)
}

func TestPipeline_Analyze_CancelledContext(t *testing.T) {
	p, _ := newPipeline()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Analyze(ctx, &mockSource{rows: mumbai}, "id-5")
	require.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_Analyze_LoaderFailureKeepsReport(t *testing.T) {
	failing := &mockLoader{name: "kafka", err: errors.New("broker unavailable")}
	ok := &mockLoader{name: "parquet"}
	p, metrics := newPipeline(failing, ok)

	rep, err := p.Analyze(context.Background(), &mockSource{rows: mumbai}, "id-6")

	require.ErrorIs(t, err, pipeline.ErrPublish)
	assert.Contains(t, err.Error(), "kafka: broker unavailable")
	require.NotNil(t, rep)
	assert.Len(t, rep.Records, 8)
	assert.Len(t, ok.loaded, 1, "later loaders still run")
	assert.InDelta(t, 1, outcomes(metrics, observability.OutcomeSinkError), 0)
	assert.InDelta(t, 0, outcomes(metrics, observability.OutcomeSuccess), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ReportsPublished.WithLabelValues("parquet")), 0)
}

func TestPipeline_Readiness(t *testing.T) {
	p, _ := newPipeline()

	require.Error(t, p.CheckReadiness(context.Background()))

	p.SetReady(true)
	require.NoError(t, p.CheckReadiness(context.Background()))

	p.SetReady(false)
	require.Error(t, p.CheckReadiness(context.Background()))
}

func TestRainfallTransformer_Transform(t *testing.T) {
	wide, err := source.NewWideTable([][]string{
		{"Year", "Jan", "Feb"},
		{"2020", "4", "6"},
	})
	require.NoError(t, err)

	analysis, err := pipeline.NewTransformer(discardLogger()).Transform(context.Background(), wide)
	require.NoError(t, err)

	require.Len(t, analysis.Records, 2)
	assert.Equal(t, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), analysis.Records[0].Date)
	assert.Equal(t, domain.MonthOrder(), analysis.Variability.MonthOrder)
}
