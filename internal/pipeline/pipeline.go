package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/rainfall-trends/internal/domain"
	"github.com/couchcryptid/rainfall-trends/internal/observability"
	"github.com/couchcryptid/rainfall-trends/internal/report"
	"github.com/couchcryptid/rainfall-trends/internal/source"
)

var (
	// ErrSource wraps failures reading the spreadsheet itself.
	ErrSource = errors.New("read source")
	// ErrPublish wraps loader failures. The report is still returned alongside it.
	ErrPublish = errors.New("publish report")
)

// Transformer turns a wide rainfall table into the analysed views.
type Transformer interface {
	Transform(ctx context.Context, wide dataframe.DataFrame) (domain.Analysis, error)
}

// Loader hands a finished report to a destination (Kafka, parquet export).
type Loader interface {
	Name() string
	Load(ctx context.Context, r *report.Report) error
}

// Pipeline runs one analysis per call: load, reshape, aggregate, build, publish.
type Pipeline struct {
	transformer Transformer
	loaders     []Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	previewRows int
	ready       atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(t Transformer, loaders []Loader, logger *slog.Logger, metrics *observability.Metrics, previewRows int) *Pipeline {
	return &Pipeline{
		transformer: t,
		loaders:     loaders,
		logger:      logger,
		metrics:     metrics,
		previewRows: previewRows,
	}
}

// SetReady flips the readiness state reported by CheckReadiness.
func (p *Pipeline) SetReady(ready bool) {
	p.ready.Store(ready)
}

// CheckReadiness returns nil while the pipeline is accepting analyses.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline is not accepting analyses")
	}
	return nil
}

// Analyze reads src and produces its report. Missing Year columns and
// unparseable dates fail the whole analysis with no partial output. Loader
// failures are returned wrapped in ErrPublish together with the report.
func (p *Pipeline) Analyze(ctx context.Context, src source.Source, id string) (*report.Report, error) {
	start := time.Now()

	wide, err := src.Load(ctx)
	if err != nil {
		p.metrics.AnalysesTotal.WithLabelValues(observability.OutcomeSourceError).Inc()
		p.logger.Error("load source failed", "source", src.Name(), "error", err)
		return nil, fmt.Errorf("%w %s: %w", ErrSource, src.Name(), err)
	}

	analysis, err := p.transformer.Transform(ctx, wide)
	if err != nil {
		p.metrics.AnalysesTotal.WithLabelValues(outcomeOf(err)).Inc()
		p.logger.Warn("transform failed", "source", src.Name(), "error", err)
		return nil, fmt.Errorf("analyze %s: %w", src.Name(), err)
	}
	p.metrics.RecordsReshaped.Add(float64(len(analysis.Records)))

	rep := report.Build(wide, analysis, report.Options{
		ID:          id,
		Source:      src.Name(),
		PreviewRows: p.previewRows,
	})

	pubErr := p.publish(ctx, rep)
	p.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	if pubErr != nil {
		p.metrics.AnalysesTotal.WithLabelValues(observability.OutcomeSinkError).Inc()
		return rep, pubErr
	}

	p.metrics.AnalysesTotal.WithLabelValues(observability.OutcomeSuccess).Inc()
	p.logger.Info("analysis complete",
		"id", id,
		"source", src.Name(),
		"records", len(rep.Records),
		"years", len(rep.AnnualTotals),
	)
	return rep, nil
}

// publish runs every loader even when an earlier one fails.
func (p *Pipeline) publish(ctx context.Context, rep *report.Report) error {
	var errs []error
	for _, l := range p.loaders {
		if err := l.Load(ctx, rep); err != nil {
			p.logger.Error("publish report failed", "sink", l.Name(), "id", rep.ID, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", l.Name(), err))
			continue
		}
		p.metrics.ReportsPublished.WithLabelValues(l.Name()).Inc()
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrPublish, errors.Join(errs...))
	}
	return nil
}

func outcomeOf(err error) string {
	var missing *domain.MissingColumnError
	var badDate *domain.DateFormatError
	switch {
	case errors.As(err, &missing):
		return observability.OutcomeMissingColumn
	case errors.As(err, &badDate):
		return observability.OutcomeDateFormat
	default:
		return observability.OutcomeSourceError
	}
}
