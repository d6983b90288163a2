// Command rainfall analyses one rainfall spreadsheet and prints the report.
//
// Usage:
//
//	go run ./cmd/rainfall -input data/mumbai_rainfall.xlsx
//	go run ./cmd/rainfall -input rain.csv.gz -format json -parquet out/records.parquet
//	go run ./cmd/rainfall -sheet-id 1AbC... -range 'Rainfall!A1:M40'
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	kafkaadapter "github.com/couchcryptid/rainfall-trends/internal/adapter/kafka"
	parquetadapter "github.com/couchcryptid/rainfall-trends/internal/adapter/parquet"
	"github.com/couchcryptid/rainfall-trends/internal/config"
	"github.com/couchcryptid/rainfall-trends/internal/domain"
	"github.com/couchcryptid/rainfall-trends/internal/observability"
	"github.com/couchcryptid/rainfall-trends/internal/pipeline"
	"github.com/couchcryptid/rainfall-trends/internal/report"
	"github.com/couchcryptid/rainfall-trends/internal/source"
)

type options struct {
	input   string
	sheet   string
	sheetID string
	rng     string
	format  string
	parquet string
	publish bool
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "input", "", "spreadsheet to analyse (.xlsx, .csv, .csv.gz)")
	flag.StringVar(&opts.sheet, "sheet", "", "worksheet name for xlsx input (default: first sheet)")
	flag.StringVar(&opts.sheetID, "sheet-id", "", "Google spreadsheet ID to read instead of -input")
	flag.StringVar(&opts.rng, "range", "A1:M100", "A1 range to read with -sheet-id")
	flag.StringVar(&opts.format, "format", "text", "output format: text or json")
	flag.StringVar(&opts.parquet, "parquet", "", "also write the long-format records to this parquet file")
	flag.BoolVar(&opts.publish, "publish", false, "publish the report to KAFKA_REPORT_TOPIC")
	flag.Parse()

	if (opts.input == "") == (opts.sheetID == "") {
		flag.Usage()
		fmt.Fprintln(os.Stderr, "exactly one of -input or -sheet-id is required")
		os.Exit(2)
	}
	if opts.format != "text" && opts.format != "json" {
		fmt.Fprintf(os.Stderr, "invalid -format %q (want text or json)\n", opts.format)
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, observability.NewMetrics(), logger, os.Stdout); err != nil {
		var missing *domain.MissingColumnError
		var badDate *domain.DateFormatError
		if errors.As(err, &missing) || errors.As(err, &badDate) {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		logger.Error("analysis failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, metrics *observability.Metrics, logger *slog.Logger, out io.Writer) error {
	src, id, err := openSource(ctx, cfg, opts)
	if err != nil {
		return err
	}

	var loaders []pipeline.Loader
	if opts.parquet != "" {
		loaders = append(loaders, parquetadapter.NewFileWriter(opts.parquet, logger))
	}
	if opts.publish {
		if len(cfg.KafkaBrokers) == 0 {
			return errors.New("-publish requires KAFKA_BROKERS")
		}
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer writer.Close() //nolint:errcheck // best-effort flush on exit
		loaders = append(loaders, writer)
	}

	p := pipeline.New(pipeline.NewTransformer(logger), loaders, logger, metrics, cfg.PreviewRows)
	rep, err := p.Analyze(ctx, src, id)
	if rep == nil {
		return err
	}
	if err != nil {
		logger.Warn("report not published to every sink", "error", err)
	}

	if opts.format == "json" {
		return report.RenderJSON(out, rep)
	}
	return report.RenderText(out, rep)
}

func openSource(ctx context.Context, cfg *config.Config, opts options) (source.Source, string, error) {
	if opts.sheetID != "" {
		creds, err := cfg.GoogleCredentials()
		if err != nil {
			return nil, "", err
		}
		svc, err := source.NewSheetsService(ctx, creds)
		if err != nil {
			return nil, "", err
		}
		return source.NewSheets(svc, opts.sheetID, opts.rng), source.ContentID([]byte(opts.sheetID), opts.rng), nil
	}

	data, err := os.ReadFile(opts.input)
	if err != nil {
		return nil, "", fmt.Errorf("read input: %w", err)
	}
	src, err := source.Open(opts.input, opts.sheet)
	if err != nil {
		return nil, "", err
	}
	return src, source.ContentID(data, opts.sheet), nil
}
