package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	MaxUploadBytes  int64
	ReportCacheSize int
	PreviewRows     int

	// Report publishing to Kafka.
	KafkaBrokers     []string
	KafkaReportTopic string
	KafkaEnabled     bool

	// When set, long-format records of every report are exported as parquet.
	ParquetExportDir string

	// Google Sheets service account credentials, inline JSON or a file path.
	GoogleCredentialsJSON string
	GoogleCredentialsFile string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	maxUpload, err := positiveInt("MAX_UPLOAD_SIZE", 10<<20)
	if err != nil {
		return nil, err
	}
	cacheSize, err := positiveInt("REPORT_CACHE_SIZE", 64)
	if err != nil {
		return nil, err
	}
	previewRows, err := parsePreviewRows()
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		MaxUploadBytes:  int64(maxUpload),
		ReportCacheSize: cacheSize,
		PreviewRows:     previewRows,

		KafkaBrokers:     brokers,
		KafkaReportTopic: sharedcfg.EnvOrDefault("KAFKA_REPORT_TOPIC", "rainfall-reports"),
		KafkaEnabled:     kafkaEnabled,

		ParquetExportDir: os.Getenv("PARQUET_EXPORT_DIR"),

		GoogleCredentialsJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		GoogleCredentialsFile: firstNonEmpty(
			os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
			os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		),
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaReportTopic == "" {
		return nil, errors.New("KAFKA_REPORT_TOPIC is required")
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q (want json or text)", cfg.LogFormat)
	}

	return cfg, nil
}

// GoogleCredentials returns the service account JSON, preferring the inline
// value over the file.
func (c *Config) GoogleCredentials() ([]byte, error) {
	if c.GoogleCredentialsJSON != "" {
		return []byte(c.GoogleCredentialsJSON), nil
	}
	if c.GoogleCredentialsFile == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	data, err := os.ReadFile(c.GoogleCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return data, nil
}

func positiveInt(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", name)
	}
	return n, nil
}

func parsePreviewRows() (int, error) {
	s := os.Getenv("PREVIEW_ROWS")
	if s == "" {
		return 5, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid PREVIEW_ROWS: must be zero or a positive integer")
	}
	return n, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
