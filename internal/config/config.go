package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Per-client limits on the assessment endpoints.
	HTTPRateLimit float64
	HTTPRateBurst int
}

// Load reads configuration from environment variables, applying defaults where unset.
// When ENV_FILE is set, that file is loaded first; variables already present in
// the environment take precedence over the file.
func Load() (*Config, error) {
	if path := os.Getenv("ENV_FILE"); path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("load ENV_FILE %q: %w", path, err)
		}
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	rateLimit, err := parsePositiveFloat("HTTP_RATE_LIMIT", 10)
	if err != nil {
		return nil, err
	}

	rateBurst, err := parsePositiveInt("HTTP_RATE_BURST", 20)
	if err != nil {
		return nil, err
	}

	kafkaEnabled := true
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		KafkaEnabled:       kafkaEnabled,
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "dust-assessment-requests"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "dust-assessment-results"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "dust-damage"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		HTTPRateLimit:      rateLimit,
		HTTPRateBurst:      rateBurst,
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}

	return cfg, nil
}

func parsePositiveFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
