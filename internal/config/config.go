// Package config loads service settings from environment variables and
// the catalog source definitions from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Reporting sink. Empty brokers disable publishing.
	KafkaBrokers     []string
	KafkaReportTopic string

	// Milestone retrieval.
	HistoryBaseURL     string
	IncidentLogBaseURL string
	FetchWorkers       int
	FetchTimeout       time.Duration
	MilestoneCacheSize int

	SourcesPath string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	fetchWorkers, err := parsePositiveInt("FETCH_WORKERS", 8)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("MILESTONE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers:     parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaReportTopic: envOrDefault("KAFKA_REPORT_TOPIC", "quake-comparison-reports"),

		HistoryBaseURL:     os.Getenv("HISTORY_BASE_URL"),
		IncidentLogBaseURL: os.Getenv("INCIDENT_LOG_BASE_URL"),
		FetchWorkers:       fetchWorkers,
		FetchTimeout:       fetchTimeout,
		MilestoneCacheSize: cacheSize,

		SourcesPath: envOrDefault("SOURCES_PATH", "sources.yaml"),
	}

	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaReportTopic == "" {
		return nil, errors.New("KAFKA_REPORT_TOPIC is required when KAFKA_BROKERS is set")
	}
	return cfg, nil
}

// SourceRole states how a catalog participates in the batch.
type SourceRole string

const (
	RolePrimary   SourceRole = "primary"   // reference catalog for correlation and milestones
	RoleSecondary SourceRole = "secondary" // compared against the primary
	RoleWarning   SourceRole = "warning"   // dissemination feed, supplies send times
)

// Source defines one catalog feed.
type Source struct {
	ID     string     `yaml:"id"`
	Schema string     `yaml:"schema"`
	URL    string     `yaml:"url"`
	Role   SourceRole `yaml:"role"`
}

type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources reads and validates the catalog source definitions.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}
	var f sourcesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}
	if len(f.Sources) == 0 {
		return nil, errors.New("sources file defines no catalogs")
	}

	primaries := 0
	for i, s := range f.Sources {
		if s.ID == "" || s.Schema == "" || s.URL == "" {
			return nil, fmt.Errorf("source %d: id, schema and url are required", i)
		}
		switch s.Role {
		case RolePrimary:
			primaries++
		case RoleSecondary, RoleWarning:
		default:
			return nil, fmt.Errorf("source %s: unknown role %q", s.ID, s.Role)
		}
	}
	if primaries != 1 {
		return nil, fmt.Errorf("exactly one primary source required, found %d", primaries)
	}
	return f.Sources, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(raw string) []string {
	if raw == "" {
		return nil
	}
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
