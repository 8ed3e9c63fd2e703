package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"gopkg.in/yaml.v3"
)

// Config holds all service settings. Values come from an optional YAML file
// named by CONFIG_FILE, then environment variables, then defaults.
type Config struct {
	DataPath         string        `yaml:"data_path"`
	SentimentLexicon string        `yaml:"sentiment_lexicon"`
	HTTPAddr         string        `yaml:"http_addr"`
	LogLevel         string        `yaml:"log_level"`
	LogFormat        string        `yaml:"log_format"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout"`

	// Dashboard presentation.
	Title            string `yaml:"dashboard_title"`
	TablePageSize    int    `yaml:"table_page_size"`
	DensityRadius    int    `yaml:"density_radius"`
	DensityZoom      int    `yaml:"density_zoom"`
	GeohashPrecision int    `yaml:"density_geohash_precision"`
	MapStyle         string `yaml:"map_style"`

	// Mapbox geocoding configuration.
	MapboxToken     string        `yaml:"mapbox_token"`
	MapboxEnabled   bool          `yaml:"mapbox_enabled"`
	MapboxTimeout   time.Duration `yaml:"mapbox_timeout"`
	MapboxCacheSize int           `yaml:"mapbox_cache_size"`

	// Optional publishing of the enriched table.
	KafkaEnabled bool     `yaml:"kafka_enabled"`
	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		DataPath:         "updb.csv",
		HTTPAddr:         ":8050",
		LogLevel:         "info",
		LogFormat:        "json",
		ShutdownTimeout:  10 * time.Second,
		Title:            "Scientific UAP Dashboard",
		TablePageSize:    10,
		DensityRadius:    20,
		DensityZoom:      1,
		GeohashPrecision: 5,
		MapStyle:         "open-street-map",
		MapboxTimeout:    5 * time.Second,
		MapboxCacheSize:  1000,
		KafkaBrokers:     []string{"localhost:9092"},
		KafkaTopic:       "enriched-uap-observations",
	}
}

// Load reads configuration from the optional CONFIG_FILE and environment
// variables, applying defaults where unset.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read CONFIG_FILE %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse CONFIG_FILE %q: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.DataPath = sharedcfg.EnvOrDefault("DATA_PATH", cfg.DataPath)
	cfg.SentimentLexicon = sharedcfg.EnvOrDefault("SENTIMENT_LEXICON", cfg.SentimentLexicon)
	cfg.HTTPAddr = sharedcfg.EnvOrDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.LogLevel = sharedcfg.EnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = sharedcfg.EnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.Title = sharedcfg.EnvOrDefault("DASHBOARD_TITLE", cfg.Title)
	cfg.MapStyle = sharedcfg.EnvOrDefault("MAP_STYLE", cfg.MapStyle)
	cfg.KafkaTopic = sharedcfg.EnvOrDefault("KAFKA_TOPIC", cfg.KafkaTopic)

	if os.Getenv("SHUTDOWN_TIMEOUT") != "" {
		d, err := sharedcfg.ParseShutdownTimeout()
		if err != nil {
			return err
		}
		cfg.ShutdownTimeout = d
	}

	if s := os.Getenv("MAPBOX_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return errors.New("invalid MAPBOX_TIMEOUT")
		}
		cfg.MapboxTimeout = d
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"TABLE_PAGE_SIZE", &cfg.TablePageSize},
		{"DENSITY_RADIUS", &cfg.DensityRadius},
		{"DENSITY_ZOOM", &cfg.DensityZoom},
		{"DENSITY_GEOHASH_PRECISION", &cfg.GeohashPrecision},
		{"MAPBOX_CACHE_SIZE", &cfg.MapboxCacheSize},
	}
	for _, i := range ints {
		s := os.Getenv(i.key)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid %s: %q is not an integer", i.key, s)
		}
		*i.dst = n
	}

	// A token on its own turns geocoding on unless MAPBOX_ENABLED says otherwise.
	cfg.MapboxToken = sharedcfg.EnvOrDefault("MAPBOX_TOKEN", cfg.MapboxToken)
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		cfg.MapboxEnabled = v == "true"
	} else if cfg.MapboxToken != "" {
		cfg.MapboxEnabled = true
	}

	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		cfg.KafkaEnabled = v == "true"
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(v)
	}
	return nil
}

// validate checks structural constraints on the merged configuration.
func validate(cfg *Config) error {
	if cfg.DataPath == "" {
		return errors.New("DATA_PATH is required")
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	if cfg.TablePageSize < 1 {
		return fmt.Errorf("TABLE_PAGE_SIZE %d must be at least 1", cfg.TablePageSize)
	}
	if cfg.DensityRadius < 1 {
		return fmt.Errorf("DENSITY_RADIUS %d must be at least 1", cfg.DensityRadius)
	}
	if cfg.DensityZoom < 0 || cfg.DensityZoom > 22 {
		return fmt.Errorf("DENSITY_ZOOM %d is out of range [0, 22]", cfg.DensityZoom)
	}
	if cfg.GeohashPrecision < 0 || cfg.GeohashPrecision > 12 {
		return fmt.Errorf("DENSITY_GEOHASH_PRECISION %d is out of range [0, 12]", cfg.GeohashPrecision)
	}
	if cfg.MapStyle == "" {
		return errors.New("MAP_STYLE must not be empty")
	}
	if cfg.MapboxCacheSize < 1 {
		return fmt.Errorf("MAPBOX_CACHE_SIZE %d must be at least 1", cfg.MapboxCacheSize)
	}
	if cfg.MapboxTimeout <= 0 {
		return errors.New("invalid MAPBOX_TIMEOUT")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaTopic == "" {
			return errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
		}
	}
	return nil
}
