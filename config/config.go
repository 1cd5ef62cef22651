// Package config holds runtime settings for the API server, CLI and Kafka
// workers. Settings come from defaults, then an optional YAML file, then the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	STORE_NONE     = "none"
	STORE_BOLT     = "bolt"
	STORE_DYNAMODB = "dynamodb"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Cache   CacheConfig   `yaml:"cache"`
	Store   StoreConfig   `yaml:"store"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Batch   BatchConfig   `yaml:"batch"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// CacheConfig configures the Valkey result cache.
type CacheConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Addr          string        `yaml:"addr"`
	Password      string        `yaml:"password"`
	TLS           bool          `yaml:"tls"`
	TTL           time.Duration `yaml:"ttl"`
	CheckInterval time.Duration `yaml:"check_interval"`
}

// StoreConfig selects where analysis records are kept.
type StoreConfig struct {
	Backend  string        `yaml:"backend"` // none, bolt, dynamodb
	BoltPath string        `yaml:"bolt_path"`
	Table    string        `yaml:"table"`
	Region   string        `yaml:"region"`
	Endpoint string        `yaml:"endpoint"`
	TTL      time.Duration `yaml:"ttl"`
}

type KafkaConfig struct {
	Broker       string        `yaml:"broker"`
	GroupID      string        `yaml:"group_id"`
	RequestTopic string        `yaml:"request_topic"`
	ResultTopic  string        `yaml:"result_topic"`
	BatchSize    int           `yaml:"batch_size"`
	FlushEvery   time.Duration `yaml:"flush_every"`
}

// BatchConfig drives `postlens batch` and `postlens watch`.
type BatchConfig struct {
	Includes []string      `yaml:"includes"`
	Excludes []string      `yaml:"excludes"`
	Workers  int           `yaml:"workers"`
	Debounce time.Duration `yaml:"debounce"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":5000",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			MaxBodyBytes: 16 * 1024 * 1024,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Cache: CacheConfig{
			Enabled:       false,
			Addr:          "localhost:6379",
			TTL:           24 * time.Hour,
			CheckInterval: 30 * time.Second,
		},
		Store: StoreConfig{
			Backend:  STORE_NONE,
			BoltPath: ".postlens/history.db",
			Table:    "PostAnalyses",
			Region:   "us-west-2",
			Endpoint: "http://localhost:8000",
			TTL:      30 * 24 * time.Hour,
		},
		Kafka: KafkaConfig{
			Broker:       "localhost:29092",
			GroupID:      "postlens-consumer-group",
			RequestTopic: "analysis-requests",
			ResultTopic:  "analysis-results",
			BatchSize:    25,
			FlushEvery:   5 * time.Second,
		},
		Batch: BatchConfig{
			Includes: []string{"**/*.txt", "**/*.md"},
			Excludes: []string{"**/.git/**", "**/node_modules/**", "**/.postlens/**"},
			Workers:  4,
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. An empty path or a missing file keeps the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("[Config] parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("[Config] read %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case STORE_NONE, STORE_BOLT, STORE_DYNAMODB:
	default:
		return fmt.Errorf("[Config] unknown store backend %q", c.Store.Backend)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("[Config] server.max_body_bytes must be positive")
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("[Config] batch.workers must be at least 1")
	}
	if c.Kafka.BatchSize < 1 {
		return fmt.Errorf("[Config] kafka.batch_size must be at least 1")
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Server.Addr = getEnv("POSTLENS_ADDR", c.Server.Addr)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)

	c.Cache.Addr = getEnv("VALKEY_INIT_ADDRESS", c.Cache.Addr)
	c.Cache.Password = getEnv("VALKEY_PASSWORD", c.Cache.Password)

	c.Store.Backend = getEnv("STORE_BACKEND", c.Store.Backend)
	c.Store.BoltPath = getEnv("BOLT_PATH", c.Store.BoltPath)
	c.Store.Table = getEnv("DYNAMODB_TABLE", c.Store.Table)
	c.Store.Region = getEnv("AWS_REGION", c.Store.Region)
	c.Store.Endpoint = getEnv("AWS_ENDPOINT", c.Store.Endpoint)

	c.Kafka.Broker = getEnv("KAFKA_BROKER", c.Kafka.Broker)
	c.Kafka.GroupID = getEnv("KAFKA_CONSUMER_GROUP_ID", c.Kafka.GroupID)
	c.Kafka.RequestTopic = getEnv("KAFKA_REQUEST_TOPIC", c.Kafka.RequestTopic)
	c.Kafka.ResultTopic = getEnv("KAFKA_RESULT_TOPIC", c.Kafka.ResultTopic)

	var err error
	if c.Cache.Enabled, err = getEnvBool("CACHE_ENABLED", c.Cache.Enabled); err != nil {
		return err
	}
	if c.Cache.TLS, err = getEnvBool("VALKEY_TLS", c.Cache.TLS); err != nil {
		return err
	}
	if c.Batch.Workers, err = getEnvInt("BATCH_WORKERS", c.Batch.Workers); err != nil {
		return err
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("[Config] %s: %w", key, err)
	}
	return b, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("[Config] %s: %w", key, err)
	}
	return n, nil
}
