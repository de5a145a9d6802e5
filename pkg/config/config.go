package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"FinCrawl/pkg/logger"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string        `yaml:"environment" default:"development"`
	Log         logger.Config `yaml:"log"`
	Crawler     struct {
		Sources        []string      `yaml:"sources" default:"[\"twse\",\"tpex\",\"taifex\"]"`
		Pacing         time.Duration `yaml:"pacing" default:"5s"`
		RequestTimeout time.Duration `yaml:"request_timeout" default:"30s"`
	} `yaml:"crawler"`
	Backend struct {
		Type   string `yaml:"type" default:"csv"`
		CSVDir string `yaml:"csv_dir" default:"."`
	} `yaml:"backend"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"fincrawl.daily"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"snappy"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			BatchSize    int           `yaml:"batch_size" default:"500"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			Linger       time.Duration `yaml:"linger" default:"50ms"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"fincrawl"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"30s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
	} `yaml:"clickhouse"`
	Checkpoint struct {
		Enabled  bool          `yaml:"enabled"`
		Backend  string        `yaml:"backend" default:"memory"`
		Addr     string        `yaml:"addr" default:"localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl" default:"720h"`
	} `yaml:"checkpoint"`
	Server struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
}

// Load reads a YAML configuration file and fills unset fields with defaults.
// An empty path yields the defaults alone.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("CRAWLER_SOURCES"); v != "" {
		c.Crawler.Sources = splitList(v)
	}
	if v := os.Getenv("CRAWLER_PACING"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("CRAWLER_PACING: %w", err)
		}
		c.Crawler.Pacing = d
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("CSV_DIR"); v != "" {
		c.Backend.CSVDir = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Checkpoint.Addr = v
		c.Checkpoint.Backend = "redis"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if len(c.Crawler.Sources) == 0 {
		return fmt.Errorf("crawler.sources cannot be empty")
	}
	for _, s := range c.Crawler.Sources {
		switch s {
		case "twse", "tpex", "taifex":
		default:
			return fmt.Errorf("crawler.sources: unknown source '%s'", s)
		}
	}
	if c.Crawler.Pacing < 0 {
		return fmt.Errorf("crawler.pacing must not be negative")
	}
	switch c.Backend.Type {
	case "csv":
		if c.Backend.CSVDir == "" {
			return fmt.Errorf("backend.csv_dir is required for the csv backend")
		}
	case "kafka":
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty for the kafka backend")
		}
	case "clickhouse":
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required for the clickhouse backend")
		}
	default:
		return fmt.Errorf("backend.type must be 'csv', 'kafka' or 'clickhouse', got '%s'", c.Backend.Type)
	}
	if c.Checkpoint.Backend != "memory" && c.Checkpoint.Backend != "redis" {
		return fmt.Errorf("checkpoint.backend must be 'memory' or 'redis', got '%s'", c.Checkpoint.Backend)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
