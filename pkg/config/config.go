// Package config loads and validates yaml configuration of pulsefeed.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database DatabaseConfig `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Queue QueueConfig `yaml:"queue" json:"queue" jsonschema:"description=Message queue configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for keyword generation"`

	Aggregate AggregateConfig `yaml:"aggregate" json:"aggregate" jsonschema:"description=Aggregation schedule and sources"`

	Features struct {
		LLMKeywords    bool `yaml:"llm_keywords" json:"llm_keywords" jsonschema:"default=false,description=Generate article keywords with LLM on publish"`
		KeywordsFanout bool `yaml:"keywords_fanout" json:"keywords_fanout" jsonschema:"default=false,description=Generate keywords via per-article publish-keywords messages"`
	} `yaml:"features" json:"features" jsonschema:"description=Feature flags"`

	Trending TrendingConfig `yaml:"trending" json:"trending" jsonschema:"description=Trending keywords cache"`

	Telegram TelegramConfig `yaml:"telegram" json:"telegram" jsonschema:"description=Telegram notifications about failed jobs"`
}

// DatabaseConfig holds storage settings
type DatabaseConfig struct {
	Driver          string `yaml:"driver" json:"driver" jsonschema:"default=sqlite,enum=sqlite,enum=postgres,description=Database driver"`
	DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:pulsefeed.db?cache=shared&mode=rwc,description=Database connection string"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
}

// QueueConfig holds amqp broker settings
type QueueConfig struct {
	Enabled       bool   `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Publish feeds through the queue instead of direct storage"`
	URL           string `yaml:"url" json:"url" jsonschema:"description=AMQP broker url"`
	Exchange      string `yaml:"exchange" json:"exchange" jsonschema:"default=pulsefeed,description=Direct exchange name"`
	FeedQueue     string `yaml:"feed_queue" json:"feed_queue" jsonschema:"default=publish-feed,description=Queue of publish-feed messages"`
	KeywordsQueue string `yaml:"keywords_queue" json:"keywords_queue" jsonschema:"default=publish-keywords,description=Queue of publish-keywords messages"`
	Prefetch      int    `yaml:"prefetch" json:"prefetch" jsonschema:"default=1,minimum=1,description=Max unacknowledged messages per consumer"`
	Consumers     int    `yaml:"consumers" json:"consumers" jsonschema:"default=1,minimum=1,description=Number of consumers per queue"`
}

// LLMConfig holds LLM configuration for keyword generation
type LLMConfig struct {
	Endpoint    string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint"`
	APIKey      string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model       string        `yaml:"model" json:"model" jsonschema:"default=gpt-3.5-turbo,description=Model name"`
	Temperature float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0,description=Temperature for response generation"`
	MaxTokens   int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=0,description=Maximum tokens in response, 0 for provider default"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=20s,description=Request timeout"`
	BatchSize   int           `yaml:"batch_size" json:"batch_size" jsonschema:"default=10,minimum=1,description=Titles per keyword request"`
}

// AggregateConfig holds aggregation triggers and source selection
type AggregateConfig struct {
	Schedules    []string      `yaml:"schedules" json:"schedules" jsonschema:"description=Cron expressions triggering aggregation"`
	RunOnStart   *bool         `yaml:"run_on_start" json:"run_on_start" jsonschema:"default=true,description=Run aggregation on start"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout" jsonschema:"default=10s,description=Timeout of a single publisher request"`
	Sources      []string      `yaml:"sources" json:"sources" jsonschema:"description=Publisher keys to aggregate, empty for all"`
}

// TrendingConfig holds trending keywords cache settings
type TrendingConfig struct {
	TTL            time.Duration `yaml:"ttl" json:"ttl" jsonschema:"default=6h,description=Keyword entry time to live"`
	MinScore       int           `yaml:"min_score" json:"min_score" jsonschema:"default=2,description=Minimal score of a trending keyword"`
	PerCategoryCap int           `yaml:"per_category_cap" json:"per_category_cap" jsonschema:"default=200,description=Keywords kept per category and language"`
}

// TelegramConfig holds telegram bot settings, empty token disables notifications
type TelegramConfig struct {
	Token  string `yaml:"token" json:"token" jsonschema:"description=Bot token"`
	ChatID int64  `yaml:"chat_id" json:"chat_id" jsonschema:"description=Chat to notify"`
}

// default cron windows, hourly overnight and half past every hour during the day
var defaultSchedules = []string{"0 0-6 * * *", "30 6-23 * * *"}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	// set defaults for server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// set defaults for database
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "file:pulsefeed.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// set defaults for queue
	if cfg.Queue.Exchange == "" {
		cfg.Queue.Exchange = "pulsefeed"
	}
	if cfg.Queue.FeedQueue == "" {
		cfg.Queue.FeedQueue = "publish-feed"
	}
	if cfg.Queue.KeywordsQueue == "" {
		cfg.Queue.KeywordsQueue = "publish-keywords"
	}
	if cfg.Queue.Prefetch == 0 {
		cfg.Queue.Prefetch = 1
	}
	if cfg.Queue.Consumers == 0 {
		cfg.Queue.Consumers = 1
	}

	// set defaults for LLM
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-3.5-turbo"
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 20 * time.Second
	}
	if cfg.LLM.BatchSize == 0 {
		cfg.LLM.BatchSize = 10
	}

	// set defaults for aggregation
	if len(cfg.Aggregate.Schedules) == 0 {
		cfg.Aggregate.Schedules = append([]string(nil), defaultSchedules...)
	}
	if cfg.Aggregate.RunOnStart == nil {
		runOnStart := true
		cfg.Aggregate.RunOnStart = &runOnStart
	}
	if cfg.Aggregate.FetchTimeout == 0 {
		cfg.Aggregate.FetchTimeout = 10 * time.Second
	}

	// set defaults for trending
	if cfg.Trending.TTL == 0 {
		cfg.Trending.TTL = 6 * time.Hour
	}
	if cfg.Trending.MinScore == 0 {
		cfg.Trending.MinScore = 2
	}
	if cfg.Trending.PerCategoryCap == 0 {
		cfg.Trending.PerCategoryCap = 200
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	// validate database config
	switch cfg.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", cfg.Database.Driver)
	}
	if cfg.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for %s", cfg.Database.Driver)
	}

	// validate queue config
	if cfg.Queue.Enabled && cfg.Queue.URL == "" {
		return fmt.Errorf("queue.url is required when queue is enabled")
	}
	if cfg.Queue.Prefetch < 1 {
		return fmt.Errorf("queue.prefetch must be at least 1")
	}
	if cfg.Queue.Consumers < 1 {
		return fmt.Errorf("queue.consumers must be at least 1")
	}

	// validate LLM config
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.BatchSize < 1 {
		return fmt.Errorf("llm.batch_size must be at least 1")
	}
	if cfg.Features.LLMKeywords && cfg.LLM.APIKey == "" && cfg.LLM.Endpoint == "" {
		return fmt.Errorf("llm.api_key or llm.endpoint is required when llm_keywords is enabled")
	}
	if cfg.Features.KeywordsFanout && !cfg.Queue.Enabled {
		return fmt.Errorf("features.keywords_fanout requires queue to be enabled")
	}

	// validate aggregation config
	if cfg.Aggregate.FetchTimeout < time.Second {
		return fmt.Errorf("aggregate.fetch_timeout must be at least 1 second")
	}

	// validate trending config
	if cfg.Trending.TTL < time.Minute {
		return fmt.Errorf("trending.ttl must be at least 1 minute")
	}
	if cfg.Trending.MinScore < 1 || cfg.Trending.PerCategoryCap < 1 {
		return fmt.Errorf("trending.min_score and trending.per_category_cap must be positive")
	}

	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// RunOnStart reports whether aggregation starts immediately
func (c *Config) RunOnStart() bool {
	return c.Aggregate.RunOnStart == nil || *c.Aggregate.RunOnStart
}

// GetServerConfig returns server listen address and timeout
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}
