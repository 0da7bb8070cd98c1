package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cypherlabdev/match-prediction-service/internal/models"
	"github.com/cypherlabdev/match-prediction-service/pkg/estimator"
)

// Config holds all configuration for match-prediction-service
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Reasoning     ReasoningConfig     `mapstructure:"reasoning"`
	Scorers       ScorersConfig       `mapstructure:"scorers"`
	Statistical   StatisticalConfig   `mapstructure:"statistical"`
	Pregeneration PregenerationConfig `mapstructure:"pregeneration"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// RedisConfig holds prediction cache configuration
type RedisConfig struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`   // validity of a cached prediction
	Grace     time.Duration `mapstructure:"grace"` // native Redis expiry beyond TTL
}

// DatabaseConfig holds match store configuration
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // postgres, sqlite
	DSN          string `mapstructure:"dsn"`
	FormMatches  int    `mapstructure:"form_matches"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"` // match_events
	GroupID string   `mapstructure:"group_id"`
}

// ReasoningConfig holds reasoning estimator configuration
type ReasoningConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	Temperature       float64       `mapstructure:"temperature"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RetryInterval     time.Duration `mapstructure:"retry_interval"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// ScorersConfig holds scorer provider configuration
type ScorersConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	Limit             int           `mapstructure:"limit"`     // scorers fetched per league
	CacheTTL          time.Duration `mapstructure:"cache_ttl"` // per-league memo
	MaxPerSide        int           `mapstructure:"max_per_side"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	MaxRetries        int           `mapstructure:"max_retries"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// StatisticalConfig holds the statistical estimator coefficients
type StatisticalConfig struct {
	FavoriteRatio   float64 `mapstructure:"favorite_ratio"`
	FavoriteWin     float64 `mapstructure:"favorite_win"`
	UnderdogWin     float64 `mapstructure:"underdog_win"`
	FavoredDraw     float64 `mapstructure:"favored_draw"`
	BalancedHomeWin float64 `mapstructure:"balanced_home_win"`
	BalancedAwayWin float64 `mapstructure:"balanced_away_win"`
	BalancedDraw    float64 `mapstructure:"balanced_draw"`
	BTTSThreshold   float64 `mapstructure:"btts_threshold"`
	BTTSLikely      float64 `mapstructure:"btts_likely"`
	BTTSUnlikely    float64 `mapstructure:"btts_unlikely"`
	UseLearning     bool    `mapstructure:"use_learning"` // apply stored learning adjustments
}

// PregenerationConfig holds background pregeneration configuration
type PregenerationConfig struct {
	Interval        time.Duration `mapstructure:"interval"` // 0 disables the scheduler
	Horizon         time.Duration `mapstructure:"horizon"`
	Limit           int           `mapstructure:"limit"`
	Concurrency     int           `mapstructure:"concurrency"`
	FormWindowDays  int           `mapstructure:"form_window_days"`
	HeadToHeadLimit int           `mapstructure:"head_to_head_limit"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	stat := models.DefaultStatisticalParams()

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "predictions")
	v.SetDefault("redis.ttl", 6*time.Hour)
	v.SetDefault("redis.grace", 24*time.Hour)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:predictor.db?_pragma=busy_timeout(5000)")
	v.SetDefault("database.form_matches", models.MaxFormLength)
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "match_events")
	v.SetDefault("kafka.group_id", "match-predictor")

	v.SetDefault("reasoning.enabled", true)
	v.SetDefault("reasoning.base_url", "https://api.openai.com/v1")
	v.SetDefault("reasoning.api_key", "")
	v.SetDefault("reasoning.model", "gpt-4o-mini")
	v.SetDefault("reasoning.temperature", 0.3)
	v.SetDefault("reasoning.timeout", 30*time.Second)
	v.SetDefault("reasoning.max_retries", 2)
	v.SetDefault("reasoning.retry_interval", 500*time.Millisecond)
	v.SetDefault("reasoning.requests_per_second", 2.0)

	v.SetDefault("scorers.enabled", false)
	v.SetDefault("scorers.base_url", "https://api.football-data.org/v4")
	v.SetDefault("scorers.api_key", "")
	v.SetDefault("scorers.limit", 50)
	v.SetDefault("scorers.cache_ttl", 12*time.Hour)
	v.SetDefault("scorers.max_per_side", 3)
	v.SetDefault("scorers.requests_per_second", 0.15)
	v.SetDefault("scorers.max_retries", 2)
	v.SetDefault("scorers.timeout", 10*time.Second)

	v.SetDefault("statistical.favorite_ratio", stat.FavoriteRatio)
	v.SetDefault("statistical.favorite_win", stat.FavoriteWin)
	v.SetDefault("statistical.underdog_win", stat.UnderdogWin)
	v.SetDefault("statistical.favored_draw", stat.FavoredDraw)
	v.SetDefault("statistical.balanced_home_win", stat.BalancedHomeWin)
	v.SetDefault("statistical.balanced_away_win", stat.BalancedAwayWin)
	v.SetDefault("statistical.balanced_draw", stat.BalancedDraw)
	v.SetDefault("statistical.btts_threshold", stat.BTTSThreshold)
	v.SetDefault("statistical.btts_likely", stat.BTTSLikely)
	v.SetDefault("statistical.btts_unlikely", stat.BTTSUnlikely)
	v.SetDefault("statistical.use_learning", false)

	v.SetDefault("pregeneration.interval", 6*time.Hour)
	v.SetDefault("pregeneration.horizon", 30*24*time.Hour)
	v.SetDefault("pregeneration.limit", 0)
	v.SetDefault("pregeneration.concurrency", 4)
	v.SetDefault("pregeneration.form_window_days", 60)
	v.SetDefault("pregeneration.head_to_head_limit", 5)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	v.SetEnvPrefix("MATCH_PREDICTOR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects settings the service cannot start with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid database.driver %q: want postgres or sqlite", c.Database.Driver)
	}
	if c.Redis.TTL <= 0 {
		return fmt.Errorf("redis.ttl must be positive, got %s", c.Redis.TTL)
	}
	if c.Pregeneration.Concurrency <= 0 {
		return fmt.Errorf("pregeneration.concurrency must be positive, got %d", c.Pregeneration.Concurrency)
	}
	return nil
}

// ToStatisticalParams converts config to estimator coefficients
func (c *StatisticalConfig) ToStatisticalParams(adjustments models.LearningAdjustments) models.StatisticalParams {
	params := models.StatisticalParams{
		FavoriteRatio:   c.FavoriteRatio,
		FavoriteWin:     c.FavoriteWin,
		UnderdogWin:     c.UnderdogWin,
		FavoredDraw:     c.FavoredDraw,
		BalancedHomeWin: c.BalancedHomeWin,
		BalancedAwayWin: c.BalancedAwayWin,
		BalancedDraw:    c.BalancedDraw,
		BTTSThreshold:   c.BTTSThreshold,
		BTTSLikely:      c.BTTSLikely,
		BTTSUnlikely:    c.BTTSUnlikely,
	}
	if c.UseLearning {
		params.Adjustments = adjustments
	}
	return params
}

// ToReasoningConfig converts config to reasoning estimator options
func (c *ReasoningConfig) ToReasoningConfig() estimator.ReasoningConfig {
	retries := c.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return estimator.ReasoningConfig{
		BaseURL:           c.BaseURL,
		APIKey:            c.APIKey,
		Model:             c.Model,
		Temperature:       float32(c.Temperature),
		Timeout:           c.Timeout,
		MaxRetries:        uint64(retries),
		RetryInterval:     c.RetryInterval,
		RequestsPerSecond: c.RequestsPerSecond,
	}
}
