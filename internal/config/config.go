package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds application configuration
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Quiz      QuizConfig      `yaml:"quiz"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Email     EmailConfig     `yaml:"email"`
	Log       LogConfig       `yaml:"log"`
}

// DatabaseConfig selects the store backend
type DatabaseConfig struct {
	Type string `yaml:"type" env:"DB_TYPE"      env-default:"sqlite"`
	Path string `yaml:"path" env:"DB_PATH"      env-default:"./spellquiz.db"`
	URL  string `yaml:"url"  env:"DATABASE_URL"`
}

// QuizConfig holds practice session settings
type QuizConfig struct {
	FeedbackDelay time.Duration `yaml:"feedback_delay" env:"QUIZ_FEEDBACK_DELAY" env-default:"1500ms"`
}

// AnalyticsConfig holds instructor view settings
type AnalyticsConfig struct {
	DefaultRangeDays int `yaml:"default_range_days" env:"ANALYTICS_DEFAULT_RANGE_DAYS" env-default:"30"`
}

// EmailConfig holds SES settings. An empty FromEmail disables sending.
type EmailConfig struct {
	AWSRegion string `yaml:"aws_region" env:"AWS_REGION"     env-default:"eu-west-2"`
	FromEmail string `yaml:"from_email" env:"SES_FROM_EMAIL"`
	FromName  string `yaml:"from_name"  env:"SES_FROM_NAME"  env-default:"Spelling Practice"`
	Debug     bool   `yaml:"debug"      env:"EMAIL_DEBUG"    env-default:"false"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Supported database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
	DatabaseMySQL    = "mysql"
)

// Load reads configuration with priority ENV > YAML > defaults.
// The YAML file is read from CONFIG_PATH when set, and from ./config.yaml
// when that file exists.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// Validate normalizes and checks the loaded configuration
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Database.Type)) {
	case "", "sqlite", "sqlite3":
		c.Database.Type = DatabaseSQLite
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	case "postgres", "postgresql":
		c.Database.Type = DatabasePostgres
	case "mysql":
		c.Database.Type = DatabaseMySQL
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}

	if c.Database.Type != DatabaseSQLite && c.Database.URL == "" {
		return fmt.Errorf("database.url is required for %s", c.Database.Type)
	}

	if c.Quiz.FeedbackDelay < 0 {
		return fmt.Errorf("quiz.feedback_delay must be >= 0 (got %s)", c.Quiz.FeedbackDelay)
	}
	if c.Analytics.DefaultRangeDays < 0 {
		return fmt.Errorf("analytics.default_range_days must be >= 0 (got %d)", c.Analytics.DefaultRangeDays)
	}

	return nil
}
