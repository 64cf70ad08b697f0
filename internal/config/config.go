// Package config loads and validates the dailyfeed configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variable overrides, e.g.
// DAILYFEED_OUTPUT_FORMAT=markdown.
const EnvPrefix = "DAILYFEED"

// Source types.
const (
	SourceRSS         = "rss"
	SourceArsTechnica = "ars_technica"
	SourceHackerNews  = "hackernews"
)

// Config is the root configuration.
type Config struct {
	Sources   []SourceConfig  `mapstructure:"sources" validate:"required,min=1,dive"`
	Output    OutputConfig    `mapstructure:"output"`
	FrontPage FrontPageConfig `mapstructure:"front_page"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
}

// SourceConfig describes one feed source.
type SourceConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Type        string `mapstructure:"type" validate:"required,oneof=rss ars_technica hackernews"`
	URL         string `mapstructure:"url" validate:"omitempty,url"`
	Description string `mapstructure:"description"`
	APIToken    string `mapstructure:"api_token"`
	MaxArticles int    `mapstructure:"max_articles" validate:"gte=0"`
	MaxComments int    `mapstructure:"max_comments" validate:"gte=0"`
}

// OutputConfig controls the generated document.
type OutputConfig struct {
	Filename    string `mapstructure:"filename" validate:"required"`
	Title       string `mapstructure:"title" validate:"required"`
	Author      string `mapstructure:"author" validate:"required"`
	Description string `mapstructure:"description"`
	Format      string `mapstructure:"format" validate:"oneof=html markdown json yaml"`
}

// FrontPageConfig controls the LLM generated front page summary.
type FrontPageConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Provider  string        `mapstructure:"provider" validate:"omitempty,oneof=anthropic openai ollama"`
	Model     string        `mapstructure:"model"`
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url" validate:"omitempty,url"`
	MaxTokens int           `mapstructure:"max_tokens" validate:"gte=0"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// FetchConfig controls network access.
type FetchConfig struct {
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Concurrency int           `mapstructure:"concurrency" validate:"gte=1,lte=32"`
	UserAgent   string        `mapstructure:"user_agent" validate:"required"`
	MaxFeedSize string        `mapstructure:"max_feed_size"`
	CommentRate float64       `mapstructure:"comment_rate" validate:"gt=0"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
}

// MaxFeedBytes parses MaxFeedSize ("5MB", "512KiB"). Empty means no limit.
func (f FetchConfig) MaxFeedBytes() (int64, error) {
	if strings.TrimSpace(f.MaxFeedSize) == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(f.MaxFeedSize)
	if err != nil {
		return 0, fmt.Errorf("invalid max_feed_size %q: %w", f.MaxFeedSize, err)
	}
	return int64(n), nil
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output.filename", "dailyfeed.html")
	v.SetDefault("output.title", "Daily Feed")
	v.SetDefault("output.author", "dailyfeed")
	v.SetDefault("output.format", "html")

	v.SetDefault("front_page.enabled", false)
	v.SetDefault("front_page.provider", "anthropic")
	v.SetDefault("front_page.max_tokens", 4096)
	v.SetDefault("front_page.timeout", 2*time.Minute)

	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.concurrency", 4)
	v.SetDefault("fetch.user_agent", "dailyfeed/1.0 (+https://github.com/jmylchreest/dailyfeed)")
	v.SetDefault("fetch.max_feed_size", "10MB")
	v.SetDefault("fetch.comment_rate", 2.0)
	v.SetDefault("fetch.cache_ttl", 15*time.Minute)
}

// BindEnv enables DAILYFEED_* overrides on v, plus the provider API key
// variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("front_page.api_key", EnvPrefix+"_FRONT_PAGE_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY")
}

// LoadFile reads the configuration at path (YAML or JSON by extension).
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	BindEnv(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Load(v)
}

// ConfigName is the base name searched for when no file is given.
const ConfigName = "dailyfeed"

// LoadDefault searches the working directory and then the user config
// directory for dailyfeed.yaml, dailyfeed.yml or dailyfeed.json.
func LoadDefault() (*Config, error) {
	v := viper.New()
	v.SetConfigName(ConfigName)
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, ConfigName))
	}
	BindEnv(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Load(v)
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// ValidationErrors collects every invalid field.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

var validate = validator.New()

// Validate checks struct constraints and the cross-field rules.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, e := range fieldErrs {
			errs = append(errs, ValidationError{
				Field:   strings.TrimPrefix(e.Namespace(), "Config."),
				Message: formatValidationError(e),
			})
		}
	}

	for i, s := range c.Sources {
		if s.Type == SourceRSS && s.URL == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("Sources[%d].URL", i),
				Message: "is required for rss sources",
			})
		}
	}
	if c.FrontPage.Enabled && c.FrontPage.Provider == "" {
		errs = append(errs, ValidationError{Field: "FrontPage.Provider", Message: "is required when enabled"})
	}
	if _, err := c.Fetch.MaxFeedBytes(); err != nil {
		errs = append(errs, ValidationError{Field: "Fetch.MaxFeedSize", Message: "must be a byte size such as 10MB"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", e.Param())
	case "url":
		return "must be a valid URL"
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", e.Param())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
