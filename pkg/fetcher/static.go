package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/jmylchreest/dailyfeed/internal/logger"
)

// StaticConfig holds configuration for the static fetcher.
type StaticConfig struct {
	UserAgent string
	Timeout   time.Duration
	// MaxBodySize caps the response size in bytes. Zero means unlimited.
	MaxBodySize int
	// RequestsPerSecond limits outgoing requests. Zero disables limiting.
	RequestsPerSecond float64
	Burst             int
	// CacheTTL keeps successful responses in memory. Zero disables caching.
	CacheTTL time.Duration
}

// DefaultUserAgent identifies dailyfeed to remote servers.
const DefaultUserAgent = "dailyfeed/1.0 (+https://github.com/jmylchreest/dailyfeed)"

// DefaultStaticConfig returns sensible defaults.
func DefaultStaticConfig() StaticConfig {
	return StaticConfig{
		UserAgent:   DefaultUserAgent,
		Timeout:     30 * time.Second,
		MaxBodySize: 10 * 1024 * 1024,
	}
}

// StaticFetcher uses Colly for plain HTTP fetching.
// It implements the Fetcher interface and is safe for concurrent use.
type StaticFetcher struct {
	config  StaticConfig
	limiter *rate.Limiter
	cache   *cache.Cache
}

// NewStatic creates a new static fetcher.
func NewStatic(cfg StaticConfig) *StaticFetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultStaticConfig().UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultStaticConfig().Timeout
	}

	f := &StaticFetcher{config: cfg, limiter: rate.NewLimiter(rate.Inf, 0)}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	if cfg.CacheTTL > 0 {
		f.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return f
}

// Fetch retrieves a URL using Colly.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string) (Content, error) {
	if f.cache != nil {
		if cached, ok := f.cache.Get(targetURL); ok {
			logger.Debug("fetch cache hit", "url", targetURL)
			return cached.(Content), nil
		}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return Content{URL: targetURL}, fmt.Errorf("rate limiter: %w", err)
	}

	logger.Debug("fetch starting", "url", targetURL)

	result := Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	c := colly.NewCollector(
		colly.UserAgent(f.config.UserAgent),
		colly.MaxBodySize(f.config.MaxBodySize),
	)
	c.SetRequestTimeout(f.config.Timeout)

	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		result.ContentType = r.Headers.Get("Content-Type")
		result.Body = r.Body
		logger.Debug("fetch response received",
			"status", r.StatusCode,
			"content_type", result.ContentType,
			"body_size", len(r.Body))
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.StatusCode = r.StatusCode
		}
		fetchErr = fmt.Errorf("fetch %s: %w", targetURL, err)
	})

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if err := c.Visit(targetURL); err != nil {
		return result, fmt.Errorf("failed to visit URL: %w", err)
	}
	if fetchErr != nil {
		return result, fetchErr
	}

	if len(result.Body) == 0 {
		return result, fmt.Errorf("fetch %s: %w", targetURL, ErrEmptyBody)
	}
	if f.config.MaxBodySize > 0 && len(result.Body) >= f.config.MaxBodySize {
		return result, fmt.Errorf("fetch %s: %w (%d bytes)", targetURL, ErrTooLarge, f.config.MaxBodySize)
	}

	if f.cache != nil {
		f.cache.SetDefault(targetURL, result)
	}
	return result, nil
}

var _ Fetcher = (*StaticFetcher)(nil)
