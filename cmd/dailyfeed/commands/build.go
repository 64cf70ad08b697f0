package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/dailyfeed/internal/comments"
	"github.com/jmylchreest/dailyfeed/internal/config"
	"github.com/jmylchreest/dailyfeed/internal/frontpage"
	"github.com/jmylchreest/dailyfeed/internal/logger"
	"github.com/jmylchreest/dailyfeed/internal/output"
	"github.com/jmylchreest/dailyfeed/internal/source"
	"github.com/jmylchreest/dailyfeed/pkg/digest"
	"github.com/jmylchreest/dailyfeed/pkg/fetcher"
	"github.com/jmylchreest/dailyfeed/pkg/ir"
	"github.com/jmylchreest/dailyfeed/pkg/llm"
	"github.com/jmylchreest/dailyfeed/pkg/render"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Fetch all sources and write the digest",
	Long: `Fetch every configured source, assemble the digest and write it.

The output format is taken from --format, then from the extension of the
output file, then from output.format in the config. Supported formats are
html, markdown, json and yaml; json and yaml export the document model
for later use with "dailyfeed render".`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	flags := buildCmd.Flags()
	flags.StringP("output", "o", "", "output file, - for stdout (default: output.filename from config)")
	flags.StringP("format", "f", "", "output format: html, markdown, json, yaml")
	flags.Bool("front-page", false, "generate the front page summary even if disabled in config")
	flags.Bool("no-front-page", false, "skip the front page summary")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		outPath = cfg.Output.Filename
	}
	formatFlag, _ := cmd.Flags().GetString("format")
	format := resolveFormat(formatFlag, outPath, cfg.Output.Format)

	if on, _ := cmd.Flags().GetBool("front-page"); on {
		cfg.FrontPage.Enabled = true
	}
	if off, _ := cmd.Flags().GetBool("no-front-page"); off {
		cfg.FrontPage.Enabled = false
	}

	start := time.Now()
	doc, err := buildDocument(ctx, cfg)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := emit(&buf, doc, format); err != nil {
		return err
	}
	if err := writeTo(cmd, outPath, func(w io.Writer) error {
		_, err := buf.WriteTo(w)
		return err
	}); err != nil {
		return err
	}

	logger.Info("digest written",
		"path", outPath,
		"format", format,
		"size", humanize.Bytes(uint64(buf.Len())),
		"feeds", len(doc.Feeds),
		"articles", doc.TotalArticles(),
		"reading_time_minutes", doc.TotalReadingTimeMinutes,
		"duration", time.Since(start).Round(time.Millisecond))
	return nil
}

// buildDocument fetches every source and assembles the digest, including
// the front page when enabled.
func buildDocument(ctx context.Context, cfg *config.Config) (*ir.Document, error) {
	maxFeed, err := cfg.Fetch.MaxFeedBytes()
	if err != nil {
		return nil, err
	}

	feedFetcher := fetcher.NewStatic(fetcher.StaticConfig{
		UserAgent:   cfg.Fetch.UserAgent,
		Timeout:     cfg.Fetch.Timeout,
		MaxBodySize: int(maxFeed),
		CacheTTL:    cfg.Fetch.CacheTTL,
	})
	pageFetcher := fetcher.NewStatic(fetcher.StaticConfig{
		UserAgent:         cfg.Fetch.UserAgent,
		Timeout:           cfg.Fetch.Timeout,
		MaxBodySize:       fetcher.DefaultStaticConfig().MaxBodySize,
		RequestsPerSecond: cfg.Fetch.CommentRate,
		Burst:             1,
		CacheTTL:          cfg.Fetch.CacheTTL,
	})
	scraper := comments.NewScraper(pageFetcher)

	sources := make([]source.Source, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		src, err := source.FromConfig(sc, feedFetcher, scraper)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	logger.Info("fetching sources", "count", len(sources), "concurrency", cfg.Fetch.Concurrency)
	feeds := source.FetchAll(ctx, sources, cfg.Fetch.Concurrency)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(feeds) == 0 {
		return nil, fmt.Errorf("no sources could be fetched")
	}

	var opts []digest.Option
	if cfg.Output.Description != "" {
		opts = append(opts, digest.WithDescription(cfg.Output.Description))
	}
	builder := digest.NewBuilder(cfg.Output.Title, cfg.Output.Author, opts...)
	for _, feed := range feeds {
		builder.AddFeed(feed)
	}
	doc := builder.Build()

	if !cfg.FrontPage.Enabled {
		return doc, nil
	}

	blocks, err := generateFrontPage(ctx, cfg.FrontPage, doc)
	if err != nil {
		logger.Warn("front page skipped", "error", err)
		return doc, nil
	}
	builder.SetFrontPage(blocks)
	return builder.Build(), nil
}

func generateFrontPage(ctx context.Context, cfg config.FrontPageConfig, doc *ir.Document) ([]ir.Block, error) {
	provider, err := llm.NewProvider(cfg.Provider, llm.ProviderConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		MaxRetries: 2,
		Timeout:    cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}

	var opts []frontpage.Option
	if cfg.MaxTokens > 0 {
		opts = append(opts, frontpage.WithMaxTokens(cfg.MaxTokens))
	}
	return frontpage.New(provider, opts...).Generate(ctx, doc)
}

// resolveFormat picks the output format from the flag, the output file
// extension, or the configured default, in that order.
func resolveFormat(flag, path, fallback string) string {
	if flag != "" {
		return normalizeFormat(flag)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return string(render.FormatHTML)
	case ".md", ".markdown":
		return string(render.FormatMarkdown)
	case ".json":
		return string(output.FormatJSON)
	case ".yaml", ".yml":
		return string(output.FormatYAML)
	}
	if fallback == "" {
		return string(render.FormatHTML)
	}
	return normalizeFormat(fallback)
}

func normalizeFormat(s string) string {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "md":
		return string(render.FormatMarkdown)
	case "yml":
		return string(output.FormatYAML)
	}
	return s
}

// emit writes doc to w in format. html and markdown are rendered; json and
// yaml export the document model.
func emit(w io.Writer, doc *ir.Document, format string) error {
	switch format {
	case string(output.FormatJSON), string(output.FormatYAML):
		return output.WriteDocument(w, doc, output.Format(format), output.WithPretty(true))
	}

	r, err := render.New(render.Format(format))
	if err != nil {
		return err
	}
	rendered, err := r.Render(doc)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, rendered)
	return err
}
