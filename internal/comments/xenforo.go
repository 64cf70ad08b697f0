// Package comments scrapes reader comments from the XenForo forum threads
// that back Ars Technica articles.
package comments

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/jmylchreest/dailyfeed/internal/logger"
	"github.com/jmylchreest/dailyfeed/pkg/fetcher"
	"github.com/jmylchreest/dailyfeed/pkg/ir"
	"github.com/jmylchreest/dailyfeed/pkg/parser"
)

// DefaultLimit is the number of comments kept per article.
const DefaultLimit = 5

// Anonymous is used when a comment carries no username.
const Anonymous = "Anonymous"

// ErrNoThread is returned when an article page does not link a forum thread.
var ErrNoThread = errors.New("could not find comment thread URL in article page")

const (
	messageSelector   = ".message"
	authorSelector    = ".username"
	contentSelector   = ".message-content .bbWrapper"
	timeSelector      = ".message-meta time, .message-attribution time, .message-date time"
	upvoteSelector    = ".contentVote-score--positive"
	downvoteSelector  = ".contentVote-score--negative"
	voteTotalSelector = ".contentVote-scores"

	expandMarker = "Click to expand..."
)

// votePairRegex matches "(up/down)" with arbitrary whitespace around the parts.
var votePairRegex = regexp.MustCompile(`\(\s*(\d+)\s*[/\s]*(\d+)\s*\)`)

// Scraper fetches and ranks comments.
type Scraper struct {
	fetcher fetcher.Fetcher
	policy  *bluemonday.Policy
}

// NewScraper creates a Scraper that retrieves pages with f.
func NewScraper(f fetcher.Fetcher) *Scraper {
	return &Scraper{
		fetcher: f,
		policy:  bluemonday.UGCPolicy(),
	}
}

// TopComments returns up to limit comments for the article at articleURL,
// highest net score first.
func (s *Scraper) TopComments(ctx context.Context, articleURL string, limit int) ([]ir.Comment, error) {
	page, err := s.fetcher.Fetch(ctx, articleURL)
	if err != nil {
		return nil, err
	}
	doc, err := page.Document()
	if err != nil {
		return nil, fmt.Errorf("parse article page: %w", err)
	}

	threadURL, ok := doc.Find("[data-url]").First().Attr("data-url")
	if !ok || strings.TrimSpace(threadURL) == "" {
		return nil, ErrNoThread
	}

	thread, err := s.fetcher.Fetch(ctx, threadURL)
	if err != nil {
		return nil, fmt.Errorf("fetch comment thread: %w", err)
	}
	threadDoc, err := thread.Document()
	if err != nil {
		return nil, fmt.Errorf("parse comment thread: %w", err)
	}

	comments := s.ParseThread(threadDoc)
	logger.Debug("comments parsed", "article", articleURL, "thread", threadURL, "count", len(comments))

	return Top(comments, limit), nil
}

// ParseThread extracts every non-empty comment from a forum thread page.
func (s *Scraper) ParseThread(doc *goquery.Document) []ir.Comment {
	var comments []ir.Comment

	doc.Find(messageSelector).Each(func(_ int, msg *goquery.Selection) {
		comment, ok := s.parseMessage(msg)
		if ok {
			comments = append(comments, comment)
		}
	})

	return comments
}

func (s *Scraper) parseMessage(msg *goquery.Selection) (ir.Comment, bool) {
	body := msg.Find(contentSelector).First()
	if body.Length() == 0 {
		return ir.Comment{}, false
	}

	markup, err := body.Html()
	if err != nil {
		return ir.Comment{}, false
	}
	markup = s.policy.Sanitize(strings.ReplaceAll(markup, expandMarker, ""))
	if strings.TrimSpace(parser.StripTags(markup)) == "" {
		return ir.Comment{}, false
	}

	author := strings.TrimSpace(msg.Find(authorSelector).First().Text())
	if author == "" {
		author = Anonymous
	}

	up, down := votes(msg)

	return ir.Comment{
		Author:    author,
		Content:   parser.Parse(markup),
		Upvotes:   up,
		Downvotes: down,
		Timestamp: timestamp(msg),
	}, true
}

// votes reads the separate score elements and the combined "(up/down)"
// total, keeping the larger reading of each.
func votes(msg *goquery.Selection) (up, down int) {
	up = parseCount(msg.Find(upvoteSelector).First().Text())
	down = parseCount(msg.Find(downvoteSelector).First().Text())

	total := msg.Find(voteTotalSelector).First()
	if total.Length() == 0 {
		return up, down
	}
	if m := votePairRegex.FindStringSubmatch(total.Text()); m != nil {
		up = max(up, parseCount(m[1]))
		down = max(down, parseCount(m[2]))
	}
	return up, down
}

// parseCount reads a vote count, ignoring a leading sign.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "+-")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func timestamp(msg *goquery.Selection) string {
	if ts, ok := msg.Find(timeSelector).First().Attr("datetime"); ok {
		return ts
	}
	ts, _ := msg.Find("time").First().Attr("datetime")
	return ts
}

// Top sorts comments by net score, highest first, and keeps the first
// limit entries. Ties keep their page order.
func Top(comments []ir.Comment, limit int) []ir.Comment {
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Score() > comments[j].Score()
	})
	if limit >= 0 && len(comments) > limit {
		comments = comments[:limit]
	}
	return comments
}
