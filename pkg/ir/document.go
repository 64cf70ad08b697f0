package ir

// Document is the top-level value handed to the renderers.
type Document struct {
	Metadata                DocumentMetadata `json:"metadata" yaml:"metadata"`
	FrontPage               []Block          `json:"front_page" yaml:"front_page"`
	Feeds                   []Feed           `json:"feeds" yaml:"feeds"`
	TotalReadingTimeMinutes int              `json:"total_reading_time_minutes,omitempty" yaml:"total_reading_time_minutes,omitempty"`
}

// DocumentMetadata describes a generated document.
type DocumentMetadata struct {
	Title       string `json:"title" yaml:"title"`
	Author      string `json:"author" yaml:"author"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
}

// Feed is a named collection of articles.
type Feed struct {
	Name                    string    `json:"name" yaml:"name"`
	Description             string    `json:"description,omitempty" yaml:"description,omitempty"`
	URL                     string    `json:"url,omitempty" yaml:"url,omitempty"`
	Articles                []Article `json:"articles" yaml:"articles"`
	TotalReadingTimeMinutes int       `json:"total_reading_time_minutes,omitempty" yaml:"total_reading_time_minutes,omitempty"`
}

// Article is a single feed item with its parsed body and comments.
type Article struct {
	Title              string          `json:"title" yaml:"title"`
	Metadata           ArticleMetadata `json:"metadata" yaml:"metadata"`
	Content            []Block         `json:"content" yaml:"content"`
	Comments           []Comment       `json:"comments" yaml:"comments"`
	ReadingTimeMinutes int             `json:"reading_time_minutes,omitempty" yaml:"reading_time_minutes,omitempty"`
}

// ArticleMetadata holds the optional descriptive fields of an article.
type ArticleMetadata struct {
	PublishedDate string `json:"published_date,omitempty" yaml:"published_date,omitempty"`
	Author        string `json:"author,omitempty" yaml:"author,omitempty"`
	URL           string `json:"url,omitempty" yaml:"url,omitempty"`
	FeedName      string `json:"feed_name" yaml:"feed_name"`
}

// Comment is a reader comment. Content uses the same blocks as article bodies.
type Comment struct {
	Author    string  `json:"author" yaml:"author"`
	Content   []Block `json:"content" yaml:"content"`
	Upvotes   int     `json:"upvotes" yaml:"upvotes"`
	Downvotes int     `json:"downvotes" yaml:"downvotes"`
	Timestamp string  `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// Score is the net vote count.
func (c Comment) Score() int {
	return c.Upvotes - c.Downvotes
}

// Headline summarises one article for prompt building and indexes.
type Headline struct {
	Title         string
	PublishedDate string
	SourceName    string
	URL           string
}

// TotalArticles counts the articles across all feeds.
func (d *Document) TotalArticles() int {
	n := 0
	for _, f := range d.Feeds {
		n += len(f.Articles)
	}
	return n
}

// Headlines lists every article in document order.
func (d *Document) Headlines() []Headline {
	var out []Headline
	for _, f := range d.Feeds {
		for _, a := range f.Articles {
			out = append(out, Headline{
				Title:         a.Title,
				PublishedDate: a.Metadata.PublishedDate,
				SourceName:    a.Metadata.FeedName,
				URL:           a.Metadata.URL,
			})
		}
	}
	return out
}

// HasFrontPage reports whether a front page summary is attached.
func (d *Document) HasFrontPage() bool {
	return len(d.FrontPage) > 0
}
