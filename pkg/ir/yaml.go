package ir

// yaml.v3 encodes nil and empty slices alike as [], which decodes to an
// empty slice. The MarshalYAML methods below write a nil slice as null
// instead so that a decoded document equals the one that was encoded.

func seq[T any](s []T) *[]T {
	if s == nil {
		return nil
	}
	return &s
}

func (d Document) MarshalYAML() (any, error) {
	return struct {
		Metadata                DocumentMetadata `yaml:"metadata"`
		FrontPage               *[]Block         `yaml:"front_page"`
		Feeds                   *[]Feed          `yaml:"feeds"`
		TotalReadingTimeMinutes int              `yaml:"total_reading_time_minutes,omitempty"`
	}{d.Metadata, seq(d.FrontPage), seq(d.Feeds), d.TotalReadingTimeMinutes}, nil
}

func (f Feed) MarshalYAML() (any, error) {
	return struct {
		Name                    string     `yaml:"name"`
		Description             string     `yaml:"description,omitempty"`
		URL                     string     `yaml:"url,omitempty"`
		Articles                *[]Article `yaml:"articles"`
		TotalReadingTimeMinutes int        `yaml:"total_reading_time_minutes,omitempty"`
	}{f.Name, f.Description, f.URL, seq(f.Articles), f.TotalReadingTimeMinutes}, nil
}

func (a Article) MarshalYAML() (any, error) {
	return struct {
		Title              string          `yaml:"title"`
		Metadata           ArticleMetadata `yaml:"metadata"`
		Content            *[]Block        `yaml:"content"`
		Comments           *[]Comment      `yaml:"comments"`
		ReadingTimeMinutes int             `yaml:"reading_time_minutes,omitempty"`
	}{a.Title, a.Metadata, seq(a.Content), seq(a.Comments), a.ReadingTimeMinutes}, nil
}

func (c Comment) MarshalYAML() (any, error) {
	return struct {
		Author    string   `yaml:"author"`
		Content   *[]Block `yaml:"content"`
		Upvotes   int      `yaml:"upvotes"`
		Downvotes int      `yaml:"downvotes"`
		Timestamp string   `yaml:"timestamp,omitempty"`
	}{c.Author, seq(c.Content), c.Upvotes, c.Downvotes, c.Timestamp}, nil
}

func (c TextContent) MarshalYAML() (any, error) {
	return struct {
		Spans *[]TextSpan `yaml:"spans"`
	}{seq(c.Spans)}, nil
}
