package analyzer

// Request is a single analysis input
type Request struct {
	Text     string    `json:"text"`
	MetaTags *MetaTags `json:"metaTags,omitempty"`
	URL      string    `json:"url,omitempty"`
}

// AnalysisReport represents the complete analysis of a text
type AnalysisReport struct {
	SEOScore         int              `json:"seoScore"`
	ContentHealth    ContentHealth    `json:"contentHealth"`
	ContentStructure ContentStructure `json:"contentStructure"`
	Recommendations  []Recommendation `json:"recommendations"`
	MetaTags         MetaTags         `json:"metaTags"`
	GooglePreview    GooglePreview    `json:"googlePreview"`
	Sentiment        Sentiment        `json:"sentiment"`
	Keywords         []string         `json:"keywords"`
	RawTextExcerpt   string           `json:"rawTextExcerpt"`

	// Breakdown holds the weighted sub-scores behind SEOScore
	Breakdown ScoreBreakdown `json:"-"`
}

type ContentHealth struct {
	ReadabilityScore float64 `json:"readabilityScore"`
	WordCount        int     `json:"wordCount"`
	ReadingTime      int     `json:"readingTime"`
	Health           string  `json:"health"`
}

type ContentStructure struct {
	Headings           HeadingStats       `json:"headings"`
	Paragraphs         ParagraphStats     `json:"paragraphs"`
	Readability        ReadabilityMetrics `json:"readability"`
	LinkingSuggestions []string           `json:"linkingSuggestions"`

	// topicLinks counts suggestions derived from detected topics rather than the generic fallback
	topicLinks int
}

type HeadingStats struct {
	H1     int      `json:"h1"`
	H2     int      `json:"h2"`
	H3     int      `json:"h3"`
	H4     int      `json:"h4"`
	Issues []string `json:"issues"`
}

type ParagraphStats struct {
	Total          int     `json:"total"`
	AverageLength  float64 `json:"averageLength"`
	LongParagraphs int     `json:"longParagraphs"`
}

type ReadabilityMetrics struct {
	FleschScore float64    `json:"fleschScore"`
	Grade       string     `json:"grade"`
	Complexity  Complexity `json:"complexity"`
}

type MetaTags struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

type GooglePreview struct {
	Title                string `json:"title"`
	URL                  string `json:"url"`
	Description          string `json:"description"`
	TitleTruncated       bool   `json:"titleTruncated"`
	DescriptionTruncated bool   `json:"descriptionTruncated"`
}

type Recommendation struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Impact        Impact   `json:"impact"`
	Effort        Effort   `json:"effort"`
	Category      Category `json:"category"`
	Priority      int      `json:"priority"`
	Actionable    bool     `json:"actionable"`
	FixSuggestion string   `json:"fixSuggestion"`
}

// ScoreBreakdown holds the sub-scores combined into the overall score
type ScoreBreakdown struct {
	Technical float64
	Content   float64
	Structure float64
	Keywords  float64
}

type Complexity string

const (
	ComplexityEasy   Complexity = "Easy"
	ComplexityMedium Complexity = "Medium"
	ComplexityHard   Complexity = "Hard"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// Valid reports whether s is one of the three known labels
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

type Impact string

const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
	ImpactLow    Impact = "Low"
)

// rank orders impacts so that High sorts first
func (i Impact) rank() int {
	switch i {
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	case ImpactLow:
		return 1
	}
	return 0
}

type Effort string

const (
	EffortQuickFix Effort = "Quick Fix"
	EffortModerate Effort = "Moderate"
	EffortComplex  Effort = "Complex"
)

type Category string

const (
	CategoryContent   Category = "Content"
	CategoryTechnical Category = "Technical"
	CategoryKeywords  Category = "Keywords"
	CategoryLinks     Category = "Links"
)

// clone returns a deep copy so cached reports never share slices with callers
func (r *AnalysisReport) clone() *AnalysisReport {
	if r == nil {
		return nil
	}
	c := *r
	c.Recommendations = append([]Recommendation{}, r.Recommendations...)
	c.Keywords = append([]string{}, r.Keywords...)
	c.MetaTags.Keywords = append([]string{}, r.MetaTags.Keywords...)
	c.ContentStructure.Headings.Issues = append([]string{}, r.ContentStructure.Headings.Issues...)
	c.ContentStructure.LinkingSuggestions = append([]string{}, r.ContentStructure.LinkingSuggestions...)
	return &c
}
