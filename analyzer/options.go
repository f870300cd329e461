package analyzer

import "time"

// Options holds the product thresholds used by the pipeline. They are
// heuristics, not protocol constants, and can be overridden from config.
type Options struct {
	TitleMin int
	TitleMax int

	DescriptionMin int
	DescriptionMax int

	MinWords   int // content shorter than this gets a length recommendation
	ShortWords int // below this the length recommendation is High impact

	LongParagraphWords   int
	MaxAverageParagraph  int
	MinTopicLinks        int
	KeywordCap           int
	SentimentThreshold   float64
	ExternalTimeout      time.Duration
	ExternalRetries      int
	CacheTTL             time.Duration
	MaxCacheSize         int
	DefaultPreviewDomain string
	ExcerptLength        int
	WordsPerMinute       int
}

// DefaultOptions returns the thresholds the analyzer ships with
func DefaultOptions() Options {
	return Options{
		TitleMin:             30,
		TitleMax:             60,
		DescriptionMin:       120,
		DescriptionMax:       160,
		MinWords:             300,
		ShortWords:           150,
		LongParagraphWords:   150,
		MaxAverageParagraph:  100,
		MinTopicLinks:        1,
		KeywordCap:           10,
		SentimentThreshold:   0.6,
		ExternalTimeout:      8 * time.Second,
		ExternalRetries:      1,
		CacheTTL:             10 * time.Minute,
		MaxCacheSize:         500,
		DefaultPreviewDomain: "yoursite.com",
		ExcerptLength:        200,
		WordsPerMinute:       200,
	}
}

// normalize fills zero values with defaults and clamps out-of-range values
func (o Options) normalize() Options {
	d := DefaultOptions()
	if o.TitleMin <= 0 {
		o.TitleMin = d.TitleMin
	}
	if o.TitleMax < o.TitleMin {
		o.TitleMax = d.TitleMax
	}
	if o.DescriptionMin <= 0 {
		o.DescriptionMin = d.DescriptionMin
	}
	if o.DescriptionMax < o.DescriptionMin {
		o.DescriptionMax = d.DescriptionMax
	}
	if o.MinWords <= 0 {
		o.MinWords = d.MinWords
	}
	if o.ShortWords <= 0 || o.ShortWords > o.MinWords {
		o.ShortWords = d.ShortWords
	}
	if o.LongParagraphWords <= 0 {
		o.LongParagraphWords = d.LongParagraphWords
	}
	if o.MaxAverageParagraph <= 0 {
		o.MaxAverageParagraph = d.MaxAverageParagraph
	}
	if o.MinTopicLinks < 0 {
		o.MinTopicLinks = 0
	}
	if o.KeywordCap <= 0 {
		o.KeywordCap = d.KeywordCap
	}
	if o.KeywordCap > 15 {
		o.KeywordCap = 15
	}
	if o.SentimentThreshold < 0 || o.SentimentThreshold > 1 {
		o.SentimentThreshold = d.SentimentThreshold
	}
	if o.ExternalTimeout <= 0 {
		o.ExternalTimeout = d.ExternalTimeout
	}
	if o.ExternalRetries < 0 {
		o.ExternalRetries = 0
	}
	if o.ExternalRetries > 1 {
		o.ExternalRetries = 1
	}
	if o.MaxCacheSize <= 0 {
		o.MaxCacheSize = d.MaxCacheSize
	}
	if o.DefaultPreviewDomain == "" {
		o.DefaultPreviewDomain = d.DefaultPreviewDomain
	}
	if o.ExcerptLength <= 0 {
		o.ExcerptLength = d.ExcerptLength
	}
	if o.WordsPerMinute <= 0 {
		o.WordsPerMinute = d.WordsPerMinute
	}
	return o
}
