package analyzer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/content-analyzer/stats"
)

func newTestAnalyzer(t *testing.T) (*Analyzer, *stats.Storage) {
	t.Helper()
	opts := DefaultOptions()
	opts.ExternalTimeout = 50 * time.Millisecond
	a := New(opts)

	storage, err := stats.NewStorage("")
	require.NoError(t, err)
	a.SetStats(storage)
	t.Cleanup(func() { _ = a.Shutdown() })
	return a, storage
}

// assertWellFormed checks the invariants every report must hold
func assertWellFormed(t *testing.T, r *AnalysisReport, keywordCap int) {
	t.Helper()
	require.NotNil(t, r)

	assert.GreaterOrEqual(t, r.SEOScore, 0)
	assert.LessOrEqual(t, r.SEOScore, 100)
	assert.GreaterOrEqual(t, r.ContentHealth.ReadabilityScore, 0.0)
	assert.LessOrEqual(t, r.ContentHealth.ReadabilityScore, 100.0)
	assert.LessOrEqual(t, len(r.Keywords), keywordCap)
	assert.True(t, r.Sentiment.Valid())

	assert.NotNil(t, r.Keywords)
	assert.NotNil(t, r.Recommendations)
	assert.NotNil(t, r.MetaTags.Keywords)
	assert.NotNil(t, r.ContentStructure.Headings.Issues)
	assert.NotEmpty(t, r.ContentStructure.LinkingSuggestions)

	assertOrdered(t, r.Recommendations)
}

func TestAnalyzeArticle(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	r := a.Analyze(context.Background(), Request{Text: articleText})

	assertWellFormed(t, r, a.Options().KeywordCap)
	assert.Equal(t, HeadingStats{H1: 1, H2: 3, H3: 2, Issues: []string{}}, r.ContentStructure.Headings)
	assert.Equal(t, "Practical Guide to Go Concurrency", r.MetaTags.Title)
	assert.Equal(t, "yoursite.com/practical-guide-to-go-concurrency", r.GooglePreview.URL)
	assert.Greater(t, r.ContentHealth.WordCount, 150)
	assert.Equal(t, 1, r.ContentHealth.ReadingTime)
	assert.NotEmpty(t, r.Keywords)
	assert.NotEmpty(t, r.RawTextExcerpt)
}

func TestAnalyzeJSONShape(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	data, err := json.Marshal(a.Analyze(context.Background(), Request{Text: "Short text."}))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"seoScore", "contentHealth", "contentStructure", "recommendations",
		"metaTags", "googlePreview", "sentiment", "keywords", "rawTextExcerpt"} {
		assert.Contains(t, decoded, key)
	}
	assert.NotContains(t, decoded, "Breakdown")
	assert.NotContains(t, string(data), "null")
}

func TestAnalyzeInputErrors(t *testing.T) {
	a, storage := newTestAnalyzer(t)

	for name, text := range map[string]string{
		"empty":            "",
		"whitespace":       "   \n\t ",
		"punctuation only": "!!! ??? ...",
		"invalid utf-8":    "\xff\xfe\xfd",
	} {
		t.Run(name, func(t *testing.T) {
			r := a.Analyze(context.Background(), Request{Text: text})
			assertWellFormed(t, r, a.Options().KeywordCap)

			assert.Zero(t, r.SEOScore)
			assert.Zero(t, r.ContentHealth.WordCount)
			assert.Zero(t, r.ContentHealth.ReadingTime)
			assert.Equal(t, "N/A", r.ContentStructure.Readability.Grade)
			assert.Empty(t, r.Keywords)
			assert.Equal(t, SentimentNeutral, r.Sentiment)

			require.Len(t, r.Recommendations, 1)
			rec := r.Recommendations[0]
			assert.Equal(t, 1, rec.ID)
			assert.Equal(t, 1, rec.Priority)
			assert.Equal(t, ImpactHigh, rec.Impact)
			assert.Equal(t, "Add Content to Analyze", rec.Title)
			assert.True(t, rec.Actionable)
		})
	}
	assert.Equal(t, 4, storage.GetCurrentStats().InputErrors)
}

func TestAnalyzeTitleTruncation(t *testing.T) {
	a, _ := newTestAnalyzer(t)

	r := a.Analyze(context.Background(), Request{Text: articleText, MetaTags: &MetaTags{Title: strings.Repeat("a", 61)}})
	assert.True(t, r.GooglePreview.TitleTruncated)
	assert.Contains(t, categories(r.Recommendations), CategoryTechnical)

	r = a.Analyze(context.Background(), Request{Text: articleText, MetaTags: &MetaTags{Title: strings.Repeat("a", 60)}})
	assert.False(t, r.GooglePreview.TitleTruncated)
}

func TestAnalyzeDescriptionWithClassifierUnavailable(t *testing.T) {
	a, storage := newTestAnalyzer(t)
	a.SetClassifier(&fakeClassifier{err: errUnavailable})

	r := a.Analyze(context.Background(), Request{
		Text:     articleText,
		MetaTags: &MetaTags{Description: strings.Repeat("d", 159)},
	})
	assert.False(t, r.GooglePreview.DescriptionTruncated)
	assert.True(t, r.Sentiment.Valid())

	current := storage.GetCurrentStats()
	assert.Equal(t, 1, current.ClassifierCalls)
	assert.Equal(t, 1, current.ClassifierFallbacks)
}

func TestAnalyzeLowConfidenceSentiment(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	a.SetClassifier(&fakeClassifier{verdict: Verdict{Label: SentimentPositive, Confidence: 0.3, HasConfidence: true}})

	r := a.Analyze(context.Background(), Request{Text: "I love this great and wonderful product."})
	assert.Equal(t, SentimentNeutral, r.Sentiment)
}

func TestAnalyzeKeywordEnhancer(t *testing.T) {
	deterministic := ExtractKeywords(NewDocument(articleText), DefaultOptions().KeywordCap)

	t.Run("enhanced terms come first", func(t *testing.T) {
		a, _ := newTestAnalyzer(t)
		a.SetKeywordEnhancer(&fakeEnhancer{terms: []string{"go concurrency patterns", deterministic[0]}})

		r := a.Analyze(context.Background(), Request{Text: articleText})
		require.NotEmpty(t, r.Keywords)
		assert.Equal(t, "go concurrency patterns", r.Keywords[0])
		assert.LessOrEqual(t, len(r.Keywords), a.Options().KeywordCap)
	})

	t.Run("failure keeps deterministic keywords", func(t *testing.T) {
		a, storage := newTestAnalyzer(t)
		enhancer := &fakeEnhancer{err: errUnavailable}
		a.SetKeywordEnhancer(enhancer)

		r := a.Analyze(context.Background(), Request{Text: articleText})
		assert.Equal(t, deterministic, r.Keywords)
		assert.EqualValues(t, 2, enhancer.calls.Load(), "one retry")
		assert.Equal(t, 1, storage.GetCurrentStats().EnhancerFallbacks)
	})

	t.Run("slow enhancer is bounded", func(t *testing.T) {
		a, _ := newTestAnalyzer(t)
		a.SetKeywordEnhancer(&fakeEnhancer{terms: []string{"late"}, delay: time.Second})

		start := time.Now()
		r := a.Analyze(context.Background(), Request{Text: articleText})
		assert.Less(t, time.Since(start), 700*time.Millisecond)
		assert.Equal(t, deterministic, r.Keywords)
	})

	t.Run("panicking enhancer still yields a report", func(t *testing.T) {
		a, _ := newTestAnalyzer(t)
		a.SetKeywordEnhancer(&fakeEnhancer{panics: true})

		r := a.Analyze(context.Background(), Request{Text: articleText})
		assertWellFormed(t, r, a.Options().KeywordCap)
		assert.Equal(t, deterministic, r.Keywords)
	})

	t.Run("caller cancellation is not propagated", func(t *testing.T) {
		a, _ := newTestAnalyzer(t)
		enhancer := &fakeEnhancer{terms: []string{"cancel proof"}}
		a.SetKeywordEnhancer(enhancer)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := a.Analyze(ctx, Request{Text: articleText})
		assert.False(t, enhancer.sawCancelled.Load())
		assert.Equal(t, "cancel proof", r.Keywords[0])
	})
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	opts := DefaultOptions()
	opts.CacheTTL = -1
	a := New(opts)

	first := a.Analyze(context.Background(), Request{Text: articleText, URL: "https://example.com/go"})
	second := a.Analyze(context.Background(), Request{Text: articleText, URL: "https://example.com/go"})
	assert.Equal(t, first, second)
	assert.False(t, a.IsCached(Request{Text: articleText, URL: "https://example.com/go"}))
}

func TestAnalyzeHTMLInput(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	r := a.Analyze(context.Background(), Request{Text: samplePage})

	assertWellFormed(t, r, a.Options().KeywordCap)
	assert.Equal(t, "Go Concurrency Patterns for Backend Teams", r.MetaTags.Title)
	assert.Equal(t, []string{"go", "concurrency", "goroutines"}, r.MetaTags.Keywords)
	assert.Equal(t, 1, r.ContentStructure.Headings.H1)
	assert.Equal(t, 1, r.ContentStructure.Headings.H2)
	assert.NotContains(t, r.RawTextExcerpt, "<")

	// caller-supplied values still win over the page head
	r = a.Analyze(context.Background(), Request{Text: samplePage, MetaTags: &MetaTags{Title: "Override"}})
	assert.Equal(t, "Override", r.MetaTags.Title)
	assert.Equal(t, "A practical look at goroutines and channels.", r.MetaTags.Description)
}

func TestErrorReportShape(t *testing.T) {
	r := errorReport("some text", DefaultOptions())
	assertWellFormed(t, r, DefaultOptions().KeywordCap)
	assert.Equal(t, 50, r.SEOScore)
	require.Len(t, r.Recommendations, 1)
	assert.Equal(t, "Analysis Error", r.Recommendations[0].Title)
	assert.Equal(t, "some text", r.RawTextExcerpt)
}

func TestCachePurging(t *testing.T) {
	a, storage := newTestAnalyzer(t)
	a.SetCacheTTL(100 * time.Millisecond)
	req := Request{Text: articleText}

	first := a.Analyze(context.Background(), req)
	assert.True(t, a.IsCached(req), "report should be cached immediately after analysis")

	// callers own their copy
	first.Keywords[0] = "mutated"
	first.Recommendations = nil
	second := a.Analyze(context.Background(), req)
	assert.NotEqual(t, "mutated", second.Keywords[0])
	assert.NotNil(t, second.Recommendations)

	time.Sleep(150 * time.Millisecond)
	assert.False(t, a.IsCached(req), "report should expire after the TTL")

	cs := a.GetCacheStats()
	assert.Equal(t, 1, cs.Hits)
	assert.Equal(t, 1, cs.Misses)
	assert.Equal(t, 1, storage.GetCurrentStats().CacheHits)
}

func TestCacheKeyIncludesExternalStages(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	req := Request{Text: articleText}

	a.Analyze(context.Background(), req)
	require.True(t, a.IsCached(req))

	a.SetClassifier(&fakeClassifier{verdict: Verdict{Label: SentimentPositive}})
	assert.False(t, a.IsCached(req))

	a.ClearCache()
	a.SetClassifier(nil)
	assert.False(t, a.IsCached(req))
}

func TestCacheSizeLimit(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	a.SetMaxCacheSize(3)

	for i := 0; i < 10; i++ {
		a.Analyze(context.Background(), Request{Text: articleText, URL: "https://example.com/" + strings.Repeat("p", i+1)})
	}
	assert.LessOrEqual(t, a.GetCacheStats().Entries, 3)
}

func TestConcurrentCacheAccess(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	a.SetClassifier(&fakeClassifier{verdict: Verdict{Label: SentimentPositive, Confidence: 0.9, HasConfidence: true}})
	req := Request{Text: articleText}

	const concurrency = 50
	var wg sync.WaitGroup
	scores := make([]int, concurrency)
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				scores[i] = a.Analyze(context.Background(), req).SEOScore
			} else {
				a.IsCached(req)
				scores[i] = -1
			}
		}()
	}
	wg.Wait()

	want := a.Analyze(context.Background(), req).SEOScore
	for _, s := range scores {
		if s >= 0 {
			assert.Equal(t, want, s)
		}
	}
}

func categories(recs []Recommendation) []Category {
	out := make([]Category, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Category)
	}
	return out
}

func TestAnalyzeWithCorruptedStatsFile(t *testing.T) {
	dir := t.TempDir()
	month := time.Now().Format("2006-01")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stats.json"), []byte(`{"`+month+`": null}`), 0o644))

	storage, err := stats.NewStorage(dir)
	require.NoError(t, err)

	a := New(DefaultOptions())
	a.SetStats(storage)
	t.Cleanup(func() { _ = a.Shutdown() })

	var r *AnalysisReport
	require.NotPanics(t, func() {
		r = a.Analyze(context.Background(), Request{Text: articleText})
	})
	assertWellFormed(t, r, a.Options().KeywordCap)
	assert.Equal(t, 1, storage.GetCurrentStats().Analyses)
}
