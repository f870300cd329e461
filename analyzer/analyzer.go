package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/seo-optimizer/content-analyzer/logging"
	"github.com/seo-optimizer/content-analyzer/stats"
)

// Cache entry with expiration
type cacheEntry struct {
	report    *AnalysisReport
	timestamp time.Time
}

// CacheStats provides statistics about the report cache
type CacheStats struct {
	Entries  int           `json:"entries"`
	Hits     int           `json:"hits"`
	Misses   int           `json:"misses"`
	TTL      time.Duration `json:"ttl"`
	Capacity int           `json:"capacity"`
}

// Analyzer runs the content analysis pipeline. It is safe for concurrent use;
// each call to Analyze is an independent computation.
type Analyzer struct {
	opts Options

	extMutex   sync.RWMutex
	classifier Classifier
	enhancer   KeywordEnhancer
	stats      *stats.Storage

	cache           map[string]cacheEntry
	cacheMutex      sync.RWMutex
	cacheTTL        time.Duration
	maxCacheSize    int
	lastCleanup     time.Time
	cleanupInterval time.Duration
}

// New creates an Analyzer. Without a classifier or enhancer the pipeline is
// fully deterministic and needs no network.
func New(opts Options) *Analyzer {
	opts = opts.normalize()
	return &Analyzer{
		opts:            opts,
		cache:           make(map[string]cacheEntry),
		cacheTTL:        opts.CacheTTL,
		maxCacheSize:    opts.MaxCacheSize,
		lastCleanup:     time.Now(),
		cleanupInterval: time.Minute,
	}
}

// Options returns the normalized thresholds in use
func (a *Analyzer) Options() Options {
	return a.opts
}

// SetClassifier installs the model-backed sentiment classifier. The lexical
// classifier is always used as its fallback.
func (a *Analyzer) SetClassifier(c Classifier) {
	a.extMutex.Lock()
	defer a.extMutex.Unlock()
	a.classifier = c
}

// SetKeywordEnhancer installs the model-backed keyword enhancer
func (a *Analyzer) SetKeywordEnhancer(e KeywordEnhancer) {
	a.extMutex.Lock()
	defer a.extMutex.Unlock()
	a.enhancer = e
}

// SetStats attaches the counters storage
func (a *Analyzer) SetStats(s *stats.Storage) {
	a.extMutex.Lock()
	defer a.extMutex.Unlock()
	a.stats = s
}

// GetStats returns the statistics storage instance
func (a *Analyzer) GetStats() *stats.Storage {
	a.extMutex.RLock()
	defer a.extMutex.RUnlock()
	return a.stats
}

func (a *Analyzer) externals() (Classifier, KeywordEnhancer, *stats.Storage) {
	a.extMutex.RLock()
	defer a.extMutex.RUnlock()
	return a.classifier, a.enhancer, a.stats
}

// SetCacheTTL sets the cache TTL; zero or negative disables the cache
func (a *Analyzer) SetCacheTTL(ttl time.Duration) {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()
	a.cacheTTL = ttl
	if ttl <= 0 {
		a.cache = make(map[string]cacheEntry)
	}
}

// SetMaxCacheSize sets the maximum number of cached reports
func (a *Analyzer) SetMaxCacheSize(size int) {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()
	if size > 0 {
		a.maxCacheSize = size
	}
	a.cleanupLocked(time.Now())
}

// ClearCache clears the report cache
func (a *Analyzer) ClearCache() {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()
	a.cache = make(map[string]cacheEntry)
}

// GetCacheStats returns statistics about the cache
func (a *Analyzer) GetCacheStats() CacheStats {
	a.cacheMutex.RLock()
	cs := CacheStats{
		Entries:  len(a.cache),
		TTL:      a.cacheTTL,
		Capacity: a.maxCacheSize,
	}
	a.cacheMutex.RUnlock()

	if s := a.GetStats(); s != nil {
		current := s.GetCurrentStats()
		cs.Hits = current.CacheHits
		cs.Misses = current.CacheMisses
	}
	return cs
}

// cleanupLocked removes expired entries and evicts the oldest ones over the
// size limit. The caller must hold cacheMutex for writing.
func (a *Analyzer) cleanupLocked(now time.Time) {
	for key, entry := range a.cache {
		if now.Sub(entry.timestamp) > a.cacheTTL {
			delete(a.cache, key)
		}
	}

	if len(a.cache) > a.maxCacheSize {
		type aged struct {
			key       string
			timestamp time.Time
		}
		entries := make([]aged, 0, len(a.cache))
		for key, entry := range a.cache {
			entries = append(entries, aged{key, entry.timestamp})
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].timestamp.Before(entries[j].timestamp)
		})
		for i := 0; i < len(entries)-a.maxCacheSize; i++ {
			delete(a.cache, entries[i].key)
		}
	}
	a.lastCleanup = now
}

// fingerprint identifies a request together with the external stages that
// would run for it, so toggling a stage never serves a stale report
func fingerprint(req Request, withClassifier, withEnhancer bool) string {
	h := sha256.New()
	write := func(parts ...string) {
		for _, p := range parts {
			h.Write([]byte(p))
			h.Write([]byte{0})
		}
	}
	write(req.Text, req.URL)
	if req.MetaTags != nil {
		write("meta", req.MetaTags.Title, req.MetaTags.Description, strings.Join(req.MetaTags.Keywords, "\x1f"))
	}
	flags := []byte{'-', '-'}
	if withClassifier {
		flags[0] = 'c'
	}
	if withEnhancer {
		flags[1] = 'k'
	}
	h.Write(flags)
	return hex.EncodeToString(h.Sum(nil))
}

// IsCached reports whether a fresh report for req is in the cache
func (a *Analyzer) IsCached(req Request) bool {
	classifier, enhancer, _ := a.externals()
	key := fingerprint(req, classifier != nil, enhancer != nil)

	a.cacheMutex.RLock()
	defer a.cacheMutex.RUnlock()
	entry, found := a.cache[key]
	return found && a.cacheTTL > 0 && time.Since(entry.timestamp) < a.cacheTTL
}

func (a *Analyzer) cached(key string) *AnalysisReport {
	a.cacheMutex.RLock()
	defer a.cacheMutex.RUnlock()
	if a.cacheTTL <= 0 {
		return nil
	}
	if entry, ok := a.cache[key]; ok && time.Since(entry.timestamp) < a.cacheTTL {
		return entry.report.clone()
	}
	return nil
}

func (a *Analyzer) store(key string, report *AnalysisReport) {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()
	if a.cacheTTL <= 0 {
		return
	}
	now := time.Now()
	a.cache[key] = cacheEntry{report: report.clone(), timestamp: now}
	if len(a.cache) > a.maxCacheSize || now.Sub(a.lastCleanup) > a.cleanupInterval {
		a.cleanupLocked(now)
	}
}

// Analyze produces the full report for req. It never fails: invalid input
// yields a report asking for content and internal failures yield a degraded
// report. Cancelling ctx does not interrupt external calls already started;
// they are bounded by the configured timeout instead.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (report *AnalysisReport) {
	classifier, enhancer, storage := a.externals()
	defer func() {
		if r := recover(); r != nil {
			logging.Log.Errorf("analysis panicked: %v\n%s", r, debug.Stack())
			storage.Increment(stats.EventPipelineError)
			report = errorReport(req.Text, a.opts)
		}
	}()
	storage.Increment(stats.EventAnalysis)

	key := fingerprint(req, classifier != nil, enhancer != nil)
	if hit := a.cached(key); hit != nil {
		storage.Increment(stats.EventCacheHit)
		return hit
	}
	storage.Increment(stats.EventCacheMiss)

	start := time.Now()
	report = a.run(ctx, req, classifier, enhancer, storage)
	logging.Log.Debugf("analysis finished in %s: score=%d words=%d recommendations=%d",
		time.Since(start), report.SEOScore, report.ContentHealth.WordCount, len(report.Recommendations))

	a.store(key, report)
	return report
}

func (a *Analyzer) run(ctx context.Context, req Request, classifier Classifier, enhancer KeywordEnhancer, storage *stats.Storage) *AnalysisReport {
	if !utf8.ValidString(req.Text) {
		logging.Log.Debugf("rejecting input with invalid UTF-8")
		storage.Increment(stats.EventInputError)
		return inputErrorReport(req.Text, a.opts)
	}

	text, supplied := req.Text, req.MetaTags
	if looksLikeHTML(text) {
		in, err := flattenHTML(text)
		if err != nil {
			logging.Log.Warnf("could not parse HTML input, analyzing it as text: %v", err)
		} else {
			text = in.Text
			supplied = mergeSupplied(supplied, in.Meta)
		}
	}

	doc := NewDocument(text)
	if doc.WordCount == 0 {
		storage.Increment(stats.EventInputError)
		return inputErrorReport(req.Text, a.opts)
	}

	var (
		wg          sync.WaitGroup
		failed      atomic.Bool
		readability ReadabilityMetrics
		structure   ContentStructure
		keywords    []string
		verdict     Verdict
	)
	stage := func(name string, fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logging.Log.Errorf("%s stage panicked: %v\n%s", name, r, debug.Stack())
					failed.Store(true)
				}
			}()
			fn()
		}()
	}

	stage("structure", func() {
		readability = AnalyzeReadability(doc)
		structure = AnalyzeStructure(doc, readability, a.opts)
	})
	stage("keywords", func() {
		keywords = a.extractKeywords(ctx, doc, enhancer, storage)
	})
	stage("sentiment", func() {
		verdict = a.classify(ctx, doc.Raw, classifier, storage)
	})
	wg.Wait()

	if failed.Load() {
		storage.Increment(stats.EventPipelineError)
		return errorReport(req.Text, a.opts)
	}

	meta := DeriveMetaTags(doc, supplied, keywords, a.opts)
	rc := &ruleContext{
		doc:       doc,
		opts:      a.opts,
		meta:      meta,
		structure: structure,
		keywords:  keywords,
	}
	score, breakdown := CalculateScore(rc)

	return &AnalysisReport{
		SEOScore: score,
		ContentHealth: ContentHealth{
			ReadabilityScore: readability.FleschScore,
			WordCount:        doc.WordCount,
			ReadingTime:      readingTime(doc.WordCount, a.opts.WordsPerMinute),
			Health:           contentHealth(readability.FleschScore, doc.WordCount, len(keywords)),
		},
		ContentStructure: structure,
		Recommendations:  GenerateRecommendations(rc),
		MetaTags:         meta,
		GooglePreview:    BuildPreview(meta, req.URL, a.opts.DefaultPreviewDomain),
		Sentiment:        verdict.Label,
		Keywords:         keywords,
		RawTextExcerpt:   excerpt(text, a.opts.ExcerptLength),
		Breakdown:        breakdown,
	}
}

func (a *Analyzer) extractKeywords(ctx context.Context, doc *Document, enhancer KeywordEnhancer, storage *stats.Storage) []string {
	base := ExtractKeywords(doc, a.opts.KeywordCap)
	if enhancer == nil {
		return base
	}

	storage.Increment(stats.EventEnhancerCall)
	enhanced, err := callExternal(ctx, a.opts.ExternalTimeout, a.opts.ExternalRetries,
		func(ctx context.Context) ([]string, error) {
			return enhancer.EnhanceKeywords(ctx, doc.Raw, append([]string{}, base...))
		})
	if err != nil {
		logging.Log.Warnf("keyword enhancer unavailable, keeping extracted keywords: %v", err)
		storage.Increment(stats.EventEnhancerFallback)
		return base
	}
	return mergeKeywords(enhanced, base, a.opts.KeywordCap)
}

func (a *Analyzer) classify(ctx context.Context, text string, classifier Classifier, storage *stats.Storage) Verdict {
	if classifier != nil {
		storage.Increment(stats.EventClassifierCall)
	}
	rc := &ResilientClassifier{
		Primary:   classifier,
		Fallback:  LexicalClassifier{},
		Threshold: a.opts.SentimentThreshold,
		Timeout:   a.opts.ExternalTimeout,
		Retries:   a.opts.ExternalRetries,
		OnFallback: func(error) {
			storage.Increment(stats.EventClassifierFallback)
		},
	}
	v, _ := rc.Classify(ctx, text)
	return v
}

// mergeSupplied combines caller meta tags with those found in HTML; the
// caller's non-empty fields win
func mergeSupplied(caller *MetaTags, found MetaTags) *MetaTags {
	merged := found
	if caller != nil {
		if strings.TrimSpace(caller.Title) != "" {
			merged.Title = caller.Title
		}
		if strings.TrimSpace(caller.Description) != "" {
			merged.Description = caller.Description
		}
		if len(caller.Keywords) > 0 {
			merged.Keywords = caller.Keywords
		}
	}
	return &merged
}

// Shutdown flushes the statistics and drops cached reports
func (a *Analyzer) Shutdown() error {
	if a == nil {
		return nil
	}

	a.cacheMutex.Lock()
	a.cache = make(map[string]cacheEntry)
	a.cacheMutex.Unlock()

	if s := a.GetStats(); s != nil {
		return s.Shutdown()
	}
	return nil
}
