package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Statistics collects request-level figures for the analyze endpoint
type Statistics struct {
	UniqueVisitors   map[string]time.Time `json:"uniqueVisitors"`   // IP -> last visit
	AnalysisRequests int                  `json:"analysisRequests"` // total analyze calls
	ErrorCount       int                  `json:"errorCount"`       // rejected or failed requests
	PopularKeywords  map[string]int       `json:"popularKeywords"`  // primary keyword -> count
	AverageLatency   float64              `json:"averageLatency"`   // milliseconds
	TotalLatency     float64              `json:"-"`
	RequestCount     int                  `json:"-"`
	LastPersisted    time.Time            `json:"lastPersisted"`

	path  string
	mutex sync.RWMutex
}

// NewStatistics creates statistics persisted at path and loads any previous
// snapshot. An empty path keeps them in memory only.
func NewStatistics(path string) *Statistics {
	s := &Statistics{
		UniqueVisitors:  make(map[string]time.Time),
		PopularKeywords: make(map[string]int),
		LastPersisted:   time.Now(),
		path:            path,
	}
	if err := s.Load(); err != nil {
		Log.Warnf("could not load existing statistics: %v", err)
	}
	return s
}

// TrackVisitor records a visitor by IP
func (s *Statistics) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.UniqueVisitors[ip] = time.Now()
}

// TrackAnalysis records one analyze request. keyword is the primary keyword
// of the report and may be empty.
func (s *Statistics) TrackAnalysis(keyword string, latency time.Duration, hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.AnalysisRequests++
	if keyword = strings.ToLower(strings.TrimSpace(keyword)); keyword != "" {
		s.PopularKeywords[keyword]++
	}
	if hasError {
		s.ErrorCount++
	}

	s.TotalLatency += float64(latency.Microseconds()) / 1000
	s.RequestCount++
	s.AverageLatency = s.TotalLatency / float64(s.RequestCount)
}

// UniqueVisitorsCount returns the number of visitors seen in the last 24 hours
func (s *Statistics) UniqueVisitorsCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.uniqueVisitorsLocked()
}

func (s *Statistics) uniqueVisitorsLocked() int {
	count := 0
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, lastVisit := range s.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}
	return count
}

// KeywordCount is one entry of the popular keyword ranking
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// PopularKeywordsTop returns the n most frequent primary keywords
func (s *Statistics) PopularKeywordsTop(n int) []KeywordCount {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.popularLocked(n)
}

func (s *Statistics) popularLocked(n int) []KeywordCount {
	ranked := make([]KeywordCount, 0, len(s.PopularKeywords))
	for k, c := range s.PopularKeywords {
		ranked = append(ranked, KeywordCount{Keyword: k, Count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Keyword < ranked[j].Keyword
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ErrorRate returns the error rate as a percentage
func (s *Statistics) ErrorRate() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.errorRateLocked()
}

func (s *Statistics) errorRateLocked() float64 {
	if s.AnalysisRequests == 0 {
		return 0
	}
	return float64(s.ErrorCount) / float64(s.AnalysisRequests) * 100
}

// Save writes the statistics to disk
func (s *Statistics) Save() error {
	if s.path == "" {
		return nil
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.LastPersisted = time.Now()
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("could not encode statistics: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("could not write statistics file: %w", err)
	}
	return nil
}

// Load reads statistics saved by Save. A missing file is not an error.
func (s *Statistics) Load() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not open statistics file: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("could not decode statistics: %w", err)
	}
	if s.UniqueVisitors == nil {
		s.UniqueVisitors = make(map[string]time.Time)
	}
	if s.PopularKeywords == nil {
		s.PopularKeywords = make(map[string]int)
	}
	return nil
}

// Snapshot returns the public view of the statistics. Popular keywords are
// only included in development mode.
func (s *Statistics) Snapshot(devMode bool) map[string]any {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := map[string]any{
		"uniqueVisitors24h": s.uniqueVisitorsLocked(),
		"totalRequests":     s.AnalysisRequests,
		"errorRate":         s.errorRateLocked(),
		"averageLatencyMs":  s.AverageLatency,
	}
	if devMode {
		out["popularKeywords"] = s.popularLocked(5)
	}
	return out
}
