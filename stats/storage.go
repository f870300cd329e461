package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/seo-optimizer/content-analyzer/logging"
)

// Event is a pipeline occurrence counted per month
type Event int

const (
	EventAnalysis Event = iota
	EventCacheHit
	EventCacheMiss
	EventClassifierCall
	EventClassifierFallback
	EventEnhancerCall
	EventEnhancerFallback
	EventInputError
	EventPipelineError
)

// MonthlyStats represents pipeline counters for a specific month
type MonthlyStats struct {
	Analyses            int       `json:"analyses"`
	CacheHits           int       `json:"cache_hits"`
	CacheMisses         int       `json:"cache_misses"`
	ClassifierCalls     int       `json:"classifier_calls"`
	ClassifierFallbacks int       `json:"classifier_fallbacks"`
	EnhancerCalls       int       `json:"enhancer_calls"`
	EnhancerFallbacks   int       `json:"enhancer_fallbacks"`
	InputErrors         int       `json:"input_errors"`
	PipelineErrors      int       `json:"pipeline_errors"`
	LastUpdated         time.Time `json:"last_updated"`
}

func (m *MonthlyStats) add(e Event) {
	switch e {
	case EventAnalysis:
		m.Analyses++
	case EventCacheHit:
		m.CacheHits++
	case EventCacheMiss:
		m.CacheMisses++
	case EventClassifierCall:
		m.ClassifierCalls++
	case EventClassifierFallback:
		m.ClassifierFallbacks++
	case EventEnhancerCall:
		m.EnhancerCalls++
	case EventEnhancerFallback:
		m.EnhancerFallbacks++
	case EventInputError:
		m.InputErrors++
	case EventPipelineError:
		m.PipelineErrors++
	}
	m.LastUpdated = time.Now()
}

// Storage keeps monthly counters and persists them in the background
type Storage struct {
	mutex       sync.RWMutex
	stats       map[string]*MonthlyStats // key: "YYYY-MM"
	filePath    string
	lastWrite   time.Time
	writeBuffer chan struct{}
	done        chan struct{}
	stopped     chan struct{}
	closeOnce   sync.Once
}

// NewStorage creates a storage backed by dataDir/stats.json. An empty dataDir
// keeps the counters in memory only.
func NewStorage(dataDir string) (*Storage, error) {
	s := &Storage{
		stats:       make(map[string]*MonthlyStats),
		writeBuffer: make(chan struct{}, 1),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
	if dataDir == "" {
		close(s.stopped)
		return s, nil
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	s.filePath = filepath.Join(dataDir, "stats.json")

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	go s.backgroundWriter()
	return s, nil
}

func (s *Storage) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := json.Unmarshal(data, &s.stats); err != nil {
		return err
	}
	if s.stats == nil {
		s.stats = make(map[string]*MonthlyStats)
	}
	for month, m := range s.stats {
		if m == nil {
			delete(s.stats, month)
		}
	}
	return nil
}

// save writes the counters through a temporary file and a rename
func (s *Storage) save() error {
	if s.filePath == "" {
		return nil
	}
	s.mutex.RLock()
	data, err := json.Marshal(s.stats)
	s.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

func (s *Storage) backgroundWriter() {
	defer close(s.stopped)
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.writeBuffer:
		case <-ticker.C:
		case <-s.done:
			return
		}
		if err := s.save(); err != nil {
			logging.Log.Warnf("stats write failed: %v", err)
		}
	}
}

func currentMonth() string {
	return time.Now().Format("2006-01")
}

// requestWrite signals that a write to disk is needed
func (s *Storage) requestWrite() {
	select {
	case s.writeBuffer <- struct{}{}:
	default:
	}
}

// Increment counts the given events for the current month
func (s *Storage) Increment(events ...Event) {
	if s == nil || len(events) == 0 {
		return
	}
	month := currentMonth()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	m := s.stats[month]
	if m == nil {
		m = &MonthlyStats{}
		s.stats[month] = m
	}
	for _, e := range events {
		m.add(e)
	}

	if time.Since(s.lastWrite) > time.Minute {
		s.requestWrite()
		s.lastWrite = time.Now()
	}
}

// GetCurrentStats returns the counters for the current month
func (s *Storage) GetCurrentStats() MonthlyStats {
	m, _ := s.GetMonthlyStats(currentMonth())
	return m
}

// GetMonthlyStats returns the counters for a "YYYY-MM" month
func (s *Storage) GetMonthlyStats(yearMonth string) (MonthlyStats, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if m, ok := s.stats[yearMonth]; ok {
		return *m, true
	}
	return MonthlyStats{}, false
}

// GetAllMonths returns the months with statistics, newest first
func (s *Storage) GetAllMonths() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	months := make([]string, 0, len(s.stats))
	for month := range s.stats {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// Cleanup keeps only the most recent retainMonths months, counting the current one
func (s *Storage) Cleanup(retainMonths int) {
	if retainMonths < 1 {
		retainMonths = 1
	}
	keep := make(map[string]bool, retainMonths)
	now := time.Now()
	for i := 0; i < retainMonths; i++ {
		keep[now.AddDate(0, -i, 0).Format("2006-01")] = true
	}

	s.mutex.Lock()
	for key := range s.stats {
		if !keep[key] {
			delete(s.stats, key)
		}
	}
	s.mutex.Unlock()

	s.requestWrite()
	logging.Log.Debugf("retained statistics for the last %d month(s)", retainMonths)
}

// Shutdown stops the background writer and flushes the counters to disk
func (s *Storage) Shutdown() error {
	if s == nil {
		return nil
	}
	s.closeOnce.Do(func() { close(s.done) })
	<-s.stopped
	return s.save()
}
