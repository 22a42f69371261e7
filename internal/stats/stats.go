// Package stats accumulates per-URL request-time statistics and turns them
// into the ranked report dataset.
package stats

import (
	"sort"

	"github.com/slowtop/slowtop/internal/models"
)

// Aggregator collects request-time observations per URL for a single run.
// It retains every observation: the report requires an exact median, so no
// streaming approximation is acceptable.
type Aggregator struct {
	stats map[string]*models.URLStats
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{stats: make(map[string]*models.URLStats)}
}

// Add folds one record into the per-URL accumulator.
func (a *Aggregator) Add(rec models.LogRecord) {
	s, ok := a.stats[rec.URL]
	if !ok {
		s = &models.URLStats{URL: rec.URL}
		a.stats[rec.URL] = s
	}
	s.Count++
	s.TimeSum += rec.Time
	if rec.Time > s.TimeMax {
		s.TimeMax = rec.Time
	}
	s.Times = append(s.Times, rec.Time)
}

// Merge folds another aggregator into this one. Counts, sums and maxima
// merge directly; the observation lists concatenate so the merged median
// stays exact. This is the extension point for sharding aggregation by
// URL hash.
func (a *Aggregator) Merge(other *Aggregator) {
	for url, os := range other.stats {
		s, ok := a.stats[url]
		if !ok {
			s = &models.URLStats{URL: url}
			a.stats[url] = s
		}
		s.Count += os.Count
		s.TimeSum += os.TimeSum
		if os.TimeMax > s.TimeMax {
			s.TimeMax = os.TimeMax
		}
		s.Times = append(s.Times, os.Times...)
	}
}

// Stats returns the accumulated per-URL statistics.
func (a *Aggregator) Stats() map[string]*models.URLStats {
	return a.stats
}

// Median returns the exact sorted median: the middle value for an odd count,
// the mean of the two middle values for an even count. It returns 0 for an
// empty slice. The input is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
