package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/slowtop/slowtop/internal/models"
)

// Rank derives the report rows from the accumulated statistics: percentages
// against the full totals, sorted by total time descending, truncated to
// limit. Ties in total time break by ascending URL so identical inputs
// always produce identical reports.
func Rank(stats map[string]*models.URLStats, limit int) ([]models.ReportRow, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("report size must be positive, got %d", limit)
	}

	urls := make([]string, 0, len(stats))
	var totalCount int
	var totalTime float64
	for url, s := range stats {
		urls = append(urls, url)
		totalCount += s.Count
		totalTime += s.TimeSum
	}

	sort.Slice(urls, func(i, j int) bool {
		a, b := stats[urls[i]], stats[urls[j]]
		if a.TimeSum != b.TimeSum {
			return a.TimeSum > b.TimeSum
		}
		return urls[i] < urls[j]
	})

	if len(urls) > limit {
		urls = urls[:limit]
	}

	rows := make([]models.ReportRow, 0, len(urls))
	for _, url := range urls {
		s := stats[url]
		row := models.ReportRow{
			URL:     url,
			Count:   s.Count,
			TimeSum: round(s.TimeSum, 3),
			TimeAvg: round(s.TimeSum/float64(s.Count), 3),
			TimeMax: round(s.TimeMax, 3),
			TimeMed: round(Median(s.Times), 3),
		}
		// Percentages are relative to the whole run, not the truncated
		// subset, so a truncated report still shows true shares.
		if totalCount > 0 {
			row.CountPercent = round(float64(s.Count)/float64(totalCount)*100, 2)
		}
		if totalTime > 0 {
			row.TimePercent = round(s.TimeSum/totalTime*100, 2)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
