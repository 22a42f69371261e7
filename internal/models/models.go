// Package models holds the plain data structures shared across slowtop packages.
package models

import "time"

// LogRecord is one successfully decoded access-log line.
type LogRecord struct {
	URL  string
	Time float64 // request time in seconds
}

// URLStats accumulates request-time observations for a single URL over one run.
// Every observation is retained so the median can be computed exactly.
type URLStats struct {
	URL     string
	Count   int
	TimeSum float64
	TimeMax float64
	Times   []float64
}

// ReportRow is one row of the final report. JSON field names match the
// report template's table contract.
type ReportRow struct {
	URL          string  `json:"url"`
	Count        int     `json:"count"`
	CountPercent float64 `json:"count_perc"`
	TimeSum      float64 `json:"time_sum"`
	TimePercent  float64 `json:"time_perc"`
	TimeAvg      float64 `json:"time_avg"`
	TimeMax      float64 `json:"time_max"`
	TimeMed      float64 `json:"time_med"`
}

// RunStatus is the terminal state of one analysis run.
type RunStatus string

// Run statuses. NoArtifact and AlreadyProcessed are benign skips,
// ThresholdExceeded means the log was readable but too dirty to report on.
const (
	StatusSuccess           RunStatus = "success"
	StatusNoArtifact        RunStatus = "no_artifact"
	StatusAlreadyProcessed  RunStatus = "already_processed"
	StatusThresholdExceeded RunStatus = "threshold_exceeded"
)

// Outcome summarizes a finished run for the caller.
type Outcome struct {
	Status      RunStatus
	Artifact    string
	Date        time.Time
	TotalLines  int
	ParsedLines int
	ErrorRate   float64
	ReportPath  string
	Rows        []ReportRow
}
