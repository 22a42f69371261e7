// Package analyzer drives one analysis run end to end: locate the newest
// artifact, stream and aggregate its records, gate on the parse error
// budget, and write the ranked report.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slowtop/slowtop/internal/config"
	"github.com/slowtop/slowtop/internal/logfile"
	"github.com/slowtop/slowtop/internal/models"
	"github.com/slowtop/slowtop/internal/parser"
	"github.com/slowtop/slowtop/internal/report"
	"github.com/slowtop/slowtop/internal/stats"
)

// How often the streaming loop checks for cancellation, in records.
const cancelCheckInterval = 4096

// Runner performs analysis runs for a fixed configuration.
type Runner struct {
	cfg *config.Config
	log *slog.Logger
}

// New creates a Runner. The config must already be validated.
func New(cfg *config.Config, log *slog.Logger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// Run executes one run. The returned error is non-nil only for hard
// failures (unreadable artifact, cancelled context, broken report write);
// every other terminal state, including ThresholdExceeded, is reported
// through the outcome status. No report is written unless the status is
// StatusSuccess.
func (r *Runner) Run(ctx context.Context) (*models.Outcome, error) {
	artifact, err := logfile.Find(r.cfg.LogDir)
	if err != nil {
		return nil, err
	}
	if artifact == nil {
		r.log.Info("no log artifact found", "log_dir", r.cfg.LogDir)
		return &models.Outcome{Status: models.StatusNoArtifact}, nil
	}

	out := &models.Outcome{
		Artifact:   artifact.Path,
		Date:       artifact.Date,
		ReportPath: logfile.ReportPath(r.cfg.ReportDir, artifact.Date),
	}
	r.log.Info("log artifact found", "path", artifact.Path, "date", artifact.Date.Format("2006-01-02"))

	if logfile.AlreadyProcessed(r.cfg.ReportDir, artifact.Date) {
		r.log.Info("report already exists", "path", out.ReportPath)
		out.Status = models.StatusAlreadyProcessed
		return out, nil
	}

	agg, total, failed, err := r.aggregate(ctx, artifact)
	if err != nil {
		return nil, err
	}
	out.TotalLines = total
	out.ParsedLines = total - failed
	out.ErrorRate = stats.ErrorRate(total, failed)
	r.log.Info("parse complete", "total_lines", total, "failed_lines", failed, "error_rate", out.ErrorRate)

	if err := stats.CheckErrorBudget(total, failed, r.cfg.ErrorThreshold); err != nil {
		r.log.Error("error budget exceeded", "error", err)
		out.Status = models.StatusThresholdExceeded
		return out, nil
	}

	rows, err := stats.Rank(agg.Stats(), r.cfg.ReportSize)
	if err != nil {
		return nil, err
	}
	out.Rows = rows

	if err := report.Write(out.ReportPath, rows); err != nil {
		return nil, err
	}
	r.log.Info("report written", "path", out.ReportPath, "rows", len(rows))

	out.Status = models.StatusSuccess
	return out, nil
}

// aggregate consumes the artifact's record stream into a fresh aggregator.
func (r *Runner) aggregate(ctx context.Context, artifact *logfile.Artifact) (*stats.Aggregator, int, int, error) {
	rc, err := artifact.Open()
	if err != nil {
		return nil, 0, 0, err
	}
	defer rc.Close()

	stream := parser.NewStream(rc, r.log)
	agg := stats.NewAggregator()

	var n int
	for {
		rec, ok := stream.Next()
		if !ok {
			break
		}
		agg.Add(rec)
		n++
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, 0, err
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read artifact %s: %w", artifact.Path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, 0, err
	}

	return agg, stream.Total(), stream.Failed(), nil
}
