package stats

import (
	"errors"
	"fmt"
)

// ErrThresholdExceeded means the artifact was readable but too many lines
// failed to parse for the report to be trustworthy.
var ErrThresholdExceeded = errors.New("parse error rate exceeds threshold")

// ErrorRate returns failed/total, or 0 for an empty log.
func ErrorRate(total, failed int) float64 {
	if total == 0 {
		return 0
	}
	return float64(failed) / float64(total)
}

// CheckErrorBudget evaluates the run's parse failures against the configured
// threshold. It is called once, after the stream is fully consumed. An empty
// log passes: nothing to parse is not a parsing failure.
func CheckErrorBudget(total, failed int, threshold float64) error {
	rate := ErrorRate(total, failed)
	if rate > threshold {
		return fmt.Errorf("%w: %.2f%% of %d lines failed (threshold %.2f%%)",
			ErrThresholdExceeded, rate*100, total, threshold*100)
	}
	return nil
}
