// Package parser decodes access-log lines and streams records out of an
// artifact while counting parse failures.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/slowtop/slowtop/internal/models"
)

// ErrMalformedLine marks a line that could not be decoded. Callers count
// these and keep going; they never abort a run.
var ErrMalformedLine = errors.New("malformed log line")

// Expected line shape (whitespace-delimited, variable internal spacing):
//
//	$remote_addr $remote_user $http_x_real_ip [$time_local] "$request" ... $request_time
//
// Only the path inside the quoted request and the trailing request time are
// consumed; everything else is ignored.

// DecodeLine extracts the URL and request time from one log line.
func DecodeLine(line string) (models.LogRecord, error) {
	var rec models.LogRecord

	start := strings.IndexByte(line, '"')
	if start < 0 {
		return rec, fmt.Errorf("%w: no quoted request field", ErrMalformedLine)
	}
	end := strings.IndexByte(line[start+1:], '"')
	if end < 0 {
		return rec, fmt.Errorf("%w: unterminated request field", ErrMalformedLine)
	}
	request := line[start+1 : start+1+end]

	// "GET /path HTTP/1.1" -> /path. Requests without a path token are
	// unusable for per-URL stats.
	parts := strings.Fields(request)
	if len(parts) < 2 {
		return rec, fmt.Errorf("%w: request field %q has no path", ErrMalformedLine, request)
	}

	fields := strings.Fields(line)
	last := fields[len(fields)-1]
	seconds, err := strconv.ParseFloat(last, 64)
	if err != nil {
		return rec, fmt.Errorf("%w: request time %q is not a number", ErrMalformedLine, last)
	}
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return rec, fmt.Errorf("%w: request time %q out of range", ErrMalformedLine, last)
	}

	rec.URL = parts[1]
	rec.Time = seconds
	return rec, nil
}

// Lines longer than the bufio.Scanner default exist in the wild
// (user agents, forwarded-for chains).
const maxLineBytes = 1024 * 1024

// How often a running stream reports progress, in lines.
const progressInterval = 100000

// Stream yields decoded records from a log artifact in a single forward
// pass. Total and failed line counts are final only after Next has returned
// false; Err must be checked then to distinguish end-of-file from a read
// failure.
type Stream struct {
	scanner *bufio.Scanner
	logger  *slog.Logger
	total   int
	failed  int
	err     error
	done    bool
}

// NewStream wraps a reader producing raw log lines. The logger may be nil.
func NewStream(r io.Reader, logger *slog.Logger) *Stream {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &Stream{scanner: scanner, logger: logger}
}

// Next returns the next successfully decoded record. Malformed lines are
// counted and skipped. It returns false when the input is exhausted or a
// read error occurred.
func (s *Stream) Next() (models.LogRecord, bool) {
	for s.scanner.Scan() {
		s.total++
		if s.logger != nil && s.total%progressInterval == 0 {
			s.logger.Info("parse progress", "total_lines", s.total, "failed_lines", s.failed)
		}
		rec, err := DecodeLine(s.scanner.Text())
		if err != nil {
			s.failed++
			continue
		}
		return rec, true
	}
	if !s.done {
		s.done = true
		s.err = s.scanner.Err()
	}
	return models.LogRecord{}, false
}

// Total returns the number of lines seen so far.
func (s *Stream) Total() int { return s.total }

// Failed returns the number of lines that failed to decode so far.
func (s *Stream) Failed() int { return s.failed }

// Err returns the read error that terminated the stream, if any.
func (s *Stream) Err() error { return s.err }
