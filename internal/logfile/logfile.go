// Package logfile locates access-log artifacts and maps them to report paths.
package logfile

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// Artifacts are rotated daily with the date embedded in the name:
// nginx-access-ui.log-20170630 or nginx-access-ui.log-20170630.gz.
var artifactPattern = regexp.MustCompile(`^nginx-access-ui\.log-(\d{8})(\.gz)?$`)

const dateLayout = "20060102"

// Artifact is one candidate log file. It is selected by the date embedded in
// its name, never by file modification time.
type Artifact struct {
	Path    string
	Date    time.Time
	Gzipped bool
}

// MatchesArtifact reports whether a file name follows the artifact naming
// convention, including a well-formed date.
func MatchesArtifact(name string) bool {
	m := artifactPattern.FindStringSubmatch(name)
	if m == nil {
		return false
	}
	_, err := time.Parse(dateLayout, m[1])
	return err == nil
}

// Find scans dir for artifacts and returns the one with the most recent
// embedded date, or nil if nothing matches. When a date exists both
// compressed and uncompressed, the uncompressed file wins. The file is not
// opened.
func Find(dir string) (*Artifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read log dir %s: %w", dir, err)
	}

	var latest *Artifact
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := artifactPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		date, err := time.Parse(dateLayout, m[1])
		if err != nil {
			// Eight digits that are not a date, e.g. 20171399.
			continue
		}
		candidate := &Artifact{
			Path:    filepath.Join(dir, e.Name()),
			Date:    date,
			Gzipped: m[2] == ".gz",
		}
		switch {
		case latest == nil || candidate.Date.After(latest.Date):
			latest = candidate
		case candidate.Date.Equal(latest.Date) && latest.Gzipped && !candidate.Gzipped:
			latest = candidate
		}
	}

	return latest, nil
}

// Open opens the artifact for reading, transparently decompressing gzip.
// A corrupt gzip stream may only surface as an error on later reads.
func (a *Artifact) Open() (io.ReadCloser, error) {
	f, err := os.Open(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact %s: %w", a.Path, err)
	}
	if !a.Gzipped {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open gzip artifact %s: %w", a.Path, err)
	}
	return &gzipReadCloser{gz: gz, file: f}, nil
}

type gzipReadCloser struct {
	gz   *gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) {
	return g.gz.Read(p)
}

func (g *gzipReadCloser) Close() error {
	gzErr := g.gz.Close()
	fileErr := g.file.Close()
	if gzErr != nil {
		return gzErr
	}
	return fileErr
}

// ReportPath returns the report file path for a given artifact date.
// Report existence at this exact path is what marks a date as processed.
func ReportPath(reportDir string, date time.Time) string {
	return filepath.Join(reportDir, fmt.Sprintf("report-%s.html", date.Format("2006.01.02")))
}

// AlreadyProcessed reports whether a report for the given date exists.
func AlreadyProcessed(reportDir string, date time.Time) bool {
	_, err := os.Stat(ReportPath(reportDir, date))
	return err == nil
}
