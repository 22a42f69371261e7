// Package report renders the ranked dataset into the HTML report artifact.
package report

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/slowtop/slowtop/internal/models"
)

//go:embed template.html
var reportTemplate string

// The template carries a single substitution slot for the table data.
const tableSlot = "$table_json"

// Render fills the report template with the JSON-encoded rows.
func Render(rows []models.ReportRow) ([]byte, error) {
	if rows == nil {
		rows = []models.ReportRow{}
	}
	table, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report table: %w", err)
	}
	return []byte(strings.Replace(reportTemplate, tableSlot, string(table), 1)), nil
}

// Write renders the rows and writes the report to path. The write goes
// through a temp file and rename: a crashed run must not leave a partial
// report behind, because report existence is what marks a date as processed.
func Write(path string, rows []models.ReportRow) error {
	content, err := Render(rows)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.html.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp report: %w", err)
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	return nil
}
