package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/slowtop/slowtop/internal/models"
)

func TestRender(t *testing.T) {
	rows := []models.ReportRow{
		{URL: "/a", Count: 3, CountPercent: 75, TimeSum: 6.0, TimePercent: 54.55, TimeAvg: 2.0, TimeMax: 3.0, TimeMed: 2.0},
		{URL: "/b", Count: 1, CountPercent: 25, TimeSum: 5.0, TimePercent: 45.45, TimeAvg: 5.0, TimeMax: 5.0, TimeMed: 5.0},
	}

	content, err := Render(rows)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := string(content)

	if strings.Contains(html, "$table_json") {
		t.Error("substitution slot left in rendered report")
	}
	for _, want := range []string{`"url":"/a"`, `"time_sum":6`, `"time_med":5`, `"count_perc":75`} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered report missing %q", want)
		}
	}
}

func TestRenderEmptyRows(t *testing.T) {
	content, err := Render(nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(content), "var table = [];") {
		t.Error("empty report should render an empty table array")
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports", "report-2017.06.30.html")

	rows := []models.ReportRow{{URL: "/a", Count: 1, TimeSum: 1.0}}
	if err := Write(path, rows); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(data), `"url":"/a"`) {
		t.Error("report content missing table data")
	}

	// No temp files may survive the atomic write.
	leftovers, err := filepath.Glob(filepath.Join(dir, "reports", ".report-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}
