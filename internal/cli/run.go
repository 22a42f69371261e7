package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slowtop/slowtop/internal/analyzer"
	"github.com/slowtop/slowtop/internal/config"
	"github.com/slowtop/slowtop/internal/models"
	"github.com/slowtop/slowtop/internal/runlog"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze the newest log artifact and write a report",
	Long: `Find the newest access-log artifact in the log directory, aggregate
per-URL request-time statistics, and write the ranked HTML report.

Nothing is written when no artifact exists, when the report for the
artifact's date already exists, or when too many lines fail to parse.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	addConfigFlags(runCmd)
}

// addConfigFlags registers the config-overriding flags shared by run and
// watch.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", config.DefaultPath, "path to the YAML config file")
	cmd.Flags().String("log-dir", "", "directory to scan for log artifacts")
	cmd.Flags().String("report-dir", "", "directory receiving the HTML reports")
	cmd.Flags().Int("report-size", 0, "maximum number of URLs in the report")
	cmd.Flags().Float64("error-threshold", -1, "tolerated fraction of unparsable lines, 0..1")
	cmd.Flags().String("journal", "", "path for the JSON run journal (default: stderr)")
}

// resolveConfig loads the config file and applies any flags the user set.
// Validation runs on the merged result, before any log I/O.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-dir") {
		cfg.LogDir, _ = cmd.Flags().GetString("log-dir")
	}
	if cmd.Flags().Changed("report-dir") {
		cfg.ReportDir, _ = cmd.Flags().GetString("report-dir")
	}
	if cmd.Flags().Changed("report-size") {
		cfg.ReportSize, _ = cmd.Flags().GetInt("report-size")
	}
	if cmd.Flags().Changed("error-threshold") {
		cfg.ErrorThreshold, _ = cmd.Flags().GetFloat64("error-threshold")
	}
	if cmd.Flags().Changed("journal") {
		cfg.Journal, _ = cmd.Flags().GetString("journal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger, closer, err := runlog.Setup(cfg.Journal)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	out, err := analyzer.New(cfg, logger).Run(cmd.Context())
	if err != nil {
		logger.Error("run failed", "error", err)
		return err
	}

	printOutcome(out)
	if out.Status == models.StatusThresholdExceeded {
		return fmt.Errorf("error rate %.2f%% exceeds threshold %.2f%%",
			out.ErrorRate*100, cfg.ErrorThreshold*100)
	}
	return nil
}

// printOutcome renders the short human summary; the machine-readable record
// goes to the journal.
func printOutcome(out *models.Outcome) {
	switch out.Status {
	case models.StatusNoArtifact:
		fmt.Println(styleHint.Render("No log artifact found, nothing to do."))
	case models.StatusAlreadyProcessed:
		fmt.Println(styleHint.Render("Report already exists: " + out.ReportPath))
	case models.StatusThresholdExceeded:
		fmt.Println(styleWarning.Render(fmt.Sprintf(
			"Parse quality too low: %d of %d lines failed (%.2f%%). No report written.",
			out.TotalLines-out.ParsedLines, out.TotalLines, out.ErrorRate*100)))
	case models.StatusSuccess:
		fmt.Printf("  %s %s\n", styleLabel.Render("Artifact"), styleValue.Render(out.Artifact))
		fmt.Printf("  %s %s\n", styleLabel.Render("Parsed  "),
			styleValue.Render(fmt.Sprintf("%d of %d lines (error rate %.2f%%)",
				out.ParsedLines, out.TotalLines, out.ErrorRate*100)))
		fmt.Printf("  %s %s\n", styleLabel.Render("URLs    "),
			styleValue.Render(fmt.Sprintf("%d ranked", len(out.Rows))))
		fmt.Println(styleSuccess.Render("Report written: " + out.ReportPath))
	}
}
