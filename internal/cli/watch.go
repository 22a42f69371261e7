package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/slowtop/slowtop/internal/analyzer"
	"github.com/slowtop/slowtop/internal/models"
	"github.com/slowtop/slowtop/internal/runlog"
	"github.com/slowtop/slowtop/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep running and report on each new log artifact",
	Long: `Run once, then watch the log directory and rerun whenever a new
artifact appears. Each trigger still processes exactly one complete
artifact; partially written files are handled by the already-processed
guard and the debounce. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	addConfigFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(cfg.LogDir, logger)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.LogDir, err)
	}
	defer w.Stop()

	runner := analyzer.New(cfg, logger)
	runOnce := func() {
		out, err := runner.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("run failed", "error", err)
			fmt.Println(styleError.Render("Run failed: ") + err.Error())
			return
		}
		if out.Status != models.StatusAlreadyProcessed {
			printOutcome(out)
		}
	}

	fmt.Println(styleBrand.Render("slowtop") + styleHint.Render(" watching "+cfg.LogDir))
	runOnce()

	for {
		select {
		case <-ctx.Done():
			fmt.Println(styleHint.Render("Stopping."))
			return nil
		case path := <-w.Signals():
			logger.Info("artifact changed", "path", path)
			runOnce()
		}
	}
}
