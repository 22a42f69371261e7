// Package runlog sets up the structured JSON run journal.
package runlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Setup returns a JSON logger tagged with a fresh run ID. An empty path logs
// to stderr; otherwise entries append to the given file. The returned closer
// is nil when logging to stderr.
func Setup(path string) (*slog.Logger, io.Closer, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create journal dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open journal %s: %w", path, err)
		}
		w = f
		closer = f
	}

	logger := slog.New(slog.NewJSONHandler(w, nil)).With("run_id", uuid.NewString())
	return logger, closer, nil
}
