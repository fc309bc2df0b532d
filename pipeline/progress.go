package pipeline

import (
	"log/slog"

	"github.com/poiesic/finsift/core"
)

// ProgressReporter receives best-effort step updates during a processing
// run. Implementations must not block: the orchestrator calls UpdateStep
// at every stage checkpoint on the processing goroutine, and any failure
// to deliver an update is the reporter's to swallow, never the run's.
type ProgressReporter interface {
	UpdateStep(id core.DocumentID, step string)
}

// noopReporter is a no-op implementation of ProgressReporter.
type noopReporter struct{}

var _ ProgressReporter = (*noopReporter)(nil)

func (n *noopReporter) UpdateStep(_ core.DocumentID, _ string) {}

// LogReporter logs each step at info level. It is the default reporter
// used by the CLI worker and process commands.
type LogReporter struct {
	logger *slog.Logger
}

var _ ProgressReporter = (*LogReporter)(nil)

// NewLogReporter creates a reporter that logs steps through logger.
// A nil logger falls back to slog.Default().
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReporter{logger: logger}
}

// UpdateStep logs the step. It never fails.
func (r *LogReporter) UpdateStep(id core.DocumentID, step string) {
	r.logger.Info("processing step", "document", id, "step", step)
}
