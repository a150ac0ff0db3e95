package reporter

import (
	"strings"

	"github.com/vidmend/vidmend/internal/logging"
)

// LogReporter records every event into the session log file, including the
// raw tool output lines the terminal drops. Safe to construct around a nil
// session logger.
type LogReporter struct {
	log *logging.SessionLogger
}

// NewLogReporter creates a log-file reporter.
func NewLogReporter(log *logging.SessionLogger) *LogReporter {
	return &LogReporter{log: log}
}

func (r *LogReporter) SessionStarted(info SessionInfo) {
	r.log.Info("session started on %s (ffmpeg=%q ffprobe=%q)", info.Hostname, info.FFmpegPath, info.FFprobePath)
}

func (r *LogReporter) FileStarted(context FileContext) {
	r.log.Info("file %d/%d: %s", context.CurrentFile, context.TotalFiles, context.Filename)
}

func (r *LogReporter) DetectionResult(summary DetectionSummary) {
	r.log.Info("detection %s: status=%s resolution=%s duration=%s codec=%s",
		summary.Filename, summary.Status, summary.Resolution, summary.Duration, summary.Codec)
	for _, issue := range summary.VideoIssues {
		r.log.Info("  video issue: %s", issue)
	}
	for _, issue := range summary.AudioIssues {
		r.log.Info("  audio issue: %s", issue)
	}
}

func (r *LogReporter) StageStarted(stage, message string) {
	r.log.Info("stage %s: %s", stage, message)
}

// StageProgress updates arrive per output line and would flood the log;
// the raw ToolOutput lines carry the same information.
func (r *LogReporter) StageProgress(StageProgress) {}

func (r *LogReporter) ToolOutput(line string) {
	r.log.Debug("tool: %s", strings.TrimRight(line, "\r\n"))
}

func (r *LogReporter) RepairComplete(outcome RepairOutcome) {
	r.log.Info("repair complete: %s -> %s (%d -> %d bytes, %s, replaced=%t)",
		outcome.InputFile, outcome.OutputFile,
		outcome.OriginalSize, outcome.RepairedSize,
		outcome.Params, outcome.Replaced)
}

func (r *LogReporter) Warning(message string) {
	r.log.Warn("%s", message)
}

func (r *LogReporter) Error(err ReportedError) {
	r.log.Error("%s: %s", err.Title, err.Message)
	if err.Context != "" {
		r.log.Error("  context: %s", err.Context)
	}
}

func (r *LogReporter) BatchStarted(info BatchStartInfo) {
	r.log.Info("batch started: %d files", info.TotalFiles)
}

func (r *LogReporter) BatchComplete(summary BatchSummary) {
	r.log.Info("batch complete: %d files, %d compliant, %d flagged, %d fixed, %d failed",
		summary.TotalFiles, summary.CompliantCount, summary.FlaggedCount,
		summary.FixedCount, summary.FailedCount)
}

func (r *LogReporter) OperationComplete(message string) {
	r.log.Info("%s", message)
}
