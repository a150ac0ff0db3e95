package reporter

// Reporter is the structured event sink every component emits progress
// through. It replaces per-line logging callbacks: line-by-line subprocess
// streaming arrives via ToolOutput, everything else as typed events.
type Reporter interface {
	SessionStarted(info SessionInfo)
	FileStarted(context FileContext)
	DetectionResult(summary DetectionSummary)
	StageStarted(stage, message string)
	StageProgress(update StageProgress)
	ToolOutput(line string)
	RepairComplete(outcome RepairOutcome)
	Warning(message string)
	Error(err ReportedError)
	BatchStarted(info BatchStartInfo)
	BatchComplete(summary BatchSummary)
	OperationComplete(message string)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) SessionStarted(SessionInfo)       {}
func (NullReporter) FileStarted(FileContext)          {}
func (NullReporter) DetectionResult(DetectionSummary) {}
func (NullReporter) StageStarted(string, string)      {}
func (NullReporter) StageProgress(StageProgress)      {}
func (NullReporter) ToolOutput(string)                {}
func (NullReporter) RepairComplete(RepairOutcome)     {}
func (NullReporter) Warning(string)                   {}
func (NullReporter) Error(ReportedError)              {}
func (NullReporter) BatchStarted(BatchStartInfo)      {}
func (NullReporter) BatchComplete(BatchSummary)       {}
func (NullReporter) OperationComplete(string)         {}
