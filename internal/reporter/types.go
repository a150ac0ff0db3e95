// Package reporter provides progress reporting interfaces and implementations.
package reporter

import "time"

// SessionInfo describes the environment at startup.
type SessionInfo struct {
	Hostname     string
	FFmpegFound  bool
	FFprobeFound bool
	FFmpegPath   string
	FFprobePath  string
}

// FileContext identifies the current file within a batch.
type FileContext struct {
	CurrentFile int
	TotalFiles  int
	Filename    string
}

// DetectionSummary contains the outcome of analyzing one file.
type DetectionSummary struct {
	Filename    string
	Status      string
	Resolution  string
	Duration    string
	Codec       string
	VideoIssues []string
	AudioIssues []string
}

// StageProgress reports progress within a named stage.
type StageProgress struct {
	Stage   string
	Percent float32
	Message string
}

// RepairOutcome contains final repair results for one file.
type RepairOutcome struct {
	InputFile    string
	OutputFile   string
	OriginalSize uint64
	RepairedSize uint64
	Tier         string
	Params       string
	TotalTime    time.Duration
	Replaced     bool
}

// ReportedError carries error information for display.
type ReportedError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// BatchStartInfo contains batch start metadata.
type BatchStartInfo struct {
	TotalFiles int
	FileList   []string
}

// FileResult contains one file's batch outcome.
type FileResult struct {
	Filename string
	Status   string
}

// BatchSummary contains batch completion information.
type BatchSummary struct {
	TotalFiles     int
	CompliantCount int
	FlaggedCount   int
	FixedCount     int
	FailedCount    int
	TotalDuration  time.Duration
	FileResults    []FileResult
}
