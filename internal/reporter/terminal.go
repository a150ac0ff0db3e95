package reporter

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/vidmend/vidmend/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu         sync.Mutex
	progress   *progressbar.ProgressBar
	maxPercent float32
	cyan       *color.Color
	green      *color.Color
	yellow     *color.Color
	red        *color.Color
	bold       *color.Color
}

// NewTerminalReporter creates a new terminal reporter.
func NewTerminalReporter() *TerminalReporter {
	return &TerminalReporter{
		cyan:   color.New(color.FgCyan, color.Bold),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow, color.Bold),
		red:    color.New(color.FgRed, color.Bold),
		bold:   color.New(color.Bold),
	}
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.maxPercent = 0
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	fmt.Printf("  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) SessionStarted(info SessionInfo) {
	fmt.Println()
	_, _ = r.cyan.Println("SESSION")
	r.printLabel(9, "Hostname:", info.Hostname)
	r.printLabel(9, "ffmpeg:", toolStatus(info.FFmpegFound, info.FFmpegPath))
	r.printLabel(9, "ffprobe:", toolStatus(info.FFprobeFound, info.FFprobePath))
}

func toolStatus(found bool, path string) string {
	if found {
		return path
	}
	return "not found"
}

func (r *TerminalReporter) FileStarted(context FileContext) {
	fmt.Printf("\nFile %s of %d: %s\n",
		r.bold.Sprint(context.CurrentFile),
		context.TotalFiles,
		context.Filename)
}

func (r *TerminalReporter) DetectionResult(summary DetectionSummary) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("DETECTION")
	r.printLabel(11, "File:", summary.Filename)
	r.printLabel(11, "Status:", r.statusText(summary.Status))
	r.printLabel(11, "Resolution:", summary.Resolution)
	r.printLabel(11, "Duration:", summary.Duration)
	if summary.Codec != "" {
		r.printLabel(11, "Codec:", summary.Codec)
	}
	for _, issue := range summary.VideoIssues {
		fmt.Printf("  %s %s\n", r.red.Sprint("✗"), issue)
	}
	for _, issue := range summary.AudioIssues {
		fmt.Printf("  %s %s\n", r.red.Sprint("✗"), issue)
	}
}

func (r *TerminalReporter) statusText(status string) string {
	switch status {
	case "ok", "fixed":
		return r.green.Sprint(status)
	case "error":
		return r.red.Sprint(status)
	default:
		return status
	}
}

func (r *TerminalReporter) StageStarted(stage, message string) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println(strings.ToUpper(stage))
	fmt.Printf("  %s\n", message)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = progressbar.NewOptions64(
		100,
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      stage + " [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) StageProgress(update StageProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		return
	}

	clamped := update.Percent
	if clamped > 100 {
		clamped = 100
	}
	if clamped < 0 {
		clamped = 0
	}

	if clamped >= r.maxPercent {
		r.maxPercent = clamped
		_ = r.progress.Set64(int64(clamped))
	}
}

// ToolOutput is dropped on the terminal; the progress bar already reflects
// it and the raw lines land in the session log.
func (r *TerminalReporter) ToolOutput(string) {}

func (r *TerminalReporter) RepairComplete(outcome RepairOutcome) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("RESULTS")
	fmt.Printf("  %s %s\n", r.bold.Sprint("Output:"), r.bold.Sprint(outcome.OutputFile))
	fmt.Printf("  %s %s -> %s\n",
		r.bold.Sprint("Size:"),
		util.FormatBytes(outcome.OriginalSize),
		util.FormatBytes(outcome.RepairedSize))
	r.printLabel(8, "Quality:", fmt.Sprintf("%s (%s)", outcome.Tier, outcome.Params))
	fmt.Printf("  %s %s\n", r.bold.Sprint("Time:"),
		util.FormatDurationFromSecs(int64(outcome.TotalTime.Seconds())))
	if outcome.Replaced {
		fmt.Printf("  %s\n", r.green.Sprint("Original replaced"))
	}
}

func (r *TerminalReporter) Warning(message string) {
	r.finishProgress()
	fmt.Println()
	_, _ = r.yellow.Printf("WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReportedError) {
	r.finishProgress()
	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	fmt.Println()
	_, _ = r.cyan.Println("BATCH")
	fmt.Printf("  Processing %d files\n", info.TotalFiles)
	for i, name := range info.FileList {
		fmt.Printf("  %d. %s\n", i+1, name)
	}
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("BATCH SUMMARY")
	fmt.Printf("  %s\n", r.bold.Sprintf("%d files processed", summary.TotalFiles))
	fmt.Printf("  Compliant: %s  Flagged: %s  Fixed: %s  Failed: %s\n",
		r.green.Sprint(summary.CompliantCount),
		r.yellow.Sprint(summary.FlaggedCount),
		r.green.Sprint(summary.FixedCount),
		r.red.Sprint(summary.FailedCount))
	fmt.Printf("  Time: %s\n", util.FormatDurationFromSecs(int64(summary.TotalDuration.Seconds())))

	for _, result := range summary.FileResults {
		fmt.Printf("  - %s: %s\n", result.Filename, r.statusText(result.Status))
	}
}

func (r *TerminalReporter) OperationComplete(message string) {
	r.finishProgress()
	fmt.Println()
	fmt.Printf("%s %s\n", r.green.Add(color.Bold).Sprint("✓"), r.bold.Sprint(message))
}
