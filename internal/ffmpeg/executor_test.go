package ffmpeg

import (
	"fmt"
	"strings"
	"testing"

	"github.com/vidmend/vidmend/internal/reporter"
)

// recordingReporter captures tool output and progress events.
type recordingReporter struct {
	reporter.NullReporter
	lines    []string
	progress []reporter.StageProgress
}

func (r *recordingReporter) ToolOutput(line string) {
	r.lines = append(r.lines, line)
}

func (r *recordingReporter) StageProgress(p reporter.StageProgress) {
	r.progress = append(r.progress, p)
}

func TestStreamStderrProgress(t *testing.T) {
	rec := &recordingReporter{}
	runner := &StreamRunner{rep: rec}

	// ffmpeg ends progress lines with \r and everything else with \n.
	input := "Input #0, mov\n" +
		"frame=  100 time=00:00:30.00 speed=2x\r" +
		"frame=  200 time=00:01:00.00 speed=2x\r" +
		"done\n"

	tail := runner.streamStderr(strings.NewReader(input), "encode", 120)

	if len(rec.lines) != 4 {
		t.Fatalf("got %d output lines, want 4: %v", len(rec.lines), rec.lines)
	}
	if len(rec.progress) != 2 {
		t.Fatalf("got %d progress events, want 2", len(rec.progress))
	}
	if rec.progress[0].Percent != 25 {
		t.Errorf("first progress = %.1f%%, want 25", rec.progress[0].Percent)
	}
	if rec.progress[1].Percent != 50 {
		t.Errorf("second progress = %.1f%%, want 50", rec.progress[1].Percent)
	}
	if rec.progress[0].Stage != "encode" {
		t.Errorf("stage = %q, want encode", rec.progress[0].Stage)
	}
	if !strings.Contains(tail, "done") {
		t.Errorf("tail should keep the last lines, got %q", tail)
	}
}

func TestStreamStderrTailKeepsFinalError(t *testing.T) {
	rec := &recordingReporter{}
	runner := &StreamRunner{rep: rec}

	// Long runs emit far more progress noise than any byte cap; the tail
	// must still end with the tool's final error line.
	var input strings.Builder
	input.WriteString("Input #0, mov\n")
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&input, "frame=%5d time=00:00:30.00 bitrate=1800.0kbits/s speed=2.00x\r", i)
	}
	input.WriteString("Conversion failed: invalid NAL unit in stream 0\n")

	tail := runner.streamStderr(strings.NewReader(input.String()), "encode", 0)

	if !strings.Contains(tail, "Conversion failed: invalid NAL unit in stream 0") {
		t.Fatalf("tail lost the final error line, got %q", tail)
	}
	if got := len(strings.Split(tail, "\n")); got > stderrTailLines {
		t.Errorf("tail holds %d lines, want at most %d", got, stderrTailLines)
	}
}

func TestStreamStderrNoDuration(t *testing.T) {
	rec := &recordingReporter{}
	runner := &StreamRunner{rep: rec}

	input := "frame=  100 time=00:00:30.00 speed=2x\r"
	runner.streamStderr(strings.NewReader(input), "decode", 0)

	if len(rec.progress) != 0 {
		t.Errorf("progress must be suppressed when total duration is unknown, got %d events", len(rec.progress))
	}
	if len(rec.lines) != 1 {
		t.Errorf("tool output must still be forwarded, got %d lines", len(rec.lines))
	}
}

func TestStreamStderrPercentCapped(t *testing.T) {
	rec := &recordingReporter{}
	runner := &StreamRunner{rep: rec}

	input := "time=00:10:00.00\r"
	runner.streamStderr(strings.NewReader(input), "encode", 30)

	if len(rec.progress) != 1 || rec.progress[0].Percent != 100 {
		t.Errorf("percent must cap at 100, got %+v", rec.progress)
	}
}

func TestNewStreamRunnerNilReporter(t *testing.T) {
	r := NewStreamRunner(nil)
	if r.rep == nil {
		t.Fatal("nil reporter must be replaced with a NullReporter")
	}
}
