package ffmpeg

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"regexp"
	"strings"

	"github.com/vidmend/vidmend/internal/errors"
	"github.com/vidmend/vidmend/internal/reporter"
	"github.com/vidmend/vidmend/internal/util"
)

// stderrTailLines bounds how many recent diagnostic lines are kept for
// error reporting.
const stderrTailLines = 10

var timeRegex = regexp.MustCompile(`time=(\d{2}:\d{2}:\d{2}\.?\d*)`)

// Runner executes an external tool invocation to completion. The interface
// exists so repair and transcode logic can be exercised without ffmpeg.
type Runner interface {
	// Run blocks until the process exits. stage names the operation for
	// progress events; totalDuration (seconds) enables percent estimates,
	// zero disables them.
	Run(ctx context.Context, bin string, args []string, stage string, totalDuration float64) error
}

// StreamRunner runs commands while streaming stderr line-by-line to a
// Reporter. This is the production Runner.
type StreamRunner struct {
	rep reporter.Reporter
}

// NewStreamRunner creates a StreamRunner emitting to rep. A nil rep is
// replaced with a NullReporter.
func NewStreamRunner(rep reporter.Reporter) *StreamRunner {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	return &StreamRunner{rep: rep}
}

// Run executes the command, reading the tool's diagnostic stream until
// end-of-stream. The call blocks until the subprocess exits.
func (r *StreamRunner) Run(ctx context.Context, bin string, args []string, stage string, totalDuration float64) error {
	cmd := exec.CommandContext(ctx, bin, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return errors.NewCommandStartError(bin, err)
	}

	if err := cmd.Start(); err != nil {
		return errors.NewCommandStartError(bin, err)
	}

	tail := r.streamStderr(stderr, stage, totalDuration)

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return errors.NewCancelledError()
		}
		return errors.WrapExecError(bin, err, tail)
	}

	return nil
}

// streamStderr reads the diagnostic stream line-by-line, forwarding each
// line and deriving stage progress from embedded time= markers. ffmpeg
// terminates progress lines with \r, everything else with \n. The returned
// tail holds the most recent lines so the final error text survives long
// runs.
func (r *StreamRunner) streamStderr(stderr io.Reader, stage string, totalDuration float64) string {
	reader := bufio.NewReader(stderr)
	var lineBuf strings.Builder
	var tail []string

	flush := func() {
		line := strings.TrimSpace(lineBuf.String())
		lineBuf.Reset()
		if line == "" {
			return
		}

		tail = append(tail, line)
		if len(tail) > stderrTailLines {
			tail = tail[1:]
		}

		r.rep.ToolOutput(line)

		if totalDuration > 0 {
			if matches := timeRegex.FindStringSubmatch(line); len(matches) >= 2 {
				if secs, ok := util.ParseFFmpegTime(matches[1]); ok {
					percent := float32(secs / totalDuration * 100)
					if percent > 100 {
						percent = 100
					}
					r.rep.StageProgress(reporter.StageProgress{
						Stage:   stage,
						Percent: percent,
						Message: line,
					})
				}
			}
		}
	}

	for {
		b, err := reader.ReadByte()
		if err != nil {
			flush()
			break
		}

		if b == '\r' || b == '\n' {
			flush()
		} else {
			lineBuf.WriteByte(b)
		}
	}

	return strings.Join(tail, "\n")
}
