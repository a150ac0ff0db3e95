// Package transcode provides one-shot conversion helpers: full conversion,
// short preview clips and single-frame extraction.
package transcode

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/vidmend/vidmend/internal/analyzer"
	"github.com/vidmend/vidmend/internal/config"
	"github.com/vidmend/vidmend/internal/errors"
	"github.com/vidmend/vidmend/internal/ffmpeg"
	"github.com/vidmend/vidmend/internal/logging"
	"github.com/vidmend/vidmend/internal/reporter"
	"github.com/vidmend/vidmend/internal/util"
)

// previewSkipSecs is skipped from the start of long files so previews do not
// open on studio logos or black lead-in.
const previewSkipSecs = 5.0

// previewEndMargin keeps a shrunk preview short of the file end, where the
// final packets are often truncated.
const previewEndMargin = 0.5

// frameEndMargin keeps frame extraction away from the very last instant,
// where seeking past the final packet yields nothing.
const frameEndMargin = 0.1

// ConvertRequest describes a full conversion.
type ConvertRequest struct {
	Input   string
	Output  string
	Options ffmpeg.ConvertOptions

	// DeleteOriginal removes the input after a verified conversion.
	DeleteOriginal bool
}

// Engine runs one-shot transcodes. Like the repair engine, the prober and
// runner are injectable.
type Engine struct {
	cfg    *config.Config
	prober analyzer.Prober
	runner ffmpeg.Runner
	rep    reporter.Reporter
}

// New creates a transcode engine. A nil reporter becomes a NullReporter, a
// nil runner the production StreamRunner.
func New(cfg *config.Config, prober analyzer.Prober, runner ffmpeg.Runner, rep reporter.Reporter) *Engine {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	if runner == nil {
		runner = ffmpeg.NewStreamRunner(rep)
	}
	return &Engine{cfg: cfg, prober: prober, runner: runner, rep: rep}
}

// Convert re-encodes input into output with the requested options.
func (e *Engine) Convert(ctx context.Context, req ConvertRequest) error {
	if err := e.cfg.RequireFFmpeg(); err != nil {
		return err
	}
	if !util.FileExists(req.Input) {
		return errors.NewNotFoundError(req.Input)
	}

	// Duration only feeds progress estimation; a failed probe degrades to
	// progress-free output.
	var duration float64
	if desc, err := e.prober.Probe(ctx, req.Input); err == nil && desc.DurationKnown() {
		duration = *desc.Duration
	}

	e.rep.StageStarted("convert", "converting "+util.GetFilename(req.Input))
	args := ffmpeg.ConvertArgs(req.Input, req.Output, req.Options)
	if err := e.runner.Run(ctx, e.cfg.FFmpegPath, args, "convert", duration); err != nil {
		if errors.IsCancelled(err) {
			return err
		}
		return errors.NewStageFailureError("convert", err)
	}
	if !util.NonEmptyFile(req.Output) {
		return errors.NewStageFailureError("convert", fmt.Errorf("empty output: %s", req.Output))
	}

	if req.DeleteOriginal && req.Output != req.Input {
		if err := os.Remove(req.Input); err != nil {
			logging.Warn("could not delete original after conversion", "path", req.Input, "error", err)
		}
	}

	e.rep.OperationComplete("converted to " + util.GetFilename(req.Output))
	return nil
}

// Preview extracts a short clip of lengthSecs (the default length when zero
// or negative). Files without a determinable duration are rejected.
func (e *Engine) Preview(ctx context.Context, input, output string, lengthSecs float64) error {
	if err := e.cfg.RequireFFmpeg(); err != nil {
		return err
	}
	if err := e.cfg.RequireFFprobe(); err != nil {
		return err
	}
	if !util.FileExists(input) {
		return errors.NewNotFoundError(input)
	}

	desc, err := e.prober.Probe(ctx, input)
	if err != nil {
		return err
	}
	if !desc.DurationKnown() {
		return errors.NewDurationError(input)
	}
	duration := *desc.Duration

	if lengthSecs <= 0 {
		lengthSecs = config.DefaultPreviewSeconds
	}

	// Skip the lead-in when the file is long enough to afford it.
	var start float64
	if duration > lengthSecs+previewSkipSecs {
		start = previewSkipSecs
	}
	if start+lengthSecs > duration {
		lengthSecs = math.Max(1, duration-previewEndMargin)
	}

	e.rep.StageStarted("preview", fmt.Sprintf("extracting %.0fs preview", lengthSecs))
	args := ffmpeg.PreviewArgs(input, output, start, lengthSecs)
	if err := e.runner.Run(ctx, e.cfg.FFmpegPath, args, "preview", lengthSecs); err != nil {
		if errors.IsCancelled(err) {
			return err
		}
		return errors.NewStageFailureError("preview", err)
	}
	if !util.NonEmptyFile(output) {
		return errors.NewStageFailureError("preview", fmt.Errorf("empty output: %s", output))
	}

	e.rep.OperationComplete("preview written to " + util.GetFilename(output))
	return nil
}

// ExtractFrame grabs one frame at the file's midpoint. Files without a
// determinable duration are rejected.
func (e *Engine) ExtractFrame(ctx context.Context, input, output string) error {
	if err := e.cfg.RequireFFmpeg(); err != nil {
		return err
	}
	if err := e.cfg.RequireFFprobe(); err != nil {
		return err
	}
	if !util.FileExists(input) {
		return errors.NewNotFoundError(input)
	}

	desc, err := e.prober.Probe(ctx, input)
	if err != nil {
		return err
	}
	if !desc.DurationKnown() {
		return errors.NewDurationError(input)
	}
	at := clampFramePosition(*desc.Duration)

	e.rep.StageStarted("frame", fmt.Sprintf("extracting frame at %.2fs", at))
	args := ffmpeg.ExtractFrameArgs(input, output, at)
	if err := e.runner.Run(ctx, e.cfg.FFmpegPath, args, "frame", 0); err != nil {
		if errors.IsCancelled(err) {
			return err
		}
		return errors.NewStageFailureError("frame", err)
	}
	if !util.NonEmptyFile(output) {
		return errors.NewStageFailureError("frame", fmt.Errorf("empty output: %s", output))
	}

	e.rep.OperationComplete("frame written to " + util.GetFilename(output))
	return nil
}

// clampFramePosition places the extraction point at the midpoint, clamped to
// [0, duration-margin] so very short files still yield a frame.
func clampFramePosition(duration float64) float64 {
	at := duration / 2
	if at > duration-frameEndMargin {
		at = duration - frameEndMargin
	}
	if at < 0 {
		at = 0
	}
	return at
}
