// Package repair implements the two-stage re-encode pipeline that turns a
// flagged file into a known-good representation: decode everything to raw
// frames, then re-encode from scratch with forced output parameters.
package repair

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vidmend/vidmend/internal/analyzer"
	"github.com/vidmend/vidmend/internal/config"
	"github.com/vidmend/vidmend/internal/errors"
	"github.com/vidmend/vidmend/internal/ffmpeg"
	"github.com/vidmend/vidmend/internal/logging"
	"github.com/vidmend/vidmend/internal/reporter"
	"github.com/vidmend/vidmend/internal/util"
)

// Stage names used in progress events and failure messages.
const (
	StageDecode = "decode"
	StageEncode = "encode"
)

// rawBytesPerPixel is the storage cost of one yuv420p pixel in the raw
// intermediate (12 bits per pixel).
const rawBytesPerPixel = 1.5

// Result describes the outcome of a successful repair attempt.
type Result struct {
	InputFile  string
	OutputFile string

	// AlreadyCompliant is set when analysis found nothing to repair and
	// the pipeline was skipped entirely.
	AlreadyCompliant bool

	// Replaced reports whether the repaired file was swapped in place of
	// the original.
	Replaced bool

	OriginalSize uint64
	RepairedSize uint64

	Tier      config.Tier
	Params    config.TierParams
	TotalTime time.Duration

	// ResidualIssues holds advisory findings from re-analyzing the output.
	// Non-empty residuals never fail the repair.
	ResidualIssues []string
}

// Engine drives the repair pipeline. Tool paths come from the config; the
// prober and runner are injectable so the pipeline can be exercised without
// external binaries.
type Engine struct {
	cfg    *config.Config
	prober analyzer.Prober
	runner ffmpeg.Runner
	rep    reporter.Reporter
	temps  *util.TempTracker
}

// New creates a repair engine. A nil reporter is replaced with a
// NullReporter; a nil runner with the production StreamRunner.
func New(cfg *config.Config, prober analyzer.Prober, runner ffmpeg.Runner, rep reporter.Reporter) *Engine {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	if runner == nil {
		runner = ffmpeg.NewStreamRunner(rep)
	}
	return &Engine{
		cfg:    cfg,
		prober: prober,
		runner: runner,
		rep:    rep,
		temps:  util.NewTempTracker(),
	}
}

// Repair re-encodes input through the two-stage pipeline. On success the
// repaired file either replaces the original (config.ReplaceOriginal) or
// sits next to it with a "_fixed" suffix. Stage failures leave the original
// untouched; temp artifacts are removed on every exit path.
func (e *Engine) Repair(ctx context.Context, input string) (*Result, error) {
	start := time.Now()

	if err := e.cfg.RequireFFmpeg(); err != nil {
		return nil, err
	}
	if err := e.cfg.RequireFFprobe(); err != nil {
		return nil, err
	}
	if !util.FileExists(input) {
		return nil, errors.NewNotFoundError(input)
	}

	defer func() {
		if err := e.temps.Cleanup(); err != nil {
			logging.Warn("temp cleanup incomplete", "error", err)
		}
	}()

	desc, err := e.prober.Probe(ctx, input)
	if err != nil {
		return nil, err
	}

	tier := e.cfg.Quality
	params := tier.Params()

	issues := analyzer.Analyze(desc)
	if issues.Compliant() {
		e.rep.OperationComplete(util.GetFilename(input) + " is already compliant, nothing to repair")
		return &Result{
			InputFile:        input,
			OutputFile:       input,
			AlreadyCompliant: true,
			Tier:             tier,
			Params:           params,
			TotalTime:        time.Since(start),
		}, nil
	}

	// Encode parameters fall back to safe defaults when the probe could
	// not determine them. The fallbacks are never reported as detected.
	width, height := config.FallbackWidth, config.FallbackHeight
	if desc.Width != nil && desc.Height != nil && *desc.Width > 0 && *desc.Height > 0 {
		width, height = *desc.Width, *desc.Height
	}
	fps := config.FallbackFPS
	if desc.FrameRate != nil && *desc.FrameRate > 0 {
		fps = *desc.FrameRate
	}
	var duration float64
	if desc.DurationKnown() {
		duration = *desc.Duration
	}

	originalSize, _ := util.GetFileSize(input)

	dir := filepath.Dir(input)
	if err := e.checkDiskSpace(dir, width, height, fps, duration); err != nil {
		return nil, err
	}

	stem := util.GetFileStem(input)
	rawPath, err := e.temps.Create(dir, stem+"_raw_", ".yuv")
	if err != nil {
		return nil, errors.NewIOError("could not create raw intermediate", err)
	}

	e.rep.StageStarted(StageDecode, "decoding video stream to raw frames")
	logging.Debug("stage 1 decode", "input", input, "raw", rawPath)
	if err := e.runner.Run(ctx, e.cfg.FFmpegPath, ffmpeg.DecodeToRawArgs(input, rawPath), StageDecode, duration); err != nil {
		if errors.IsCancelled(err) {
			return nil, err
		}
		return nil, errors.NewStageFailureError(StageDecode, err)
	}

	// In replace mode the encode target only lives until the swap, so it
	// gets a unique temp name; a fixed name could clobber an unrelated
	// file sitting next to the original.
	var fixed string
	if e.cfg.ReplaceOriginal {
		fixed, err = e.temps.Create(dir, stem+"_fix_", ".mp4")
		if err != nil {
			return nil, errors.NewIOError("could not create encode target", err)
		}
	} else {
		fixed = filepath.Join(dir, stem+"_fixed.mp4")
		e.temps.Track(fixed)
	}

	e.rep.StageStarted(StageEncode, fmt.Sprintf("re-encoding at %dx%d, %s/%s", width, height, params.Preset, params.CRF))
	logging.Debug("stage 2 encode", "output", fixed, "tier", tier, "fps", fps)
	encodeArgs := ffmpeg.EncodeFromRawArgs(rawPath, input, fixed, width, height, fps, params)
	if err := e.runner.Run(ctx, e.cfg.FFmpegPath, encodeArgs, StageEncode, duration); err != nil {
		if errors.IsCancelled(err) {
			return nil, err
		}
		return nil, errors.NewStageFailureError(StageEncode, err)
	}

	if !util.NonEmptyFile(fixed) {
		return nil, errors.NewStageFailureError(StageEncode, fmt.Errorf("empty output: %s", fixed))
	}

	// Best-effort: the raw intermediate is large, drop it as soon as the
	// encode is verified. Failure here is logged, never fatal.
	if err := e.temps.Remove(rawPath); err != nil {
		logging.Warn("could not remove raw intermediate", "path", rawPath, "error", err)
	}

	repairedSize, _ := util.GetFileSize(fixed)
	residual := e.reAnalyze(ctx, fixed)

	outPath := fixed
	replaced := false
	if e.cfg.ReplaceOriginal {
		if err := e.replaceOriginal(input, fixed); err != nil {
			// Do not destroy a valid re-encode just because the swap
			// failed. Untracking keeps it out of the deferred cleanup.
			e.temps.Untrack(fixed)
			logging.Warn("repaired file preserved after failed replace", "path", fixed)
			return nil, err
		}
		outPath = input
		replaced = true
	}
	e.temps.Untrack(fixed)

	result := &Result{
		InputFile:      input,
		OutputFile:     outPath,
		Replaced:       replaced,
		OriginalSize:   originalSize,
		RepairedSize:   repairedSize,
		Tier:           tier,
		Params:         params,
		TotalTime:      time.Since(start),
		ResidualIssues: residual,
	}

	e.rep.RepairComplete(reporter.RepairOutcome{
		InputFile:    input,
		OutputFile:   outPath,
		OriginalSize: originalSize,
		RepairedSize: repairedSize,
		Tier:         tier.String(),
		Params:       params.String(),
		TotalTime:    result.TotalTime,
		Replaced:     replaced,
	})

	return result, nil
}

// reAnalyze re-runs the compatibility check on the repaired file. The check
// is advisory: persistent issues produce a warning, never a failure.
func (e *Engine) reAnalyze(ctx context.Context, path string) []string {
	desc, err := e.prober.Probe(ctx, path)
	if err != nil {
		e.rep.Warning("could not re-check repaired file: " + err.Error())
		return nil
	}
	issues := analyzer.Analyze(desc)
	if issues.Compliant() {
		return nil
	}
	all := issues.All()
	e.rep.Warning(fmt.Sprintf("repaired file still reports %d issue(s): %s", len(all), all[0]))
	return all
}

// replaceOriginal swaps the repaired file in place of the original. The
// original is never lost: when it cannot be deleted it is renamed to a
// backup path, which stays on disk as a safety net.
func (e *Engine) replaceOriginal(original, fixed string) error {
	if err := os.Remove(original); err != nil {
		bak := util.BackupPath(original)
		if mvErr := util.MoveFile(original, bak); mvErr != nil {
			return errors.NewReplaceFailureError("could not remove or back up original", mvErr)
		}
		logging.Info("original preserved as backup", "path", bak)
	}
	if err := util.MoveFile(fixed, original); err != nil {
		return errors.NewReplaceFailureError("could not move repaired file into place", err)
	}
	return nil
}

// checkDiskSpace fails early when the volume clearly cannot hold the raw
// intermediate. Skipped when the duration is unknown or the platform offers
// no free-space query.
func (e *Engine) checkDiskSpace(dir string, width, height int, fps, duration float64) error {
	if duration <= 0 {
		return nil
	}
	required := uint64(float64(width*height) * rawBytesPerPixel * fps * duration)
	free, ok := freeDiskSpace(dir)
	if !ok {
		return nil
	}
	if free < required {
		return errors.NewIOError(fmt.Sprintf(
			"insufficient disk space for raw intermediate: need about %s, %s free",
			util.FormatBytes(required), util.FormatBytes(free)), nil)
	}
	return nil
}
