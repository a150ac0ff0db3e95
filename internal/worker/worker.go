// Package worker drives detection sweeps and batch repairs over the
// registry, one record at a time in list order.
package worker

import (
	"context"
	"time"

	"github.com/vidmend/vidmend/internal/analyzer"
	"github.com/vidmend/vidmend/internal/config"
	"github.com/vidmend/vidmend/internal/errors"
	"github.com/vidmend/vidmend/internal/logging"
	"github.com/vidmend/vidmend/internal/registry"
	"github.com/vidmend/vidmend/internal/repair"
	"github.com/vidmend/vidmend/internal/reporter"
	"github.com/vidmend/vidmend/internal/util"
)

// probeFailureMessage is attached to records whose probe failed; distinct
// from the message of an analyzer-flagged record.
const probeFailureMessage = "could not determine compatibility"

// flaggedMessage is attached to records the analyzer rejected.
const flaggedMessage = "incompatible streams detected"

// Repairer runs one repair attempt. Implemented by repair.Engine; a fake
// stands in for tests.
type Repairer interface {
	Repair(ctx context.Context, input string) (*repair.Result, error)
}

// Worker owns the sequential batch loop. One worker drives a whole batch;
// no two workers may share a registry record.
type Worker struct {
	cfg      *config.Config
	reg      *registry.Registry
	prober   analyzer.Prober
	repairer Repairer
	rep      reporter.Reporter
	log      *logging.Logger
}

// New creates a worker. A nil reporter becomes a NullReporter.
func New(cfg *config.Config, reg *registry.Registry, prober analyzer.Prober, repairer Repairer, rep reporter.Reporter) *Worker {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	return &Worker{
		cfg:      cfg,
		reg:      reg,
		prober:   prober,
		repairer: repairer,
		rep:      rep,
		log:      logging.Global().WithPrefix("worker"),
	}
}

// DetectAll sweeps every tracked record in list order. Each record's
// transition is flushed to the registry before the next record begins; one
// file's failure never aborts the sweep.
func (w *Worker) DetectAll(ctx context.Context) (reporter.BatchSummary, error) {
	start := time.Now()
	paths := w.reg.Paths()

	w.rep.BatchStarted(reporter.BatchStartInfo{
		TotalFiles: len(paths),
		FileList:   filenames(paths),
	})

	var summary reporter.BatchSummary
	summary.TotalFiles = len(paths)

	for i, path := range paths {
		if ctx.Err() != nil {
			return summary, errors.NewCancelledError()
		}

		w.rep.FileStarted(reporter.FileContext{
			CurrentFile: i + 1,
			TotalFiles:  len(paths),
			Filename:    util.GetFilename(path),
		})

		status := w.DetectOne(ctx, path)
		switch status {
		case registry.StatusOK:
			summary.CompliantCount++
		default:
			summary.FlaggedCount++
		}
		summary.FileResults = append(summary.FileResults, reporter.FileResult{
			Filename: util.GetFilename(path),
			Status:   status.String(),
		})
	}

	summary.TotalDuration = time.Since(start)
	w.rep.BatchComplete(summary)
	return summary, nil
}

// DetectOne probes and analyzes a single tracked record, resolving its
// status. Probe failure resolves to error with a generic message, never to
// a fabricated issue list.
func (w *Worker) DetectOne(ctx context.Context, path string) registry.Status {
	if err := w.reg.Transition(path, registry.StatusProcessing); err != nil {
		w.log.Warn("skipping file", "path", path, "error", err)
		return registry.StatusUnknown
	}

	desc, err := w.prober.Probe(ctx, path)
	if err != nil {
		_ = w.reg.MarkError(path, probeFailureMessage, analyzer.IssueList{})
		w.reportDetection(path)
		return registry.StatusError
	}

	_ = w.reg.Update(path, func(rec *registry.VideoRecord) {
		rec.ApplyDescriptor(desc)
	})

	issues := analyzer.Analyze(desc)
	if issues.Compliant() {
		_ = w.reg.MarkOK(path, issues)
		w.reportDetection(path)
		return registry.StatusOK
	}

	_ = w.reg.MarkError(path, flaggedMessage, issues)
	w.reportDetection(path)
	return registry.StatusError
}

func (w *Worker) reportDetection(path string) {
	rec, ok := w.reg.Get(path)
	if !ok {
		return
	}
	w.rep.DetectionResult(reporter.DetectionSummary{
		Filename:    util.GetFilename(rec.Path),
		Status:      rec.Status.String(),
		Resolution:  rec.Resolution(),
		Duration:    rec.DurationString(),
		Codec:       rec.Codec,
		VideoIssues: rec.Issues.Video,
		AudioIssues: rec.Issues.Audio,
	})
}

// FixAll repairs every record currently in the error state, in list order.
// A failed repair returns its record to error and the batch continues.
func (w *Worker) FixAll(ctx context.Context) (reporter.BatchSummary, error) {
	start := time.Now()

	var candidates []string
	for _, rec := range w.reg.List() {
		if rec.Status == registry.StatusError {
			candidates = append(candidates, rec.Path)
		}
	}

	w.rep.BatchStarted(reporter.BatchStartInfo{
		TotalFiles: len(candidates),
		FileList:   filenames(candidates),
	})

	var summary reporter.BatchSummary
	summary.TotalFiles = len(candidates)

	for i, path := range candidates {
		if ctx.Err() != nil {
			return summary, errors.NewCancelledError()
		}

		w.rep.FileStarted(reporter.FileContext{
			CurrentFile: i + 1,
			TotalFiles:  len(candidates),
			Filename:    util.GetFilename(path),
		})

		status, err := w.FixOne(ctx, path)
		if err != nil && errors.IsCancelled(err) {
			return summary, err
		}
		switch status {
		case registry.StatusFixed:
			summary.FixedCount++
		case registry.StatusOK:
			summary.CompliantCount++
		default:
			summary.FailedCount++
		}
		summary.FileResults = append(summary.FileResults, reporter.FileResult{
			Filename: util.GetFilename(path),
			Status:   status.String(),
		})
	}

	summary.TotalDuration = time.Since(start)
	w.rep.BatchComplete(summary)
	return summary, nil
}

// FixOne runs one repair attempt against a tracked record and resolves its
// status. The returned error is non-nil only for cancellation and registry
// misuse; repair failures land on the record.
func (w *Worker) FixOne(ctx context.Context, path string) (registry.Status, error) {
	if err := w.reg.Transition(path, registry.StatusProcessing); err != nil {
		return registry.StatusUnknown, err
	}

	res, err := w.repairer.Repair(ctx, path)
	if err != nil {
		if errors.IsCancelled(err) {
			// Leave the record in error; a cancelled attempt is a failed
			// attempt.
			_ = w.reg.MarkError(path, "repair cancelled", analyzer.IssueList{})
			return registry.StatusError, err
		}
		rec, _ := w.reg.Get(path)
		_ = w.reg.MarkError(path, err.Error(), rec.Issues)
		w.rep.Error(reporter.ReportedError{
			Title:   "repair failed",
			Message: err.Error(),
			Context: path,
		})
		return registry.StatusError, nil
	}

	if res.AlreadyCompliant {
		_ = w.reg.MarkOK(path, analyzer.IssueList{})
		return registry.StatusOK, nil
	}

	_ = w.reg.MarkFixed(path, res.OutputFile, res.Params.String(), time.Now())
	return registry.StatusFixed, nil
}

func filenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = util.GetFilename(p)
	}
	return out
}
