// Package vidmend provides a Go library for detecting and repairing video
// files whose streams (codecs, pixel formats, color spaces, side-channel
// metadata) are likely to be rejected by frame-accessing video consumers.
//
// Flagged files are repaired with a two-stage re-encode: decode to a raw,
// metadata-free intermediate, then re-encode from that intermediate with
// known-good output parameters.
//
// Basic usage:
//
//	session, err := vidmend.New(
//	    vidmend.WithQuality(vidmend.TierHigh),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	session.Add("movie.mp4")
//	summary, err := session.Detect(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d flagged\n", summary.FlaggedCount)
//
//	if _, err := session.FixAll(ctx); err != nil {
//	    log.Fatal(err)
//	}
package vidmend

import (
	"context"
	"time"

	"github.com/vidmend/vidmend/internal/config"
	"github.com/vidmend/vidmend/internal/discovery"
	"github.com/vidmend/vidmend/internal/ffmpeg"
	"github.com/vidmend/vidmend/internal/ffprobe"
	"github.com/vidmend/vidmend/internal/registry"
	"github.com/vidmend/vidmend/internal/repair"
	"github.com/vidmend/vidmend/internal/reporter"
	"github.com/vidmend/vidmend/internal/transcode"
	"github.com/vidmend/vidmend/internal/worker"
)

// Re-export quality tiers.
type Tier = config.Tier

const (
	TierLow    = config.TierLow
	TierMedium = config.TierMedium
	TierHigh   = config.TierHigh
)

// ParseTier converts a tier string to a Tier. Unknown values fall back to
// medium.
func ParseTier(s string) Tier {
	return config.ParseTier(s)
}

// Reporter receives structured progress events. See reporter.Reporter.
type Reporter = reporter.Reporter

// BatchSummary aggregates the outcome of a detection sweep or batch fix.
type BatchSummary = reporter.BatchSummary

// FileRecord is the public snapshot of one tracked file.
type FileRecord struct {
	Path         string
	Status       string
	Resolution   string
	Duration     string
	Codec        string
	VideoIssues  []string
	AudioIssues  []string
	ErrorMessage string
	FixedPath    string
	FixedTime    time.Time
	FixedParams  string
}

// Session tracks a set of video files and drives detection and repair over
// them.
type Session struct {
	cfg *config.Config
	reg *registry.Registry
	rep reporter.Reporter
}

// Option configures a session.
type Option func(*Session)

// WithQuality selects the repair encode tier.
func WithQuality(t Tier) Option {
	return func(s *Session) { s.cfg.Quality = t }
}

// WithReplaceOriginal controls whether repairs swap the new file in place
// of the source. Enabled by default.
func WithReplaceOriginal(replace bool) Option {
	return func(s *Session) { s.cfg.ReplaceOriginal = replace }
}

// WithRecursive extends folder scans into subdirectories.
func WithRecursive() Option {
	return func(s *Session) { s.cfg.Recursive = true }
}

// WithFFmpegPath overrides the ffmpeg binary resolved from PATH.
func WithFFmpegPath(path string) Option {
	return func(s *Session) { s.cfg.FFmpegPath = path }
}

// WithFFprobePath overrides the ffprobe binary resolved from PATH.
func WithFFprobePath(path string) Option {
	return func(s *Session) { s.cfg.FFprobePath = path }
}

// WithReporter directs progress events to rep instead of discarding them.
func WithReporter(rep Reporter) Option {
	return func(s *Session) { s.rep = rep }
}

// New creates a session with the given options.
func New(opts ...Option) (*Session, error) {
	s := &Session{
		cfg: config.NewConfig(),
		reg: registry.New(),
		rep: reporter.NullReporter{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Add tracks a file. Returns false when the path is already tracked.
func (s *Session) Add(path string) bool {
	_, added := s.reg.Add(path)
	return added
}

// AddFolder scans dir for video files (recursively when configured) and
// tracks them all. Returns the number of newly tracked files.
func (s *Session) AddFolder(dir string) (int, error) {
	files, err := discovery.Scan(dir, s.cfg.Recursive)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, f := range files {
		if _, ok := s.reg.Add(f); ok {
			added++
		}
	}
	return added, nil
}

// Records returns public snapshots of all tracked files in insertion order.
func (s *Session) Records() []FileRecord {
	recs := s.reg.List()
	out := make([]FileRecord, len(recs))
	for i, rec := range recs {
		out[i] = publicRecord(rec)
	}
	return out
}

// Record returns the snapshot for one tracked path.
func (s *Session) Record(path string) (FileRecord, bool) {
	rec, ok := s.reg.Get(path)
	if !ok {
		return FileRecord{}, false
	}
	return publicRecord(rec), true
}

// Clear drops every tracked record, resetting the session.
func (s *Session) Clear() {
	s.reg.Clear()
}

// Detect sweeps every tracked file: probe, analyze, resolve status.
func (s *Session) Detect(ctx context.Context) (BatchSummary, error) {
	return s.worker().DetectAll(ctx)
}

// DetectFile tracks path if needed and analyzes just that file.
func (s *Session) DetectFile(ctx context.Context, path string) (FileRecord, error) {
	if err := s.cfg.RequireFFprobe(); err != nil {
		return FileRecord{}, err
	}
	s.reg.Add(path)
	s.worker().DetectOne(ctx, path)
	rec, _ := s.reg.Get(path)
	return publicRecord(rec), nil
}

// FixAll repairs every flagged file in list order. One file's failure does
// not abort the batch.
func (s *Session) FixAll(ctx context.Context) (BatchSummary, error) {
	return s.worker().FixAll(ctx)
}

// FixFile tracks, analyzes and repairs a single file.
func (s *Session) FixFile(ctx context.Context, path string) (FileRecord, error) {
	s.reg.Add(path)
	w := s.worker()
	if w.DetectOne(ctx, path) == registry.StatusOK {
		rec, _ := s.reg.Get(path)
		return publicRecord(rec), nil
	}
	if _, err := w.FixOne(ctx, path); err != nil {
		return FileRecord{}, err
	}
	rec, _ := s.reg.Get(path)
	return publicRecord(rec), nil
}

// ConvertOptions configures a single-pass conversion.
type ConvertOptions struct {
	Quality        Tier
	KeepAudio      bool
	Resize         string // "WIDTHxHEIGHT", empty keeps the original size
	DeleteOriginal bool
}

// Convert runs a single-pass conversion of input into output.
func (s *Session) Convert(ctx context.Context, input, output string, opts ConvertOptions) error {
	eng := transcode.New(s.cfg, s.prober(), nil, s.rep)
	return eng.Convert(ctx, transcode.ConvertRequest{
		Input:  input,
		Output: output,
		Options: ffmpeg.ConvertOptions{
			Quality:   opts.Quality,
			KeepAudio: opts.KeepAudio,
			Resize:    opts.Resize,
		},
		DeleteOriginal: opts.DeleteOriginal,
	})
}

// Preview extracts a short clip from input. A non-positive length selects
// the default.
func (s *Session) Preview(ctx context.Context, input, output string, lengthSecs float64) error {
	eng := transcode.New(s.cfg, s.prober(), nil, s.rep)
	return eng.Preview(ctx, input, output, lengthSecs)
}

// ExtractFrame grabs a single frame from the middle of input.
func (s *Session) ExtractFrame(ctx context.Context, input, output string) error {
	eng := transcode.New(s.cfg, s.prober(), nil, s.rep)
	return eng.ExtractFrame(ctx, input, output)
}

// FindVideos scans a directory for video files without tracking them.
func FindVideos(dir string, recursive bool) ([]string, error) {
	return discovery.Scan(dir, recursive)
}

func (s *Session) prober() *ffprobe.Prober {
	return ffprobe.New(s.cfg.FFprobePath)
}

func (s *Session) worker() *worker.Worker {
	prober := s.prober()
	eng := repair.New(s.cfg, prober, nil, s.rep)
	return worker.New(s.cfg, s.reg, prober, eng, s.rep)
}

func publicRecord(rec registry.VideoRecord) FileRecord {
	out := FileRecord{
		Path:         rec.Path,
		Status:       rec.Status.String(),
		Resolution:   rec.Resolution(),
		Duration:     rec.DurationString(),
		Codec:        rec.Codec,
		VideoIssues:  rec.Issues.Video,
		AudioIssues:  rec.Issues.Audio,
		ErrorMessage: rec.ErrorMessage,
	}
	if rec.Fix != nil {
		out.FixedPath = rec.Fix.Path
		out.FixedTime = rec.Fix.Time
		out.FixedParams = rec.Fix.Params
	}
	return out
}
