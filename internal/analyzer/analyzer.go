// Package analyzer classifies probed streams as compliant or flagged for a
// downstream frame-accessing video library.
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/vidmend/vidmend/internal/ffprobe"
)

// Codec and format allowlists. Anything outside these sets is reported as
// likely incompatible; absent fields are never evidence of incompatibility.
var (
	problemVideoCodecs = map[string]bool{
		"hevc": true,
		"h265": true,
		"av1":  true,
		"vp9":  true,
	}

	safePixelFormats = map[string]bool{
		"yuv420p":  true,
		"yuvj420p": true,
		"rgb24":    true,
		"bgr24":    true,
	}

	safeColorSpaces = map[string]bool{
		"bt709":     true,
		"bt601":     true,
		"bt470bg":   true,
		"smpte170m": true,
	}

	safeAudioCodecs = map[string]bool{
		"aac":       true,
		"mp3":       true,
		"pcm_s16le": true,
	}
)

// IssueList holds diagnostic strings per stream type. Ordering matters only
// for display; any entry in either list makes the aggregate verdict
// non-compliant.
type IssueList struct {
	Video []string
	Audio []string
}

// Compliant reports whether both issue sequences are empty.
func (l IssueList) Compliant() bool {
	return len(l.Video) == 0 && len(l.Audio) == 0
}

// All returns video issues followed by audio issues.
func (l IssueList) All() []string {
	out := make([]string, 0, len(l.Video)+len(l.Audio))
	out = append(out, l.Video...)
	out = append(out, l.Audio...)
	return out
}

// Prober is the subset of the media prober the analyzer needs.
type Prober interface {
	Probe(ctx context.Context, path string) (*ffprobe.MediaDescriptor, error)
}

// Analyzer applies the compatibility heuristics.
type Analyzer struct {
	prober Prober
}

// New creates an Analyzer backed by the given prober.
func New(prober Prober) *Analyzer {
	return &Analyzer{prober: prober}
}

// AnalyzeFile probes path and classifies its streams. A probe failure is
// returned as an error and must be treated by callers as its own terminal
// status, distinct from both compliant and flagged.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (IssueList, error) {
	desc, err := a.prober.Probe(ctx, path)
	if err != nil {
		return IssueList{}, err
	}
	return Analyze(desc), nil
}

// Analyze evaluates every heuristic against the descriptor and reports all
// matches. Rules are independent; no rule short-circuits another.
func Analyze(desc *ffprobe.MediaDescriptor) IssueList {
	var issues IssueList

	if codec := strings.ToLower(desc.Codec); problemVideoCodecs[codec] {
		issues.Video = append(issues.Video,
			fmt.Sprintf("video uses %s encoding, which is likely incompatible", strings.ToUpper(codec)))
	}

	if pf := strings.ToLower(desc.PixelFormat); pf != "" && !safePixelFormats[pf] {
		issues.Video = append(issues.Video,
			fmt.Sprintf("video uses %s pixel format, which is likely incompatible", pf))
	}

	if cs := strings.ToLower(desc.ColorSpace); cs != "" && !safeColorSpaces[cs] {
		issues.Video = append(issues.Video,
			fmt.Sprintf("video uses %s color space, which is likely incompatible", cs))
	}

	if desc.HasAmbientViewingEnv {
		issues.Video = append(issues.Video,
			"video carries ambient viewing environment metadata, which is likely incompatible")
	}

	if ac := strings.ToLower(desc.AudioCodec); ac != "" && !safeAudioCodecs[ac] {
		issues.Audio = append(issues.Audio,
			fmt.Sprintf("audio uses %s encoding, which is likely incompatible", ac))
	}

	return issues
}
