// Package config provides configuration types and defaults for vidmend.
package config

import (
	"os/exec"
	"strings"

	"github.com/vidmend/vidmend/internal/errors"
)

// Default constants.
const (
	// FallbackWidth is the encode-parameter width used when the original's
	// dimensions cannot be determined. It is never reported as detected.
	FallbackWidth = 1920

	// FallbackHeight is the encode-parameter height fallback.
	FallbackHeight = 1080

	// FallbackFPS is the encode-parameter frame rate fallback.
	FallbackFPS = 30.0

	// OutputAudioCodec is the audio codec forced on every repair encode.
	OutputAudioCodec = "aac"

	// OutputAudioBitrate is the audio bitrate forced on every repair encode.
	OutputAudioBitrate = "128k"

	// OutputAudioSampleRate is the audio sample rate forced on every repair encode.
	OutputAudioSampleRate = "44100"

	// OutputPixelFormat is the pixel format forced on every repair encode.
	OutputPixelFormat = "yuv420p"

	// OutputColorSpace is the color primaries/transfer/matrix forced on output.
	OutputColorSpace = "bt709"

	// DefaultPreviewSeconds is the default preview clip length.
	DefaultPreviewSeconds = 10.0
)

// Tier is a named quality preset for the repair encode.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// TierParams holds the deterministic encode parameters of a quality tier.
// Bitrate is left unconstrained in every tier; CRF controls quality.
type TierParams struct {
	Preset string
	CRF    string
}

// String renders the parameters for display and record keeping.
func (p TierParams) String() string {
	return "preset " + p.Preset + ", crf " + p.CRF
}

var tierParams = map[Tier]TierParams{
	TierHigh:   {Preset: "slow", CRF: "18"},
	TierMedium: {Preset: "medium", CRF: "23"},
	TierLow:    {Preset: "ultrafast", CRF: "28"},
}

// ParseTier maps a string onto a Tier. Unknown values fall back to medium
// silently; the repair contract demands that bogus tiers never fail.
func ParseTier(s string) Tier {
	switch Tier(strings.ToLower(s)) {
	case TierLow:
		return TierLow
	case TierHigh:
		return TierHigh
	default:
		return TierMedium
	}
}

// Params returns the encode parameters for the tier, falling back to medium
// for anything unrecognized.
func (t Tier) Params() TierParams {
	if p, ok := tierParams[t]; ok {
		return p
	}
	return tierParams[TierMedium]
}

// String returns the tier name.
func (t Tier) String() string {
	return string(t)
}

// Config is the explicit context object handed to the prober, analyzer and
// repair engine. Tool paths are resolved once, at construction.
type Config struct {
	// FFmpegPath is the resolved ffmpeg binary path, empty when unavailable.
	FFmpegPath string `yaml:"ffmpeg_path"`

	// FFprobePath is the resolved ffprobe binary path, empty when unavailable.
	FFprobePath string `yaml:"ffprobe_path"`

	// Quality selects the repair encode tier.
	Quality Tier `yaml:"quality"`

	// ReplaceOriginal makes repairs swap the new file in place of the source.
	ReplaceOriginal bool `yaml:"replace_original"`

	// Recursive extends folder scans into subdirectories.
	Recursive bool `yaml:"recursive"`

	// LogDir receives the per-run session log. Empty disables file logging.
	LogDir string `yaml:"log_dir"`

	// Verbose enables debug-level logging.
	Verbose bool `yaml:"verbose"`
}

// NewConfig returns a Config with defaults applied and tool paths resolved
// from PATH.
func NewConfig() *Config {
	cfg := &Config{
		Quality:         TierMedium,
		ReplaceOriginal: true,
	}
	cfg.ResolveTools()
	return cfg
}

// ResolveTools looks up ffmpeg and ffprobe in PATH, recording what it finds.
// Missing tools leave the corresponding path empty; operations needing them
// fail per-call with ToolUnavailable.
func (c *Config) ResolveTools() {
	if c.FFmpegPath == "" {
		if p, err := exec.LookPath("ffmpeg"); err == nil {
			c.FFmpegPath = p
		}
	}
	if c.FFprobePath == "" {
		if p, err := exec.LookPath("ffprobe"); err == nil {
			c.FFprobePath = p
		}
	}
}

// HasFFmpeg reports whether an ffmpeg binary was resolved.
func (c *Config) HasFFmpeg() bool { return c.FFmpegPath != "" }

// HasFFprobe reports whether an ffprobe binary was resolved.
func (c *Config) HasFFprobe() bool { return c.FFprobePath != "" }

// RequireFFmpeg returns a ToolUnavailable error when ffmpeg is missing.
func (c *Config) RequireFFmpeg() error {
	if !c.HasFFmpeg() {
		return errors.NewToolUnavailableError("ffmpeg")
	}
	return nil
}

// RequireFFprobe returns a ToolUnavailable error when ffprobe is missing.
func (c *Config) RequireFFprobe() error {
	if !c.HasFFprobe() {
		return errors.NewToolUnavailableError("ffprobe")
	}
	return nil
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	switch c.Quality {
	case TierLow, TierMedium, TierHigh:
	default:
		return errors.NewConfigError("quality must be one of low, medium, high")
	}
	return nil
}
