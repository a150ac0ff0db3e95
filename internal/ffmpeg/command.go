// Package ffmpeg builds and runs ffmpeg command lines.
package ffmpeg

import (
	"fmt"
	"strconv"

	"github.com/vidmend/vidmend/internal/config"
)

// DecodeToRawArgs builds the stage-1 command: decode the video stream to an
// uncompressed, container-free representation, dropping audio, subtitles and
// every side-channel metadata block along the way.
func DecodeToRawArgs(input, rawOut string) []string {
	return []string{
		"-y",
		"-i", input,
		"-an",
		"-sn",
		"-f", "rawvideo",
		"-pix_fmt", config.OutputPixelFormat,
		rawOut,
	}
}

// EncodeFromRawArgs builds the stage-2 command: re-encode from the raw
// intermediate, muxing audio back in by reference from the original file.
// The raw input carries no dimensions or timing, so they must be supplied.
func EncodeFromRawArgs(rawIn, original, output string, width, height int, fps float64, params config.TierParams) []string {
	return []string{
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", config.OutputPixelFormat,
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", formatFPS(fps),
		"-i", rawIn,
		"-i", original,
		"-map", "0:v",
		"-map", "1:a?",
		"-c:v", "libx264",
		"-preset", params.Preset,
		"-crf", params.CRF,
		"-pix_fmt", config.OutputPixelFormat,
		"-color_primaries", config.OutputColorSpace,
		"-color_trc", config.OutputColorSpace,
		"-colorspace", config.OutputColorSpace,
		"-c:a", config.OutputAudioCodec,
		"-b:a", config.OutputAudioBitrate,
		"-ar", config.OutputAudioSampleRate,
		"-movflags", "+faststart",
		output,
	}
}

// ConvertOptions is the fixed options contract for single-pass conversion.
type ConvertOptions struct {
	VideoCodec string      // defaults to libx264
	AudioCodec string      // defaults to aac
	Quality    config.Tier // tier controls preset and CRF
	KeepAudio  bool
	Resize     string // "WIDTHxHEIGHT", empty keeps the original size
}

// ConvertArgs builds a single-pass conversion command with color-space
// normalization. No decision logic lives here; callers choose the options.
func ConvertArgs(input, output string, opts ConvertOptions) []string {
	videoCodec := opts.VideoCodec
	if videoCodec == "" {
		videoCodec = "libx264"
	}
	audioCodec := opts.AudioCodec
	if audioCodec == "" {
		audioCodec = config.OutputAudioCodec
	}
	params := opts.Quality.Params()

	args := []string{
		"-y",
		"-i", input,
		"-c:v", videoCodec,
		"-preset", params.Preset,
		"-crf", params.CRF,
		"-pix_fmt", config.OutputPixelFormat,
		"-color_primaries", config.OutputColorSpace,
		"-color_trc", config.OutputColorSpace,
		"-colorspace", config.OutputColorSpace,
	}

	if opts.KeepAudio {
		args = append(args,
			"-c:a", audioCodec,
			"-b:a", config.OutputAudioBitrate,
			"-ar", config.OutputAudioSampleRate,
		)
	} else {
		args = append(args, "-an")
	}

	if opts.Resize != "" {
		args = append(args, "-vf", "scale="+opts.Resize)
	}

	return append(args, output)
}

// PreviewArgs builds a command extracting a short clip starting at startSecs.
func PreviewArgs(input, output string, startSecs, durationSecs float64) []string {
	return []string{
		"-y",
		"-ss", formatSecs(startSecs),
		"-i", input,
		"-t", formatSecs(durationSecs),
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-crf", "23",
		"-pix_fmt", config.OutputPixelFormat,
		"-color_primaries", config.OutputColorSpace,
		"-color_trc", config.OutputColorSpace,
		"-colorspace", config.OutputColorSpace,
		"-c:a", config.OutputAudioCodec,
		"-b:a", config.OutputAudioBitrate,
		output,
	}
}

// ExtractFrameArgs builds a command grabbing one high-quality frame at
// position timeSecs.
func ExtractFrameArgs(input, output string, timeSecs float64) []string {
	return []string{
		"-y",
		"-ss", formatSecs(timeSecs),
		"-i", input,
		"-vframes", "1",
		"-q:v", "2",
		output,
	}
}

// formatFPS renders a frame rate without trailing zeros (30, 29.97).
func formatFPS(fps float64) string {
	return strconv.FormatFloat(fps, 'f', -1, 64)
}

// formatSecs renders a seconds offset with two-decimal precision.
func formatSecs(secs float64) string {
	return strconv.FormatFloat(secs, 'f', 2, 64)
}
