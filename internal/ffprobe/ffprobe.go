// Package ffprobe extracts media information using the ffprobe tool.
package ffprobe

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"

	"github.com/vidmend/vidmend/internal/errors"
	"github.com/vidmend/vidmend/internal/util"
)

// AmbientViewingEnvironment is the side-data type that single-pass re-encoding
// cannot strip and that motivates the two-stage repair.
const AmbientViewingEnvironment = "Ambient viewing environment"

// MediaDescriptor is an immutable snapshot of one file's technical properties.
// Numeric fields are pointers: nil means the source data did not carry the
// value, which downstream code must treat as unknown, never as a failure.
// String fields use "" for unknown.
type MediaDescriptor struct {
	Duration             *float64
	Width                *int
	Height               *int
	Codec                string
	PixelFormat          string
	ColorSpace           string
	FrameRate            *float64
	VideoBitrateKbps     *int
	AudioCodec           string
	AudioBitrateKbps     *int
	HasAmbientViewingEnv bool
}

// Resolution returns "WIDTHxHEIGHT" or "unknown" when either side is unset.
func (d *MediaDescriptor) Resolution() string {
	if d.Width == nil || d.Height == nil {
		return "unknown"
	}
	return strconv.Itoa(*d.Width) + "x" + strconv.Itoa(*d.Height)
}

// DurationKnown reports whether a usable duration was determined.
// A duration of zero or less counts as undeterminable.
func (d *MediaDescriptor) DurationKnown() bool {
	return d.Duration != nil && *d.Duration > 0
}

// probeOutput represents the JSON output from ffprobe.
type probeOutput struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

type probeStream struct {
	CodecType    string          `json:"codec_type"`
	CodecName    string          `json:"codec_name"`
	Width        int             `json:"width"`
	Height       int             `json:"height"`
	PixFmt       string          `json:"pix_fmt"`
	ColorSpace   string          `json:"color_space"`
	RFrameRate   string          `json:"r_frame_rate"`
	BitRate      string          `json:"bit_rate"`
	Duration     string          `json:"duration"`
	SideDataList []probeSideData `json:"side_data_list"`
}

type probeSideData struct {
	SideDataType string `json:"side_data_type"`
}

// Prober invokes ffprobe against files. The zero value is not usable; create
// one with New so the tool path is resolved exactly once.
type Prober struct {
	path string
}

// New creates a Prober bound to the given ffprobe binary path.
func New(path string) *Prober {
	return &Prober{path: path}
}

// Probe inspects path and returns its MediaDescriptor. The tool is invoked
// twice: once for the stream/format summary and once with side-channel data
// visibility. A failure of the second, heavier invocation is tolerated and
// only leaves side-data fields unset.
func (p *Prober) Probe(ctx context.Context, path string) (*MediaDescriptor, error) {
	if !util.FileExists(path) {
		return nil, errors.NewNotFoundError(path)
	}

	out, err := p.run(ctx, path, false)
	if err != nil {
		return nil, err
	}

	desc := extractDescriptor(out)

	if full, err := p.run(ctx, path, true); err == nil {
		desc.HasAmbientViewingEnv = hasAmbientSideData(full)
	}

	return desc, nil
}

// run executes ffprobe and parses its JSON output.
func (p *Prober) run(ctx context.Context, path string, withSideData bool) (*probeOutput, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
	}
	if withSideData {
		args = append(args, "-show_data")
	}
	args = append(args, path)

	cmd := exec.CommandContext(ctx, p.path, args...)
	output, err := cmd.Output()
	if err != nil {
		stderr := ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		return nil, errors.NewProbeFailureError("ffprobe failed",
			errors.WrapExecError(p.path, err, stderr))
	}

	return parseProbeOutput(output)
}

// parseProbeOutput decodes raw ffprobe JSON.
func parseProbeOutput(data []byte) (*probeOutput, error) {
	var result probeOutput
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.NewProbeFailureError("unparsable ffprobe output",
			errors.NewJSONParseError("decoding ffprobe JSON", err))
	}
	return &result, nil
}

// extractDescriptor builds a MediaDescriptor from parsed probe output.
// Only the first video stream and first audio stream are authoritative.
func extractDescriptor(probe *probeOutput) *MediaDescriptor {
	desc := &MediaDescriptor{}

	video := firstStream(probe, "video")
	audio := firstStream(probe, "audio")

	if video != nil {
		if video.Width > 0 {
			w := video.Width
			desc.Width = &w
		}
		if video.Height > 0 {
			h := video.Height
			desc.Height = &h
		}
		desc.Codec = video.CodecName
		desc.PixelFormat = video.PixFmt
		desc.ColorSpace = video.ColorSpace

		if fps, ok := util.ParseRational(video.RFrameRate); ok {
			desc.FrameRate = &fps
		}
		if kbps, ok := parseBitrateKbps(video.BitRate); ok {
			desc.VideoBitrateKbps = &kbps
		}
	}

	if audio != nil {
		desc.AudioCodec = audio.CodecName
		if kbps, ok := parseBitrateKbps(audio.BitRate); ok {
			desc.AudioBitrateKbps = &kbps
		}
	}

	// Duration from the video stream first, container fallback.
	if video != nil {
		if d, err := strconv.ParseFloat(video.Duration, 64); err == nil {
			desc.Duration = &d
		}
	}
	if desc.Duration == nil && probe.Format.Duration != "" {
		if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
			desc.Duration = &d
		}
	}

	return desc
}

// firstStream returns the first stream of the given codec type, or nil.
func firstStream(probe *probeOutput, codecType string) *probeStream {
	for i := range probe.Streams {
		if probe.Streams[i].CodecType == codecType {
			return &probe.Streams[i]
		}
	}
	return nil
}

// hasAmbientSideData reports whether any video stream carries an ambient
// viewing environment side-data block.
func hasAmbientSideData(probe *probeOutput) bool {
	for _, stream := range probe.Streams {
		if stream.CodecType != "video" {
			continue
		}
		for _, sd := range stream.SideDataList {
			if sd.SideDataType == AmbientViewingEnvironment {
				return true
			}
		}
	}
	return false
}

// parseBitrateKbps converts ffprobe's bits-per-second string to kbps.
func parseBitrateKbps(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	bps, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(bps / 1000), true
}
