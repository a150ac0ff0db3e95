package ffprobe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vidmend/vidmend/internal/errors"
)

// loadTestData loads a JSON fixture from the testdata directory.
func loadTestData(t *testing.T, filename string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", filename))
	if err != nil {
		t.Fatalf("failed to load test data %s: %v", filename, err)
	}
	return data
}

func TestParseProbeOutput_Valid(t *testing.T) {
	data := loadTestData(t, "video_h264_aac.json")

	probe, err := parseProbeOutput(data)
	if err != nil {
		t.Fatalf("parseProbeOutput() error = %v", err)
	}

	if probe.Format.Duration != "120.533000" {
		t.Errorf("Format.Duration = %q, want %q", probe.Format.Duration, "120.533000")
	}
	if len(probe.Streams) != 2 {
		t.Fatalf("len(Streams) = %d, want 2", len(probe.Streams))
	}

	video := probe.Streams[0]
	if video.CodecType != "video" {
		t.Errorf("video.CodecType = %q, want %q", video.CodecType, "video")
	}
	if video.Width != 1920 || video.Height != 1080 {
		t.Errorf("dimensions = %dx%d, want 1920x1080", video.Width, video.Height)
	}
	if video.RFrameRate != "30000/1001" {
		t.Errorf("video.RFrameRate = %q, want %q", video.RFrameRate, "30000/1001")
	}
}

func TestParseProbeOutput_MalformedJSON(t *testing.T) {
	data := []byte(`{"format": {"duration": "120.5"}, "streams": [}`)

	_, err := parseProbeOutput(data)
	if err == nil {
		t.Fatal("parseProbeOutput() expected error for malformed JSON, got nil")
	}
	if !errors.IsProbeFailure(err) {
		t.Errorf("expected KindProbeFailure, got %v", err)
	}
}

func TestExtractDescriptor_H264(t *testing.T) {
	data := loadTestData(t, "video_h264_aac.json")
	probe, err := parseProbeOutput(data)
	if err != nil {
		t.Fatalf("parseProbeOutput() error = %v", err)
	}

	desc := extractDescriptor(probe)

	if desc.Width == nil || *desc.Width != 1920 {
		t.Errorf("Width = %v, want 1920", desc.Width)
	}
	if desc.Height == nil || *desc.Height != 1080 {
		t.Errorf("Height = %v, want 1080", desc.Height)
	}
	if desc.Codec != "h264" {
		t.Errorf("Codec = %q, want %q", desc.Codec, "h264")
	}
	if desc.PixelFormat != "yuv420p" {
		t.Errorf("PixelFormat = %q, want %q", desc.PixelFormat, "yuv420p")
	}
	if desc.ColorSpace != "bt709" {
		t.Errorf("ColorSpace = %q, want %q", desc.ColorSpace, "bt709")
	}

	// 30000/1001 rounds to 29.97.
	if desc.FrameRate == nil || *desc.FrameRate != 29.97 {
		t.Errorf("FrameRate = %v, want 29.97", desc.FrameRate)
	}

	// Stream duration wins over the container duration.
	if desc.Duration == nil || *desc.Duration != 120.5 {
		t.Errorf("Duration = %v, want 120.5", desc.Duration)
	}

	if desc.VideoBitrateKbps == nil || *desc.VideoBitrateKbps != 4500 {
		t.Errorf("VideoBitrateKbps = %v, want 4500", desc.VideoBitrateKbps)
	}
	if desc.AudioCodec != "aac" {
		t.Errorf("AudioCodec = %q, want %q", desc.AudioCodec, "aac")
	}
	if desc.AudioBitrateKbps == nil || *desc.AudioBitrateKbps != 128 {
		t.Errorf("AudioBitrateKbps = %v, want 128", desc.AudioBitrateKbps)
	}
	if desc.HasAmbientViewingEnv {
		t.Error("HasAmbientViewingEnv = true, want false without the side-data probe")
	}
}

func TestExtractDescriptor_HEVCFallbacks(t *testing.T) {
	data := loadTestData(t, "video_hevc_hdr.json")
	probe, err := parseProbeOutput(data)
	if err != nil {
		t.Fatalf("parseProbeOutput() error = %v", err)
	}

	desc := extractDescriptor(probe)

	if desc.Codec != "hevc" {
		t.Errorf("Codec = %q, want %q", desc.Codec, "hevc")
	}

	// Zero denominator must leave the frame rate unset.
	if desc.FrameRate != nil {
		t.Errorf("FrameRate = %v, want nil for 25/0", *desc.FrameRate)
	}

	// Stream carries no duration; fall back to the container.
	if desc.Duration == nil || *desc.Duration != 95.04 {
		t.Errorf("Duration = %v, want 95.04 from container fallback", desc.Duration)
	}

	// First audio stream (eac3) is authoritative; the aac stream is ignored.
	if desc.AudioCodec != "eac3" {
		t.Errorf("AudioCodec = %q, want %q", desc.AudioCodec, "eac3")
	}
	if desc.AudioBitrateKbps == nil || *desc.AudioBitrateKbps != 640 {
		t.Errorf("AudioBitrateKbps = %v, want 640", desc.AudioBitrateKbps)
	}
}

func TestExtractDescriptor_AllAbsent(t *testing.T) {
	data := loadTestData(t, "video_bare.json")
	probe, err := parseProbeOutput(data)
	if err != nil {
		t.Fatalf("parseProbeOutput() error = %v", err)
	}

	desc := extractDescriptor(probe)

	if desc.Width != nil || desc.Height != nil {
		t.Error("dimensions should stay unset when absent from the source")
	}
	if desc.Duration != nil {
		t.Error("duration should stay unset when absent everywhere")
	}
	if desc.FrameRate != nil {
		t.Error("frame rate should stay unset when absent")
	}
	if desc.Codec != "" || desc.AudioCodec != "" {
		t.Error("codec names should stay empty when absent")
	}
	if desc.DurationKnown() {
		t.Error("DurationKnown() should be false with no duration")
	}
	if desc.Resolution() != "unknown" {
		t.Errorf("Resolution() = %q, want %q", desc.Resolution(), "unknown")
	}
}

func TestHasAmbientSideData(t *testing.T) {
	data := loadTestData(t, "video_hevc_hdr.json")
	probe, err := parseProbeOutput(data)
	if err != nil {
		t.Fatalf("parseProbeOutput() error = %v", err)
	}

	if !hasAmbientSideData(probe) {
		t.Error("hasAmbientSideData() = false, want true for fixture with AVE block")
	}

	plain, err := parseProbeOutput(loadTestData(t, "video_h264_aac.json"))
	if err != nil {
		t.Fatal(err)
	}
	if hasAmbientSideData(plain) {
		t.Error("hasAmbientSideData() = true, want false without side data")
	}
}

func TestParseBitrateKbps(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"128000", 128, true},
		{"4500000", 4500, true},
		{"999", 0, true}, // sub-kbps truncates to zero
		{"", 0, false},
		{"N/A", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseBitrateKbps(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("parseBitrateKbps(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("parseBitrateKbps(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestProbe_MissingFile(t *testing.T) {
	p := New("ffprobe")
	_, err := p.Probe(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	if err == nil {
		t.Fatal("Probe() expected error for missing file")
	}
	if !errors.IsNotFound(err) {
		t.Errorf("expected KindNotFound, got %v", err)
	}
}
