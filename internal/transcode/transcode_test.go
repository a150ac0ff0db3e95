package transcode

import (
	"context"
	goerrors "errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/vidmend/vidmend/internal/config"
	"github.com/vidmend/vidmend/internal/errors"
	"github.com/vidmend/vidmend/internal/ffmpeg"
	"github.com/vidmend/vidmend/internal/ffprobe"
)

type fakeProber struct {
	desc *ffprobe.MediaDescriptor
	err  error
}

func (p *fakeProber) Probe(ctx context.Context, path string) (*ffprobe.MediaDescriptor, error) {
	return p.desc, p.err
}

type fakeRunner struct {
	argv  [][]string
	stage []string
	fail  bool
	empty bool
}

func (r *fakeRunner) Run(ctx context.Context, bin string, args []string, stage string, totalDuration float64) error {
	r.argv = append(r.argv, args)
	r.stage = append(r.stage, stage)
	if r.fail {
		return goerrors.New("simulated nonzero exit")
	}
	content := []byte("output")
	if r.empty {
		content = nil
	}
	return os.WriteFile(args[len(args)-1], content, 0o644)
}

func argValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func f64Ptr(v float64) *float64 { return &v }

func durDesc(secs float64) *ffprobe.MediaDescriptor {
	return &ffprobe.MediaDescriptor{Duration: f64Ptr(secs)}
}

func testConfig() *config.Config {
	return &config.Config{
		FFmpegPath:  "/usr/bin/ffmpeg",
		FFprobePath: "/usr/bin/ffprobe",
		Quality:     config.TierMedium,
	}
}

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	input := filepath.Join(dir, "clip.avi")
	if err := os.WriteFile(input, []byte("source"), 0o644); err != nil {
		t.Fatal(err)
	}
	return input
}

func TestConvertDeleteOriginal(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	output := filepath.Join(dir, "clip.mp4")

	runner := &fakeRunner{}
	eng := New(testConfig(), &fakeProber{desc: durDesc(60)}, runner, nil)

	err := eng.Convert(context.Background(), ConvertRequest{
		Input:          input,
		Output:         output,
		Options:        ffmpeg.ConvertOptions{Quality: config.TierHigh, KeepAudio: true},
		DeleteOriginal: true,
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if _, statErr := os.Stat(input); !os.IsNotExist(statErr) {
		t.Error("original must be deleted after a verified conversion")
	}
	if _, statErr := os.Stat(output); statErr != nil {
		t.Error("converted output must exist")
	}
	if argValue(runner.argv[0], "-preset") != "slow" {
		t.Error("high tier must use the slow preset")
	}
}

func TestConvertFailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)

	runner := &fakeRunner{fail: true}
	eng := New(testConfig(), &fakeProber{desc: durDesc(60)}, runner, nil)

	err := eng.Convert(context.Background(), ConvertRequest{
		Input:          input,
		Output:         filepath.Join(dir, "clip.mp4"),
		DeleteOriginal: true,
	})
	if !errors.IsStageFailure(err) {
		t.Fatalf("want StageFailure, got %v", err)
	}
	if _, statErr := os.Stat(input); statErr != nil {
		t.Error("original must survive a failed conversion")
	}
}

func TestConvertToleratesProbeFailure(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)

	runner := &fakeRunner{}
	prober := &fakeProber{err: errors.NewProbeFailureError("ffprobe exited 1", nil)}
	eng := New(testConfig(), prober, runner, nil)

	err := eng.Convert(context.Background(), ConvertRequest{
		Input:  input,
		Output: filepath.Join(dir, "clip.mp4"),
	})
	if err != nil {
		t.Fatalf("conversion needs no duration, probe failure must degrade: %v", err)
	}
}

func TestPreviewSkipsLeadIn(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)

	runner := &fakeRunner{}
	eng := New(testConfig(), &fakeProber{desc: durDesc(120)}, runner, nil)

	if err := eng.Preview(context.Background(), input, filepath.Join(dir, "p.mp4"), 10); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if got := argValue(runner.argv[0], "-ss"); got != "5.00" {
		t.Errorf("-ss = %q, want 5.00 for a long file", got)
	}
	if got := argValue(runner.argv[0], "-t"); got != "10.00" {
		t.Errorf("-t = %q, want 10.00", got)
	}
}

func TestPreviewShortFileStartsAtZero(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)

	runner := &fakeRunner{}
	eng := New(testConfig(), &fakeProber{desc: durDesc(8)}, runner, nil)

	if err := eng.Preview(context.Background(), input, filepath.Join(dir, "p.mp4"), 10); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if got := argValue(runner.argv[0], "-ss"); got != "0.00" {
		t.Errorf("-ss = %q, want 0.00 for a short file", got)
	}
	if got := argValue(runner.argv[0], "-t"); got != "7.50" {
		t.Errorf("-t = %q, want shrunk to the file length minus the end margin", got)
	}
}

func TestPreviewShrinkFloorsAtOneSecond(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)

	runner := &fakeRunner{}
	eng := New(testConfig(), &fakeProber{desc: durDesc(0.8)}, runner, nil)

	if err := eng.Preview(context.Background(), input, filepath.Join(dir, "p.mp4"), 10); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if got := argValue(runner.argv[0], "-t"); got != "1.00" {
		t.Errorf("-t = %q, want the 1s floor for a very short file", got)
	}
}

func TestPreviewUnknownDuration(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)

	eng := New(testConfig(), &fakeProber{desc: &ffprobe.MediaDescriptor{}}, &fakeRunner{}, nil)

	err := eng.Preview(context.Background(), input, filepath.Join(dir, "p.mp4"), 10)
	if !errors.IsKind(err, errors.KindDuration) {
		t.Fatalf("unknown duration must be an explicit error, got %v", err)
	}
}

func TestExtractFrameMidpoint(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)

	runner := &fakeRunner{}
	eng := New(testConfig(), &fakeProber{desc: durDesc(100)}, runner, nil)

	if err := eng.ExtractFrame(context.Background(), input, filepath.Join(dir, "f.jpg")); err != nil {
		t.Fatalf("ExtractFrame: %v", err)
	}
	if got := argValue(runner.argv[0], "-ss"); got != "50.00" {
		t.Errorf("-ss = %q, want midpoint 50.00", got)
	}
}

func TestExtractFrameUnknownDuration(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)

	eng := New(testConfig(), &fakeProber{desc: &ffprobe.MediaDescriptor{Duration: f64Ptr(0)}}, &fakeRunner{}, nil)

	err := eng.ExtractFrame(context.Background(), input, filepath.Join(dir, "f.jpg"))
	if !errors.IsKind(err, errors.KindDuration) {
		t.Fatalf("zero duration must be an explicit error, got %v", err)
	}
}

func TestClampFramePosition(t *testing.T) {
	tests := []struct {
		duration float64
		want     float64
	}{
		{100, 50},
		{1, 0.5},
		{0.15, 0.05},
		{0.05, 0},
	}
	for _, tt := range tests {
		got := clampFramePosition(tt.duration)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("clampFramePosition(%v) = %v, want %v", tt.duration, got, tt.want)
		}
	}
}
