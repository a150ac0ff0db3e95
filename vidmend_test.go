package vidmend

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vidmend/vidmend/internal/analyzer"
	"github.com/vidmend/vidmend/internal/registry"
)

func TestNewDefaults(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.cfg.Quality != TierMedium {
		t.Errorf("default quality = %s, want medium", s.cfg.Quality)
	}
	if !s.cfg.ReplaceOriginal {
		t.Error("replace-original must default on")
	}
}

func TestNewWithOptions(t *testing.T) {
	s, err := New(
		WithQuality(TierHigh),
		WithReplaceOriginal(false),
		WithRecursive(),
		WithFFmpegPath("/opt/ffmpeg"),
		WithFFprobePath("/opt/ffprobe"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.cfg.Quality != TierHigh || s.cfg.ReplaceOriginal || !s.cfg.Recursive {
		t.Errorf("options not applied: %+v", s.cfg)
	}
	if s.cfg.FFmpegPath != "/opt/ffmpeg" {
		t.Errorf("ffmpeg path = %q", s.cfg.FFmpegPath)
	}
}

func TestNewRejectsBadQuality(t *testing.T) {
	_, err := New(WithQuality(Tier("bogus")))
	if err == nil {
		t.Fatal("constructor must validate the tier; repairs silently fall back, configuration does not")
	}
}

func TestParseTier(t *testing.T) {
	if ParseTier("HIGH") != TierHigh {
		t.Error("tier parsing must be case-insensitive")
	}
	if ParseTier("bogus") != TierMedium {
		t.Error("unknown tiers fall back to medium")
	}
}

func TestAddAndRecords(t *testing.T) {
	s, _ := New()

	if !s.Add("/v/a.mp4") {
		t.Error("first add must succeed")
	}
	if s.Add("/v/a.mp4") {
		t.Error("duplicate add must be a no-op")
	}

	recs := s.Records()
	if len(recs) != 1 || recs[0].Path != "/v/a.mp4" || recs[0].Status != "unknown" {
		t.Errorf("records = %+v", recs)
	}

	s.Clear()
	if len(s.Records()) != 0 {
		t.Error("clear must drop all records")
	}
}

func TestAddFolder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.mp4", "b.mkv", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	s, _ := New()
	added, err := s.AddFolder(dir)
	if err != nil {
		t.Fatalf("AddFolder: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}
}

func TestPublicRecordMapsFixGroup(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := registry.VideoRecord{
		Path:   "/v/a.mp4",
		Status: registry.StatusFixed,
		Issues: analyzer.IssueList{Video: []string{"issue"}},
		Fix:    &registry.FixInfo{Path: "/v/a.mp4", Time: at, Params: "preset medium, crf 23"},
	}

	pub := publicRecord(rec)
	if pub.Status != "fixed" || pub.FixedPath != "/v/a.mp4" || !pub.FixedTime.Equal(at) {
		t.Errorf("publicRecord = %+v", pub)
	}
	if pub.FixedParams != "preset medium, crf 23" {
		t.Errorf("params = %q", pub.FixedParams)
	}
}
