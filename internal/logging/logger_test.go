package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitControlsDebugLevel(t *testing.T) {
	t.Cleanup(func() { Init(LevelInfo, nil) })

	var buf bytes.Buffer
	Init(LevelDebug, &buf)
	Debug("stage 1 decode", "input", "movie.mp4")
	if !strings.Contains(buf.String(), "stage 1 decode") {
		t.Errorf("debug message must reach the sink after Init(LevelDebug), got %q", buf.String())
	}

	buf.Reset()
	Init(LevelInfo, &buf)
	Debug("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug message must be suppressed at info level")
	}
	Info("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("info message must pass at info level")
	}
}

func TestSetGlobalSticks(t *testing.T) {
	t.Cleanup(func() { Init(LevelInfo, nil) })

	var buf bytes.Buffer
	SetGlobal(New(Config{Level: LevelInfo, Output: &buf, Enabled: true}))
	if Global() == nil {
		t.Fatal("Global must return the replacement logger")
	}
	Warn("replaced sink")
	if !strings.Contains(buf.String(), "replaced sink") {
		t.Error("Global must not fall back to the lazy default after SetGlobal")
	}
}

func TestWithPrefixGroupsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: LevelInfo, Output: &buf, Enabled: true}).WithPrefix("worker")
	log.Warn("skipping file", "path", "a.mp4")
	if !strings.Contains(buf.String(), "worker.path=a.mp4") {
		t.Errorf("prefix must group attributes, got %q", buf.String())
	}
}
