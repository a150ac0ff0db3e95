package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{KindIO, "I/O error"},
		{KindNotFound, "File not found"},
		{KindToolUnavailable, "Tool unavailable"},
		{KindProbeFailure, "Probe failure"},
		{KindStageFailure, "Stage failure"},
		{KindReplaceFailure, "Replace failure"},
		{KindCommand, "Command error"},
		{KindJSONParse, "JSON parse error"},
		{KindDuration, "Duration error"},
		{KindConfig, "Configuration error"},
		{KindNoFilesFound, "No files found"},
		{KindCancelled, "Operation cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("ErrorKind.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCoreErrorError(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &CoreError{
		Kind:       KindIO,
		Message:    "test message",
		Underlying: underlying,
	}

	got := err.Error()
	expected := "I/O error: test message: underlying error"
	if got != expected {
		t.Errorf("CoreError.Error() = %v, want %v", got, expected)
	}

	err2 := &CoreError{
		Kind:    KindStageFailure,
		Message: "stage1 decode failed",
	}

	got2 := err2.Error()
	expected2 := "Stage failure: stage1 decode failed"
	if got2 != expected2 {
		t.Errorf("CoreError.Error() = %v, want %v", got2, expected2)
	}
}

func TestCoreErrorUnwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &CoreError{
		Kind:       KindIO,
		Message:    "test",
		Underlying: underlying,
	}

	if err.Unwrap() != underlying {
		t.Error("Unwrap() should return underlying error")
	}
}

func TestCoreErrorIs(t *testing.T) {
	err1 := &CoreError{Kind: KindProbeFailure, Message: "first"}
	err2 := &CoreError{Kind: KindProbeFailure, Message: "second"}
	err3 := &CoreError{Kind: KindStageFailure, Message: "third"}

	if !errors.Is(err1, err2) {
		t.Error("errors with the same kind should match")
	}
	if errors.Is(err1, err3) {
		t.Error("errors with different kinds should not match")
	}
}

func TestIsKindThroughWrapping(t *testing.T) {
	inner := NewProbeFailureError("ffprobe returned nonzero", nil)
	wrapped := fmt.Errorf("detecting file: %w", inner)

	if !IsKind(wrapped, KindProbeFailure) {
		t.Error("IsKind should see through fmt.Errorf wrapping")
	}
	if !IsProbeFailure(wrapped) {
		t.Error("IsProbeFailure should see through fmt.Errorf wrapping")
	}
	if IsStageFailure(wrapped) {
		t.Error("IsStageFailure should not match a probe failure")
	}
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("/missing/video.mp4")
	if !IsNotFound(err) {
		t.Error("NewNotFoundError should produce KindNotFound")
	}
	want := "File not found: file does not exist: /missing/video.mp4"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCommandErrorMessages(t *testing.T) {
	err := NewCommandFailedError("ffmpeg", 1, "pixel format not supported")

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatal("expected a wrapped CommandError")
	}
	if cmdErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", cmdErr.ExitCode)
	}
	if cmdErr.Stderr != "pixel format not supported" {
		t.Errorf("Stderr = %q", cmdErr.Stderr)
	}

	startErr := NewCommandStartError("ffprobe", errors.New("no such file"))
	if !IsKind(startErr, KindCommand) {
		t.Error("start error should have KindCommand")
	}
}

func TestWrapExecErrorWaitFailure(t *testing.T) {
	// An error from Wait that is not an ExitError is a wait failure, not a
	// start failure.
	err := WrapExecError("ffmpeg", errors.New("broken pipe"), "")

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatal("expected a wrapped CommandError")
	}
	if cmdErr.Kind != CommandWait {
		t.Errorf("Kind = %v, want CommandWait", cmdErr.Kind)
	}
}
