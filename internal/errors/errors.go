// Package errors provides structured error types for vidmend operations.
package errors

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// KindIO represents I/O errors.
	KindIO ErrorKind = iota
	// KindNotFound represents a missing input path.
	KindNotFound
	// KindToolUnavailable represents a required external tool that cannot be located.
	KindToolUnavailable
	// KindProbeFailure represents ffprobe returning nonzero or unparsable output.
	KindProbeFailure
	// KindStageFailure represents a nonzero exit from ffmpeg in either repair stage.
	KindStageFailure
	// KindReplaceFailure represents a failed post-encode file swap.
	KindReplaceFailure
	// KindCommand represents external command execution errors.
	KindCommand
	// KindJSONParse represents JSON parsing errors.
	KindJSONParse
	// KindDuration represents an undeterminable media duration.
	KindDuration
	// KindConfig represents configuration validation errors.
	KindConfig
	// KindNoFilesFound represents no suitable video files found.
	KindNoFilesFound
	// KindCancelled represents user-cancelled operations.
	KindCancelled
)

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "I/O error"
	case KindNotFound:
		return "File not found"
	case KindToolUnavailable:
		return "Tool unavailable"
	case KindProbeFailure:
		return "Probe failure"
	case KindStageFailure:
		return "Stage failure"
	case KindReplaceFailure:
		return "Replace failure"
	case KindCommand:
		return "Command error"
	case KindJSONParse:
		return "JSON parse error"
	case KindDuration:
		return "Duration error"
	case KindConfig:
		return "Configuration error"
	case KindNoFilesFound:
		return "No files found"
	case KindCancelled:
		return "Operation cancelled"
	default:
		return "Unknown error"
	}
}

// CommandErrorKind represents the type of command error.
type CommandErrorKind int

const (
	// CommandStart means the command failed to start.
	CommandStart CommandErrorKind = iota
	// CommandWait means waiting for the command failed.
	CommandWait
	// CommandFailed means the command returned non-zero exit status.
	CommandFailed
)

// CommandError represents an error from executing an external command.
type CommandError struct {
	Command    string
	Kind       CommandErrorKind
	ExitCode   int
	Stderr     string
	Underlying error
}

func (e *CommandError) Error() string {
	switch e.Kind {
	case CommandStart:
		return fmt.Sprintf("failed to execute %s: %v", e.Command, e.Underlying)
	case CommandWait:
		return fmt.Sprintf("failed to wait for %s: %v", e.Command, e.Underlying)
	case CommandFailed:
		if e.Stderr != "" {
			return fmt.Sprintf("command %s failed with exit code %d: %s", e.Command, e.ExitCode, e.Stderr)
		}
		return fmt.Sprintf("command %s failed with exit code %d", e.Command, e.ExitCode)
	default:
		return fmt.Sprintf("command %s error: %v", e.Command, e.Underlying)
	}
}

func (e *CommandError) Unwrap() error {
	return e.Underlying
}

// CoreError is the main error type for vidmend operations.
type CoreError struct {
	Kind       ErrorKind
	Message    string
	Underlying error
}

func (e *CoreError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CoreError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target matches this error's kind.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewIOError creates a new I/O error.
func NewIOError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindIO, Message: message, Underlying: underlying}
}

// NewNotFoundError creates an error for a missing input path.
func NewNotFoundError(path string) *CoreError {
	return &CoreError{Kind: KindNotFound, Message: fmt.Sprintf("file does not exist: %s", path)}
}

// NewToolUnavailableError creates an error for a missing external tool.
func NewToolUnavailableError(tool string) *CoreError {
	return &CoreError{Kind: KindToolUnavailable, Message: fmt.Sprintf("%s not found in PATH", tool)}
}

// NewProbeFailureError creates an error for a failed or unparsable probe.
func NewProbeFailureError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindProbeFailure, Message: message, Underlying: underlying}
}

// NewStageFailureError creates an error for a failed repair stage.
func NewStageFailureError(stage string, underlying error) *CoreError {
	return &CoreError{Kind: KindStageFailure, Message: stage, Underlying: underlying}
}

// NewReplaceFailureError creates an error for a failed in-place file swap.
func NewReplaceFailureError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindReplaceFailure, Message: message, Underlying: underlying}
}

// NewCommandError creates a new command execution error.
func NewCommandError(cmd string, kind CommandErrorKind, underlying error) *CoreError {
	cmdErr := &CommandError{
		Command:    cmd,
		Kind:       kind,
		Underlying: underlying,
	}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewCommandStartError creates an error for when a command fails to start.
func NewCommandStartError(cmd string, err error) *CoreError {
	return NewCommandError(cmd, CommandStart, err)
}

// NewCommandWaitError creates an error for when waiting for a command fails.
func NewCommandWaitError(cmd string, err error) *CoreError {
	return NewCommandError(cmd, CommandWait, err)
}

// NewCommandFailedError creates an error for when a command returns non-zero exit status.
func NewCommandFailedError(cmd string, exitCode int, stderr string) *CoreError {
	cmdErr := &CommandError{
		Command:  cmd,
		Kind:     CommandFailed,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewJSONParseError creates a new JSON parsing error.
func NewJSONParseError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindJSONParse, Message: message, Underlying: underlying}
}

// NewDurationError creates an error for an undeterminable media duration.
func NewDurationError(path string) *CoreError {
	return &CoreError{Kind: KindDuration, Message: fmt.Sprintf("cannot determine duration of %s", path)}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string) *CoreError {
	return &CoreError{Kind: KindConfig, Message: message}
}

// NewNoFilesFoundError creates an error for when no video files are found.
func NewNoFilesFoundError(dir string) *CoreError {
	return &CoreError{Kind: KindNoFilesFound, Message: fmt.Sprintf("no suitable video files found in %s", dir)}
}

// NewCancelledError creates an error for user-cancelled operations.
func NewCancelledError() *CoreError {
	return &CoreError{Kind: KindCancelled, Message: "operation was cancelled by the user"}
}

// IsKind checks if the error has the specified kind.
func IsKind(err error, kind ErrorKind) bool {
	var coreErr *CoreError
	if errors.As(err, &coreErr) {
		return coreErr.Kind == kind
	}
	return false
}

// IsNotFound checks if the error is a missing-file error.
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}

// IsProbeFailure checks if the error is a probe failure.
func IsProbeFailure(err error) bool {
	return IsKind(err, KindProbeFailure)
}

// IsStageFailure checks if the error is a repair stage failure.
func IsStageFailure(err error) bool {
	return IsKind(err, KindStageFailure)
}

// IsCancelled checks if the error is a cancellation error.
func IsCancelled(err error) bool {
	return IsKind(err, KindCancelled)
}

// WrapExecError wraps an exec.ExitError into a CoreError.
func WrapExecError(cmd string, err error, stderr string) *CoreError {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return NewCommandFailedError(cmd, exitErr.ExitCode(), stderr)
	}
	return NewCommandWaitError(cmd, err)
}
