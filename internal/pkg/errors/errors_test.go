package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorCode_ExitCode(t *testing.T) {
	codes := []ErrorCode{
		ErrNoStagedChanges,
		ErrUnknownStyle,
		ErrEditorNotConfigured,
		ErrInvalidConfig,
		ErrGitCommandFailed,
		ErrEditorFailed,
		ErrConnectionFailed,
		ErrUpstream,
		ErrEmptyCompletion,
	}

	for _, code := range codes {
		t.Run(code.String(), func(t *testing.T) {
			if got := code.ExitCode(); got != 1 {
				t.Errorf("ExitCode() = %v, want 1", got)
			}
		})
	}
}

func TestErrorCode_String(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected string
	}{
		{ErrNoStagedChanges, "NoStagedChanges"},
		{ErrUnknownStyle, "UnknownStyle"},
		{ErrInvalidConfig, "ConfigurationError"},
		{ErrConnectionFailed, "ConnectionFailed"},
		{ErrUpstream, "UpstreamError"},
		{ErrorCode(999), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.code.String(); got != tt.expected {
				t.Errorf("String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name: "without cause",
			err: &AppError{
				Code:    ErrNoStagedChanges,
				Message: "no staged changes",
			},
			expected: "no staged changes",
		},
		{
			name: "with cause",
			err: &AppError{
				Code:    ErrGitCommandFailed,
				Message: "git command failed",
				Cause:   errors.New("exit status 1"),
			},
			expected: "git command failed: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_WithContext(t *testing.T) {
	err := New(ErrGitCommandFailed, "git failed")
	err.WithContext("command", "git commit")
	err.WithContext("exit_code", 1)

	if err.Context["command"] != "git commit" {
		t.Errorf("Context[command] = %v, want 'git commit'", err.Context["command"])
	}
	if err.Context["exit_code"] != 1 {
		t.Errorf("Context[exit_code] = %v, want 1", err.Context["exit_code"])
	}
}

func TestAppError_WithSuggestion(t *testing.T) {
	err := New(ErrNoStagedChanges, "no staged changes")
	err.WithSuggestion("Use 'git add' to stage changes")

	if err.Suggestion != "Use 'git add' to stage changes" {
		t.Errorf("Suggestion = %v, want 'Use 'git add' to stage changes'", err.Suggestion)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	wrapped := Wrap(cause, ErrGitCommandFailed, "git command failed")

	if wrapped.Code != ErrGitCommandFailed {
		t.Errorf("Code = %v, want %v", wrapped.Code, ErrGitCommandFailed)
	}
	if wrapped.Message != "git command failed" {
		t.Errorf("Message = %v, want 'git command failed'", wrapped.Message)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("Wrapped error should contain the cause")
	}
}

func TestIsAppError(t *testing.T) {
	appErr := New(ErrNoStagedChanges, "no staged changes")
	regularErr := errors.New("regular error")

	if !IsAppError(appErr) {
		t.Error("IsAppError should return true for AppError")
	}
	if IsAppError(regularErr) {
		t.Error("IsAppError should return false for regular error")
	}
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("generate: %w", NewEmptyCompletionError())

	if !HasCode(wrapped, ErrEmptyCompletion) {
		t.Error("HasCode should find the code through a wrapped chain")
	}
	if HasCode(wrapped, ErrUpstream) {
		t.Error("HasCode should not match a different code")
	}
	if HasCode(errors.New("plain"), ErrEmptyCompletion) {
		t.Error("HasCode should be false for non-AppError values")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, 0},
		{"user error", NewNoStagedChangesError(), 1},
		{"system error", New(ErrGitCommandFailed, "git failed"), 1},
		{"external error", NewUpstreamError(500, "boom"), 1},
		{"regular error", errors.New("regular error"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.expected {
				t.Errorf("GetExitCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewNoStagedChangesError(t *testing.T) {
	err := NewNoStagedChangesError()

	if err.Code != ErrNoStagedChanges {
		t.Errorf("Code = %v, want %v", err.Code, ErrNoStagedChanges)
	}
	if !strings.Contains(err.Error(), "No staged changes found") {
		t.Errorf("unexpected message %q", err.Error())
	}
	if err.Suggestion == "" {
		t.Error("Suggestion should not be empty")
	}
}

func TestNewUnknownStyleError(t *testing.T) {
	err := NewUnknownStyleError("nonexistent", []string{"pirate", "conventional"})

	if err.Code != ErrUnknownStyle {
		t.Errorf("Code = %v, want %v", err.Code, ErrUnknownStyle)
	}
	if err.Context["style"] != "nonexistent" {
		t.Errorf("Context[style] = %v", err.Context["style"])
	}
	available, ok := err.Context["available"].([]string)
	if !ok || len(available) != 2 || available[0] != "conventional" {
		t.Errorf("Context[available] = %v, want sorted names", err.Context["available"])
	}
	if !strings.Contains(err.Message, "conventional, pirate") {
		t.Errorf("message should list available styles, got %q", err.Message)
	}
}

func TestNewUnknownStyleError_NoStyles(t *testing.T) {
	err := NewUnknownStyleError("x", nil)

	if !strings.Contains(err.Message, "none") {
		t.Errorf("message should say no styles are available, got %q", err.Message)
	}
}

func TestNewUpstreamError(t *testing.T) {
	err := NewUpstreamError(404, "model 'nope' not found\n")

	if err.Code != ErrUpstream {
		t.Errorf("Code = %v, want %v", err.Code, ErrUpstream)
	}
	if err.Context["status"] != 404 {
		t.Errorf("Context[status] = %v, want 404", err.Context["status"])
	}
	if err.Context["body"] != "model 'nope' not found\n" {
		t.Errorf("Context[body] = %q", err.Context["body"])
	}
	if !strings.Contains(err.Message, "404") {
		t.Errorf("message should include status, got %q", err.Message)
	}
}

func TestNewConnectionError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewConnectionError("http://localhost:1", cause)

	if err.Code != ErrConnectionFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrConnectionFailed)
	}
	if !errors.Is(err, cause) {
		t.Error("connection error should wrap its cause")
	}
}

func TestNewEmptyConfigValueError(t *testing.T) {
	err := NewEmptyConfigValueError("provider.endpoint", "OLLAMA_URL")

	if err.Code != ErrInvalidConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrInvalidConfig)
	}
	if !strings.Contains(err.Suggestion, "OLLAMA_URL") {
		t.Errorf("suggestion should name the source, got %q", err.Suggestion)
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "nil error",
			err:      nil,
			contains: []string{},
		},
		{
			name: "app error with suggestion",
			err: &AppError{
				Code:       ErrNoStagedChanges,
				Message:    "no staged changes",
				Suggestion: "Use git add",
			},
			contains: []string{"Error:", "no staged changes", "Suggestion:", "Use git add"},
		},
		{
			name:     "wrapped app error with cause",
			err:      fmt.Errorf("run: %w", NewConnectionError("http://x", errors.New("refused"))),
			contains: []string{"Error:", "could not reach", "Cause: refused"},
		},
		{
			name:     "regular error",
			err:      errors.New("regular error"),
			contains: []string{"Error:", "regular error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatError(tt.err)
			for _, s := range tt.contains {
				if !strings.Contains(result, s) {
					t.Errorf("FormatError() should contain %q, got %q", s, result)
				}
			}
		})
	}
}

func TestFormatErrorVerbose(t *testing.T) {
	err := NewUpstreamError(500, "internal")
	result := FormatErrorVerbose(err)

	for _, s := range []string{"Error [UpstreamError]", "Context:", "body: internal", "status: 500"} {
		if !strings.Contains(result, s) {
			t.Errorf("FormatErrorVerbose() should contain %q, got %q", s, result)
		}
	}
}

func TestSanitizeErrorMessage(t *testing.T) {
	msg := "auth failed for sk-abcdefghijklmnopqrstuvwxyz"
	got := SanitizeErrorMessage(msg)

	if strings.Contains(got, "sk-abcdefghijklmnop") {
		t.Errorf("key should be masked, got %q", got)
	}
	if !strings.HasSuffix(got, "wxyz") {
		t.Errorf("last four characters should remain, got %q", got)
	}
}
