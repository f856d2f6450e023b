// Package errors provides the typed error values and the leveled logger used by ai-commit.
package errors

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrorCode represents the category of an error.
type ErrorCode int

const (
	// User errors
	ErrNoStagedChanges ErrorCode = iota + 100
	ErrUnknownStyle
	ErrEditorNotConfigured
	ErrInvalidConfig
	ErrInvalidArguments
)

const (
	// System errors
	ErrGitCommandFailed ErrorCode = iota + 200
	ErrFileSystemError
	ErrEditorFailed
)

const (
	// External errors
	ErrConnectionFailed ErrorCode = iota + 300
	ErrUpstream
	ErrEmptyCompletion
	ErrMalformedResponse
)

// ExitCode returns the process exit status for an error code.
// Every recognized failure exits with 1; the ranges only group codes for display.
func (c ErrorCode) ExitCode() int {
	return 1
}

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrNoStagedChanges:
		return "NoStagedChanges"
	case ErrUnknownStyle:
		return "UnknownStyle"
	case ErrEditorNotConfigured:
		return "EditorNotConfigured"
	case ErrInvalidConfig:
		return "ConfigurationError"
	case ErrInvalidArguments:
		return "InvalidArguments"
	case ErrGitCommandFailed:
		return "GitCommandFailed"
	case ErrFileSystemError:
		return "FileSystemError"
	case ErrEditorFailed:
		return "EditorFailed"
	case ErrConnectionFailed:
		return "ConnectionFailed"
	case ErrUpstream:
		return "UpstreamError"
	case ErrEmptyCompletion:
		return "EmptyCompletion"
	case ErrMalformedResponse:
		return "MalformedResponse"
	default:
		return "Unknown"
	}
}

// AppError represents an application error with context.
type AppError struct {
	Code       ErrorCode
	Message    string
	Cause      error
	Context    map[string]interface{}
	Suggestion string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to the error.
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error chain.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

// GetExitCode returns the process exit status for err.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code.ExitCode()
	}
	return 1
}

// NewNoStagedChangesError creates an error for an empty staged diff.
func NewNoStagedChangesError() *AppError {
	return &AppError{
		Code:       ErrNoStagedChanges,
		Message:    "No staged changes found. Stage files with 'git add' first.",
		Suggestion: "Use 'git add <files>' to stage changes before generating a commit message",
	}
}

// NewUnknownStyleError creates an error for a style name that is not defined.
// The available names are kept in the context and listed in the message.
func NewUnknownStyleError(name string, available []string) *AppError {
	names := append([]string(nil), available...)
	sort.Strings(names)

	listed := "none"
	if len(names) > 0 {
		listed = strings.Join(names, ", ")
	}

	return &AppError{
		Code:    ErrUnknownStyle,
		Message: fmt.Sprintf("unknown style %q. Available styles: %s", name, listed),
		Context: map[string]interface{}{
			"style":     name,
			"available": names,
		},
		Suggestion: "Run 'ai-commit styles' to see every style and its description",
	}
}

// NewEditorNotConfiguredError creates an error for a missing editor program.
func NewEditorNotConfiguredError() *AppError {
	return &AppError{
		Code:       ErrEditorNotConfigured,
		Message:    "no editor configured",
		Suggestion: "Set the EDITOR environment variable or run 'ai-commit config set ui.editor <program>'",
	}
}

// NewEditorError creates an error for an editor process that failed.
func NewEditorError(editor string, err error) *AppError {
	return &AppError{
		Code:    ErrEditorFailed,
		Message: fmt.Sprintf("editor %q failed", editor),
		Cause:   err,
	}
}

// NewInvalidConfigError creates an error for invalid configuration.
func NewInvalidConfigError(message string) *AppError {
	return &AppError{
		Code:       ErrInvalidConfig,
		Message:    message,
		Suggestion: "Run 'ai-commit config list' to inspect the effective configuration",
	}
}

// NewEmptyConfigValueError creates an error for a setting that is present but empty.
func NewEmptyConfigValueError(key, source string) *AppError {
	return &AppError{
		Code:       ErrInvalidConfig,
		Message:    fmt.Sprintf("configuration value %s is set but empty", key),
		Context:    map[string]interface{}{"key": key, "source": source},
		Suggestion: fmt.Sprintf("Unset %s or give it a value", source),
	}
}

// NewGitError creates an error for git command failures.
func NewGitError(err error, output string) *AppError {
	appErr := &AppError{
		Code:    ErrGitCommandFailed,
		Message: "git command failed",
		Cause:   err,
	}
	if output != "" {
		appErr.Message = "git command failed: " + output
		appErr.Context = map[string]interface{}{
			"output": output,
		}
	}
	return appErr
}

// NewConnectionError creates an error for a backend that could not be reached.
func NewConnectionError(endpoint string, err error) *AppError {
	return &AppError{
		Code:       ErrConnectionFailed,
		Message:    fmt.Sprintf("could not reach model backend at %s", endpoint),
		Cause:      err,
		Context:    map[string]interface{}{"endpoint": endpoint},
		Suggestion: "Check that the backend is running and the endpoint is correct, or use --dry-run",
	}
}

// NewUpstreamError creates an error for a backend that answered with a failure status.
func NewUpstreamError(status int, body string) *AppError {
	return &AppError{
		Code:    ErrUpstream,
		Message: fmt.Sprintf("model backend returned status %d: %s", status, strings.TrimSpace(body)),
		Context: map[string]interface{}{
			"status": status,
			"body":   body,
		},
		Suggestion: "Check that the configured model is available on the backend",
	}
}

// NewEmptyCompletionError creates an error for a completion with no usable text.
func NewEmptyCompletionError() *AppError {
	return &AppError{
		Code:       ErrEmptyCompletion,
		Message:    "model returned an empty commit message",
		Suggestion: "Try again or choose a different style or model",
	}
}

// NewMalformedResponseError creates an error for a response body that could not be decoded.
func NewMalformedResponseError(err error) *AppError {
	return &AppError{
		Code:    ErrMalformedResponse,
		Message: "model backend returned an unreadable response",
		Cause:   err,
	}
}

// FormatError formats an error for user display.
// API keys and other sensitive data are automatically masked.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString("Error: ")
		sb.WriteString(SanitizeErrorMessage(appErr.Message))

		if appErr.Cause != nil {
			sb.WriteString("\n  Cause: ")
			sb.WriteString(SanitizeErrorMessage(appErr.Cause.Error()))
		}

		if appErr.Suggestion != "" {
			sb.WriteString("\n  Suggestion: ")
			sb.WriteString(appErr.Suggestion)
		}
	} else {
		sb.WriteString("Error: ")
		sb.WriteString(SanitizeErrorMessage(err.Error()))
	}

	return sb.String()
}

// FormatErrorVerbose formats an error with full details for verbose mode.
func FormatErrorVerbose(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString(fmt.Sprintf("Error [%s]: %s\n", appErr.Code.String(), SanitizeErrorMessage(appErr.Message)))

		if appErr.Cause != nil {
			sb.WriteString(fmt.Sprintf("  Cause: %v\n", SanitizeErrorMessage(appErr.Cause.Error())))
			sb.WriteString("  Error chain:\n")
			printErrorChain(&sb, appErr.Cause, 2)
		}

		if len(appErr.Context) > 0 {
			keys := make([]string, 0, len(appErr.Context))
			for k := range appErr.Context {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			sb.WriteString("  Context:\n")
			for _, k := range keys {
				sb.WriteString(fmt.Sprintf("    %s: %v\n", k, SanitizeErrorMessage(fmt.Sprintf("%v", appErr.Context[k]))))
			}
		}

		if appErr.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("  Suggestion: %s\n", appErr.Suggestion))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Error: %v\n", SanitizeErrorMessage(err.Error())))
		sb.WriteString("  Error chain:\n")
		printErrorChain(&sb, err, 2)
	}

	return sb.String()
}

// printErrorChain prints the error chain with indentation.
func printErrorChain(sb *strings.Builder, err error, indent int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)
	errMsg := SanitizeErrorMessage(err.Error())
	sb.WriteString(fmt.Sprintf("%s- %T: %v\n", prefix, err, errMsg))

	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		printErrorChain(sb, unwrapped, indent+1)
	}
}

// SanitizeErrorMessage masks any API keys or sensitive data in error messages.
func SanitizeErrorMessage(msg string) string {
	return apiKeyPattern.ReplaceAllStringFunc(msg, func(match string) string {
		if len(match) <= 4 {
			return "****"
		}
		return strings.Repeat("*", len(match)-4) + match[len(match)-4:]
	})
}

// apiKeyPattern matches common API key patterns.
var apiKeyPattern = regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`)
