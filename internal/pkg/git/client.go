// Package git provides the Git operations ai-commit needs.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
)

const (
	// GitCommandTimeout is the default timeout for read-only git commands.
	GitCommandTimeout = 10 * time.Second

	// CommitTimeout bounds git commit, which may run the user's pre-commit hooks.
	CommitTimeout = 5 * time.Minute
)

// Client defines the Git operations used by ai-commit.
type Client interface {
	GetStagedDiff(ctx context.Context) (string, error)
	Commit(ctx context.Context, message string) error
	HooksDir(ctx context.Context) (string, error)
	ConfigGet(ctx context.Context, global bool, key string) (string, error)
}

// DefaultClient implements the Client interface using exec.CommandContext.
type DefaultClient struct {
	// workDir is the working directory for git commands.
	// If empty, uses the current directory.
	workDir string
}

// NewClient creates a new DefaultClient.
func NewClient() *DefaultClient {
	return &DefaultClient{}
}

// NewClientWithWorkDir creates a new DefaultClient with a specific working directory.
func NewClientWithWorkDir(workDir string) *DefaultClient {
	return &DefaultClient{workDir: workDir}
}

// run executes git with args and returns stdout. Failures carry git's stderr.
func (c *DefaultClient) run(ctx context.Context, timeout time.Duration, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	apperrors.LogCommand("git", args...)

	cmd := exec.CommandContext(ctx, "git", args...)
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, apperrors.NewGitError(fmt.Errorf("git %s timed out after %v", args[0], timeout), "")
		}
		return output, apperrors.NewGitError(err, strings.TrimSpace(stderr.String()))
	}
	return output, nil
}

// GetStagedDiff returns the unified diff of all staged changes, unmodified.
func (c *DefaultClient) GetStagedDiff(ctx context.Context) (string, error) {
	output, err := c.run(ctx, GitCommandTimeout, "diff", "--staged")
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(string(output)) == "" {
		return "", apperrors.NewNoStagedChangesError()
	}
	return string(output), nil
}

// Commit executes a git commit with the given message.
func (c *DefaultClient) Commit(ctx context.Context, message string) error {
	ctx, cancel := context.WithTimeout(ctx, CommitTimeout)
	defer cancel()

	apperrors.LogCommand("git", "commit", "-m", "<message>")

	cmd := exec.CommandContext(ctx, "git", "commit", "-m", message)
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return apperrors.NewGitError(fmt.Errorf("git commit timed out after %v", CommitTimeout), string(output))
		}
		return apperrors.NewGitError(err, strings.TrimSpace(string(output)))
	}
	return nil
}

// HooksDir returns the directory git reads hooks from for this repository.
// It honours core.hooksPath and linked worktrees.
func (c *DefaultClient) HooksDir(ctx context.Context) (string, error) {
	output, err := c.run(ctx, GitCommandTimeout, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", err
	}

	dir := strings.TrimSpace(string(output))
	if !filepath.IsAbs(dir) {
		base := c.workDir
		if base == "" {
			base, err = os.Getwd()
			if err != nil {
				return "", apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to resolve working directory")
			}
		}
		dir = filepath.Join(base, dir)
	}
	return dir, nil
}

// ConfigGet reads a git configuration value. An unset key yields "" and no error.
func (c *DefaultClient) ConfigGet(ctx context.Context, global bool, key string) (string, error) {
	args := []string{"config"}
	if global {
		args = append(args, "--global")
	}
	args = append(args, "--get", key)

	output, err := c.run(ctx, GitCommandTimeout, args...)
	if err != nil {
		// Exit status 1 means the key is not set.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// FileCommitter completes a commit by writing the message to a file,
// as git expects from a prepare-commit-msg hook.
type FileCommitter struct {
	Path string
}

// Commit overwrites the message file with message.
func (f FileCommitter) Commit(_ context.Context, message string) error {
	if err := os.WriteFile(f.Path, []byte(message+"\n"), 0644); err != nil {
		return apperrors.Wrap(err, apperrors.ErrFileSystemError, fmt.Sprintf("failed to write commit message to %s", f.Path))
	}
	return nil
}
