package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
)

// ExternalEditor edits text in the user's editor through a temporary file.
type ExternalEditor struct {
	// TempDir holds the scratch file; empty means os.TempDir().
	TempDir string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewExternalEditor creates an editor attached to the process stdio.
func NewExternalEditor() *ExternalEditor {
	return &ExternalEditor{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Edit writes content to a temporary file, runs program on it and waits for
// it to exit, then returns the file's content. The file is removed on every path.
//
// program is a command line such as "vim" or "code --wait".
func (e *ExternalEditor) Edit(ctx context.Context, program, content string) (string, error) {
	argv := strings.Fields(program)
	if len(argv) == 0 {
		return "", apperrors.NewEditorNotConfiguredError()
	}

	tmpFile, err := os.CreateTemp(e.TempDir, "ai-commit-*.txt")
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to create temporary file")
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return "", apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to write temporary file")
	}
	if err := tmpFile.Close(); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to write temporary file")
	}

	apperrors.LogCommand(argv[0], append(argv[1:], tmpPath)...)

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], tmpPath)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		return "", apperrors.NewEditorError(program, err)
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrFileSystemError, fmt.Sprintf("failed to read %s", tmpPath))
	}
	return string(edited), nil
}
