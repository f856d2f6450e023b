// Package hook installs the prepare-commit-msg hook that runs ai-commit inside git commit.
package hook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
)

const (
	// Name is the git hook ai-commit installs.
	Name = "prepare-commit-msg"

	// Marker identifies hook scripts written by ai-commit.
	Marker = "# Hook created by ai-commit."

	// templatesDir is used for global installs when core.hooksPath is unset.
	templatesDir = ".git_templates"
)

const scriptTemplate = `#!/bin/sh
%s

# Skip when not attached to a terminal.
if ! [ -t 1 ]; then
  exit 0
fi

# Skip when git already has a message source (-m, -F, -C, merge, squash).
case "$2" in
  message|template|merge|squash|commit) exit 0;;
esac

# Reattach stdin to the terminal for the interactive prompt.
exec < /dev/tty
exec %s --hook-file "$1"
`

// Script returns the hook script that invokes binary.
func Script(binary string) string {
	return fmt.Sprintf(scriptTemplate, Marker, binary)
}

// GitConfig is the subset of git operations the installer needs.
type GitConfig interface {
	HooksDir(ctx context.Context) (string, error)
	ConfigGet(ctx context.Context, global bool, key string) (string, error)
}

// Installer writes the hook into a repository or the user's global hooks directory.
type Installer struct {
	git     GitConfig
	homeDir string
	binary  string
}

// NewInstaller creates an installer. binary is the command the hook runs.
func NewInstaller(git GitConfig, homeDir, binary string) *Installer {
	if binary == "" {
		binary = "ai-commit"
	}
	return &Installer{git: git, homeDir: homeDir, binary: binary}
}

// Target returns the path the hook would be written to.
func (i *Installer) Target(ctx context.Context, global bool) (string, error) {
	if !global {
		dir, err := i.git.HooksDir(ctx)
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, Name), nil
	}

	hooksPath, err := i.git.ConfigGet(ctx, true, "core.hooksPath")
	if err != nil {
		return "", err
	}
	if hooksPath == "" {
		return filepath.Join(i.homeDir, templatesDir, "hooks", Name), nil
	}
	if hooksPath == "~" || strings.HasPrefix(hooksPath, "~/") {
		hooksPath = filepath.Join(i.homeDir, strings.TrimPrefix(hooksPath, "~"))
	}
	return filepath.Join(hooksPath, Name), nil
}

// OnPath reports whether the command the hook runs can be resolved.
func (i *Installer) OnPath() bool {
	_, err := exec.LookPath(i.binary)
	return err == nil
}

// Status reports whether a hook file exists at path and whether ai-commit wrote it.
func Status(path string) (exists, ours bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, false, nil
		}
		return false, false, apperrors.Wrap(err, apperrors.ErrFileSystemError, fmt.Sprintf("failed to read %s", path))
	}
	return true, strings.Contains(string(data), Marker), nil
}

// Install writes the hook to path and makes it executable. A foreign hook
// already at path is only replaced when force is set.
func (i *Installer) Install(path string, force bool) error {
	exists, ours, err := Status(path)
	if err != nil {
		return err
	}
	if exists && !ours && !force {
		return apperrors.New(apperrors.ErrInvalidArguments, fmt.Sprintf("a %s hook already exists at %s", Name, path)).
			WithSuggestion("Re-run with --force to replace it")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to create hooks directory")
	}
	if err := os.WriteFile(path, []byte(Script(i.binary)), 0755); err != nil {
		return apperrors.Wrap(err, apperrors.ErrFileSystemError, fmt.Sprintf("failed to write %s", path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrFileSystemError, fmt.Sprintf("failed to stat %s", path))
	}
	if err := os.Chmod(path, info.Mode()|0111); err != nil {
		return apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to make hook executable")
	}

	apperrors.Debug("installed %s hook at %s", Name, path)
	return nil
}
