// Package styles resolves style names to the system prompts that frame commit message generation.
package styles

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
)

//go:embed builtin/*.txt builtin/*.toml
var builtinFS embed.FS

const (
	textExt = ".txt"
	tomlExt = ".toml"
)

// Style is a named prompt template.
type Style struct {
	Name        string
	Description string
	Prompt      string
}

// Repository resolves style names to prompt text.
type Repository interface {
	// List returns the known style names in alphabetical order.
	List() []string
	// Load returns the prompt text for name, or an UnknownStyle error.
	Load(name string) (string, error)
}

// FSRepository is a read-only Repository built once from one or more file systems.
type FSRepository struct {
	styles map[string]Style
	names  []string
}

// styleFile is the on-disk shape of a .toml style.
type styleFile struct {
	Description string `toml:"description"`
	Prompt      string `toml:"prompt"`
}

// Builtin returns the file system holding the styles shipped with ai-commit.
func Builtin() fs.FS {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(err)
	}
	return sub
}

// NewDefaultRepository loads the built-in styles overlaid by the styles in
// userDir. A missing userDir is not an error.
func NewDefaultRepository(userDir string) (*FSRepository, error) {
	layers := []fs.FS{Builtin()}

	if userDir != "" {
		info, err := os.Stat(userDir)
		switch {
		case err == nil && info.IsDir():
			layers = append(layers, os.DirFS(userDir))
		case err == nil:
			return nil, apperrors.NewInvalidConfigError(fmt.Sprintf("styles directory %s is not a directory", userDir))
		case !errors.Is(err, fs.ErrNotExist):
			return nil, apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to read styles directory")
		}
	}

	return NewFSRepository(layers...)
}

// NewFSRepository reads every *.txt and *.toml file at the top level of each
// layer. A style in a later layer replaces one with the same name in an
// earlier layer; within a layer a .toml file replaces a .txt file.
func NewFSRepository(layers ...fs.FS) (*FSRepository, error) {
	repo := &FSRepository{styles: make(map[string]Style)}

	for _, layer := range layers {
		entries, err := fs.ReadDir(layer, ".")
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to list styles")
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := path.Ext(entry.Name())
			if ext != textExt && ext != tomlExt {
				continue
			}

			style, err := readStyle(layer, entry.Name())
			if err != nil {
				return nil, err
			}
			repo.styles[style.Name] = style
		}
	}

	repo.names = make([]string, 0, len(repo.styles))
	for name := range repo.styles {
		repo.names = append(repo.names, name)
	}
	sort.Strings(repo.names)

	return repo, nil
}

func readStyle(fsys fs.FS, file string) (Style, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return Style{}, apperrors.Wrap(err, apperrors.ErrFileSystemError, fmt.Sprintf("failed to read style %s", file))
	}

	ext := path.Ext(file)
	style := Style{Name: strings.TrimSuffix(file, ext)}

	switch ext {
	case tomlExt:
		var sf styleFile
		if _, err := toml.Decode(string(data), &sf); err != nil {
			return Style{}, apperrors.Wrap(err, apperrors.ErrInvalidConfig, fmt.Sprintf("invalid style file %s", file))
		}
		style.Description = strings.TrimSpace(sf.Description)
		style.Prompt = sf.Prompt
	default:
		style.Prompt = string(data)
	}

	style.Prompt = strings.TrimSpace(style.Prompt)
	if style.Prompt == "" {
		return Style{}, apperrors.NewInvalidConfigError(fmt.Sprintf("style %s has an empty prompt", file))
	}

	return style, nil
}

// List returns the known style names in alphabetical order.
func (r *FSRepository) List() []string {
	return append([]string(nil), r.names...)
}

// Load returns the prompt text for name.
func (r *FSRepository) Load(name string) (string, error) {
	style, ok := r.styles[name]
	if !ok {
		return "", apperrors.NewUnknownStyleError(name, r.names)
	}
	return style.Prompt, nil
}

// Describe returns the full style definition for name.
func (r *FSRepository) Describe(name string) (Style, bool) {
	style, ok := r.styles[name]
	return style, ok
}
