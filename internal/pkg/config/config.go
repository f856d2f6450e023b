// Package config provides configuration management for ai-commit.
package config

import (
	"time"

	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
)

// Config represents the complete ai-commit configuration.
type Config struct {
	Provider ProviderConfig `mapstructure:"provider"`
	UI       UIConfig       `mapstructure:"ui"`
	Styles   StylesConfig   `mapstructure:"styles"`

	// editorEmptySource names the source that set the editor to an empty value.
	editorEmptySource string
}

// ProviderConfig contains model backend settings.
type ProviderConfig struct {
	Name        string        `mapstructure:"name" validate:"required,oneof=ollama openai"`
	Endpoint    string        `mapstructure:"endpoint" validate:"required,url"`
	Model       string        `mapstructure:"model" validate:"required"`
	APIKey      string        `mapstructure:"api_key"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Temperature float32       `mapstructure:"temperature" validate:"gte=0,lte=2"`
}

// UIConfig contains UI-related settings.
type UIConfig struct {
	Editor       string `mapstructure:"editor"`
	ColorEnabled bool   `mapstructure:"color_enabled"`
}

// StylesConfig points at the directory of user-defined styles.
type StylesConfig struct {
	Dir string `mapstructure:"dir"`
}

// EditorProgram returns the configured editor command line.
// An editor that was set to an empty value is a configuration error;
// an editor that was never set is EditorNotConfigured.
func (c *Config) EditorProgram() (string, error) {
	if c.editorEmptySource != "" {
		return "", apperrors.NewEmptyConfigValueError("ui.editor", c.editorEmptySource)
	}
	if c.UI.Editor == "" {
		return "", apperrors.NewEditorNotConfiguredError()
	}
	return c.UI.Editor, nil
}

// Manager defines the interface for configuration management.
type Manager interface {
	Load() (*Config, error)
	Set(key string, value string) error
	Get(key string) (string, error)
	Init() error
	List() map[string]interface{}
	GetConfigPath() string
}
