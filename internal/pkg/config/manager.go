package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
)

const (
	// DefaultConfigDir is the directory under the user's home holding config and styles.
	DefaultConfigDir = ".ai-commit"
	// DefaultConfigFileExt is the default config file extension.
	DefaultConfigFileExt = "yaml"

	// DefaultEndpoint is the Ollama server used when none is configured.
	DefaultEndpoint = "http://localhost:11434"
	// DefaultModel is the model requested when none is configured.
	DefaultModel = "llama3.2"
	// DefaultTemperature is the sampling temperature when none is configured.
	DefaultTemperature = 0.2
	// DefaultTimeout bounds a single completion request.
	DefaultTimeout = 60 * time.Second
)

// envBinding maps a config key to the environment variables that can set it,
// in the order viper consults them.
type envBinding struct {
	key  string
	envs []string
}

var envBindings = []envBinding{
	{"provider.name", []string{"AICOMMIT_PROVIDER_NAME"}},
	{"provider.endpoint", []string{"AICOMMIT_PROVIDER_ENDPOINT", "OLLAMA_URL"}},
	{"provider.model", []string{"AICOMMIT_PROVIDER_MODEL", "OLLAMA_MODEL"}},
	{"provider.api_key", []string{"AICOMMIT_PROVIDER_API_KEY", "OPENAI_API_KEY"}},
	{"provider.timeout", []string{"AICOMMIT_PROVIDER_TIMEOUT"}},
	{"provider.temperature", []string{"AICOMMIT_PROVIDER_TEMPERATURE"}},
	{"ui.editor", []string{"AICOMMIT_UI_EDITOR", "EDITOR"}},
	{"ui.color_enabled", []string{"AICOMMIT_UI_COLOR_ENABLED"}},
	{"styles.dir", []string{"AICOMMIT_STYLES_DIR"}},
}

// visualEnv overrides the editor when non-empty. See applyVisual.
const visualEnv = "VISUAL"

// nonEmptyKeys may be left unset but never set to an empty string.
var nonEmptyKeys = []string{"provider.endpoint", "provider.model"}

var validate = validator.New()

// ViperManager implements the Manager interface using Viper.
type ViperManager struct {
	v          *viper.Viper
	configPath string
	overrides  map[string]string
}

// NewManager creates a new configuration manager.
// If configPath is empty, it uses the default path (~/.ai-commit/config.yaml).
func NewManager(configPath string) (*ViperManager, error) {
	v := viper.New()

	v.SetConfigType(DefaultConfigFileExt)

	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(homeDir, DefaultConfigDir, "config.yaml")
	}

	v.SetConfigFile(configPath)

	v.SetEnvPrefix("AICOMMIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	// Defaults first, otherwise nested keys are not picked up from the environment.
	setDefaults(v)
	bindEnvVars(v)

	return &ViperManager{
		v:          v,
		configPath: configPath,
		overrides:  make(map[string]string),
	}, nil
}

// bindEnvVars explicitly binds environment variables for all config keys.
func bindEnvVars(v *viper.Viper) {
	for _, b := range envBindings {
		args := append([]string{b.key}, b.envs...)
		_ = v.BindEnv(args...)
	}
}

// setDefaults sets the default configuration values.
// ui.editor deliberately has none.
func setDefaults(v *viper.Viper) {
	v.SetDefault("provider.name", "ollama")
	v.SetDefault("provider.endpoint", DefaultEndpoint)
	v.SetDefault("provider.model", DefaultModel)
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.timeout", DefaultTimeout)
	v.SetDefault("provider.temperature", DefaultTemperature)

	v.SetDefault("ui.color_enabled", true)

	homeDir, _ := os.UserHomeDir()
	v.SetDefault("styles.dir", filepath.Join(homeDir, DefaultConfigDir, "styles"))
}

// GetConfigPath returns the path to the configuration file.
func (m *ViperManager) GetConfigPath() string {
	return m.configPath
}

// Load loads the configuration from file, environment, and defaults.
// Priority: flags > env > file > defaults
func (m *ViperManager) Load() (*Config, error) {
	if err := m.readConfig(); err != nil {
		return nil, err
	}

	for _, key := range nonEmptyKeys {
		if source := m.emptySource(key); source != "" {
			return nil, apperrors.NewEmptyConfigValueError(key, source)
		}
	}

	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to decode configuration")
	}
	cfg.editorEmptySource = m.emptySource("ui.editor")
	m.applyVisual(&cfg)

	if err := validate.Struct(cfg); err != nil {
		return nil, validationError(err)
	}

	return &cfg, nil
}

// readConfig reads the config file, tolerating its absence.
func (m *ViperManager) readConfig() error {
	if err := m.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to read config file")
	}
	return nil
}

// applyVisual lets VISUAL pick the editor ahead of EDITOR and the config
// file. Unlike the other sources an empty VISUAL counts as unset.
func (m *ViperManager) applyVisual(cfg *Config) {
	if _, ok := m.overrides["ui.editor"]; ok {
		return
	}
	if _, ok := os.LookupEnv("AICOMMIT_UI_EDITOR"); ok {
		return
	}
	if visual := strings.TrimSpace(os.Getenv(visualEnv)); visual != "" {
		cfg.UI.Editor = visual
		cfg.editorEmptySource = ""
	}
}

// emptySource returns the name of the source that set key to an empty
// string, or "" when the effective value is unset or non-empty.
func (m *ViperManager) emptySource(key string) string {
	if value, ok := m.overrides[key]; ok {
		if value == "" {
			return "the " + key + " flag"
		}
		return ""
	}

	for _, b := range envBindings {
		if b.key != key {
			continue
		}
		for _, env := range b.envs {
			if value, ok := os.LookupEnv(env); ok {
				if value == "" {
					return env
				}
				return ""
			}
		}
	}

	if m.v.InConfig(key) && m.v.GetString(key) == "" {
		return key + " in " + m.configPath
	}
	return ""
}

// validationError converts validator failures into a single ConfigurationError.
func validationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "invalid configuration")
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msgs = append(msgs, fmt.Sprintf("%s %s", e.Namespace(), formatValidationError(e)))
	}
	return apperrors.NewInvalidConfigError("invalid configuration: " + strings.Join(msgs, "; "))
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gt", "gte", "lte":
		return "is out of range"
	default:
		return "has an invalid value"
	}
}

// Init creates a new configuration file with default values.
// Sets file permissions to 0600 since the file may hold an API key.
func (m *ViperManager) Init() error {
	if _, err := os.Stat(m.configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", m.configPath)
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := m.v.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Chmod(m.configPath, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}

// Set sets a configuration value by key and writes it to the config file.
// Supports nested keys using dot notation (e.g., "provider.model").
func (m *ViperManager) Set(key string, value string) error {
	if err := m.readConfig(); err != nil {
		return err
	}

	convertedValue, err := convertValue(value, m.v.Get(key))
	if err != nil {
		return fmt.Errorf("failed to convert value for key %s: %w", key, err)
	}

	m.v.Set(key, convertedValue)

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := m.v.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Chmod(m.configPath, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}

// convertValue converts a string value to the type of the existing value.
func convertValue(value string, existingValue interface{}) (interface{}, error) {
	if existingValue == nil {
		return value, nil
	}

	switch existingValue.(type) {
	case bool:
		return strconv.ParseBool(value)
	case int, int64:
		return strconv.ParseInt(value, 10, 64)
	case float32, float64:
		return strconv.ParseFloat(value, 64)
	case time.Duration:
		return time.ParseDuration(value)
	default:
		return value, nil
	}
}

// Get retrieves a configuration value by key.
func (m *ViperManager) Get(key string) (string, error) {
	if err := m.readConfig(); err != nil {
		return "", err
	}

	value := m.v.Get(key)
	if value == nil {
		return "", fmt.Errorf("key not found: %s", key)
	}

	return fmt.Sprintf("%v", value), nil
}

// List returns all configuration values as a map.
func (m *ViperManager) List() map[string]interface{} {
	_ = m.readConfig()
	return m.v.AllSettings()
}

// SetOverride sets a temporary override for a configuration key.
// Used for command-line flags that shouldn't persist.
func (m *ViperManager) SetOverride(key string, value string) {
	m.overrides[key] = value
	m.v.Set(key, value)
}

// MaskAPIKey masks an API key, showing only the last 4 characters.
func MaskAPIKey(key string) string {
	return apperrors.MaskAPIKey(key)
}
