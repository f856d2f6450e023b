package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aicommit/aicommit/internal/pkg/config"
	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
	"github.com/aicommit/aicommit/internal/pkg/ui"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ai-commit configuration",
		Long: `Manage ai-commit configuration settings.

Use subcommands to initialize, view, or modify configuration values.
Configuration is stored in ~/.ai-commit/config.yaml by default.

Environment variables take priority over the file:
  OLLAMA_URL, OLLAMA_MODEL      model backend endpoint and model
  VISUAL, EDITOR                editor used for the edit choice
  AICOMMIT_<SECTION>_<KEY>      any key, e.g. AICOMMIT_PROVIDER_NAME`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigSetCmd())
	configCmd.AddCommand(newConfigGetCmd())
	configCmd.AddCommand(newConfigListCmd())
	configCmd.AddCommand(newConfigSetupCmd())

	return configCmd
}

func newConfigManager(cmd *cobra.Command) (*config.ViperManager, error) {
	configPath, _ := cmd.Flags().GetString("config")
	mgr, err := config.NewManager(configPath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create config manager")
	}
	return mgr, nil
}

// newConfigInitCmd creates the 'config init' subcommand.
func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Long: `Create a new configuration file with default values.

The configuration file will be created with permissions 0600 (user read/write only)
for security, as it may contain API keys.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			if err := mgr.Init(); err != nil {
				return apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to initialize configuration")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at %s\n", mgr.GetConfigPath())
			return nil
		},
	}
}

// newConfigSetCmd creates the 'config set' subcommand.
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value by key.

Supports nested keys using dot notation.

Examples:
  ai-commit config set provider.name openai
  ai-commit config set provider.endpoint http://localhost:11434
  ai-commit config set provider.model llama3.2
  ai-commit config set ui.editor "code --wait"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			if err := mgr.Set(key, value); err != nil {
				return apperrors.Wrap(err, apperrors.ErrInvalidArguments, fmt.Sprintf("failed to set %s", key))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, displayValue(key, value))
			return nil
		},
	}
}

// newConfigGetCmd creates the 'config get' subcommand.
func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a configuration value",
		Long: `Print the effective value of a configuration key, after defaults,
the config file and environment variables are applied.

Examples:
  ai-commit config get provider.model
  ai-commit config get ui.editor`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			value, err := mgr.Get(key)
			if err != nil {
				return apperrors.Wrap(err, apperrors.ErrInvalidArguments, fmt.Sprintf("failed to get %s", key)).
					WithSuggestion("Run 'ai-commit config list' to see the known keys")
			}

			fmt.Fprintln(cmd.OutOrStdout(), displayValue(key, value))
			return nil
		},
	}
}

// newConfigListCmd creates the 'config list' subcommand.
func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `Display all current configuration values.

API keys are masked for security, showing only the last 4 characters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			printSettings(cmd.OutOrStdout(), "", mgr.List())
			return nil
		},
	}
}

// newConfigSetupCmd creates the 'config setup' subcommand.
func newConfigSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Configure the model backend interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !ui.IsTerminal(cmd.InOrStdin()) {
				return apperrors.New(apperrors.ErrInvalidArguments, "config setup needs an interactive terminal").
					WithSuggestion("Use 'ai-commit config set <key> <value>' instead")
			}

			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}
			return ui.RunInteractiveSetup(mgr, cmd.OutOrStdout())
		},
	}
}

// displayValue masks API keys.
func displayValue(key, value string) string {
	if strings.Contains(strings.ToLower(key), "api_key") && value != "" {
		return config.MaskAPIKey(value)
	}
	return value
}

// printSettings prints settings sorted by key, nesting maps with indentation.
func printSettings(w io.Writer, indent string, settings map[string]interface{}) {
	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch v := settings[key].(type) {
		case map[string]interface{}:
			fmt.Fprintf(w, "%s%s:\n", indent, key)
			printSettings(w, indent+"  ", v)
		default:
			fmt.Fprintf(w, "%s%s: %s\n", indent, key, displayValue(key, fmt.Sprintf("%v", v)))
		}
	}
}
