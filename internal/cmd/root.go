// Package cmd contains the CLI command definitions for ai-commit.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/aicommit/aicommit/internal/app"
	"github.com/aicommit/aicommit/internal/pkg/ai"
	"github.com/aicommit/aicommit/internal/pkg/config"
	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
	"github.com/aicommit/aicommit/internal/pkg/git"
	"github.com/aicommit/aicommit/internal/pkg/styles"
	"github.com/aicommit/aicommit/internal/pkg/ui"
)

// BuildInfo is version information set via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Dependencies are the collaborators the commands run against.
// Zero fields are filled with the real implementations.
type Dependencies struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	Git         git.Client
	Editor      app.Editor
	Styles      styles.Repository
	NewProvider func(cfg *config.ProviderConfig) (ai.Provider, error)

	HomeDir    string
	Executable string
}

func (d Dependencies) withDefaults() Dependencies {
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Err == nil {
		d.Err = os.Stderr
	}
	if d.Git == nil {
		d.Git = git.NewClient()
	}
	if d.Editor == nil {
		d.Editor = ui.NewExternalEditor()
	}
	if d.NewProvider == nil {
		d.NewProvider = func(cfg *config.ProviderConfig) (ai.Provider, error) {
			return ai.NewProvider(cfg)
		}
	}
	if d.HomeDir == "" {
		d.HomeDir, _ = os.UserHomeDir()
	}
	if d.Executable == "" {
		d.Executable = "ai-commit"
	}
	return d
}

// rootFlags holds the flags of the default generate-and-commit action.
type rootFlags struct {
	style    string
	print    bool
	dryRun   bool
	yes      bool
	backend  string
	model    string
	hookFile string
}

// Execute runs the CLI with args and returns the process exit status.
// Errors are rendered once here; a panic is reported generically.
func Execute(ctx context.Context, args []string, deps Dependencies, info BuildInfo) (code int) {
	deps = deps.withDefaults()

	defer func() {
		if r := recover(); r != nil {
			apperrors.Debug("panic: %v\n%s", r, debug.Stack())
			fmt.Fprintln(deps.Err, "Error: an unexpected error occurred.")
			code = 1
		}
	}()

	rootCmd := NewRootCmd(deps, info)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(deps.In)
	rootCmd.SetOut(deps.Out)
	rootCmd.SetErr(deps.Err)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if apperrors.IsVerbose() {
			fmt.Fprint(deps.Err, apperrors.FormatErrorVerbose(err))
		} else {
			fmt.Fprintln(deps.Err, apperrors.FormatError(err))
		}
		return apperrors.GetExitCode(err)
	}
	return 0
}

// NewRootCmd creates the root command for the ai-commit CLI.
func NewRootCmd(deps Dependencies, info BuildInfo) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "ai-commit",
		Short: "Generate commit messages for staged changes with a language model",
		Long: `ai-commit sends your staged diff, framed by a selectable style prompt,
to a language model and proposes a commit message. You can accept it,
open it in your editor, or abort.

Examples:
  ai-commit                      # Propose a message and commit on accept
  ai-commit --style pirate       # Use another style
  ai-commit --print              # Only print the message
  ai-commit --dry-run            # Use the mock provider, no network
  ai-commit install-hook         # Run ai-commit inside 'git commit'`,
		Version:       info.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			apperrors.SetVerbose(verbose)
			apperrors.SetOutput(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, deps, flags)
		},
	}

	rootCmd.SetVersionTemplate(`ai-commit {{.Version}}
Commit: ` + info.Commit + `
Built:  ` + info.Date + "\n")

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: ~/.ai-commit/config.yaml)")

	rootCmd.Flags().StringVarP(&flags.style, "style", "s", "conventional", "Prompt style to use (see 'ai-commit styles')")
	rootCmd.Flags().BoolVarP(&flags.print, "print", "p", false, "Print the generated message without committing")
	rootCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Use the mock provider instead of a model backend")
	rootCmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Accept the generated message without prompting")
	rootCmd.Flags().StringVar(&flags.backend, "backend", "", "Model backend to use (ollama, openai)")
	rootCmd.Flags().StringVarP(&flags.model, "model", "m", "", "Model to use")
	rootCmd.Flags().StringVar(&flags.hookFile, "hook-file", "", "Write the accepted message to this file instead of committing")
	_ = rootCmd.Flags().MarkHidden("hook-file")

	rootCmd.AddCommand(newInstallHookCmd(deps))
	rootCmd.AddCommand(newStylesCmd(deps))
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}

// loadConfig builds the configuration manager for --config and applies
// flag overrides, which take priority over env and file values.
func loadConfig(cmd *cobra.Command, overrides map[string]string) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfgMgr, err := config.NewManager(configPath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create config manager")
	}
	if configPath != "" {
		apperrors.Debug("Using config file: %s", configPath)
	}

	for key, value := range overrides {
		cfgMgr.SetOverride(key, value)
		apperrors.Debug("%s overridden via flag: %s", key, value)
	}

	return cfgMgr.Load()
}

// runGenerate executes the default action: staged diff → message → accept/edit/abort.
func runGenerate(cmd *cobra.Command, deps Dependencies, flags *rootFlags) error {
	ctx := cmd.Context()

	overrides := map[string]string{}
	if cmd.Flags().Changed("backend") {
		overrides["provider.name"] = flags.backend
	}
	if cmd.Flags().Changed("model") {
		overrides["provider.model"] = flags.model
	}

	cfg, err := loadConfig(cmd, overrides)
	if err != nil {
		return err
	}

	repo := deps.Styles
	if repo == nil {
		repo, err = styles.NewDefaultRepository(cfg.Styles.Dir)
		if err != nil {
			return err
		}
	}

	var provider ai.Provider
	if flags.dryRun {
		provider = ai.NewMockProvider()
	} else {
		provider, err = deps.NewProvider(&cfg.Provider)
		if err != nil {
			return err
		}
		apperrors.Debug("Using provider %s, model %s at %s", cfg.Provider.Name, cfg.Provider.Model, cfg.Provider.Endpoint)
		if cfg.Provider.APIKey != "" {
			apperrors.Debug("API key: %s", config.MaskAPIKey(cfg.Provider.APIKey))
		}
	}

	out := cmd.OutOrStdout()
	var uiMgr ui.Manager
	if flags.yes {
		uiMgr = ui.NewNonInteractiveManager(out, cfg.UI.ColorEnabled)
	} else {
		uiMgr = ui.NewDefaultManager(ui.Options{In: cmd.InOrStdin(), Out: out, ColorEnabled: cfg.UI.ColorEnabled})
	}

	if flags.dryRun && !flags.print {
		uiMgr.ShowInfo("Dry run: using the mock provider.")
	}

	var committer app.Committer = deps.Git
	accepted := "Commit successful!"
	if flags.hookFile != "" {
		committer = git.FileCommitter{Path: flags.hookFile}
		accepted = "Commit message saved."
	}

	controller := app.NewController(uiMgr, deps.Editor, cfg.EditorProgram, committer)
	service := app.NewCommitService(deps.Git, app.NewGenerationService(repo, provider), uiMgr, controller)

	_, err = service.Run(ctx, app.CommitOptions{
		Style:           flags.style,
		PrintOnly:       flags.print,
		AcceptedMessage: accepted,
	})
	return err
}
