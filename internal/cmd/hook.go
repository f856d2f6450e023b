package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aicommit/aicommit/internal/pkg/hook"
	"github.com/aicommit/aicommit/internal/pkg/ui"
)

// newInstallHookCmd creates the install-hook command.
func newInstallHookCmd(deps Dependencies) *cobra.Command {
	var global, force bool

	cmd := &cobra.Command{
		Use:   "install-hook",
		Short: "Install the prepare-commit-msg git hook",
		Long: `Install a prepare-commit-msg hook so that 'git commit' proposes a message
generated by ai-commit.

Without --global the hook is written to the current repository's hooks
directory. With --global it is written to core.hooksPath, or to
~/.git_templates/hooks when core.hooksPath is unset.

The hook is skipped when git already has a message (-m, -F, -C, merges,
squashes) and when git is not run from a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			installer := hook.NewInstaller(deps.Git, deps.HomeDir, deps.Executable)

			path, err := installer.Target(cmd.Context(), global)
			if err != nil {
				return err
			}

			uiMgr := ui.NewDefaultManager(ui.Options{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), ColorEnabled: true})

			exists, ours, err := hook.Status(path)
			if err != nil {
				return err
			}
			if exists && !ours && !force {
				confirmed, err := uiMgr.PromptConfirm(fmt.Sprintf("A %s hook already exists at %s. Overwrite it?", hook.Name, path))
				if err != nil {
					return err
				}
				force = confirmed
			}

			if err := installer.Install(path, force); err != nil {
				return err
			}

			uiMgr.ShowSuccess("Hook installed successfully at: " + path)
			if !installer.OnPath() {
				uiMgr.ShowWarning(fmt.Sprintf("%s is not on your PATH. The hook cannot run until it is.", deps.Executable))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Install the hook globally")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing hook not created by ai-commit")

	return cmd
}
