package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aicommit/aicommit/internal/pkg/styles"
)

// describer is implemented by repositories that keep style descriptions.
type describer interface {
	Describe(name string) (styles.Style, bool)
}

// newStylesCmd creates the styles command.
func newStylesCmd(deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List available prompt styles",
		Long: `List the prompt styles that can be passed to --style.

Built-in styles can be overridden and extended by placing <name>.txt or
<name>.toml files in the styles directory (styles.dir, default
~/.ai-commit/styles).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := deps.Styles
			if repo == nil {
				cfg, err := loadConfig(cmd, nil)
				if err != nil {
					return err
				}
				repo, err = styles.NewDefaultRepository(cfg.Styles.Dir)
				if err != nil {
					return err
				}
			}

			names := repo.List()
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "No styles available.")
				return nil
			}

			d, _ := repo.(describer)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, name := range names {
				description := ""
				if d != nil {
					if style, ok := d.Describe(name); ok {
						description = style.Description
					}
				}
				fmt.Fprintf(tw, "%s\t%s\n", name, description)
			}
			return tw.Flush()
		},
	}
}
