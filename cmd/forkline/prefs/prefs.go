// Package prefscmder provides the prefs command. Preferences feed the AI
// assistant's recommendations.
package prefscmder

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/api"
	"github.com/forkline/forkline/pkg/clientenv"
	"github.com/forkline/forkline/pkg/cliui"
)

func NewPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prefs",
		Aliases: []string{"preferences"},
		Short:   "View and set taste preferences",
	}

	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newSetCmd())

	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}
			if _, err := env.Require(cmd.Context()); err != nil {
				return err
			}

			p, err := env.Client.Preferences(cmd.Context())
			if err != nil {
				return err
			}

			printPrefs(env.Out, p)
			return nil
		},
	}
}

func newSetCmd() *cobra.Command {
	var tags, diet []string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace taste tags or dietary restrictions",
		Long: `Replace taste tags or dietary restrictions.

Only the lists that are passed are changed. Pass an empty value to clear a
list, for example --diet "".

Examples:
  forkline prefs set --tags spicy,light
  forkline prefs set --diet vegetarian --diet no-peanuts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in api.PreferencesUpdate
			if cmd.Flags().Changed("tags") {
				in.ExplicitTags = nonEmpty(tags)
			}
			if cmd.Flags().Changed("diet") {
				in.DietaryRestrictions = nonEmpty(diet)
			}
			if in.ExplicitTags == nil && in.DietaryRestrictions == nil {
				return errors.New("nothing to set: pass --tags or --diet")
			}

			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}
			if _, err := env.Require(cmd.Context()); err != nil {
				return err
			}

			p, err := env.Client.UpdatePreferences(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Fprintf(env.Out, "\n  %s Preferences saved.\n", cliui.SuccessMark)
			printPrefs(env.Out, p)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Taste tags, comma separated")
	cmd.Flags().StringSliceVar(&diet, "diet", nil, "Dietary restrictions, comma separated")

	return cmd
}

// nonEmpty drops blank entries and never returns nil, so a cleared list is
// sent as [].
func nonEmpty(vals []string) []string {
	out := []string{}
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func printPrefs(w io.Writer, p *api.Preferences) {
	list := func(vals []string) string {
		if len(vals) == 0 {
			return cliui.DimStyle.Render("none")
		}
		return cliui.ValueStyle.Render(strings.Join(vals, ", "))
	}

	fmt.Fprintf(w, "\n  %s %s\n", cliui.KeyStyle.Render("Tastes:"), list(p.ExplicitTags))
	fmt.Fprintf(w, "  %s   %s\n\n", cliui.KeyStyle.Render("Diet:"), list(p.DietaryRestrictions))
}
