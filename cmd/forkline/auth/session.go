package authcmder

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/clientenv"
	"github.com/forkline/forkline/pkg/cliui"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}

			if err := env.Session.Logout(); err != nil {
				return err
			}
			// Chat sessions belong to the account that created them.
			if err := env.Dirs.ClearChatState(env.ConfigDir); err != nil {
				return err
			}

			fmt.Fprintf(env.Out, "\n  %s Logged out.\n\n", cliui.SuccessMark)
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}

			me, err := env.Require(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(env.Out, "\n  %s  %s\n", cliui.KeyStyle.Render("User:"), cliui.NameStyle.Render(me.Username))
			fmt.Fprintf(env.Out, "  %s  %s\n", cliui.KeyStyle.Render("ID:  "), cliui.ValueStyle.Render(strconv.FormatInt(me.ID, 10)))
			fmt.Fprintf(env.Out, "  %s  %s\n", cliui.KeyStyle.Render("Role:"), cliui.ValueStyle.Render(me.Role))
			if me.CreatedAt != "" {
				fmt.Fprintf(env.Out, "  %s  %s\n", cliui.KeyStyle.Render("Since:"), cliui.DimStyle.Render(me.CreatedAt))
			}
			fmt.Fprintln(env.Out)
			return nil
		},
	}
}
