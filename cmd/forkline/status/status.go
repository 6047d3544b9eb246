// Package statuscmder provides the status command, a local summary of where
// forkline points and who it is logged in as.
package statuscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/clientenv"
	"github.com/forkline/forkline/pkg/cliui"
	"github.com/forkline/forkline/pkg/utils"
)

const statusLongDesc string = `Show the resolved .forkline/ directory, the API target, the stored login
and the chat session "forkline chat" will resume.

status only reads local state; it does not contact the service. Use
"forkline auth whoami" to verify the login.`

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show local forkline state",
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}

			dir, err := env.Dirs.Target(env.ConfigDir)
			if err != nil {
				return err
			}

			out := env.Out
			key := func(k string) string { return cliui.KeyStyle.Render(fmt.Sprintf("%-10s", k)) }

			fmt.Fprintf(out, "\n  %s %s\n", key("Directory:"), cliui.DimStyle.Render(dir))
			fmt.Fprintf(out, "  %s %s\n", key("API:"), cliui.ValueStyle.Render(env.Client.BaseURL()))

			sess := env.Credentials.Session()
			switch {
			case sess.Token == "":
				fmt.Fprintf(out, "  %s %s\n", key("Login:"), cliui.DimStyle.Render("not logged in"))
			case sess.Username != "":
				fmt.Fprintf(out, "  %s %s %s\n", key("Login:"), cliui.NameStyle.Render(sess.Username), cliui.DimStyle.Render("("+sess.Role+")"))
			default:
				fmt.Fprintf(out, "  %s %s\n", key("Login:"), cliui.ValueStyle.Render("token "+utils.Truncate(sess.Token, 8)))
			}

			state, err := env.Dirs.LoadChatState(env.ConfigDir)
			if err != nil {
				return err
			}
			if state == nil {
				fmt.Fprintf(out, "  %s %s\n\n", key("Chat:"), cliui.DimStyle.Render("next chat starts a new session"))
				return nil
			}

			title := state.Title
			if title == "" {
				title = "untitled"
			}
			fmt.Fprintf(out, "  %s session %d %s\n\n", key("Chat:"), state.SessionID,
				cliui.DimStyle.Render("("+utils.Truncate(title, 40)+")"))
			return nil
		},
	}
}
