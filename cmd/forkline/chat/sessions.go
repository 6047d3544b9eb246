package chatcmder

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/clientenv"
	"github.com/forkline/forkline/pkg/cliui"
)

func newSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List your assistant sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}
			if _, err := env.Require(cmd.Context()); err != nil {
				return err
			}

			sessions, err := env.Client.ListAiSessions(cmd.Context())
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintf(env.Out, "\n  %s\n\n", cliui.DimStyle.Render("No sessions yet. Start one with 'forkline chat'."))
				return nil
			}

			var current int64
			if state, err := env.Dirs.LoadChatState(env.ConfigDir); err == nil && state != nil {
				current = state.SessionID
			}

			rows := make([][]string, 0, len(sessions))
			for _, s := range sessions {
				mark := ""
				if s.ID == current {
					mark = cliui.SuccessMark
				}
				title := s.Title
				if title == "" {
					title = cliui.DimStyle.Render("untitled")
				}
				rows = append(rows, []string{strconv.FormatInt(s.ID, 10), title, s.CreatedAt, mark})
			}

			fmt.Fprintln(env.Out)
			cliui.Table(env.Out, []string{"ID", "TITLE", "CREATED", "CURRENT"}, rows)
			fmt.Fprintln(env.Out)
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [session_id]",
		Short: "Print the messages of a session",
		Long: `Print the messages of an assistant session. Without an id the
current session of this directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				id  int64
				err error
			)
			if len(args) == 1 {
				if id, err = clientenv.ParseID(args[0], "session"); err != nil {
					return err
				}
			}

			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}
			if _, err := env.Require(cmd.Context()); err != nil {
				return err
			}

			if id == 0 {
				state, err := env.Dirs.LoadChatState(env.ConfigDir)
				if err != nil {
					return err
				}
				if state == nil {
					return fmt.Errorf("no current session: pass a session id or start one with 'forkline chat'")
				}
				id = state.SessionID
			}

			msgs, err := env.Client.AiMessages(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Fprintln(env.Out)
			for _, m := range msgs {
				prompt := assistantPrompt
				if m.Role == "user" {
					prompt = userPrompt
				}
				fmt.Fprintf(env.Out, "%s%s\n\n", prompt, m.Content)
			}
			if len(msgs) == 0 {
				fmt.Fprintf(env.Out, "  %s\n\n", cliui.DimStyle.Render("No messages yet."))
			}
			return nil
		},
	}
}
