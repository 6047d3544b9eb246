// Package chatcmder provides the chat command for talking to the ordering
// assistant with streamed replies.
package chatcmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/api"
	"github.com/forkline/forkline/pkg/chat"
	"github.com/forkline/forkline/pkg/clientenv"
	"github.com/forkline/forkline/pkg/cliui"
)

var (
	userPrompt      = cliui.KeyStyle.Render("you> ")
	assistantPrompt = cliui.DimStyle.Render("assistant> ")
)

type chatCommander struct {
	sessionID  int64
	newSession bool

	env      *clientenv.Env
	streamer *chat.Streamer
	out      io.Writer
	errOut   io.Writer
	plain    bool

	dishNames map[int64]string
}

const chatLongDesc string = `Chat with the ordering assistant.

Replies are streamed as they are written. After each reply the assistant's
recommendations, suggested combo and follow-up questions are shown below it.

The conversation continues the last session used from this directory. Use
--new to start over or --session to pick a session listed by
"forkline chat sessions".

Type /exit or press Ctrl+D to quit, /new to start a new session.

Examples:
  forkline chat
  forkline chat --new
  forkline chat --session 42 --plain`

const chatShortDesc string = "Chat with the ordering assistant"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}
			if _, err := env.Require(cmd.Context()); err != nil {
				return err
			}

			cmder.env = env
			cmder.streamer = env.Chat()
			cmder.out = env.Out
			cmder.errOut = cliui.NewWriter(cmd.ErrOrStderr())
			cmder.plain = env.Config.Chat.Plain
			cmder.dishNames = map[int64]string{}

			return cmder.run(cmd.Context(), cmd.InOrStdin())
		},
	}

	cmd.Flags().Int64VarP(&cmder.sessionID, "session", "s", 0, "Continue this assistant session")
	cmd.Flags().BoolVar(&cmder.newSession, "new", false, "Start a new session")
	cmd.MarkFlagsMutuallyExclusive("session", "new")

	cmd.AddCommand(newSessionsCmd())
	cmd.AddCommand(newHistoryCmd())

	return cmd
}

func (c *chatCommander) run(ctx context.Context, in io.Reader) error {
	if c.newSession {
		if err := c.env.Dirs.ClearChatState(c.env.ConfigDir); err != nil {
			return err
		}
	}

	// A login from another terminal rotates the token of this chat.
	watchCtx, stopWatch := context.WithCancel(ctx)
	watching := make(chan struct{})
	go func() {
		defer close(watching)
		if err := c.env.Credentials.Watch(watchCtx); err != nil {
			c.env.Logger.Warn("credentials will not be reloaded", "error", err)
		}
	}()
	defer func() {
		stopWatch()
		<-watching
	}()

	sessionID, err := chat.ResolveSession(ctx, c.env.Client, c.env.Dirs, c.env.ConfigDir, c.sessionID)
	if err != nil {
		return fmt.Errorf("opening assistant session: %w", err)
	}

	fmt.Fprintf(c.out, "\n  %s %s\n", cliui.KeyStyle.Render("Session:"), cliui.NameStyle.Render(fmt.Sprint(sessionID)))
	fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(c.out, userPrompt)
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "/exit", "/quit":
			fmt.Fprintln(c.out)
			return nil
		case "/new":
			if sessionID, err = c.restart(ctx); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "  %s New session %d\n\n", cliui.SuccessMark, sessionID)
			continue
		}

		reply, err := c.send(ctx, sessionID, input)
		if errors.Is(err, errSessionGone) {
			// The saved session no longer exists on the service.
			c.env.Logger.Info("assistant session not found, starting a new one", "session_id", sessionID)
			if sessionID, err = c.restart(ctx); err != nil {
				return err
			}
			reply, err = c.send(ctx, sessionID, input)
		}
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(c.out)
				return nil
			}
			fmt.Fprintf(c.errOut, "\n  %s %v\n\n", cliui.FailMark, err)
			continue
		}

		c.showExtras(ctx, reply.Response)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Fprintln(c.out)
	return nil
}

var errSessionGone = errors.New("assistant session not found")

// send streams one answer to the terminal.
func (c *chatCommander) send(ctx context.Context, sessionID int64, input string) (*chat.Reply, error) {
	started := false
	reply, err := c.streamer.Send(ctx, sessionID, input, func(token string) {
		if !started {
			fmt.Fprint(c.out, assistantPrompt)
			started = true
		}
		fmt.Fprint(c.out, token)
	})
	if !started && api.IsNotFound(err) {
		return nil, errSessionGone
	}

	if !started && reply != nil && reply.Text != "" {
		fmt.Fprint(c.out, assistantPrompt+reply.Text)
		started = true
	}
	if started {
		fmt.Fprint(c.out, "\n\n")
	}

	return reply, err
}

func (c *chatCommander) restart(ctx context.Context) (int64, error) {
	if err := c.env.Dirs.ClearChatState(c.env.ConfigDir); err != nil {
		return 0, err
	}
	id, err := chat.ResolveSession(ctx, c.env.Client, c.env.Dirs, c.env.ConfigDir, 0)
	if err != nil {
		return 0, fmt.Errorf("opening assistant session: %w", err)
	}
	return id, nil
}

func (c *chatCommander) showExtras(ctx context.Context, resp *api.AiResponse) {
	md := chat.Markdown(resp, func(id int64) string { return c.dishName(ctx, id) })
	if md == "" {
		return
	}

	if !c.plain {
		rendered, err := cliui.RenderMarkdown(md)
		if err == nil {
			fmt.Fprint(c.out, rendered)
			return
		}
		c.env.Logger.Debug("rendering markdown", "error", err)
	}

	fmt.Fprintf(c.out, "%s\n\n", md)
}

// dishName looks a dish up once per chat; unknown dishes fall back to their id.
func (c *chatCommander) dishName(ctx context.Context, id int64) string {
	if name, ok := c.dishNames[id]; ok {
		return name
	}

	name := fmt.Sprintf("Dish #%d", id)
	if d, err := c.env.Client.Dish(ctx, id); err == nil {
		name = d.Name
	} else {
		c.env.Logger.Debug("looking up recommended dish", "dish_id", id, "error", err)
	}

	c.dishNames[id] = name
	return name
}
