package authcmder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/forkline/forkline/pkg/api"
	"github.com/forkline/forkline/pkg/clientenv"
	"github.com/forkline/forkline/pkg/cliui"
)

func newLoginCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a username and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}

			p := newPrompter(cmd)
			creds, err := p.credentials(username)
			if err != nil {
				return err
			}

			var me *api.User
			err = cliui.Step(env.Out, "Logging in", func() error {
				me, err = env.Session.Login(cmd.Context(), creds.Username, creds.Password)
				return err
			})
			if err != nil {
				return err
			}

			printWelcome(env, me)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted when omitted)")

	return cmd
}

func newRegisterCmd() *cobra.Command {
	var username, phone string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}

			p := newPrompter(cmd)
			creds, err := p.credentials(username)
			if err != nil {
				return err
			}
			creds.Phone = phone

			var me *api.User
			err = cliui.Step(env.Out, "Creating account", func() error {
				me, err = env.Session.Register(cmd.Context(), creds)
				return err
			})
			if err != nil {
				return err
			}

			printWelcome(env, me)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted when omitted)")
	cmd.Flags().StringVar(&phone, "phone", "", "Contact phone number")

	return cmd
}

func printWelcome(env *clientenv.Env, me *api.User) {
	fmt.Fprintf(env.Out, "\n  %s Logged in as %s %s\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(me.Username),
		cliui.DimStyle.Render("("+me.Role+")"),
	)
}

// prompter reads answers from the command's input. Secrets are read without
// echo when the input is a terminal.
type prompter struct {
	in  io.Reader
	out io.Writer
	r   *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{
		in:  cmd.InOrStdin(),
		out: cmd.ErrOrStderr(),
		r:   bufio.NewReader(cmd.InOrStdin()),
	}
}

func (p *prompter) credentials(username string) (api.Credentials, error) {
	var err error

	username = strings.TrimSpace(username)
	if username == "" {
		username, err = p.line("Username: ")
		if err != nil {
			return api.Credentials{}, err
		}
	}
	if username == "" {
		return api.Credentials{}, errors.New("username cannot be empty")
	}

	password, err := p.secret("Password: ")
	if err != nil {
		return api.Credentials{}, err
	}
	if password == "" {
		return api.Credentials{}, errors.New("password cannot be empty")
	}

	return api.Credentials{Username: username, Password: password}, nil
}

func (p *prompter) line(prompt string) (string, error) {
	if p.isTerminal() {
		fmt.Fprint(p.out, prompt)
	}

	s, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		if errors.Is(err, io.EOF) {
			return "", errors.New("no input received")
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) secret(prompt string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.line(prompt)
	}

	fmt.Fprint(p.out, prompt)
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (p *prompter) isTerminal() bool {
	f, ok := p.in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
