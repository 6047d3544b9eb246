package testutils

import (
	"bytes"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/clientenv"
	"github.com/forkline/forkline/pkg/credentials"
)

// Result is the captured output of a command run.
type Result struct {
	Out string
	Err error
}

// RunCmd executes sub under a root command carrying the persistent client
// flags, pointed at target with configDir as the dot directory. stdin feeds
// the command's input.
func RunCmd(sub *cobra.Command, target, configDir, stdin string, args ...string) Result {
	return RunCmdInput(sub, target, configDir, strings.NewReader(stdin), args...)
}

// RunCmdInput is RunCmd with a live input stream, for interactive commands
// driven line by line from a test.
func RunCmdInput(sub *cobra.Command, target, configDir string, in io.Reader, args ...string) Result {
	root := &cobra.Command{Use: "forkline", SilenceUsage: true, SilenceErrors: true}
	clientenv.AddPersistentFlags(root)
	root.AddCommand(sub)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(in)
	argv := append([]string{sub.Name()}, args...)
	root.SetArgs(append(argv, "--api-target", target, "--config-dir", configDir))

	err := root.Execute()
	return Result{Out: out.String(), Err: err}
}

// LogIn stores the backend's token in configDir.
func LogIn(configDir string) error {
	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return err
	}
	return mgr.SetSession(credentials.Session{Token: Token, TokenType: "bearer"})
}
