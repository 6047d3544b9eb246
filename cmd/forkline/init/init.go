// Package initcmder provides the init command for creating a project-local
// .forkline directory.
package initcmder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/cliui"
	"github.com/forkline/forkline/pkg/dotdir"
)

const initLongDesc string = `Initialize a .forkline/ directory in the current directory, or in dir when
given.

A local .forkline/ takes precedence over ~/.forkline/ for configuration,
credentials and the current chat session, so a directory can point at a
different backend or account.

Examples:
  forkline init
  forkline init ./staging`

func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Initialize a local .forkline/ directory",
		Long:  initLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parent := "."
			if len(args) == 1 {
				parent = args[0]
			}
			return runInit(cmd, parent)
		},
	}
}

func runInit(cmd *cobra.Command, parent string) error {
	out := cliui.NewWriter(cmd.OutOrStdout())

	abs, err := filepath.Abs(parent)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", parent, err)
	}
	dir := filepath.Join(abs, dotdir.DirName)

	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		fmt.Fprintf(out, "Already initialized: %s\n", cliui.DimStyle.Render(dir))
		return nil
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating %s directory: %w", dotdir.DirName, err)
	}

	fmt.Fprintf(out, "%s Initialized %s\n", cliui.SuccessMark, dir)
	return nil
}
