// Package authcmder provides the auth command for logging in and out of the
// ordering service.
package authcmder

import (
	"github.com/spf13/cobra"
)

const authLongDesc string = `Log in to the ordering service and manage the stored session.

The access token is stored in credentials.toml in the .forkline/ directory
and sent as a bearer token on every request. Running commands pick up a
login or logout from another terminal without restarting.

Examples:
  forkline auth login                  Prompt for username and password
  forkline auth login -u lin           Prompt for the password only
  printf 'lin\nsecret\n' | forkline auth login
  forkline auth register -u lin --phone 555-0100
  forkline auth whoami
  forkline auth logout`

const authShortDesc string = "Log in to the ordering service"

func NewAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: authShortDesc,
		Long:  authLongDesc,
	}

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newRegisterCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newWhoamiCmd())

	return cmd
}
