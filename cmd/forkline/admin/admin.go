// Package admincmder provides the admin command for back-office work:
// categories, dishes, order status and review moderation. Every subcommand
// requires the admin role.
package admincmder

import (
	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/api"
	"github.com/forkline/forkline/pkg/clientenv"
)

const adminLongDesc string = `Back-office commands. Requires an account with the admin role.

Examples:
  forkline admin categories add --name Noodles --sort 3
  forkline admin dishes add --name "Dan Dan Noodles" --price 22 --category 3
  forkline admin dishes update 12 --status sold_out
  forkline admin orders status 120 completed`

func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Back-office commands (admin role)",
		Long:  adminLongDesc,
	}

	cmd.AddCommand(newCategoriesCmd())
	cmd.AddCommand(newDishesCmd())
	cmd.AddCommand(newOrdersCmd())
	cmd.AddCommand(newReviewsCmd())

	return cmd
}

// load builds the environment and checks the admin role.
func load(cmd *cobra.Command) (*clientenv.Env, error) {
	env, err := clientenv.Load(cmd)
	if err != nil {
		return nil, err
	}
	if _, err := env.Require(cmd.Context(), api.RoleAdmin); err != nil {
		return nil, err
	}
	return env, nil
}
