// Package forklinecmder is the root of the forkline command tree.
package forklinecmder

import (
	"github.com/spf13/cobra"

	addressescmder "github.com/forkline/forkline/cmd/forkline/addresses"
	admincmder "github.com/forkline/forkline/cmd/forkline/admin"
	authcmder "github.com/forkline/forkline/cmd/forkline/auth"
	cartcmder "github.com/forkline/forkline/cmd/forkline/cart"
	chatcmder "github.com/forkline/forkline/cmd/forkline/chat"
	configcmder "github.com/forkline/forkline/cmd/forkline/config"
	dishescmder "github.com/forkline/forkline/cmd/forkline/dishes"
	initcmder "github.com/forkline/forkline/cmd/forkline/init"
	orderscmder "github.com/forkline/forkline/cmd/forkline/orders"
	prefscmder "github.com/forkline/forkline/cmd/forkline/prefs"
	reviewscmder "github.com/forkline/forkline/cmd/forkline/reviews"
	statuscmder "github.com/forkline/forkline/cmd/forkline/status"
	versioncmder "github.com/forkline/forkline/cmd/version"
	"github.com/forkline/forkline/pkg/clientenv"
)

const forklineLongDesc string = `Forkline is a terminal client for the food-ordering service.

Browse the menu, manage your cart and orders, and ask the AI assistant for
recommendations with streamed replies.

Get started:
  forkline config set client.api_target http://localhost:8000/api
  forkline auth login
  forkline dishes list
  forkline chat`

const forklineShortDesc string = "Forkline - food ordering from the terminal"

func NewForklineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "forkline",
		Short:         forklineShortDesc,
		Long:          forklineLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	clientenv.AddPersistentFlags(cmd)

	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(dishescmder.NewDishesCmd())
	cmd.AddCommand(cartcmder.NewCartCmd())
	cmd.AddCommand(orderscmder.NewOrdersCmd())
	cmd.AddCommand(addressescmder.NewAddressesCmd())
	cmd.AddCommand(prefscmder.NewPrefsCmd())
	cmd.AddCommand(reviewscmder.NewReviewsCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(admincmder.NewAdminCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
