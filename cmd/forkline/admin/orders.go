package admincmder

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	orderscmder "github.com/forkline/forkline/cmd/forkline/orders"
	"github.com/forkline/forkline/pkg/api"
	"github.com/forkline/forkline/pkg/clientenv"
	"github.com/forkline/forkline/pkg/cliui"
)

func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Review and move orders",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := load(cmd)
			if err != nil {
				return err
			}

			orders, err := env.Client.AdminOrders(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(env.Out)
			orderscmder.PrintSummaries(env.Out, orders)
			fmt.Fprintln(env.Out)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "status <order_id> <status>",
		Short:     "Set the status of an order",
		Args:      cobra.ExactArgs(2),
		ValidArgs: api.OrderStatuses,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := clientenv.ParseID(args[0], "order")
			if err != nil {
				return err
			}
			status := args[1]
			if !slices.Contains(api.OrderStatuses, status) {
				return fmt.Errorf("invalid status %q: want one of %v", status, api.OrderStatuses)
			}

			env, err := load(cmd)
			if err != nil {
				return err
			}

			if err := env.Client.AdminSetOrderStatus(cmd.Context(), id, status); err != nil {
				return err
			}

			fmt.Fprintf(env.Out, "\n  %s Order %d is now %s.\n\n", cliui.SuccessMark, id, orderscmder.StatusLabel(status))
			return nil
		},
	})

	return cmd
}
