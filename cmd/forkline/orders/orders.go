// Package orderscmder provides the orders command: checkout from the cart,
// order history and the pay/complete transitions.
package orderscmder

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/api"
	"github.com/forkline/forkline/pkg/clientenv"
	"github.com/forkline/forkline/pkg/cliui"
)

const ordersLongDesc string = `Place and track orders.

"orders create" checks out the current cart to an address (the default
address unless --address is given). Orders move from pending to paid with
"pay" and from paid to completed with "complete".

Examples:
  forkline orders create --note "no cilantro"
  forkline orders list
  forkline orders show 120
  forkline orders pay 120`

func NewOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Place and track orders",
		Long:  ordersLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newTransitionCmd("pay", "Pay a pending order", (*api.Client).PayOrder))
	cmd.AddCommand(newTransitionCmd("complete", "Mark a paid order as received", (*api.Client).CompleteOrder))

	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}
			if _, err := env.Require(cmd.Context()); err != nil {
				return err
			}

			list, err := env.Client.ListOrders(cmd.Context())
			if err != nil {
				return err
			}
			if len(list.Items) == 0 {
				fmt.Fprintf(env.Out, "\n  %s\n\n", cliui.DimStyle.Render("No orders yet."))
				return nil
			}

			fmt.Fprintln(env.Out)
			PrintSummaries(env.Out, list.Items)
			fmt.Fprintln(env.Out)
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <order_id>",
		Short: "Show an order with its lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := clientenv.ParseID(args[0], "order")
			if err != nil {
				return err
			}

			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}
			if _, err := env.Require(cmd.Context()); err != nil {
				return err
			}

			o, err := env.Client.Order(cmd.Context(), id)
			if err != nil {
				return err
			}

			printOrder(env.Out, o)
			return nil
		},
	}
}

func newTransitionCmd(use, short string, fn func(*api.Client, context.Context, int64) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <order_id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := clientenv.ParseID(args[0], "order")
			if err != nil {
				return err
			}

			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}
			if _, err := env.Require(cmd.Context()); err != nil {
				return err
			}

			status, err := fn(env.Client, cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Fprintf(env.Out, "\n  %s Order %d is now %s.\n\n", cliui.SuccessMark, id, StatusLabel(status))
			return nil
		},
	}
}

// PrintSummaries writes orders as a table.
func PrintSummaries(w io.Writer, orders []api.OrderSummary) {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			strconv.FormatInt(o.ID, 10),
			StatusLabel(o.Status),
			cliui.FormatPrice(o.TotalAmount),
			o.CreatedAt,
		})
	}
	cliui.Table(w, []string{"ORDER", "STATUS", "TOTAL", "PLACED"}, rows)
}

// StatusLabel colors an order status.
func StatusLabel(status string) string {
	switch status {
	case api.OrderPending:
		return cliui.WarnStyle.Render(status)
	case api.OrderPaid:
		return cliui.KeyStyle.Render(status)
	case api.OrderCompleted:
		return cliui.ValueStyle.Render(status)
	case api.OrderCancelled:
		return cliui.DimStyle.Render(status)
	default:
		return status
	}
}

func printOrder(w io.Writer, o *api.Order) {
	fmt.Fprintf(w, "\n  %s %d  %s  %s\n",
		cliui.NameStyle.Render("Order"), o.ID, StatusLabel(o.Status), cliui.DimStyle.Render(o.CreatedAt))

	if len(o.AddressSnapshot) > 0 {
		fmt.Fprintf(w, "  %s %v, %v, %v\n",
			cliui.KeyStyle.Render("Deliver to:"),
			o.AddressSnapshot["contact_name"], o.AddressSnapshot["phone"], o.AddressSnapshot["address_line"])
	}
	if o.Note != "" {
		fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Note:"), o.Note)
	}

	rows := make([][]string, 0, len(o.Items))
	for _, line := range o.Items {
		rows = append(rows, []string{
			line.DishName,
			strconv.Itoa(line.Quantity),
			cliui.FormatPrice(line.PriceSnapshot),
			cliui.FormatSpecs(line.SelectedSpecs),
		})
	}

	fmt.Fprintln(w)
	cliui.Table(w, []string{"DISH", "QTY", "PRICE", "OPTIONS"}, rows)
	fmt.Fprintf(w, "\n  %s %s\n\n", cliui.KeyStyle.Render("Total:"), cliui.PriceStyle.Render(cliui.FormatPrice(o.TotalAmount)))
}
