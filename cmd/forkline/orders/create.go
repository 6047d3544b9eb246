package orderscmder

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/api"
	"github.com/forkline/forkline/pkg/cart"
	"github.com/forkline/forkline/pkg/clientenv"
	"github.com/forkline/forkline/pkg/cliui"
)

// ErrEmptyCart is returned when checking out with nothing in the cart.
var ErrEmptyCart = errors.New("your cart is empty: add dishes with 'forkline cart add'")

func newCreateCmd() *cobra.Command {
	var (
		addressID int64
		note      string
		keepCart  bool
	)

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"checkout"},
		Short:   "Order everything in the cart",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}
			if _, err := env.Require(cmd.Context()); err != nil {
				return err
			}

			ctx := cmd.Context()
			store := env.Cart()
			if err := store.Refresh(ctx); err != nil {
				return err
			}
			if store.IsEmpty() {
				return ErrEmptyCart
			}

			if addressID == 0 {
				addressID, err = defaultAddress(ctx, env.Client)
				if err != nil {
					return err
				}
			}

			items := store.Items()
			in := api.OrderInput{AddressID: addressID, Note: note}
			for _, it := range items {
				in.Items = append(in.Items, api.OrderLineInput{
					DishID:        it.DishID,
					Quantity:      it.Quantity,
					SelectedSpecs: it.Specs,
				})
			}

			var created *api.OrderCreated
			err = cliui.Step(env.Out, "Placing order", func() error {
				created, err = env.Client.CreateOrder(ctx, in)
				return err
			})
			if err != nil {
				return err
			}

			if !keepCart {
				clearOrdered(ctx, env, store, items)
			}

			fmt.Fprintf(env.Out, "\n  %s Order %d placed: %s, %s.\n",
				cliui.SuccessMark, created.OrderID,
				cliui.PriceStyle.Render(cliui.FormatPrice(created.TotalAmount)),
				StatusLabel(created.Status))
			fmt.Fprintf(env.Out, "  %s\n\n", cliui.DimStyle.Render(fmt.Sprintf("Pay with: forkline orders pay %d", created.OrderID)))
			return nil
		},
	}

	cmd.Flags().Int64Var(&addressID, "address", 0, "Delivery address id (default: your default address)")
	cmd.Flags().StringVar(&note, "note", "", "Note for the kitchen")
	cmd.Flags().BoolVar(&keepCart, "keep-cart", false, "Leave the ordered dishes in the cart")

	return cmd
}

// defaultAddress picks the address flagged as default, falling back to the
// only address when there is exactly one.
func defaultAddress(ctx context.Context, client *api.Client) (int64, error) {
	addrs, err := client.ListAddresses(ctx)
	if err != nil {
		return 0, err
	}
	for _, a := range addrs {
		if a.IsDefault {
			return a.ID, nil
		}
	}
	if len(addrs) == 1 {
		return addrs[0].ID, nil
	}
	return 0, errors.New("no default address: pass --address or run 'forkline addresses default <id>'")
}

// clearOrdered removes the ordered lines from the cart. The order is already
// placed, so failures are only logged.
func clearOrdered(ctx context.Context, env *clientenv.Env, store *cart.Store, items []cart.Item) {
	for _, it := range items {
		if err := store.RemoveItem(ctx, it.ID); err != nil {
			env.Logger.Warn("removing ordered item from cart", "item_id", it.ID, "error", err)
		}
	}
}
