// Package cartcmder provides the cart command.
package cartcmder

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/cart"
	"github.com/forkline/forkline/pkg/clientenv"
	"github.com/forkline/forkline/pkg/cliui"
)

const cartLongDesc string = `Manage your cart.

Every change is sent to the service and the cart is reloaded afterwards, so
what is printed is always the service's view.

Examples:
  forkline cart add 10 --qty 2 --spec spice=hot
  forkline cart update 101 --qty 3
  forkline cart remove 101
  forkline cart show`

func NewCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage your cart",
		Long:  cartLongDesc,
	}

	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newUpdateCmd())
	cmd.AddCommand(newRemoveCmd())

	return cmd
}

// load builds the environment for a cart command and checks the login.
func load(cmd *cobra.Command) (*clientenv.Env, *cart.Store, error) {
	env, err := clientenv.Load(cmd)
	if err != nil {
		return nil, nil, err
	}
	if _, err := env.Require(cmd.Context()); err != nil {
		return nil, nil, err
	}
	return env, env.Cart(), nil
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, store, err := load(cmd)
			if err != nil {
				return err
			}
			if err := store.Refresh(cmd.Context()); err != nil {
				return err
			}
			printCart(env.Out, store)
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	var (
		qty   int
		specs map[string]string
	)

	cmd := &cobra.Command{
		Use:   "add <dish_id>",
		Short: "Add a dish to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dishID, err := clientenv.ParseID(args[0], "dish")
			if err != nil {
				return err
			}

			env, store, err := load(cmd)
			if err != nil {
				return err
			}

			if err := store.Add(cmd.Context(), dishID, qty, specMap(specs)); err != nil {
				return err
			}

			fmt.Fprintf(env.Out, "\n  %s Added to cart.\n", cliui.SuccessMark)
			printCart(env.Out, store)
			return nil
		},
	}

	cmd.Flags().IntVarP(&qty, "qty", "q", 1, "Quantity")
	cmd.Flags().StringToStringVar(&specs, "spec", nil, "Dish options as name=value (repeatable)")

	return cmd
}

func newUpdateCmd() *cobra.Command {
	var (
		qty   int
		specs map[string]string
	)

	cmd := &cobra.Command{
		Use:   "update <item_id>",
		Short: "Change the quantity or options of a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := clientenv.ParseID(args[0], "cart item")
			if err != nil {
				return err
			}

			env, store, err := load(cmd)
			if err != nil {
				return err
			}

			if err := store.Refresh(cmd.Context()); err != nil {
				return err
			}
			item, ok := store.Find(itemID)
			if !ok {
				return fmt.Errorf("cart item %d not found", itemID)
			}
			if !cmd.Flags().Changed("qty") {
				qty = item.Quantity
			}

			var selected map[string]any
			if len(specs) > 0 {
				selected = specMap(specs)
			}
			if err := store.UpdateItem(cmd.Context(), itemID, qty, selected); err != nil {
				return err
			}

			fmt.Fprintf(env.Out, "\n  %s Updated %s.\n", cliui.SuccessMark, cliui.NameStyle.Render(item.Name))
			printCart(env.Out, store)
			return nil
		},
	}

	cmd.Flags().IntVarP(&qty, "qty", "q", 1, "New quantity")
	cmd.Flags().StringToStringVar(&specs, "spec", nil, "Replace dish options with name=value pairs")

	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <item_id>",
		Aliases: []string{"rm"},
		Short:   "Remove a line from the cart",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := clientenv.ParseID(args[0], "cart item")
			if err != nil {
				return err
			}

			env, store, err := load(cmd)
			if err != nil {
				return err
			}

			if err := store.RemoveItem(cmd.Context(), itemID); err != nil {
				return err
			}

			fmt.Fprintf(env.Out, "\n  %s Removed.\n", cliui.SuccessMark)
			printCart(env.Out, store)
			return nil
		},
	}
}

func printCart(w io.Writer, store *cart.Store) {
	if store.IsEmpty() {
		fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("Your cart is empty."))
		return
	}

	items := store.Items()
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			strconv.FormatInt(it.ID, 10),
			it.Name,
			strconv.Itoa(it.Quantity),
			cliui.FormatPrice(it.UnitPrice),
			cliui.FormatPrice(it.Subtotal()),
			cliui.FormatSpecs(it.Specs),
		})
	}

	fmt.Fprintln(w)
	cliui.Table(w, []string{"ITEM", "DISH", "QTY", "PRICE", "SUBTOTAL", "OPTIONS"}, rows)
	fmt.Fprintf(w, "\n  %s %s  %s\n\n",
		cliui.KeyStyle.Render("Total:"),
		cliui.PriceStyle.Render(cliui.FormatPrice(store.Total())),
		cliui.DimStyle.Render(fmt.Sprintf("(%d items)", store.Count())),
	)
}

func specMap(specs map[string]string) map[string]any {
	out := make(map[string]any, len(specs))
	for k, v := range specs {
		out[k] = v
	}
	return out
}
