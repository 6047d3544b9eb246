package admincmder

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/api"
	"github.com/forkline/forkline/pkg/clientenv"
	"github.com/forkline/forkline/pkg/cliui"
)

var dishStatuses = []string{api.DishOnSale, api.DishSoldOut, api.DishOffline}

func newDishesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dishes",
		Short: "Manage dishes",
	}

	cmd.AddCommand(newDishesListCmd())
	cmd.AddCommand(newDishesAddCmd())
	cmd.AddCommand(newDishesUpdateCmd())

	return cmd
}

func newDishesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every dish, including offline ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := load(cmd)
			if err != nil {
				return err
			}

			dishes, err := env.Client.AdminDishes(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(dishes))
			for _, d := range dishes {
				category := "-"
				if d.CategoryID != nil {
					category = strconv.FormatInt(*d.CategoryID, 10)
				}
				rows = append(rows, []string{
					strconv.FormatInt(d.ID, 10), d.Name, cliui.FormatPrice(d.Price), category, d.Status,
				})
			}
			fmt.Fprintln(env.Out)
			cliui.Table(env.Out, []string{"ID", "NAME", "PRICE", "CATEGORY", "STATUS"}, rows)
			fmt.Fprintln(env.Out)
			return nil
		},
	}
}

func newDishesAddCmd() *cobra.Command {
	var (
		d          api.AdminDish
		categoryID int64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a dish",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if d.Name == "" || d.Price <= 0 {
				return errors.New("--name and a positive --price are required")
			}
			if d.Status != "" && !slices.Contains(dishStatuses, d.Status) {
				return fmt.Errorf("invalid status %q: want one of %v", d.Status, dishStatuses)
			}
			if categoryID > 0 {
				d.CategoryID = &categoryID
			}

			env, err := load(cmd)
			if err != nil {
				return err
			}

			id, err := env.Client.AdminCreateDish(cmd.Context(), d)
			if err != nil {
				return err
			}

			fmt.Fprintf(env.Out, "\n  %s Created dish %s (%d).\n\n", cliui.SuccessMark, cliui.NameStyle.Render(d.Name), id)
			return nil
		},
	}

	cmd.Flags().StringVar(&d.Name, "name", "", "Dish name")
	cmd.Flags().Float64Var(&d.Price, "price", 0, "Price")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "Category id")
	cmd.Flags().StringVar(&d.Description, "description", "", "Description")
	cmd.Flags().StringVar(&d.ImageURL, "image", "", "Image URL")
	cmd.Flags().StringVar(&d.Status, "status", "", "Status (on_sale, sold_out, offline)")

	return cmd
}

func newDishesUpdateCmd() *cobra.Command {
	var (
		name, description, status string
		price                     float64
	)

	cmd := &cobra.Command{
		Use:   "update <dish_id>",
		Short: "Change fields of a dish",
		Long: `Change fields of a dish. Only the flags that are passed are sent.

Examples:
  forkline admin dishes update 12 --price 24.5
  forkline admin dishes update 12 --status offline`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := clientenv.ParseID(args[0], "dish")
			if err != nil {
				return err
			}

			fields := map[string]any{}
			if cmd.Flags().Changed("name") {
				fields["name"] = name
			}
			if cmd.Flags().Changed("description") {
				fields["description"] = description
			}
			if cmd.Flags().Changed("price") {
				if price <= 0 {
					return errors.New("--price must be positive")
				}
				fields["price"] = price
			}
			if cmd.Flags().Changed("status") {
				if !slices.Contains(dishStatuses, status) {
					return fmt.Errorf("invalid status %q: want one of %v", status, dishStatuses)
				}
				fields["status"] = status
			}
			if len(fields) == 0 {
				return errors.New("nothing to update: pass --name, --description, --price or --status")
			}

			env, err := load(cmd)
			if err != nil {
				return err
			}

			if err := env.Client.AdminUpdateDish(cmd.Context(), id, fields); err != nil {
				return err
			}

			fmt.Fprintf(env.Out, "\n  %s Updated dish %d.\n\n", cliui.SuccessMark, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().Float64Var(&price, "price", 0, "New price")
	cmd.Flags().StringVar(&status, "status", "", "New status (on_sale, sold_out, offline)")

	return cmd
}
