// Package dishescmder provides the dishes command for browsing the menu.
package dishescmder

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/api"
	"github.com/forkline/forkline/pkg/clientenv"
	"github.com/forkline/forkline/pkg/cliui"
)

const dishesLongDesc string = `Browse the menu.

Listing and viewing dishes does not require a login.

Examples:
  forkline dishes list --keyword tofu
  forkline dishes list --category 2
  forkline dishes show 10
  forkline dishes categories
  forkline dishes recommend`

func NewDishesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dishes",
		Aliases: []string{"menu"},
		Short:   "Browse the menu",
		Long:    dishesLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newCategoriesCmd())
	cmd.AddCommand(newRecommendCmd())

	return cmd
}

func newListCmd() *cobra.Command {
	var filter api.DishFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dishes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}

			list, err := env.Client.ListDishes(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if len(list.Items) == 0 {
				fmt.Fprintf(env.Out, "\n  %s\n\n", cliui.DimStyle.Render("No dishes match."))
				return nil
			}

			fmt.Fprintln(env.Out)
			printSummaries(env.Out, list.Items)
			fmt.Fprintf(env.Out, "\n  %s\n\n", cliui.DimStyle.Render(fmt.Sprintf("%d of %d dishes", len(list.Items), list.Total)))
			return nil
		},
	}

	cmd.Flags().Int64Var(&filter.CategoryID, "category", 0, "Only dishes in this category id")
	cmd.Flags().StringVarP(&filter.Keyword, "keyword", "k", "", "Only dishes whose name contains this keyword")
	cmd.Flags().StringVar(&filter.Status, "status", "", "Only dishes with this status (on_sale, sold_out, offline)")

	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <dish_id>",
		Short: "Show a dish with its specs and reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := clientenv.ParseID(args[0], "dish")
			if err != nil {
				return err
			}

			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}

			d, err := env.Client.Dish(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := env.Out
			fmt.Fprintf(out, "\n  %s  %s\n", cliui.NameStyle.Render(d.Name), cliui.PriceStyle.Render(cliui.FormatPrice(d.Price)))
			if d.Description != "" {
				fmt.Fprintf(out, "  %s\n", d.Description)
			}
			fmt.Fprintf(out, "  %s %s  %s %.1f (%d)  %s %d\n",
				cliui.KeyStyle.Render("Status:"), statusLabel(d.Status),
				cliui.KeyStyle.Render("Rating:"), d.RatingAvg, d.RatingCount,
				cliui.KeyStyle.Render("Sold:"), d.SalesCount,
			)

			if len(d.Specs) > 0 {
				fmt.Fprintf(out, "\n  %s\n", cliui.HeaderStyle.Render("Options"))
				for _, spec := range d.Specs {
					fmt.Fprintf(out, "    %s  %s\n", cliui.KeyStyle.Render(spec.SpecName), specValues(spec.SpecValues))
				}
			}

			// Reviews are a courtesy; a failure here should not hide the dish.
			reviews, err := env.Client.DishReviews(cmd.Context(), id)
			if err != nil {
				env.Logger.Debug("loading reviews", "dish_id", id, "error", err)
			} else if len(reviews.Items) > 0 {
				fmt.Fprintf(out, "\n  %s\n", cliui.HeaderStyle.Render("Reviews"))
				for _, r := range reviews.Items {
					fmt.Fprintf(out, "    %s  %s\n", stars(r.Rating), r.Comment)
				}
			}

			fmt.Fprintln(out)
			return nil
		},
	}
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List menu categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}

			cats, err := env.Client.Categories(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(cats))
			for _, c := range cats {
				rows = append(rows, []string{strconv.FormatInt(c.ID, 10), c.Name})
			}

			fmt.Fprintln(env.Out)
			cliui.Table(env.Out, []string{"ID", "CATEGORY"}, rows)
			fmt.Fprintln(env.Out)
			return nil
		},
	}
}

func newRecommendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Show the dishes recommended on the home page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}

			dishes, err := env.Client.HomeRecommendations(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(env.Out)
			printSummaries(env.Out, dishes)
			fmt.Fprintln(env.Out)
			return nil
		},
	}
}

func printSummaries(w io.Writer, dishes []api.DishSummary) {
	rows := make([][]string, 0, len(dishes))
	for _, d := range dishes {
		rows = append(rows, []string{
			strconv.FormatInt(d.ID, 10),
			d.Name,
			cliui.FormatPrice(d.Price),
			fmt.Sprintf("%.1f", d.RatingAvg),
			statusLabel(d.Status),
		})
	}
	cliui.Table(w, []string{"ID", "DISH", "PRICE", "RATING", "STATUS"}, rows)
}

func statusLabel(status string) string {
	switch status {
	case api.DishOnSale:
		return cliui.ValueStyle.Render("on sale")
	case api.DishSoldOut:
		return cliui.WarnStyle.Render("sold out")
	case api.DishOffline:
		return cliui.DimStyle.Render("offline")
	default:
		return status
	}
}

func specValues(values []any) string {
	s := ""
	for i, v := range values {
		if i > 0 {
			s += " / "
		}
		s += fmt.Sprint(v)
	}
	return s
}

func stars(rating int) string {
	rating = max(0, min(rating, 5))
	full := ""
	for i := range 5 {
		if i < rating {
			full += "★"
		} else {
			full += "☆"
		}
	}
	return cliui.WarnStyle.Render(full)
}
