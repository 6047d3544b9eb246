// Package reviewscmder provides the reviews command.
package reviewscmder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/api"
	"github.com/forkline/forkline/pkg/clientenv"
	"github.com/forkline/forkline/pkg/cliui"
)

func NewReviewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Read and write dish reviews",
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newAddCmd())

	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <dish_id>",
		Short: "List the reviews of a dish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dishID, err := clientenv.ParseID(args[0], "dish")
			if err != nil {
				return err
			}

			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}

			list, err := env.Client.DishReviews(cmd.Context(), dishID)
			if err != nil {
				return err
			}
			if len(list.Items) == 0 {
				fmt.Fprintf(env.Out, "\n  %s\n\n", cliui.DimStyle.Render("No reviews yet."))
				return nil
			}

			rows := make([][]string, 0, len(list.Items))
			for _, r := range list.Items {
				rows = append(rows, []string{
					strconv.Itoa(r.Rating) + "/5",
					r.Comment,
					strings.Join(r.Tags, ", "),
					r.CreatedAt,
				})
			}

			fmt.Fprintln(env.Out)
			cliui.Table(env.Out, []string{"RATING", "COMMENT", "TAGS", "DATE"}, rows)
			fmt.Fprintln(env.Out)
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	var in api.ReviewInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Review a dish from one of your orders",
		Long: `Review a dish from one of your orders.

Examples:
  forkline reviews add --order 120 --dish 10 --rating 5 --comment "Great heat" --tag spicy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.OrderID <= 0 || in.DishID <= 0 {
				return fmt.Errorf("--order and --dish are required")
			}
			if in.Rating < 1 || in.Rating > 5 {
				return fmt.Errorf("rating must be between 1 and 5, got %d", in.Rating)
			}

			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}
			if _, err := env.Require(cmd.Context()); err != nil {
				return err
			}

			r, err := env.Client.CreateReview(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Fprintf(env.Out, "\n  %s Review %d saved.\n\n", cliui.SuccessMark, r.ID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&in.OrderID, "order", 0, "Order the dish came from")
	cmd.Flags().Int64Var(&in.DishID, "dish", 0, "Dish to review")
	cmd.Flags().IntVarP(&in.Rating, "rating", "r", 0, "Rating from 1 to 5")
	cmd.Flags().StringVarP(&in.Comment, "comment", "m", "", "Comment")
	cmd.Flags().StringSliceVar(&in.Tags, "tag", nil, "Tag (repeatable)")

	return cmd
}
