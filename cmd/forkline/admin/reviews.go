package admincmder

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/cliui"
	"github.com/forkline/forkline/pkg/utils"
)

// commentWidth keeps the moderation table on one line per review.
const commentWidth = 48

func newReviewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Read all reviews",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := load(cmd)
			if err != nil {
				return err
			}

			reviews, err := env.Client.AdminReviews(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(reviews))
			for _, r := range reviews {
				rows = append(rows, []string{
					strconv.FormatInt(r.ID, 10),
					strconv.FormatInt(r.DishID, 10),
					strconv.FormatInt(r.UserID, 10),
					strconv.Itoa(r.Rating) + "/5",
					utils.Truncate(r.Comment, commentWidth),
				})
			}
			fmt.Fprintln(env.Out)
			cliui.Table(env.Out, []string{"ID", "DISH", "USER", "RATING", "COMMENT"}, rows)
			fmt.Fprintln(env.Out)
			return nil
		},
	})

	return cmd
}
