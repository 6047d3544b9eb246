package admincmder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/cliui"
)

func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage menu categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := load(cmd)
			if err != nil {
				return err
			}

			cats, err := env.Client.AdminCategories(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(cats))
			for _, c := range cats {
				rows = append(rows, []string{strconv.FormatInt(c.ID, 10), c.Name, strconv.Itoa(c.SortOrder)})
			}
			fmt.Fprintln(env.Out)
			cliui.Table(env.Out, []string{"ID", "NAME", "SORT"}, rows)
			fmt.Fprintln(env.Out)
			return nil
		},
	})

	var (
		name string
		sort int
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(name) == "" {
				return errors.New("--name is required")
			}

			env, err := load(cmd)
			if err != nil {
				return err
			}

			id, err := env.Client.AdminCreateCategory(cmd.Context(), name, sort)
			if err != nil {
				return err
			}

			fmt.Fprintf(env.Out, "\n  %s Created category %s (%d).\n\n", cliui.SuccessMark, cliui.NameStyle.Render(name), id)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "Category name")
	add.Flags().IntVar(&sort, "sort", 0, "Sort order")
	cmd.AddCommand(add)

	return cmd
}
