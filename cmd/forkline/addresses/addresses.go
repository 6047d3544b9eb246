// Package addressescmder provides the addresses command for managing
// delivery addresses.
package addressescmder

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/api"
	"github.com/forkline/forkline/pkg/clientenv"
	"github.com/forkline/forkline/pkg/cliui"
)

func NewAddressesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "addresses",
		Aliases: []string{"address"},
		Short:   "Manage delivery addresses",
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newDefaultCmd())

	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}
			if _, err := env.Require(cmd.Context()); err != nil {
				return err
			}

			addrs, err := env.Client.ListAddresses(cmd.Context())
			if err != nil {
				return err
			}
			if len(addrs) == 0 {
				fmt.Fprintf(env.Out, "\n  %s\n\n", cliui.DimStyle.Render("No addresses yet. Add one with 'forkline addresses add'."))
				return nil
			}

			rows := make([][]string, 0, len(addrs))
			for _, a := range addrs {
				mark := ""
				if a.IsDefault {
					mark = cliui.SuccessMark
				}
				rows = append(rows, []string{strconv.FormatInt(a.ID, 10), a.ContactName, a.Phone, a.AddressLine, mark})
			}

			fmt.Fprintln(env.Out)
			cliui.Table(env.Out, []string{"ID", "NAME", "PHONE", "ADDRESS", "DEFAULT"}, rows)
			fmt.Fprintln(env.Out)
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	var in api.AddressInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a delivery address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.ContactName == "" || in.Phone == "" || in.AddressLine == "" {
				return errors.New("--name, --phone and --line are required")
			}

			env, err := clientenv.Load(cmd)
			if err != nil {
				return err
			}
			if _, err := env.Require(cmd.Context()); err != nil {
				return err
			}

			a, err := env.Client.CreateAddress(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Fprintf(env.Out, "\n  %s Added address %d.\n\n", cliui.SuccessMark, a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.ContactName, "name", "", "Contact name")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "Contact phone")
	cmd.Flags().StringVar(&in.AddressLine, "line", "", "Street address")
	cmd.Flags().BoolVar(&in.IsDefault, "default", false, "Make this the default address")

	return cmd
}

func newDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default <address_id>",
		Short: "Make an address the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := clientenv.ParseID(args[0], "address")
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

			if err := env.Client.SetDefaultAddress(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Fprintf(env.Out, "\n  %s Address %d is now the default.\n\n", cliui.SuccessMark, id)
			return nil
		},
	}
}
