package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/cliui"
	"github.com/forkline/forkline/pkg/config"
)

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in config.toml.

Values are validated: client.timeout must be a duration such as 15s, and
chat.plain, log.json and log.pretty must be true or false.

Examples:
  forkline config set client.api_target http://localhost:8000/api
  forkline config set chat.plain true`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runSet(cliui.NewWriter(cmd.OutOrStdout()), args[0], args[1], configDir)
		},
	}
}

func runSet(out io.Writer, key, value, configDir string) error {
	if !config.IsValidConfigKey(key) {
		return unknownKey(key)
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfger.SetConfigValue(key, value); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n  %s Set %s = %s %s\n\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(key),
		cliui.ValueStyle.Render(value),
		cliui.DimStyle.Render("("+cfger.GetTarget()+")"),
	)
	return nil
}
