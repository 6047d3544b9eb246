// Package configcmder provides the config command for managing persistent
// forkline configuration stored in the .forkline/ directory.
package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/config"
)

const configLongDesc string = `Manage persistent forkline configuration.

Configuration is stored as config.toml in the .forkline/ directory and
provides default values for command flags. FORKLINE_* environment variables
override the file, and CLI flags override both.

Keys use dotted notation matching the TOML section structure:
  client.api_target, client.timeout, client.user_agent,
  chat.plain, log.json, log.pretty

Examples:
  forkline config set client.api_target https://food.example.com/api
  forkline config set client.timeout 30s
  forkline config get client.api_target
  forkline config list`

const configShortDesc string = "Manage persistent forkline configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func unknownKey(key string) error {
	return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
		key, strings.Join(config.ValidConfigKeys(), ", "))
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
