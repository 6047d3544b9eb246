package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline, so the same logical flag
// cannot drift between commands.
type Flag struct {
	// Name is the long flag name (e.g. "api-target").
	Name string

	// Shorthand is the one-letter short flag (e.g. "a"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "client.api_target").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
const (
	FlagAPITarget = "api-target"
	FlagTimeout   = "timeout"
	FlagPlain     = "plain"
	FlagLogJSON   = "log-json"
	FlagLogPretty = "log-pretty"
)

// ClientFlags is the registry shared by every command that talks to the API.
var ClientFlags = FlagSet{
	FlagAPITarget: {
		Name:        "api-target",
		Shorthand:   "a",
		ViperKey:    "client.api_target",
		Description: "Ordering API base URL (including the /api prefix)",
	},
	FlagTimeout: {
		Name:        "timeout",
		ViperKey:    "client.timeout",
		Description: "Timeout for non-streaming API calls (e.g. 15s)",
	},
	FlagPlain: {
		Name:        "plain",
		ViperKey:    "chat.plain",
		Description: "Print chat replies without markdown rendering",
	},
	FlagLogJSON: {
		Name:        "log-json",
		ViperKey:    "log.json",
		Description: "Write logs as JSON",
	},
	FlagLogPretty: {
		Name:        "log-pretty",
		ViperKey:    "log.pretty",
		Description: "Write colorized, human-friendly logs",
	},
}

// AddStringFlag registers a persistent string flag on cmd from the given
// FlagSet. Name, shorthand, default, and description all come from the
// FlagSet entry.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.PersistentFlags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.PersistentFlags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddBoolFlag registers a persistent bool flag on cmd from the given FlagSet.
func AddBoolFlag(cmd *cobra.Command, fs FlagSet, key string, target *bool) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultBool(def.ViperKey)
	if def.Shorthand != "" {
		cmd.PersistentFlags().BoolVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.PersistentFlags().BoolVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PersistentPreRunE after InitViper to
// connect flags to the viper precedence chain (flag > env > config file > default).
// Only flags that were explicitly set override lower layers.
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultBool returns the default bool value for a viper key from NewDefaultConfig.
func defaultBool(viperKey string) bool {
	v := viper.New()
	setViperDefaults(v)
	return v.GetBool(viperKey)
}
