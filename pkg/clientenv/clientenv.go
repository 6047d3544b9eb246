// Package clientenv assembles what a forkline command needs to talk to the
// backend: resolved config, logger, credentials, API client and session.
package clientenv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/api"
	"github.com/forkline/forkline/pkg/cart"
	"github.com/forkline/forkline/pkg/chat"
	"github.com/forkline/forkline/pkg/cliui"
	"github.com/forkline/forkline/pkg/config"
	"github.com/forkline/forkline/pkg/credentials"
	"github.com/forkline/forkline/pkg/dotdir"
	"github.com/forkline/forkline/pkg/logger"
	"github.com/forkline/forkline/pkg/session"
	"github.com/forkline/forkline/pkg/utils"
)

// Persistent flags registered on the root command.
const (
	FlagConfigDir = "config-dir"
	FlagDebug     = "debug"
)

// Env is the per-invocation environment of a command.
type Env struct {
	ConfigDir   string
	Config      *config.Config
	Logger      *slog.Logger
	Dirs        *dotdir.Manager
	Credentials *credentials.Store
	Client      *api.Client
	Session     *session.Session

	// Out is the command's stdout, downsampled to the terminal's colors.
	Out io.Writer
}

// AddPersistentFlags registers the flags Load reads on the root command.
func AddPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolP(FlagDebug, "d", false, "Enable debug logging")
	cmd.PersistentFlags().String(FlagConfigDir, "", "Override path to .forkline/ config directory")

	var (
		target, timeout        string
		plain, logJSON, pretty bool
	)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagAPITarget, &target)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagTimeout, &timeout)
	config.AddBoolFlag(cmd, config.ClientFlags, config.FlagPlain, &plain)
	config.AddBoolFlag(cmd, config.ClientFlags, config.FlagLogJSON, &logJSON)
	config.AddBoolFlag(cmd, config.ClientFlags, config.FlagLogPretty, &pretty)
}

// Load resolves configuration with flag > env > config.toml > default
// precedence and builds the API client around the stored credentials.
func Load(cmd *cobra.Command) (*Env, error) {
	configDir, _ := cmd.Flags().GetString(FlagConfigDir)
	debug, _ := cmd.Flags().GetBool(FlagDebug)

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	config.BindRegisteredFlags(v, cmd, config.ClientFlags, []string{
		config.FlagAPITarget,
		config.FlagTimeout,
		config.FlagPlain,
		config.FlagLogJSON,
		config.FlagLogPretty,
	})
	cfg := config.FromViper(v)

	timeout, err := cfg.ClientTimeout()
	if err != nil {
		return nil, err
	}

	l := logger.New(
		logger.WithDebug(debug),
		logger.WithPretty(cfg.Log.Pretty),
		logger.WithJSON(cfg.Log.JSON),
		logger.WithWriter(cmd.ErrOrStderr()),
	)

	dirs := dotdir.NewManager()
	if debug {
		// Also keep a copy in .forkline/debug.log for bug reports. The file
		// stays open until the process exits.
		dir, err := dirs.Target(configDir)
		if err != nil {
			return nil, err
		}
		fileLog, _, err := logger.AppendFile(filepath.Join(dir, logger.DebugFileName))
		if err != nil {
			return nil, err
		}
		l = logger.Multi(l, fileLog)
	}
	l = l.With("command", cmd.CommandPath())

	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}
	store, err := credentials.NewStore(mgr, l)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	userAgent := cfg.Client.UserAgent
	if userAgent == "" {
		userAgent = api.DefaultUserAgent + "/" + utils.Version
	}

	client, err := api.NewClient(cfg.Client.APITarget,
		api.WithTimeout(timeout),
		api.WithUserAgent(userAgent),
		api.WithTokenSource(store),
		api.WithLogger(l),
	)
	if err != nil {
		return nil, err
	}

	l.Debug("environment loaded",
		"api_target", client.BaseURL(),
		"timeout", timeout,
		"credentials", mgr.GetTarget(),
		"authenticated", store.Token() != "",
	)

	return &Env{
		ConfigDir:   configDir,
		Config:      cfg,
		Logger:      l,
		Dirs:        dirs,
		Credentials: store,
		Client:      client,
		Session:     session.New(client, store, l),
		Out:         cliui.NewWriter(cmd.OutOrStdout()),
	}, nil
}

// Require gates a command the way the app's routes are gated, translating
// failures into actionable messages.
func (e *Env) Require(ctx context.Context, roles ...string) (*api.User, error) {
	me, err := e.Session.Require(ctx, session.Requirement{Roles: roles})
	switch {
	case err == nil:
		return me, nil

	case errors.Is(err, session.ErrNotAuthenticated):
		e.Logger.Debug("authentication required", "error", err)
		return nil, errors.New("not logged in: run 'forkline auth login' first")

	case errors.Is(err, session.ErrForbidden):
		return nil, fmt.Errorf("this command requires the %s role", roleList(roles))

	default:
		return nil, err
	}
}

// Cart returns a cart store bound to the client.
func (e *Env) Cart() *cart.Store {
	return cart.NewStore(e.Client, e.Logger)
}

// Chat returns a reply streamer bound to the client.
func (e *Env) Chat() *chat.Streamer {
	return chat.NewStreamer(e.Client, e.Logger)
}

func roleList(roles []string) string {
	roles = slices.Clone(roles)
	slices.Sort(roles)
	if len(roles) == 1 {
		return roles[0]
	}
	return fmt.Sprint(roles)
}

// ParseID parses a positional resource id such as a dish or order number.
func ParseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return id, nil
}
