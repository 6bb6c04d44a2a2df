package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonderbeed/StarTracker/internal/format"
	"github.com/wonderbeed/StarTracker/internal/model"
	"github.com/wonderbeed/StarTracker/internal/store"
	"github.com/wonderbeed/StarTracker/internal/tui"
)

type App struct {
	Dir         string
	Backend     string
	DatabaseURL string
	PerUser     bool
	PrettyJSON  bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "startracker",
		Short:        "Track game account star bonuses with a live countdown",
		SilenceUsage: true,
		Example: `
  # Start the interactive TUI
  startracker

  # Scriptable commands
  startracker accounts list
  startracker accounts add --key 1 --name Main --bonus-time 2026-09-01T18:00
  startracker next

  # Direct account lookup (shortcut for: startracker accounts show <key>)
  startracker 1`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(app)
			}
			// Numeric positional => direct account lookup.
			if _, err := strconv.Atoi(args[0]); err == nil {
				return showAccount(cmd, app, args[0])
			}
			return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("STARTRACKER_DIR", ""), "Data directory for local backends (default: user config dir)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", envOr("STARTRACKER_BACKEND", ""), "Storage backend (sqlite|doc|postgres|file)")
	cmd.PersistentFlags().StringVar(&app.DatabaseURL, "database-url", envOr("DATABASE_URL", ""), "Postgres connection string (postgres backend)")
	cmd.PersistentFlags().BoolVar(&app.PerUser, "per-user", os.Getenv("STARTRACKER_PER_USER") != "", "Partition the postgres backend by the logged-in user")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newAccountsCmd(app))
	cmd.AddCommand(newNextCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))

	return cmd
}

func runTUI(app *App) error {
	st, err := openStore(app)
	if err != nil {
		return err
	}
	defer st.Close()
	return tui.Run(st)
}

func storeConfig(app *App) (store.Config, error) {
	dir := app.Dir
	if dir == "" {
		cfgDir, err := store.ConfigDir()
		if err != nil {
			return store.Config{}, err
		}
		dir = filepath.Join(cfgDir, "data")
	}
	cfg := store.Config{
		Backend:     store.Backend(app.Backend),
		Dir:         dir,
		DatabaseURL: app.DatabaseURL,
		PerUser:     app.PerUser,
	}
	if cfg.PerUser {
		s, err := store.CurrentSession()
		if err != nil {
			return store.Config{}, fmt.Errorf("read session: %w", err)
		}
		if s != nil {
			cfg.Owner = s.UserID
		}
	}
	return cfg, nil
}

func openStore(app *App) (store.Store, error) {
	cfg, err := storeConfig(app)
	if err != nil {
		return nil, err
	}
	return store.Open(cfg)
}

// loadAccounts lists the active partition, degrading "no backend yet" and
// "not logged in" to an empty collection plus a notice.
func loadAccounts(ctx context.Context, st store.Store) ([]model.Account, string, error) {
	accs, err := st.ListAll(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotAuthenticated) {
			return nil, "not logged in; showing an empty collection", nil
		}
		if errors.Is(err, store.ErrStoreUnavailable) {
			return nil, "store unavailable; showing an empty collection", nil
		}
		return nil, "", err
	}
	return accs, "", nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
