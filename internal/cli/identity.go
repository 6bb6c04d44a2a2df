package cli

import (
	"github.com/spf13/cobra"

	"github.com/wonderbeed/StarTracker/internal/store"
)

func newLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login <user>",
		Short: "Log in for the per-user backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Login(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": s})
		},
	}
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.Logout(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"loggedOut": true}})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the active identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.CurrentSession()
			if err != nil {
				return writeErr(cmd, err)
			}
			if s == nil {
				return writeOut(cmd, app, map[string]any{"data": nil, "notice": "not logged in"})
			}
			return writeOut(cmd, app, map[string]any{"data": s})
		},
	}
}
