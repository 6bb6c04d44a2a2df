package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonderbeed/StarTracker/internal/cache"
	"github.com/wonderbeed/StarTracker/internal/countdown"
	"github.com/wonderbeed/StarTracker/internal/form"
	"github.com/wonderbeed/StarTracker/internal/model"
)

func newAccountsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account commands",
	}
	cmd.AddCommand(newAccountsListCmd(app))
	cmd.AddCommand(newAccountsAddCmd(app))
	cmd.AddCommand(newAccountsSetCmd(app))
	cmd.AddCommand(newAccountsRmCmd(app))
	cmd.AddCommand(newAccountsShowCmd(app))
	return cmd
}

// accountView is the list/show payload: the record plus its derived
// countdown, computed at output time.
type accountView struct {
	model.Account
	Remaining string `json:"remaining"`
	Urgency   string `json:"urgency"`
}

func viewOf(a model.Account, now time.Time) accountView {
	status, _ := countdown.ForBonusTime(a.BonusTime, now)
	return accountView{Account: a, Remaining: status.Text, Urgency: status.Urgency.String()}
}

func newAccountsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts with their countdowns",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			accs, notice, err := loadAccounts(cmd.Context(), st)
			if err != nil {
				return writeErr(cmd, err)
			}
			now := time.Now()
			views := make([]accountView, 0, len(accs))
			for _, a := range accs {
				views = append(views, viewOf(a, now))
			}
			out := map[string]any{"data": views}
			if notice != "" {
				out["notice"] = notice
			}
			return writeOut(cmd, app, out)
		},
	}
}

// accountFlags registers the record field flags shared by add and set.
func accountFlags(cmd *cobra.Command, f *form.Fields) {
	cmd.Flags().StringVar(&f.Key, "key", "", "Unique numeric key")
	cmd.Flags().StringVar(&f.Name, "name", "", "Account name")
	cmd.Flags().StringVar(&f.BonusTime, "bonus-time", "", "Bonus time (YYYY-MM-DDTHH:MM, local)")
	cmd.Flags().StringVar(&f.Memo, "memo", "", "Short memo")
	cmd.Flags().StringVar(&f.Notes, "notes", "", "Longer notes (markdown)")
}

func newAccountsAddCmd(app *App) *cobra.Command {
	var fields form.Fields

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			accs, _, err := loadAccounts(cmd.Context(), st)
			if err != nil {
				return writeErr(cmd, err)
			}
			sub, err := form.Submit(form.AddMode(), fields, cache.New(accs))
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := st.Insert(cmd.Context(), sub.Account); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": viewOf(sub.Account, time.Now())})
		},
	}

	accountFlags(cmd, &fields)
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newAccountsSetCmd(app *App) *cobra.Command {
	var fields form.Fields
	var newKey string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Edit an account (use --new-key to move it to another key)",
		RunE: func(cmd *cobra.Command, args []string) error {
			oldKey, err := strconv.Atoi(fields.Key)
			if err != nil {
				return writeErr(cmd, form.ErrInvalidKey)
			}

			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			accs, _, err := loadAccounts(cmd.Context(), st)
			if err != nil {
				return writeErr(cmd, err)
			}
			c := cache.New(accs)
			current, ok := c.Find(oldKey)
			if !ok {
				return writeErr(cmd, fmt.Errorf("account %d not found", oldKey))
			}

			// Start from the stored record; only flags the caller passed
			// override it.
			merged := form.FieldsFor(current)
			if cmd.Flags().Changed("name") {
				merged.Name = fields.Name
			}
			if cmd.Flags().Changed("bonus-time") {
				merged.BonusTime = fields.BonusTime
			}
			if cmd.Flags().Changed("memo") {
				merged.Memo = fields.Memo
			}
			if cmd.Flags().Changed("notes") {
				merged.Notes = fields.Notes
			}
			if cmd.Flags().Changed("new-key") {
				merged.Key = newKey
			}

			sub, err := form.Submit(form.EditModeFor(oldKey), merged, c)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := st.Replace(cmd.Context(), sub.OldKey, sub.Account); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": viewOf(sub.Account, time.Now())})
		},
	}

	accountFlags(cmd, &fields)
	cmd.Flags().StringVar(&newKey, "new-key", "", "Move the account to this key")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newAccountsRmCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <key>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := strconv.Atoi(args[0])
			if err != nil {
				return writeErr(cmd, form.ErrInvalidKey)
			}

			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			accs, _, err := loadAccounts(cmd.Context(), st)
			if err != nil {
				return writeErr(cmd, err)
			}
			acc, ok := cache.New(accs).Find(key)
			if !ok {
				return writeErr(cmd, fmt.Errorf("account %d not found", key))
			}
			if !yes {
				// The confirmation gate names the record, like the TUI modal.
				return writeErr(cmd, fmt.Errorf("refusing to delete account %q (key %d) without --yes", acc.Name, acc.Key))
			}

			if err := st.Remove(cmd.Context(), key); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": key}})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")
	return cmd
}

func newAccountsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <key>",
		Short: "Show one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showAccount(cmd, app, args[0])
		},
	}
}

// showAccount backs both `accounts show <key>` and the root-level
// `startracker <key>` shortcut.
func showAccount(cmd *cobra.Command, app *App, keyArg string) error {
	key, err := strconv.Atoi(keyArg)
	if err != nil {
		return writeErr(cmd, form.ErrInvalidKey)
	}

	st, err := openStore(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer st.Close()

	accs, _, err := loadAccounts(cmd.Context(), st)
	if err != nil {
		return writeErr(cmd, err)
	}
	acc, ok := cache.New(accs).Find(key)
	if !ok {
		return writeErr(cmd, fmt.Errorf("account %d not found", key))
	}
	return writeOut(cmd, app, map[string]any{"data": viewOf(acc, time.Now())})
}

func newNextCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the account whose bonus comes up next",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			accs, notice, err := loadAccounts(cmd.Context(), st)
			if err != nil {
				return writeErr(cmd, err)
			}

			now := time.Now()
			best, ok := nextBonus(accs)
			if !ok {
				out := map[string]any{"data": nil}
				if notice != "" {
					out["notice"] = notice
				}
				return writeOut(cmd, app, out)
			}
			return writeOut(cmd, app, map[string]any{"data": viewOf(best, now)})
		},
	}
}

// nextBonus picks the account with the earliest bonus time; an already
// available bonus sorts first naturally.
func nextBonus(accs []model.Account) (model.Account, bool) {
	var best model.Account
	var bestAt time.Time
	found := false
	for _, a := range accs {
		at, ok := model.ParseBonusTime(a.BonusTime)
		if !ok {
			continue
		}
		if !found || at.Before(bestAt) {
			best, bestAt, found = a, at, true
		}
	}
	return best, found
}
