package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/bilive-keeper/internal/domain"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}

	cmd.AddCommand(
		newAccountListCmd(app),
		newAccountAddCmd(app),
		newAccountEnableCmd(app),
		newAccountDisableCmd(app),
		newAccountTasksCmd(app),
	)

	return cmd
}

func newAccountListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := app.service.GetStatusAll(cmd.Context())
			if err != nil {
				return err
			}

			for _, status := range statuses {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", status.Account.ID, status.Account.Nickname)
			}

			return nil
		},
	}
}

func newAccountAddCmd(app *app) *cobra.Command {
	var accountID string
	var nickname string
	var tasks taskFlagSet

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseAccountID(accountID)
			if err != nil {
				return err
			}

			if err := app.service.AddAccount(cmd.Context(), id, nickname, tasks.flags()); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added account %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account uid")
	cmd.Flags().StringVar(&nickname, "nickname", "", "Display name")
	tasks.register(cmd)
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func newAccountEnableCmd(app *app) *cobra.Command {
	return newAccountActiveCmd(app, "enable", "Resume scheduled work for an account", true)
}

func newAccountDisableCmd(app *app) *cobra.Command {
	return newAccountActiveCmd(app, "disable", "Pause scheduled work for an account", false)
}

func newAccountActiveCmd(app *app, use string, short string, active bool) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseAccountID(accountID)
			if err != nil {
				return err
			}

			return app.service.SetActive(cmd.Context(), id, active)
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account uid")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func newAccountTasksCmd(app *app) *cobra.Command {
	var accountID string
	var tasks taskFlagSet

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Set which daily tasks an account runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseAccountID(accountID)
			if err != nil {
				return err
			}

			return app.service.SetTasks(cmd.Context(), id, tasks.flags())
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account uid")
	tasks.register(cmd)
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

type taskFlagSet struct {
	doSign      bool
	treasureBox bool
	eventRooms  bool
}

func (f *taskFlagSet) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.doSign, "sign", false, "Run the daily sign-in check")
	cmd.Flags().BoolVar(&f.treasureBox, "treasure", false, "Run treasure-box claim sequences")
	cmd.Flags().BoolVar(&f.eventRooms, "events", false, "Run event-room heartbeat chains")
}

func (f *taskFlagSet) flags() domain.TaskFlags {
	return domain.TaskFlags{
		DoSign:      f.doSign,
		TreasureBox: f.treasureBox,
		EventRooms:  f.eventRooms,
	}
}
