package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/bilive-keeper/internal/application"
	"github.com/bnema/bilive-keeper/internal/domain"
)

func newCheckCmd(app *app) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Query sign-in state and the next treasure box without claiming",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, app, accountID)
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account uid (default: all active accounts)")

	return cmd
}

func runCheck(cmd *cobra.Command, app *app, accountID string) error {
	accounts, err := checkTargets(cmd, app, accountID)
	if err != nil {
		return err
	}

	sessions := make([]domain.Session, 0, len(accounts))
	for _, account := range accounts {
		session, err := app.resolver.Resolve(cmd.Context(), account)
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", account.Label(), err)
			continue
		}
		sessions = append(sessions, session)
	}
	if len(sessions) == 0 {
		return fmt.Errorf("no accounts with usable credentials")
	}

	probe := application.NewProbe(app.client)

	var results []application.ProbeResult
	err = runCheckSpinner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context) error {
		results = probe.Run(ctx, sessions)
		return nil
	})
	if err != nil {
		return err
	}

	for _, result := range results {
		writeProbeResult(cmd, result)
	}

	return nil
}

func checkTargets(cmd *cobra.Command, app *app, accountID string) ([]domain.Account, error) {
	if accountID != "" {
		id, err := parseAccountID(accountID)
		if err != nil {
			return nil, err
		}

		account, err := app.accounts.GetByID(cmd.Context(), id)
		if err != nil {
			return nil, err
		}

		return []domain.Account{account}, nil
	}

	accounts, err := app.accounts.List(cmd.Context())
	if err != nil {
		return nil, err
	}

	active := accounts[:0]
	for _, account := range accounts {
		if account.Active {
			active = append(active, account)
		}
	}

	return active, nil
}

func writeProbeResult(cmd *cobra.Command, result application.ProbeResult) {
	out := cmd.OutOrStdout()

	if result.Err != nil {
		_, _ = fmt.Fprintf(out, "%s\terror: %v\n", result.Label, result.Err)
		return
	}

	signed := "not signed in"
	if result.Signed {
		signed = "signed in"
	}

	box := fmt.Sprintf("next box in %s", result.NextBox)
	if result.BoxesExhausted {
		box = "boxes exhausted for today"
	}

	_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n", result.Label, signed, box)
}
