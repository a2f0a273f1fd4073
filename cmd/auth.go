package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/bilive-keeper/internal/domain"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage account credentials",
	}

	cmd.AddCommand(newAuthSetCmd(app), newAuthRemoveCmd(app))

	return cmd
}

func newAuthSetCmd(app *app) *cobra.Command {
	var accountID string
	var kind string
	var secretValue string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store a credential for an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			credentialKind, err := parseCredentialKind(kind)
			if err != nil {
				return err
			}
			id, err := parseAccountID(accountID)
			if err != nil {
				return err
			}

			return app.service.SetCredential(
				cmd.Context(),
				id,
				credentialKind,
				secretKeyFor(id, credentialKind),
				secretValue,
			)
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account uid")
	cmd.Flags().StringVar(&kind, "kind", "", "Credential kind (access_token|cookie)")
	cmd.Flags().StringVar(&secretValue, "secret-value", "", "Credential value")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("secret-value")

	return cmd
}

func newAuthRemoveCmd(app *app) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove all credentials for an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseAccountID(accountID)
			if err != nil {
				return err
			}

			return app.service.RemoveCredentials(cmd.Context(), id)
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account uid")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func parseCredentialKind(raw string) (domain.CredentialKind, error) {
	kind := domain.CredentialKind(raw)
	if !kind.Valid() {
		return "", fmt.Errorf("unsupported credential kind %q", raw)
	}
	return kind, nil
}

func secretKeyFor(id domain.AccountID, kind domain.CredentialKind) string {
	return fmt.Sprintf("bilibili://%s/%s", id, kind)
}
