package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/bilive-keeper/internal/domain"
	"github.com/bnema/bilive-keeper/internal/ports"
)

// SessionResolver materializes the per-round credential handle for an
// account. Each round resolves sessions once and passes them into task
// instances by value; nothing re-reads the secret store mid-flight.
type SessionResolver struct {
	store ports.SecretStore
}

func NewSessionResolver(store ports.SecretStore) *SessionResolver {
	return &SessionResolver{store: store}
}

func (r *SessionResolver) Resolve(ctx context.Context, account domain.Account) (domain.Session, error) {
	session := domain.Session{
		AccountID: account.ID,
		Nickname:  account.Nickname,
	}

	token, err := r.lookup(ctx, account.Credentials.AccessTokenRef)
	if err != nil {
		return domain.Session{}, fmt.Errorf("resolve access token for %s: %w", account.ID, err)
	}
	session.AccessToken = token

	cookie, err := r.lookup(ctx, account.Credentials.CookieRef)
	if err != nil {
		return domain.Session{}, fmt.Errorf("resolve cookie for %s: %w", account.ID, err)
	}
	session.Cookie = cookie

	if !session.HasToken() && !session.HasCookie() {
		return domain.Session{}, fmt.Errorf("account %s: %w", account.ID, domain.ErrCredentialMissing)
	}

	return session, nil
}

func (r *SessionResolver) lookup(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}

	value, err := r.store.Get(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", nil
		}
		return "", err
	}

	return value, nil
}
