package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/bilive-keeper/internal/domain"
	"github.com/bnema/bilive-keeper/internal/ports"
)

// Service manages the account registry and its credentials. Scheduler
// rounds only read accounts; all mutation happens here, between rounds.
type Service struct {
	repo  ports.AccountRepository
	store ports.SecretStore
	clock ports.Clock
}

func NewService(repo ports.AccountRepository, store ports.SecretStore, clock ports.Clock) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Service{
		repo:  repo,
		store: store,
		clock: clock,
	}
}

// SetCredential stores a secret value and points the account's matching
// credential ref at it. A failed registry save rolls the stored secret back;
// a successful save deletes the previously referenced secret.
func (s *Service) SetCredential(ctx context.Context, id domain.AccountID, kind domain.CredentialKind, secretKey, secretValue string) error {
	if !kind.Valid() {
		return fmt.Errorf("unsupported credential kind %q", kind)
	}

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return fmt.Errorf("get account by id: %w", err)
		}
		account = domain.Account{ID: id, Active: true}
	}

	previousRef := credentialRef(account, kind)

	if err := s.store.Put(ctx, secretKey, secretValue); err != nil {
		return fmt.Errorf("store credential secret: %w", err)
	}

	setCredentialRef(&account, kind, secretKey)

	if err := s.repo.Save(ctx, account); err != nil {
		if rollbackErr := s.store.Delete(ctx, secretKey); rollbackErr != nil {
			return fmt.Errorf("save account credential and rollback stored secret: %w", errors.Join(err, rollbackErr))
		}

		return fmt.Errorf("save account credential: %w", err)
	}

	if previousRef != "" && previousRef != secretKey {
		if err := s.store.Delete(ctx, previousRef); err != nil {
			return fmt.Errorf("delete previous credential secret: %w", err)
		}
	}

	return nil
}

// RemoveCredentials clears both credential refs and deletes their secrets.
func (s *Service) RemoveCredentials(ctx context.Context, id domain.AccountID) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get account by id: %w", err)
	}

	refs := make([]string, 0, 2)
	for _, ref := range []string{account.Credentials.AccessTokenRef, account.Credentials.CookieRef} {
		if ref != "" {
			refs = append(refs, ref)
		}
	}

	account.Credentials = domain.CredentialRefs{}

	if err := s.repo.Save(ctx, account); err != nil {
		return fmt.Errorf("save account credential: %w", err)
	}

	var deleteErrs error
	for _, ref := range refs {
		if err := s.store.Delete(ctx, ref); err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
			deleteErrs = errors.Join(deleteErrs, err)
		}
	}
	if deleteErrs != nil {
		return fmt.Errorf("delete credential secrets: %w", deleteErrs)
	}

	return nil
}

func (s *Service) AddAccount(ctx context.Context, id domain.AccountID, nickname string, tasks domain.TaskFlags) error {
	_, err := s.repo.GetByID(ctx, id)
	if err == nil {
		return fmt.Errorf("account %s already exists", id)
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return fmt.Errorf("get account by id: %w", err)
	}

	account := domain.Account{
		ID:       id,
		Nickname: nickname,
		Active:   true,
		Tasks:    tasks,
	}

	if err := s.repo.Save(ctx, account); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	return nil
}

func (s *Service) SetActive(ctx context.Context, id domain.AccountID, active bool) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get account by id: %w", err)
	}

	account.Active = active

	if err := s.repo.Save(ctx, account); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	return nil
}

func (s *Service) SetTasks(ctx context.Context, id domain.AccountID, tasks domain.TaskFlags) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get account by id: %w", err)
	}

	account.Tasks = tasks

	if err := s.repo.Save(ctx, account); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	return nil
}

func (s *Service) GetStatus(ctx context.Context, id domain.AccountID) (Status, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Status{}, fmt.Errorf("get account by id: %w", err)
	}

	return statusFor(account), nil
}

func (s *Service) GetStatusAll(ctx context.Context) ([]Status, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	statuses := make([]Status, 0, len(accounts))
	for _, account := range accounts {
		statuses = append(statuses, statusFor(account))
	}

	return statuses, nil
}

func credentialRef(account domain.Account, kind domain.CredentialKind) string {
	if kind == domain.CredentialAccessToken {
		return account.Credentials.AccessTokenRef
	}
	return account.Credentials.CookieRef
}

func setCredentialRef(account *domain.Account, kind domain.CredentialKind, ref string) {
	if kind == domain.CredentialAccessToken {
		account.Credentials.AccessTokenRef = ref
		return
	}
	account.Credentials.CookieRef = ref
}
