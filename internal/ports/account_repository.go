package ports

import (
	"context"

	"github.com/bnema/bilive-keeper/internal/domain"
)

type AccountRepository interface {
	GetByID(ctx context.Context, id domain.AccountID) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Save(ctx context.Context, account domain.Account) error
}

type RoomRepository interface {
	List(ctx context.Context) ([]domain.Room, error)
	Save(ctx context.Context, room domain.Room) error
	Delete(ctx context.Context, id domain.RoomID) error
}
