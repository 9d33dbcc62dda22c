package accounts

import "context"

// Repository persists accounts. Implementations return common.ErrNotFound
// for missing ids and common.ErrDuplicateAccount when Create hits an
// existing id.
type Repository interface {
	Create(ctx context.Context, account *Account) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	ListIDs(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
}
