package accounts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophmail/internal/common"
)

// MemoryRepository keeps accounts in a map for the lifetime of the process.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]Account
	now      func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{accounts: make(map[string]Account), now: time.Now}
}

func (r *MemoryRepository) Create(_ context.Context, account *Account) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.ID]; ok {
		return nil, common.ErrDuplicateAccount
	}

	stored := *account
	stored.CreatedAt = r.now()
	r.accounts[stored.ID] = stored

	out := stored
	return &out, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &a, nil
}

// ListIDs returns account ids in creation order.
func (r *MemoryRepository) ListIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	ids := make([]string, len(all))
	for i, a := range all {
		ids[i] = a.ID
	}
	return ids, nil
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.accounts), nil
}
