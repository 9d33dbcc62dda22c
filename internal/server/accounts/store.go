// Package accounts is the credential store: it owns the account directory,
// enforces unique account ids and verifies passwords.
//
// Registration creates the account's mailbox inside the same critical
// section, so no caller can observe an account that has no mailbox.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophmail/internal/common"
	"github.com/dmitrijs2005/gophmail/internal/cryptox"
	"github.com/dmitrijs2005/gophmail/internal/logging"
)

// Mailboxes is the part of the mailbox store the account store manages.
type Mailboxes interface {
	Create(accountID string)
	Exists(accountID string) bool
}

// Store serializes registration against lookups.
type Store struct {
	mu        sync.RWMutex
	repo      Repository
	mailboxes Mailboxes
	hasher    *cryptox.PasswordHasher
	logger    logging.Logger
}

func NewStore(repo Repository, mailboxes Mailboxes, hasher *cryptox.PasswordHasher, logger logging.Logger) *Store {
	return &Store{
		repo:      repo,
		mailboxes: mailboxes,
		hasher:    hasher,
		logger:    logger.With("module", "accounts"),
	}
}

// Register creates the account and its empty mailbox.
//
// It fails with common.ErrValidation when a field is empty or the password
// is too long for the hash, and with common.ErrDuplicateAccount when id is
// taken.
func (s *Store) Register(ctx context.Context, displayName, id, password string) error {
	if displayName == "" || id == "" || password == "" {
		return fmt.Errorf("%w: all fields are required", common.ErrValidation)
	}

	// Hashing is slow; keep it out of the critical section.
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return fmt.Errorf("%w: password longer than %d bytes", common.ErrValidation, cryptox.MaxPasswordBytes)
		}
		return fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.repo.GetByID(ctx, id)
	switch {
	case err == nil:
		return common.ErrDuplicateAccount
	case !errors.Is(err, common.ErrNotFound):
		return fmt.Errorf("lookup account: %w", err)
	}

	if _, err := s.repo.Create(ctx, &Account{ID: id, DisplayName: displayName, PasswordHash: hash}); err != nil {
		if errors.Is(err, common.ErrDuplicateAccount) {
			return err
		}
		return fmt.Errorf("create account: %w", err)
	}
	s.mailboxes.Create(id)

	s.logger.Info(ctx, "account registered", "username", id, "name", displayName)
	return nil
}

// Authenticate verifies id and password and returns the display name.
//
// Unknown ids and wrong passwords both yield common.ErrAuthentication and
// cost one bcrypt comparison each; only the log tells them apart.
func (s *Store) Authenticate(ctx context.Context, id, password string) (string, error) {
	s.mu.RLock()
	account, err := s.repo.GetByID(ctx, id)
	s.mu.RUnlock()

	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return "", fmt.Errorf("lookup account: %w", err)
		}
		s.hasher.CompareDummy(password)
		s.logger.Info(ctx, "login failed: unknown username", "username", id)
		return "", common.ErrAuthentication
	}

	if !s.hasher.Compare(account.PasswordHash, password) {
		s.logger.Info(ctx, "login failed: wrong password", "username", id)
		return "", common.ErrAuthentication
	}

	s.logger.Info(ctx, "login succeeded", "username", id)
	return account.DisplayName, nil
}

// Lookup returns the account for id or common.ErrNotFound.
func (s *Store) Lookup(ctx context.Context, id string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.repo.GetByID(ctx, id)
}

// Count returns the number of registered accounts.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.repo.Count(ctx)
}

// Restore creates an empty mailbox for every account in the repository that
// has none. It runs once at start-up, before connections are accepted, and
// returns the number of mailboxes created.
func (s *Store) Restore(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list accounts: %w", err)
	}

	created := 0
	for _, id := range ids {
		if s.mailboxes.Exists(id) {
			continue
		}
		s.mailboxes.Create(id)
		created++
	}

	s.logger.Info(ctx, "mailboxes restored", "accounts", len(ids), "created", created)
	return created, nil
}
