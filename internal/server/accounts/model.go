package accounts

import "time"

// Account is a registered identity. Accounts are immutable after creation.
type Account struct {
	ID           string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}
