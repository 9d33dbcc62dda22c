package client

import (
	"context"

	"github.com/dmitrijs2005/gophmail/internal/protocol"
)

// Client is the mail protocol as seen by the CLI.
type Client interface {
	Close() error
	CheckConnection(ctx context.Context) (string, error)
	Register(ctx context.Context, name, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context) error
	SendEmail(ctx context.Context, recipient, subject, body string) error
	ReceiveEmails(ctx context.Context) ([]protocol.Email, int, error)
}
