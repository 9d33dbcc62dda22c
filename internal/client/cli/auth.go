package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophmail/internal/client/client"
)

// getSimpleText, getMultiline and getPassword are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getMultiline  = GetMultiline
	getPassword   = GetPassword
)

func (a *App) CheckConnection(ctx context.Context) error {
	msg, err := a.client.CheckConnection(ctx)
	if err != nil {
		a.forgetLoginOn(err)
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// Register prompts for a display name, a username and a password and
// creates the account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}

	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	msg, err := a.client.Register(ctx, name, userName, string(password))
	if err != nil {
		a.forgetLoginOn(err)
		return err
	}

	fmt.Fprintln(a.out, msg)
	return nil
}

// Login prompts for credentials and authenticates the connection.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	displayName, err := a.client.Login(ctx, userName, string(password))
	if err != nil {
		a.forgetLoginOn(err)
		return err
	}

	a.userName = userName
	a.displayName = displayName
	fmt.Fprintf(a.out, "Welcome, %s!\n", displayName)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	err := a.client.Logout(ctx)
	a.userName, a.displayName = "", ""
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// forgetLoginOn clears the local login when err means the server no longer
// considers this connection logged in.
func (a *App) forgetLoginOn(err error) {
	if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, client.ErrUnavailable) {
		a.userName, a.displayName = "", ""
	}
}
