package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophmail/internal/client/config"
	"github.com/dmitrijs2005/gophmail/internal/protocol"
)

type fakeClient struct {
	calls []string

	checkMsg string
	checkErr error

	regName, regUser, regPass string
	regErr                    error

	loginUser, loginPass string
	loginName            string
	loginErr             error

	logoutErr error

	sentTo, sentSubject, sentBody string
	sendErr                       error

	emails     []protocol.Email
	remaining  int
	receiveErr error

	closed bool
}

func (f *fakeClient) Close() error { f.closed = true; return nil }

func (f *fakeClient) CheckConnection(context.Context) (string, error) {
	f.calls = append(f.calls, "check")
	return f.checkMsg, f.checkErr
}

func (f *fakeClient) Register(_ context.Context, name, username, password string) (string, error) {
	f.calls = append(f.calls, "register")
	f.regName, f.regUser, f.regPass = name, username, password
	return "User registered successfully", f.regErr
}

func (f *fakeClient) Login(_ context.Context, username, password string) (string, error) {
	f.calls = append(f.calls, "login")
	f.loginUser, f.loginPass = username, password
	return f.loginName, f.loginErr
}

func (f *fakeClient) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	return f.logoutErr
}

func (f *fakeClient) SendEmail(_ context.Context, recipient, subject, body string) error {
	f.calls = append(f.calls, "send")
	f.sentTo, f.sentSubject, f.sentBody = recipient, subject, body
	return f.sendErr
}

func (f *fakeClient) ReceiveEmails(context.Context) ([]protocol.Email, int, error) {
	f.calls = append(f.calls, "receive")
	return f.emails, f.remaining, f.receiveErr
}

// newTestApp builds an App reading input and writing to the returned buffer.
func newTestApp(fc *fakeClient, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return newApp(cfg, fc, strings.NewReader(input), &out), &out
}

// stubPassword makes getPassword return pw without touching the terminal.
func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

