package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	sendErr  error
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) CheckConnection(context.Context) error {
	f.calls = append(f.calls, "check")
	return nil
}
func (f *fakeExec) Register(context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Send(context.Context) error {
	f.calls = append(f.calls, "send")
	return f.sendErr
}
func (f *fakeExec) Receive(context.Context) error {
	f.calls = append(f.calls, "receive")
	return nil
}
func (f *fakeExec) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func run(exec *fakeExec, input string) string {
	var out bytes.Buffer
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader(input)), &out)
	return out.String()
}

func TestRunREPL_Commands(t *testing.T) {
	exec := &fakeExec{}

	out := run(exec, strings.Join([]string{
		"help",
		"check",
		"register",
		"login",
		"help",
		"",
		"send",
		"receive",
		"logout",
		"foobar",
		"exit",
		"login",
	}, "\n"))

	assert.Equal(t, []string{"check", "register", "login", "send", "receive", "logout"}, exec.calls)
	assert.Contains(t, out, "Available commands: check, register, login, exit")
	assert.Contains(t, out, "Available commands: check, send, receive, logout, exit")
	assert.Contains(t, out, "Unknown command: foobar")
	assert.Contains(t, out, "Bye!")
}

func TestRunREPL_ErrorsDoNotStopLoop(t *testing.T) {
	exec := &fakeExec{sendErr: errors.New("user not authenticated")}

	out := run(exec, "send\ncheck\nquit\n")

	assert.Equal(t, []string{"send", "check"}, exec.calls)
	assert.Contains(t, out, "Error: user not authenticated")
}

func TestRunREPL_StopsAtEOF(t *testing.T) {
	exec := &fakeExec{}

	out := run(exec, "check")

	assert.Equal(t, []string{"check"}, exec.calls)
	assert.NotContains(t, out, "Bye!")
}
