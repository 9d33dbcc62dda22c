package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL needs; App implements it and
// tests substitute a stub.
type execIface interface {
	isLoggedIn() bool
	CheckConnection(ctx context.Context) error
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Send(ctx context.Context) error
	Receive(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit". Handler
// errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "gm%s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: check, send, receive, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: check, register, login, exit")
			}

		case "check":
			cmdErr = a.CheckConnection(ctx)

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "send":
			cmdErr = a.Send(ctx)

		case "receive":
			cmdErr = a.Receive(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, "Error:", cmdErr.Error())
		}
	}
}
