// Package cli provides the interactive GophMail command-line client.
//
// It wires configuration and the protocol client into a small REPL. The
// available commands depend on whether the connection is logged in:
//
//	Not logged in: help, check, register, login, exit
//	Logged in:     help, check, send, receive, logout, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or input ends. Every command error is printed and the prompt comes back.
package cli
