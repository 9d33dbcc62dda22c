package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophmail/internal/client/client"
	"github.com/dmitrijs2005/gophmail/internal/client/config"
)

type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer

	userName    string
	displayName string
}

func NewApp(c *config.Config) *App {
	return newApp(c, client.NewTCPClient(c.ServerEndpointAddr, c.DialTimeout, c.MaxResponseBytes), os.Stdin, os.Stdout)
}

func newApp(c *config.Config, cl client.Client, in io.Reader, out io.Writer) *App {
	return &App{config: c, client: cl, reader: bufio.NewReader(in), out: out}
}

// Run greets the user and serves the REPL until exit.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	fmt.Fprintf(a.out, "Welcome to GophMail CLI, server %s (type 'help' for commands)\n", a.config.ServerEndpointAddr)

	if msg, err := a.client.CheckConnection(ctx); err != nil {
		fmt.Fprintln(a.out, "Warning:", err.Error())
	} else {
		fmt.Fprintln(a.out, msg)
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}
