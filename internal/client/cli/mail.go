package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophmail/internal/protocol"
)

// Send prompts for a recipient, a subject and a multi-line body.
func (a *App) Send(ctx context.Context) error {
	recipient, err := getSimpleText(a.reader, "To (username)", a.out)
	if err != nil {
		return err
	}

	subject, err := getSimpleText(a.reader, "Subject", a.out)
	if err != nil {
		return err
	}

	body, err := getMultiline(a.reader, "Body", a.out)
	if err != nil {
		return err
	}

	if err := a.client.SendEmail(ctx, recipient, subject, body); err != nil {
		a.forgetLoginOn(err)
		return err
	}

	fmt.Fprintln(a.out, "Sent")
	return nil
}

// Receive downloads and prints the oldest messages in the inbox. The server
// deletes what it returns, so this is the only chance to read them.
func (a *App) Receive(ctx context.Context) error {
	emails, remaining, err := a.client.ReceiveEmails(ctx)
	if err != nil {
		a.forgetLoginOn(err)
		return err
	}

	if len(emails) == 0 {
		fmt.Fprintln(a.out, "No new e-mails")
		return nil
	}

	fmt.Fprintf(a.out, "%d new e-mail(s)\n", len(emails))
	for i, e := range emails {
		fmt.Fprintln(a.out, formatEmail(i+1, e))
	}
	if remaining > 0 {
		fmt.Fprintf(a.out, "%d more e-mail(s) waiting, run receive again\n", remaining)
	}
	return nil
}

func formatEmail(n int, e protocol.Email) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- #%d ---\n", n)
	fmt.Fprintf(&b, "From:    %s <%s>\n", e.SenderName, e.Sender)
	fmt.Fprintf(&b, "Date:    %s\n", e.Timestamp)
	fmt.Fprintf(&b, "Subject: %s\n", e.Subject)
	b.WriteString("\n")
	b.WriteString(e.Body)
	return b.String()
}
