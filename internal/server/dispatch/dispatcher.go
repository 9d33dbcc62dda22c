// Package dispatch turns one protocol request into one response, routing it
// to the account store, the mailbox store or the connection's session.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/gophmail/internal/common"
	"github.com/dmitrijs2005/gophmail/internal/logging"
	"github.com/dmitrijs2005/gophmail/internal/protocol"
	"github.com/dmitrijs2005/gophmail/internal/server/accounts"
	"github.com/dmitrijs2005/gophmail/internal/server/mailbox"
	"github.com/dmitrijs2005/gophmail/internal/server/metrics"
	"github.com/dmitrijs2005/gophmail/internal/server/session"
	"github.com/google/uuid"
)

// Client-visible confirmations.
const (
	msgAvailable  = "Service available"
	msgRegistered = "User registered successfully"
	msgLoggedIn   = "Login successful"
	msgSent       = "E-mail sent successfully"
	msgLoggedOut  = "Logout successful"
	msgInternal   = "internal error"
)

// Credentials is the account store as seen by the dispatcher.
type Credentials interface {
	Register(ctx context.Context, displayName, id, password string) error
	Authenticate(ctx context.Context, id, password string) (string, error)
	Lookup(ctx context.Context, id string) (*accounts.Account, error)
}

// Mailboxes is the mailbox store as seen by the dispatcher.
type Mailboxes interface {
	Deliver(recipientID string, m mailbox.Message) error
	DrainAll(accountID string) []mailbox.Message
	DrainUpTo(accountID string, budget int, size func(mailbox.Message) int) ([]mailbox.Message, int)
}

type Dispatcher struct {
	credentials Credentials
	mailboxes   Mailboxes
	metrics     *metrics.Metrics
	logger      logging.Logger
	now         func() time.Time
	newID       func() string

	// emailBudget bounds the encoded e-mails in one receive_emails
	// response; zero means unbounded.
	emailBudget int
}

// New builds a Dispatcher. m may be nil. A receive_emails response is kept
// within maxResponseBytes, frame terminator included, except when a single
// message alone exceeds it; maxResponseBytes <= 0 disables the bound.
func New(c Credentials, mb Mailboxes, maxResponseBytes int, m *metrics.Metrics, l logging.Logger) *Dispatcher {
	d := &Dispatcher{
		credentials: c,
		mailboxes:   mb,
		metrics:     m,
		logger:      l.With("module", "dispatcher"),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	if maxResponseBytes > 0 {
		d.emailBudget = max(maxResponseBytes-receiveOverhead(), 1)
	}
	return d
}

// receiveOverhead is the size of the largest receive_emails response that
// carries no e-mails, terminator included.
func receiveOverhead() int {
	resp := protocol.Success(receivedMessage(math.MaxInt32, math.MaxInt32))
	resp.Emails = []protocol.Email{}
	resp.Remaining = math.MaxInt32
	b, _ := json.Marshal(resp)
	return len(b) + 1
}

// encodedSize is the space m takes in the emails array, separator included.
func encodedSize(m mailbox.Message) int {
	b, _ := json.Marshal(toEmail(m))
	return len(b) + 1
}

func receivedMessage(received, remaining int) string {
	if remaining > 0 {
		return fmt.Sprintf("%d e-mails received, %d more waiting", received, remaining)
	}
	return fmt.Sprintf("%d e-mails received", received)
}

// Dispatch handles req on behalf of the connection owning sess and always
// returns a response.
func (d *Dispatcher) Dispatch(ctx context.Context, sess *session.Session, req *protocol.Request) *protocol.Response {
	start := d.now()

	d.logger.Debug(ctx, "Operation received", "operation", req.Operation, "state", sess.State().String())

	var resp *protocol.Response
	switch req.Operation {
	case protocol.OpCheckConnection:
		resp = protocol.Success(msgAvailable)
	case protocol.OpRegister:
		resp = d.register(ctx, req)
	case protocol.OpLogin:
		resp = d.login(ctx, sess, req)
	case protocol.OpSendEmail:
		resp = d.sendEmail(ctx, sess, req)
	case protocol.OpReceiveEmails:
		resp = d.receiveEmails(ctx, sess)
	case protocol.OpLogout:
		sess.Logout()
		resp = protocol.Success(msgLoggedOut)
	default:
		resp = d.failure(ctx, common.ErrUnknownOperation)
	}

	d.metrics.ObserveOperation(operationLabel(req.Operation), resp.Status, d.now().Sub(start))
	return resp
}

func (d *Dispatcher) register(ctx context.Context, req *protocol.Request) *protocol.Response {
	if err := d.credentials.Register(ctx, req.Name, req.Username, req.Password); err != nil {
		return d.failure(ctx, err)
	}
	d.metrics.AccountRegistered()
	return protocol.Success(msgRegistered)
}

func (d *Dispatcher) login(ctx context.Context, sess *session.Session, req *protocol.Request) *protocol.Response {
	name, err := d.credentials.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return d.failure(ctx, err)
	}
	sess.Login(req.Username)
	return &protocol.Response{Status: protocol.StatusSuccess, Message: msgLoggedIn, Name: name}
}

func (d *Dispatcher) sendEmail(ctx context.Context, sess *session.Session, req *protocol.Request) *protocol.Response {
	senderID, ok := sess.AccountID()
	if !ok {
		return d.failure(ctx, common.ErrUnauthorized)
	}

	sender, err := d.credentials.Lookup(ctx, senderID)
	if err != nil {
		return d.failure(ctx, fmt.Errorf("resolve sender %s: %w", senderID, err))
	}

	m := mailbox.Message{
		ID:          d.newID(),
		SenderID:    senderID,
		SenderName:  sender.DisplayName,
		RecipientID: req.Recipient,
		SentAt:      d.now(),
		Subject:     req.Subject,
		Body:        req.Body,
	}

	if err := d.mailboxes.Deliver(req.Recipient, m); err != nil {
		if errors.Is(err, common.ErrUnknownRecipient) {
			d.metrics.Delivery(metrics.DeliveryUnknownRecipient)
		}
		return d.failure(ctx, err)
	}
	d.metrics.Delivery(metrics.DeliveryDelivered)

	d.logger.Info(ctx, "E-mail sent", "id", m.ID, "from", senderID, "to", req.Recipient, "subject", req.Subject)
	return protocol.Success(msgSent)
}

func (d *Dispatcher) receiveEmails(ctx context.Context, sess *session.Session) *protocol.Response {
	accountID, ok := sess.AccountID()
	if !ok {
		return d.failure(ctx, common.ErrUnauthorized)
	}

	var (
		drained   []mailbox.Message
		remaining int
	)
	if d.emailBudget > 0 {
		drained, remaining = d.mailboxes.DrainUpTo(accountID, d.emailBudget, encodedSize)
	} else {
		drained = d.mailboxes.DrainAll(accountID)
	}
	d.metrics.Drained(len(drained))

	emails := make([]protocol.Email, len(drained))
	for i, m := range drained {
		emails[i] = toEmail(m)
	}

	d.logger.Info(ctx, "E-mails delivered", "username", accountID, "count", len(emails), "remaining", remaining)

	resp := protocol.Success(receivedMessage(len(emails), remaining))
	resp.Emails = emails
	resp.Remaining = remaining
	return resp
}

// failure maps err to its client-visible message. Anything outside the
// protocol error set is logged and reported as an internal error.
func (d *Dispatcher) failure(ctx context.Context, err error) *protocol.Response {
	switch {
	case errors.Is(err, common.ErrValidation):
		return protocol.Failure(err.Error())
	case errors.Is(err, common.ErrDuplicateAccount),
		errors.Is(err, common.ErrAuthentication),
		errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrUnknownRecipient),
		errors.Is(err, common.ErrUnknownOperation):
		return protocol.Failure(rootMessage(err))
	default:
		d.logger.Error(ctx, "Request failed", "error", err.Error())
		return protocol.Failure(msgInternal)
	}
}

var publicErrors = []error{
	common.ErrDuplicateAccount,
	common.ErrAuthentication,
	common.ErrUnauthorized,
	common.ErrUnknownRecipient,
	common.ErrUnknownOperation,
}

// rootMessage strips wrapping context so clients see only the sentinel text.
func rootMessage(err error) string {
	for _, sentinel := range publicErrors {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

func toEmail(m mailbox.Message) protocol.Email {
	return protocol.Email{
		ID:         m.ID,
		Sender:     m.SenderID,
		SenderName: m.SenderName,
		Recipient:  m.RecipientID,
		Timestamp:  m.SentAt.Format(common.TimestampLayout),
		Subject:    m.Subject,
		Body:       m.Body,
	}
}

func operationLabel(op string) string {
	switch op {
	case protocol.OpCheckConnection, protocol.OpRegister, protocol.OpLogin,
		protocol.OpLogout, protocol.OpSendEmail, protocol.OpReceiveEmails:
		return op
	default:
		return "unknown"
	}
}
