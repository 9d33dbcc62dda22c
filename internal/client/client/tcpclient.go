package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophmail/internal/common"
	"github.com/dmitrijs2005/gophmail/internal/protocol"
)

// dialContext is a test seam for net.Dialer.DialContext.
var dialContext = func(ctx context.Context, timeout time.Duration, address string) (net.Conn, error) {
	d := net.Dialer{Timeout: timeout}
	return d.DialContext(ctx, "tcp", address)
}

type TCPClient struct {
	address          string
	dialTimeout      time.Duration
	maxResponseBytes int

	mu   sync.Mutex
	conn net.Conn
	enc  *protocol.Encoder
	dec  *protocol.Decoder
}

func NewTCPClient(address string, dialTimeout time.Duration, maxResponseBytes int) *TCPClient {
	return &TCPClient{address: address, dialTimeout: dialTimeout, maxResponseBytes: maxResponseBytes}
}

func (c *TCPClient) connect(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}
	conn, err := dialContext(ctx, c.dialTimeout, c.address)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	c.conn = conn
	c.enc = protocol.NewEncoder(conn)
	c.dec = protocol.NewDecoder(conn, c.maxResponseBytes)
	return nil
}

func (c *TCPClient) drop() {
	if c.conn != nil {
		c.conn.Close()
		c.conn, c.enc, c.dec = nil, nil, nil
	}
}

// roundTrip sends req and waits for its response. A transport failure closes
// the connection.
func (c *TCPClient) roundTrip(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	conn := c.conn
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Time{})
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	if err := c.enc.Encode(req); err != nil {
		c.drop()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var resp protocol.Response
	if err := c.dec.Decode(&resp); err != nil {
		c.drop()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if !resp.OK() {
		return nil, mapError(resp.Message)
	}
	return &resp, nil
}

func mapError(message string) error {
	err := &ServerError{Message: message}
	if message == common.ErrUnauthorized.Error() {
		return errors.Join(err, ErrUnauthorized)
	}
	return err
}

func (c *TCPClient) CheckConnection(ctx context.Context) (string, error) {
	resp, err := c.roundTrip(ctx, &protocol.Request{Operation: protocol.OpCheckConnection})
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *TCPClient) Register(ctx context.Context, name, username, password string) (string, error) {
	resp, err := c.roundTrip(ctx, &protocol.Request{
		Operation: protocol.OpRegister,
		Name:      name,
		Username:  username,
		Password:  password,
	})
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Login authenticates the connection and returns the account's display name.
func (c *TCPClient) Login(ctx context.Context, username, password string) (string, error) {
	resp, err := c.roundTrip(ctx, &protocol.Request{
		Operation: protocol.OpLogin,
		Username:  username,
		Password:  password,
	})
	if err != nil {
		return "", err
	}
	return resp.Name, nil
}

func (c *TCPClient) Logout(ctx context.Context) error {
	_, err := c.roundTrip(ctx, &protocol.Request{Operation: protocol.OpLogout})
	return err
}

func (c *TCPClient) SendEmail(ctx context.Context, recipient, subject, body string) error {
	_, err := c.roundTrip(ctx, &protocol.Request{
		Operation: protocol.OpSendEmail,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
	})
	return err
}

// ReceiveEmails takes the oldest messages from the inbox, as many as fit in
// one response, and reports how many are still waiting. The server forgets
// the returned messages.
func (c *TCPClient) ReceiveEmails(ctx context.Context) ([]protocol.Email, int, error) {
	resp, err := c.roundTrip(ctx, &protocol.Request{Operation: protocol.OpReceiveEmails})
	if err != nil {
		return nil, 0, err
	}
	return resp.Emails, resp.Remaining, nil
}

func (c *TCPClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn, c.enc, c.dec = nil, nil, nil
	return err
}
