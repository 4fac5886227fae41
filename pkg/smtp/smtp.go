package smtp

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/mevent/event-manager/backend/pkg/logger/types"
	"gopkg.in/gomail.v2"
)

// DefaultSendTimeout bounds a single delivery when the caller's context has no deadline.
const DefaultSendTimeout = 30 * time.Second

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Attachment is an in-memory file attached to a message.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is a plain-text email.
type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Client sends mail through an SMTP dialer.
type Client struct {
	dialer  sender
	from    string
	domain  string
	timeout time.Duration
	logger  *types.Logger
}

// Options configures a Client.
type Options struct {
	From    string
	Domain  string
	Timeout time.Duration
}

// NewClient initializes Client.
func NewClient(dialer *gomail.Dialer, opts Options, logger *types.Logger) *Client {
	return newClient(dialer, opts, logger)
}

func newClient(dialer sender, opts Options, logger *types.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultSendTimeout
	}
	return &Client{
		dialer:  dialer,
		from:    opts.From,
		domain:  opts.Domain,
		timeout: opts.Timeout,
		logger:  logger,
	}
}

// Send delivers msg, giving up when ctx is done or the client timeout elapses.
// An abandoned dial keeps running in the background until the SMTP server answers
// and may still deliver msg after Send has returned the timeout error.
func (c *Client) Send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	m := c.build(msg)

	done := make(chan error, 1)
	go func() {
		done <- c.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail to %s: %w", msg.To, err)
		}
		c.logger.Debugf("Email sent (to=%s, subject=%q)", msg.To, msg.Subject)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send mail to %s: %w", msg.To, ctx.Err())
	}
}

func (c *Client) build(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("Message-ID", generateMessageID(c.domain))
	m.SetHeader("Date", time.Now().Format(time.RFC1123Z))
	m.SetHeader("From", c.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	for _, a := range msg.Attachments {
		data := a.Data
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}))
		}
		m.Attach(a.Name, settings...)
	}
	return m
}

func generateMessageID(domain string) string {
	uniqueID := uuid.New().String()
	return fmt.Sprintf("<%s@%s>", uniqueID, domain)
}
