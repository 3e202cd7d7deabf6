// Package mail sends the booking and contact notifications over SMTP.
package mail

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

// Message is one outbound e-mail.
type Message struct {
	To       []string
	CC       []string
	BCC      []string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
	Headers  map[string]string
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Client is an SMTP Sender.
type Client struct {
	cfg Config
}

func New(cfg Config) *Client {
	return &Client{cfg: cfg}
}

func (c *Client) Send(ctx context.Context, m Message) error {
	if !c.cfg.Enabled() {
		return ErrDisabled{}
	}

	msg, err := buildMessage(c.cfg.from(), m)
	if err != nil {
		return err
	}

	d := gomail.NewDialer(c.cfg.Host, c.cfg.Port, c.cfg.Username, c.cfg.Password)
	d.SSL = c.cfg.SSL

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(msg)
	}()

	// Respect ctx deadline if it's sooner than the configured timeout.
	wait := c.cfg.timeout()
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 && d < wait {
			wait = d
		}
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return ErrSend{Provider: "smtp " + c.cfg.Host, Err: err}
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return context.DeadlineExceeded
	}
}

func buildMessage(from string, m Message) (*gomail.Message, error) {
	msg := gomail.NewMessage()

	from = strings.TrimSpace(from)
	if from == "" {
		return nil, ErrInvalidMessage{Reason: "from is required"}
	}
	msg.SetHeader("From", from)

	to := cleanAddrs(m.To)
	if len(to) == 0 {
		return nil, ErrInvalidMessage{Reason: "at least one recipient is required"}
	}
	msg.SetHeader("To", to...)
	if cc := cleanAddrs(m.CC); len(cc) > 0 {
		msg.SetHeader("Cc", cc...)
	}
	if bcc := cleanAddrs(m.BCC); len(bcc) > 0 {
		msg.SetHeader("Bcc", bcc...)
	}
	if r := strings.TrimSpace(m.ReplyTo); r != "" {
		msg.SetHeader("Reply-To", r)
	}

	subj := strings.TrimSpace(m.Subject)
	if subj == "" {
		return nil, ErrInvalidMessage{Reason: "subject is required"}
	}
	msg.SetHeader("Subject", subj)

	for k, v := range m.Headers {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		msg.SetHeader(k, v)
	}

	hasText := strings.TrimSpace(m.TextBody) != ""
	hasHTML := strings.TrimSpace(m.HTMLBody) != ""
	switch {
	case hasText && hasHTML:
		msg.SetBody("text/plain", m.TextBody)
		msg.AddAlternative("text/html", m.HTMLBody)
	case hasHTML:
		msg.SetBody("text/html", m.HTMLBody)
	case hasText:
		msg.SetBody("text/plain", m.TextBody)
	default:
		return nil, ErrInvalidMessage{Reason: "either TextBody or HTMLBody is required"}
	}
	return msg, nil
}

func cleanAddrs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// LogSender writes messages to the log instead of sending them. It stands in
// for Client when no SMTP credentials are configured.
type LogSender struct {
	Log *slog.Logger
}

func (l LogSender) Send(ctx context.Context, m Message) error {
	log := l.Log
	if log == nil {
		log = slog.Default()
	}
	log.InfoContext(ctx, "email not sent, mail is disabled",
		"to", strings.Join(m.To, ","), "subject", m.Subject)
	return nil
}
