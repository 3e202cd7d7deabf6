package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eringen/wealthwise/content"
)

// Notifier sends the messages triggered by public form submissions.
type Notifier struct {
	sender Sender
	admin  string
	site   string
	log    *slog.Logger
}

// NewNotifier returns a Notifier for cfg. Without SMTP credentials messages
// are logged instead of sent.
func NewNotifier(cfg Config, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	var s Sender = New(cfg)
	if !cfg.Enabled() {
		log.Warn("EMAIL_USER or EMAIL_PASSWORD not set, notification emails will only be logged")
		s = LogSender{Log: log}
	}
	return NewNotifierWithSender(s, cfg, log)
}

// NewNotifierWithSender uses s for delivery.
func NewNotifierWithSender(s Sender, cfg Config, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	admin := cfg.AdminEmail
	if admin == "" {
		admin = cfg.from()
	}
	site := cfg.SiteName
	if site == "" {
		site = DefaultConfig().SiteName
	}
	return &Notifier{sender: s, admin: admin, site: site, log: log}
}

// BookingReceived sends the client confirmation and the admin notification.
// Both are attempted; the returned error joins whichever failed.
func (n *Notifier) BookingReceived(ctx context.Context, b content.Booking) error {
	var errs []error

	if msg, err := BookingConfirmation(n.site, b); err != nil {
		errs = append(errs, err)
	} else if err := n.sender.Send(ctx, msg); err != nil {
		errs = append(errs, fmt.Errorf("client confirmation: %w", err))
	}

	if msg, err := BookingNotification(n.admin, b); err != nil {
		errs = append(errs, err)
	} else if err := n.sender.Send(ctx, msg); err != nil {
		errs = append(errs, fmt.Errorf("admin notification: %w", err))
	}
	return errors.Join(errs...)
}

// ContactReceived notifies the admin of a contact request.
func (n *Notifier) ContactReceived(ctx context.Context, c content.Contact) error {
	msg, err := ContactNotification(n.admin, c)
	if err != nil {
		return err
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("contact notification: %w", err)
	}
	return nil
}
