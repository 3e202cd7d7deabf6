// Package intake validates and stores the public booking and contact forms
// and triggers their notification e-mails.
package intake

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/eringen/wealthwise/content"
)

// Creator persists a new record.
type Creator[T any] interface {
	Create(ctx context.Context, v T) (T, error)
}

// Notifier sends the e-mails for new submissions.
type Notifier interface {
	BookingReceived(ctx context.Context, b content.Booking) error
	ContactReceived(ctx context.Context, c content.Contact) error
}

// NotifyError reports that a submission was stored but its e-mails failed.
// The record is not rolled back.
type NotifyError struct {
	Err error
}

func (e *NotifyError) Error() string { return "notification failed: " + e.Err.Error() }
func (e *NotifyError) Unwrap() error { return e.Err }

// Intake handles public form submissions.
type Intake struct {
	bookings Creator[content.Booking]
	contacts Creator[content.Contact]
	notifier Notifier
	calendar Calendar
	validate *validator.Validate
	log      *slog.Logger
}

type Option func(*Intake)

func WithCalendar(c Calendar) Option   { return func(i *Intake) { i.calendar = c } }
func WithLogger(l *slog.Logger) Option { return func(i *Intake) { i.log = l } }

func New(bookings Creator[content.Booking], contacts Creator[content.Contact], n Notifier, opts ...Option) *Intake {
	i := &Intake{
		bookings: bookings,
		contacts: contacts,
		notifier: n,
		calendar: DefaultCalendar(),
		validate: newValidator(),
		log:      slog.Default(),
	}
	for _, o := range opts {
		o(i)
	}
	return i
}

func (i *Intake) Calendar() Calendar { return i.calendar }

// ValidateBooking checks presence, formats, the time slot and the calendar.
func (i *Intake) ValidateBooking(f BookingForm) error {
	if err := i.validate.Struct(f); err != nil {
		return validationError(err)
	}
	if why := i.calendar.Bookable(f.Date); why != "" {
		return &content.ValidationError{Field: "date", Reason: why}
	}
	return nil
}

// SubmitBooking stores a pending booking with the fields as submitted and
// then sends the client confirmation and admin notification. When only the
// e-mails fail the stored booking is returned with a *NotifyError.
func (i *Intake) SubmitBooking(ctx context.Context, f BookingForm) (content.Booking, error) {
	if err := i.ValidateBooking(f); err != nil {
		return content.Booking{}, err
	}
	b, err := i.bookings.Create(ctx, content.Booking{
		Name:     f.Name,
		Email:    f.Email,
		Phone:    f.Phone,
		Date:     f.Date,
		TimeSlot: f.TimeSlot,
		Message:  f.Message,
		Status:   content.BookingPending,
	})
	if err != nil {
		return content.Booking{}, fmt.Errorf("save booking: %w", err)
	}
	i.log.InfoContext(ctx, "booking received", "id", b.ID, "date", b.Date, "slot", b.TimeSlot)

	if err := i.notifier.BookingReceived(ctx, b); err != nil {
		i.log.ErrorContext(ctx, "booking notification failed", "id", b.ID, "error", err)
		return b, &NotifyError{Err: err}
	}
	return b, nil
}

// SubmitContact stores a contact request with status new and notifies the admin.
func (i *Intake) SubmitContact(ctx context.Context, f ContactForm) (content.Contact, error) {
	if err := i.validate.Struct(f); err != nil {
		return content.Contact{}, validationError(err)
	}
	c, err := i.contacts.Create(ctx, content.Contact{
		Name:    f.Name,
		Email:   f.Email,
		Subject: f.Subject,
		Message: f.Message,
		Phone:   f.Phone,
		Status:  content.ContactNew,
	})
	if err != nil {
		return content.Contact{}, fmt.Errorf("save contact: %w", err)
	}
	i.log.InfoContext(ctx, "contact request received", "id", c.ID)

	if err := i.notifier.ContactReceived(ctx, c); err != nil {
		i.log.ErrorContext(ctx, "contact notification failed", "id", c.ID, "error", err)
		return c, &NotifyError{Err: err}
	}
	return c, nil
}
