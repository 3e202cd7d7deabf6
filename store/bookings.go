package store

import (
	"context"

	"github.com/eringen/wealthwise/content"
	"github.com/eringen/wealthwise/feed"
)

var bookingColumns = []string{
	"id", "name", "email", "phone", "date", "time_slot", "message", "status", "created_at", "updated_at",
}

// Bookings is the bookings table. Rows for the same date and slot may coexist.
type Bookings struct {
	table[content.Booking]
}

func newBookings(d *DB, local bool) *Bookings {
	return &Bookings{table[content.Booking]{
		db: d, name: "bookings", columns: bookingColumns,
		scan: scanBooking, hub: feed.NewHub[content.Booking](), local: local,
	}}
}

func scanBooking(r rowScanner) (content.Booking, error) {
	var b content.Booking
	var status string
	var created, updated scanTime
	if err := r.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.Date, &b.TimeSlot, &b.Message,
		&status, &created, &updated); err != nil {
		return content.Booking{}, err
	}
	b.Status = content.BookingStatus(status)
	b.CreatedAt = created.Time
	b.UpdatedAt = updated.Time
	return b, nil
}

func (t *Bookings) Changes() *feed.Hub[content.Booking] { return t.hub }

// List returns bookings, most recently created first.
func (t *Bookings) List(ctx context.Context) ([]content.Booking, error) {
	return t.query(ctx, "list bookings", "", "created_at DESC")
}

// ListByDate returns the bookings for one calendar date in slot order of creation.
func (t *Bookings) ListByDate(ctx context.Context, date string) ([]content.Booking, error) {
	return t.query(ctx, "list bookings by date", "date = ?", "created_at ASC", date)
}

func (t *Bookings) Get(ctx context.Context, id string) (content.Booking, error) {
	return t.queryRow(ctx, "get booking", "id = ?", id)
}

// Insert stores b under a fresh id. An empty status becomes pending.
func (t *Bookings) Insert(ctx context.Context, b content.Booking) (content.Booking, error) {
	if b.Status == "" {
		b.Status = content.BookingPending
	}
	if err := b.Validate(); err != nil {
		return content.Booking{}, err
	}
	ts := formatTime(now())
	return t.insert(ctx, "insert booking", []any{
		newID(), b.Name, b.Email, b.Phone, b.Date, b.TimeSlot, b.Message, string(b.Status), ts, ts,
	})
}

func (t *Bookings) Update(ctx context.Context, id string, p content.BookingPatch) (content.Booking, error) {
	if p.Status != nil && !p.Status.Valid() {
		return content.Booking{}, &content.ValidationError{Field: "status", Reason: "is not a booking status"}
	}
	var s setter
	setIf(&s, "name", p.Name)
	setIf(&s, "email", p.Email)
	setIf(&s, "phone", p.Phone)
	setIf(&s, "date", p.Date)
	setIf(&s, "time_slot", p.TimeSlot)
	setIf(&s, "message", p.Message)
	if p.Status != nil {
		s.set("status", string(*p.Status))
	}
	return t.update(ctx, "update booking", id, s)
}

func (t *Bookings) Delete(ctx context.Context, id string) (bool, error) {
	return t.delete(ctx, "delete booking", id)
}
