package service

import (
	"context"

	"github.com/eringen/wealthwise/content"
)

// BookingTable adds the per-date lookup to the booking table.
type BookingTable interface {
	Table[content.Booking, content.BookingPatch]
	ListByDate(ctx context.Context, date string) ([]content.Booking, error)
}

// Bookings is the booking service.
type Bookings struct {
	*Service[content.Booking, content.BookingPatch]
	bookings BookingTable
}

func NewBookings(t BookingTable, opts ...Option) *Bookings {
	return &Bookings{Service: New[content.Booking, content.BookingPatch]("bookings", t, opts...), bookings: t}
}

// ListByDate returns the bookings requested for date (YYYY-MM-DD), oldest
// first. Several bookings may share a slot.
func (s *Bookings) ListByDate(ctx context.Context, date string) ([]content.Booking, error) {
	return read(ctx, s.cfg, "list bookings by date", func() ([]content.Booking, error) {
		return s.bookings.ListByDate(ctx, date)
	})
}
