package workspace

import (
	"context"

	"github.com/eringen/wealthwise/content"
)

// Posts returns the cached posts. Anonymous workspaces hold no data.
func (w *Workspace) Posts() []content.BlogPost   { return w.posts.Items() }
func (w *Workspace) Bookings() []content.Booking { return w.bookings.Items() }
func (w *Workspace) Contacts() []content.Contact { return w.contacts.Items() }

// Writes go through the services; the returned record is applied to the
// cache at once and the change event reconciles it later.

func (w *Workspace) CreatePost(ctx context.Context, p content.BlogPost) (content.BlogPost, error) {
	if err := w.require(); err != nil {
		return content.BlogPost{}, err
	}
	created, err := w.svc.Posts.Create(ctx, p)
	if err != nil {
		return content.BlogPost{}, err
	}
	w.posts.Put(created)
	return created, nil
}

func (w *Workspace) UpdatePost(ctx context.Context, id string, patch content.PostPatch) (content.BlogPost, error) {
	if err := w.require(); err != nil {
		return content.BlogPost{}, err
	}
	updated, err := w.svc.Posts.Update(ctx, id, patch)
	if err != nil {
		return content.BlogPost{}, err
	}
	w.posts.Put(updated)
	return updated, nil
}

func (w *Workspace) DeletePost(ctx context.Context, id string) (bool, error) {
	if err := w.require(); err != nil {
		return false, err
	}
	removed, err := w.svc.Posts.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	w.posts.Remove(id)
	return removed, nil
}

func (w *Workspace) UpdateBooking(ctx context.Context, id string, patch content.BookingPatch) (content.Booking, error) {
	if err := w.require(); err != nil {
		return content.Booking{}, err
	}
	updated, err := w.svc.Bookings.Update(ctx, id, patch)
	if err != nil {
		return content.Booking{}, err
	}
	w.bookings.Put(updated)
	return updated, nil
}

func (w *Workspace) DeleteBooking(ctx context.Context, id string) (bool, error) {
	if err := w.require(); err != nil {
		return false, err
	}
	removed, err := w.svc.Bookings.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	w.bookings.Remove(id)
	return removed, nil
}

func (w *Workspace) UpdateContact(ctx context.Context, id string, patch content.ContactPatch) (content.Contact, error) {
	if err := w.require(); err != nil {
		return content.Contact{}, err
	}
	updated, err := w.svc.Contacts.Update(ctx, id, patch)
	if err != nil {
		return content.Contact{}, err
	}
	w.contacts.Put(updated)
	return updated, nil
}

func (w *Workspace) DeleteContact(ctx context.Context, id string) (bool, error) {
	if err := w.require(); err != nil {
		return false, err
	}
	removed, err := w.svc.Contacts.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	w.contacts.Remove(id)
	return removed, nil
}
