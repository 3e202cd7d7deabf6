package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/eringen/wealthwise/content"
	"github.com/eringen/wealthwise/feed"
	"github.com/eringen/wealthwise/store"
)

func openStore(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(context.Background(), "sqlite:"+filepath.Join(t.TempDir(), "site.db"), store.Options{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// flakyBookings fails the first n reads with a store error.
type flakyBookings struct {
	*store.Bookings
	mu       sync.Mutex
	failures int
	calls    int
	err      error
}

func (f *flakyBookings) List(ctx context.Context) ([]content.Booking, error) {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failures
	f.mu.Unlock()
	if fail {
		return nil, f.err
	}
	return f.Bookings.List(ctx)
}

func TestReadsRetryStoreErrors(t *testing.T) {
	db := openStore(t)
	flaky := &flakyBookings{
		Bookings: db.Bookings,
		failures: 2,
		err:      &content.StoreError{Op: "list bookings", Err: errors.New("connection reset")},
	}
	svc := New[content.Booking, content.BookingPatch]("bookings", flaky, WithRetry(3, time.Millisecond))

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List should succeed after retries: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("List = %v, want empty slice", got)
	}
	if flaky.calls != 3 {
		t.Errorf("calls = %d, want 3", flaky.calls)
	}
}

func TestReadsGiveUpAfterRetries(t *testing.T) {
	db := openStore(t)
	flaky := &flakyBookings{
		Bookings: db.Bookings,
		failures: 100,
		err:      &content.StoreError{Op: "list bookings", Err: errors.New("down")},
	}
	svc := New[content.Booking, content.BookingPatch]("bookings", flaky, WithRetry(2, time.Millisecond))

	_, err := svc.List(context.Background())
	if !content.IsStoreError(err) {
		t.Fatalf("expected store error, got %v", err)
	}
	if flaky.calls != 3 {
		t.Errorf("calls = %d, want 3 (1 + 2 retries)", flaky.calls)
	}
}

func TestNonStoreErrorsAreNotRetried(t *testing.T) {
	db := openStore(t)
	flaky := &flakyBookings{Bookings: db.Bookings, failures: 100, err: content.ErrNotFound}
	svc := New[content.Booking, content.BookingPatch]("bookings", flaky, WithRetry(5, time.Millisecond))

	if _, err := svc.List(context.Background()); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if flaky.calls != 1 {
		t.Errorf("calls = %d, want 1", flaky.calls)
	}
}

// failingInsert counts writes and always fails them with a store error.
type failingInsert struct {
	*store.Bookings
	calls int
}

func (f *failingInsert) Insert(ctx context.Context, b content.Booking) (content.Booking, error) {
	f.calls++
	return content.Booking{}, &content.StoreError{Op: "insert booking", Err: errors.New("timeout")}
}

func TestWritesAreSingleAttempt(t *testing.T) {
	db := openStore(t)
	f := &failingInsert{Bookings: db.Bookings}
	svc := New[content.Booking, content.BookingPatch]("bookings", f, WithRetry(5, time.Millisecond))

	_, err := svc.Create(context.Background(), content.Booking{Name: "A", Email: "a@x.com", Phone: "1", Date: "2025-06-10", TimeSlot: "10:00 AM"})
	if !content.IsStoreError(err) {
		t.Fatalf("expected store error, got %v", err)
	}
	if f.calls != 1 {
		t.Errorf("insert calls = %d, want 1", f.calls)
	}
}

func TestCreateValidatesBeforeStore(t *testing.T) {
	db := openStore(t)
	f := &failingInsert{Bookings: db.Bookings}
	svc := New[content.Booking, content.BookingPatch]("bookings", f)

	_, err := svc.Create(context.Background(), content.Booking{Name: "A", Email: "a@x.com"})
	if !errors.Is(err, content.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.calls != 0 {
		t.Error("store must not be called for invalid input")
	}
}

func TestCreatePostDerivesSlug(t *testing.T) {
	db := openStore(t)
	posts := NewPosts(db.Posts)

	p, err := posts.Create(context.Background(), content.BlogPost{
		Title: "Power of SIP", Excerpt: "e", CoverImage: "https://x/c.jpg",
		Content: `{"version":1,"blocks":[{"type":"text","content":"<p>Invest monthly.</p>"}]}`,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Slug != "power-of-sip" {
		t.Errorf("Slug = %q, want power-of-sip", p.Slug)
	}
	if p.ReadingTime != "1 min read" || p.Author != content.DefaultAuthor {
		t.Errorf("defaults = %q / %q", p.ReadingTime, p.Author)
	}

	_, err = posts.Create(context.Background(), content.BlogPost{
		Title: "Power of SIP!", Excerpt: "e", CoverImage: "https://x/c.jpg",
	})
	if !errors.Is(err, content.ErrConflict) {
		t.Errorf("second post with the same slug should conflict, got %v", err)
	}
}

func TestUpdatePostNormalisesSlug(t *testing.T) {
	db := openStore(t)
	posts := NewPosts(db.Posts)
	ctx := context.Background()

	p, err := posts.Create(ctx, content.BlogPost{Title: "Old", Slug: "old", Excerpt: "e", CoverImage: "c"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	slug := "  New Slug "
	body := "one two three"
	got, err := posts.Update(ctx, p.ID, content.PostPatch{Slug: &slug, Content: &body})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Slug != "new-slug" || got.ReadingTime != "1 min read" {
		t.Errorf("updated = %q / %q", got.Slug, got.ReadingTime)
	}
	empty := "!!!"
	if _, err := posts.Update(ctx, p.ID, content.PostPatch{Slug: &empty}); !errors.Is(err, content.ErrValidation) {
		t.Errorf("expected validation error for empty slug, got %v", err)
	}
	if _, err := posts.Update(ctx, "missing", content.PostPatch{Slug: &slug}); !errors.Is(err, content.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletedPostLeavesList(t *testing.T) {
	db := openStore(t)
	posts := NewPosts(db.Posts)
	ctx := context.Background()

	events := make(chan feed.Event[content.BlogPost], 4)
	sub := posts.SubscribeToChanges("session-1", func(ev feed.Event[content.BlogPost]) { events <- ev })
	defer posts.Unsubscribe(sub)

	p, err := posts.Create(ctx, content.BlogPost{Title: "Delete me", Excerpt: "e", CoverImage: "c"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	removed, err := posts.Delete(ctx, p.ID)
	if err != nil || !removed {
		t.Fatalf("Delete = %v, %v", removed, err)
	}
	list, err := posts.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, q := range list {
		if q.ID == p.ID {
			t.Fatal("deleted post still listed")
		}
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Type == feed.Delete {
				if ev.Old == nil || ev.Old.ID != p.ID {
					t.Errorf("DELETE event for %+v", ev.Old)
				}
				return
			}
		case <-deadline:
			t.Fatal("no DELETE event")
		}
	}
}

func TestTwoSubscribersReceiveInsert(t *testing.T) {
	db := openStore(t)
	bookings := New[content.Booking, content.BookingPatch]("bookings", db.Bookings)

	var wg sync.WaitGroup
	wg.Add(2)
	got := make([]string, 2)
	for i, owner := range []string{"session-a", "session-b"} {
		i := i
		bookings.SubscribeToChanges(owner, func(ev feed.Event[content.Booking]) {
			if ev.Type == feed.Insert {
				got[i] = ev.New.ID
				wg.Done()
			}
		})
	}

	b, err := bookings.Create(context.Background(), content.Booking{Name: "A", Email: "a@x.com", Phone: "123", Date: "2025-06-10", TimeSlot: "10:00 AM"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("both subscribers should receive the INSERT")
	}
	for i, id := range got {
		if id != b.ID {
			t.Errorf("subscriber %d got %q, want %q", i, id, b.ID)
		}
	}
}

func TestSubscribeOncePerOwner(t *testing.T) {
	db := openStore(t)
	contacts := New[content.Contact, content.ContactPatch]("contacts", db.Contacts)
	noop := func(feed.Event[content.Contact]) {}

	first := contacts.SubscribeToChanges("owner", noop)
	second := contacts.SubscribeToChanges("owner", noop)
	if first != second {
		t.Error("re-subscribing should return the existing handle")
	}
	if n := contacts.Changes().Len(); n != 1 {
		t.Errorf("hub subscribers = %d, want 1", n)
	}

	contacts.Unsubscribe(first)
	contacts.Unsubscribe(first)
	contacts.Unsubscribe(nil)
	if contacts.Subscribed("owner") {
		t.Error("owner should have no subscription after Unsubscribe")
	}
	if n := contacts.Changes().Len(); n != 0 {
		t.Errorf("hub subscribers = %d, want 0", n)
	}

	third := contacts.SubscribeToChanges("owner", noop)
	if third == first || !third.Active() {
		t.Error("subscribing after release should create a new active handle")
	}
	contacts.UnsubscribeOwner("owner")
	if third.Active() {
		// Done closes once the delivery goroutine exits.
		select {
		case <-third.Done():
		case <-time.After(time.Second):
			t.Error("UnsubscribeOwner should release the handle")
		}
	}
}

func TestDeleteMissingIsNotAnError(t *testing.T) {
	db := openStore(t)
	contacts := New[content.Contact, content.ContactPatch]("contacts", db.Contacts)
	removed, err := contacts.Delete(context.Background(), "nope")
	if err != nil || removed {
		t.Errorf("Delete(missing) = %v, %v; want false, nil", removed, err)
	}
}

func TestBookingsListByDate(t *testing.T) {
	db := openStore(t)
	bookings := NewBookings(db.Bookings)
	ctx := context.Background()
	for _, date := range []string{"2025-06-10", "2025-06-11", "2025-06-10"} {
		b := content.Booking{Name: "A", Email: "a@x.com", Phone: "123", Date: date, TimeSlot: "10:00 AM"}
		if _, err := bookings.Create(ctx, b); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := bookings.ListByDate(ctx, "2025-06-10")
	if err != nil {
		t.Fatalf("ListByDate: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListByDate returned %d bookings, want 2", len(got))
	}
	for _, b := range got {
		if b.Date != "2025-06-10" {
			t.Errorf("unexpected date %s", b.Date)
		}
	}
}
