// Package workspace holds the state of an admin session: whether it is
// signed in, the cached post, booking and contact lists, and the change
// subscriptions that keep those lists current.
package workspace

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/wealthwise/content"
	"github.com/eringen/wealthwise/feed"
	"github.com/eringen/wealthwise/service"
)

// State is the authentication state of a workspace.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// ErrUnauthenticated is returned by operations that need a signed-in workspace.
var ErrUnauthenticated = errors.New("workspace: not authenticated")

// Services are the entity services a workspace works through.
type Services struct {
	Posts    *service.Posts
	Bookings *service.Bookings
	Contacts *service.Contacts
}

// Notice is pushed to watchers for every change applied to the workspace.
type Notice struct {
	Entity string         `json:"entity"`
	Type   feed.EventType `json:"type"`
	ID     string         `json:"id"`
	Record any            `json:"record,omitempty"`
}

// Workspace is the state of one admin session. Transitions happen only
// through Login, Resume and Logout.
type Workspace struct {
	id   string
	gate *Gate
	svc  Services
	log  *slog.Logger

	mu       sync.Mutex
	state    State
	gen      uint64 // bumped on logout; work started by an older session is dropped
	loadErrs map[string]error
	watchers map[chan Notice]struct{}
	lastSeen time.Time

	posts    List[content.BlogPost]
	bookings List[content.Booking]
	contacts List[content.Contact]

	drafts drafts
}

func New(id string, gate *Gate, svc Services, log *slog.Logger) *Workspace {
	if log == nil {
		log = slog.Default()
	}
	return &Workspace{
		id:       id,
		gate:     gate,
		svc:      svc,
		log:      log.With("workspace", id),
		loadErrs: make(map[string]error),
		watchers: make(map[chan Notice]struct{}),
		lastSeen: time.Now(),
	}
}

func (w *Workspace) ID() string { return w.id }

func (w *Workspace) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workspace) Authenticated() bool { return w.State() == Authenticated }

// Login checks password and on success enters the authenticated state,
// loading every list and subscribing to changes. A wrong password changes
// nothing, including an existing authenticated session.
func (w *Workspace) Login(ctx context.Context, password string) bool {
	if !w.gate.Check(password) {
		w.log.WarnContext(ctx, "admin login rejected")
		return false
	}
	w.enter(ctx)
	w.log.InfoContext(ctx, "admin logged in")
	return true
}

// Resume enters the authenticated state for a session that logged in
// earlier, without asking for the password again.
func (w *Workspace) Resume(ctx context.Context) {
	if w.Authenticated() {
		w.touch()
		return
	}
	w.enter(ctx)
}

func (w *Workspace) enter(ctx context.Context) {
	w.mu.Lock()
	w.state = Authenticated
	w.lastSeen = time.Now()
	gen := w.gen
	w.mu.Unlock()

	// Lists hold back events from here until their load lands, so a change
	// committed while a list is read is replayed on top of it.
	w.begin()
	w.subscribe(gen)
	w.Refresh(ctx)
}

func (w *Workspace) begin() {
	w.posts.Begin()
	w.bookings.Begin()
	w.contacts.Begin()
}

// current runs fn under the workspace lock if the session that started at
// gen is still signed in.
func (w *Workspace) current(gen uint64, fn func()) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gen != gen || w.state != Authenticated {
		return false
	}
	fn()
	return true
}

// Refresh reloads every list concurrently. A list that fails to load is
// left empty and its error is kept for LoadErrors.
func (w *Workspace) Refresh(ctx context.Context) {
	w.mu.Lock()
	gen, state := w.gen, w.state
	w.mu.Unlock()
	if state != Authenticated {
		return
	}
	w.begin()

	var g errgroup.Group
	var mu sync.Mutex
	errs := make(map[string]error)
	record := func(name string, err error) {
		if err != nil {
			w.log.ErrorContext(ctx, "load failed", "entity", name, "error", err)
			mu.Lock()
			errs[name] = err
			mu.Unlock()
		}
	}

	g.Go(func() error {
		items, err := w.svc.Posts.List(ctx)
		record("posts", err)
		w.current(gen, func() { w.posts.Set(items) })
		return nil
	})
	g.Go(func() error {
		items, err := w.svc.Bookings.List(ctx)
		record("bookings", err)
		w.current(gen, func() { w.bookings.Set(items) })
		return nil
	})
	g.Go(func() error {
		items, err := w.svc.Contacts.List(ctx)
		record("contacts", err)
		w.current(gen, func() { w.contacts.Set(items) })
		return nil
	})
	_ = g.Wait()

	w.current(gen, func() { w.loadErrs = errs })
}

func (w *Workspace) subscribe(gen uint64) {
	w.svc.Posts.SubscribeToChanges(w.id, func(ev feed.Event[content.BlogPost]) {
		apply(w, gen, &w.posts, "posts", ev)
	})
	w.svc.Bookings.SubscribeToChanges(w.id, func(ev feed.Event[content.Booking]) {
		apply(w, gen, &w.bookings, "bookings", ev)
	})
	w.svc.Contacts.SubscribeToChanges(w.id, func(ev feed.Event[content.Contact]) {
		apply(w, gen, &w.contacts, "contacts", ev)
	})
}

func apply[T service.Entity](w *Workspace, gen uint64, l *List[T], entity string, ev feed.Event[T]) {
	if !w.current(gen, func() { l.Apply(ev) }) {
		return
	}

	n := Notice{Entity: entity, Type: ev.Type}
	switch {
	case ev.New != nil:
		n.ID, n.Record = (*ev.New).EntityID(), *ev.New
	case ev.Old != nil:
		n.ID = (*ev.Old).EntityID()
	}
	w.broadcast(n)
}

func (w *Workspace) broadcast(n Notice) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for ch := range w.watchers {
		select {
		case ch <- n:
		default:
			w.log.Warn("watcher too slow, notice dropped", "entity", n.Entity, "id", n.ID)
		}
	}
}

// Logout clears the session: state, cached lists, drafts, watchers and
// every change subscription.
func (w *Workspace) Logout() {
	w.release()
	w.log.Info("admin logged out")
}

// release drops everything the workspace holds and returns it to Anonymous.
func (w *Workspace) release() {
	w.mu.Lock()
	w.state = Anonymous
	w.gen++
	w.loadErrs = make(map[string]error)
	for ch := range w.watchers {
		close(ch)
	}
	w.watchers = make(map[chan Notice]struct{})
	// Cleared under the lock: an event or load in flight either lands before
	// this point or sees the new generation and is dropped.
	w.posts.Clear()
	w.bookings.Clear()
	w.contacts.Clear()
	w.mu.Unlock()

	w.svc.Posts.UnsubscribeOwner(w.id)
	w.svc.Bookings.UnsubscribeOwner(w.id)
	w.svc.Contacts.UnsubscribeOwner(w.id)
	w.drafts.clear()
}

// Watch streams notices until ctx ends or the workspace logs out.
func (w *Workspace) Watch(ctx context.Context) (<-chan Notice, error) {
	w.mu.Lock()
	if w.state != Authenticated {
		w.mu.Unlock()
		return nil, ErrUnauthenticated
	}
	ch := make(chan Notice, 32)
	w.watchers[ch] = struct{}{}
	w.mu.Unlock()

	go func() {
		<-ctx.Done()
		w.mu.Lock()
		if _, ok := w.watchers[ch]; ok {
			delete(w.watchers, ch)
			close(ch)
		}
		w.mu.Unlock()
	}()
	return ch, nil
}

// LoadErrors returns the errors of the last load, by entity.
func (w *Workspace) LoadErrors() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]string, len(w.loadErrs))
	for k, err := range w.loadErrs {
		out[k] = err.Error()
	}
	return out
}

func (w *Workspace) touch() {
	w.mu.Lock()
	w.lastSeen = time.Now()
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

func (w *Workspace) require() error {
	if !w.Authenticated() {
		return ErrUnauthenticated
	}
	w.touch()
	return nil
}
