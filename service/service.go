// Package service exposes one uniform contract per entity on top of the
// content store: ordered list, get, create, partial update, delete and a
// change subscription held at most once per owner.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/eringen/wealthwise/content"
	"github.com/eringen/wealthwise/feed"
)

// Entity is a record kept by the content store.
type Entity interface {
	EntityID() string
	Validate() error
}

// Table is the store contract for one entity with patch type P.
type Table[T Entity, P any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Insert(ctx context.Context, v T) (T, error)
	Update(ctx context.Context, id string, patch P) (T, error)
	Delete(ctx context.Context, id string) (bool, error)
	Changes() *feed.Hub[T]
}

type config struct {
	retries    uint64
	initial    time.Duration
	maxElapsed time.Duration
	log        *slog.Logger
}

type Option func(*config)

// WithRetry bounds read retries. retries == 0 disables them.
func WithRetry(retries uint64, initial time.Duration) Option {
	return func(c *config) {
		c.retries = retries
		c.initial = initial
	}
}

func WithLogger(l *slog.Logger) Option { return func(c *config) { c.log = l } }

func newConfig(opts []Option) config {
	c := config{retries: 3, initial: 100 * time.Millisecond, maxElapsed: 5 * time.Second, log: slog.Default()}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Service wraps a Table. Reads are retried with exponential backoff when the
// store reports a *content.StoreError; writes are single attempts.
type Service[T Entity, P any] struct {
	name  string
	table Table[T, P]
	cfg   config

	mu   sync.Mutex
	subs map[string]*feed.Subscription
}

func New[T Entity, P any](name string, t Table[T, P], opts ...Option) *Service[T, P] {
	return &Service[T, P]{
		name:  name,
		table: t,
		cfg:   newConfig(opts),
		subs:  make(map[string]*feed.Subscription),
	}
}

func (s *Service[T, P]) Name() string { return s.name }

func (c config) policy(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.initial
	eb.MaxElapsedTime = c.maxElapsed
	return backoff.WithContext(backoff.WithMaxRetries(eb, c.retries), ctx)
}

// read runs fn, retrying store failures only.
func read[V any](ctx context.Context, c config, op string, fn func() (V, error)) (V, error) {
	attempt := 0
	return backoff.RetryWithData(func() (V, error) {
		attempt++
		v, err := fn()
		if err == nil {
			return v, nil
		}
		if !content.IsStoreError(err) {
			return v, backoff.Permanent(err)
		}
		c.log.WarnContext(ctx, "store read failed", "op", op, "attempt", attempt, "error", err)
		return v, err
	}, c.policy(ctx))
}

// List returns every record in the store's order for this entity.
func (s *Service[T, P]) List(ctx context.Context) ([]T, error) {
	return read(ctx, s.cfg, "list "+s.name, func() ([]T, error) { return s.table.List(ctx) })
}

func (s *Service[T, P]) Get(ctx context.Context, id string) (T, error) {
	return read(ctx, s.cfg, "get "+s.name, func() (T, error) { return s.table.Get(ctx, id) })
}

// Create checks required fields, then inserts v. The store assigns the id
// and timestamps.
func (s *Service[T, P]) Create(ctx context.Context, v T) (T, error) {
	if err := v.Validate(); err != nil {
		var zero T
		return zero, err
	}
	return s.table.Insert(ctx, v)
}

// Update applies patch to the record id. Missing ids yield content.ErrNotFound.
func (s *Service[T, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	return s.table.Update(ctx, id, patch)
}

// Delete removes the record and reports whether it existed. Deleting an
// unknown id is not an error.
func (s *Service[T, P]) Delete(ctx context.Context, id string) (bool, error) {
	return s.table.Delete(ctx, id)
}

// Changes is the underlying feed, for subscribers that are not owners.
func (s *Service[T, P]) Changes() *feed.Hub[T] { return s.table.Changes() }

// SubscribeToChanges registers fn for owner. While owner already holds an
// active subscription that handle is returned and fn is ignored.
func (s *Service[T, P]) SubscribeToChanges(owner string, fn func(feed.Event[T])) *feed.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.subs[owner]; ok && sub.Active() {
		return sub
	}
	sub := s.table.Changes().Subscribe(fn)
	s.subs[owner] = sub
	return sub
}

// Unsubscribe releases sub. Releasing a closed or nil handle is a no-op.
func (s *Service[T, P]) Unsubscribe(sub *feed.Subscription) {
	if sub == nil {
		return
	}
	s.mu.Lock()
	for owner, held := range s.subs {
		if held == sub {
			delete(s.subs, owner)
		}
	}
	s.mu.Unlock()
	sub.Unsubscribe()
}

// UnsubscribeOwner releases whatever subscription owner holds.
func (s *Service[T, P]) UnsubscribeOwner(owner string) {
	s.mu.Lock()
	sub := s.subs[owner]
	delete(s.subs, owner)
	s.mu.Unlock()
	sub.Unsubscribe()
}

// Subscribed reports whether owner holds an active subscription.
func (s *Service[T, P]) Subscribed(owner string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs[owner].Active()
}

type Contacts = Service[content.Contact, content.ContactPatch]
