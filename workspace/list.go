package workspace

import (
	"slices"
	"sync"

	"github.com/eringen/wealthwise/feed"
	"github.com/eringen/wealthwise/service"
)

// List is a cached entity list kept current by change events. Between Begin
// and Set, events are held back and replayed on top of the loaded snapshot.
type List[T service.Entity] struct {
	mu      sync.RWMutex
	items   []T
	loading bool
	pending []feed.Event[T]
}

func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.items)
}

func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Begin marks the start of a load. Events applied until Set are queued.
func (l *List[T]) Begin() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.loading {
		l.loading = true
		l.pending = nil
	}
}

// Set replaces the list with a loaded snapshot, then replays the events
// queued since Begin.
func (l *List[T]) Set(items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = slices.Clone(items)
	for _, ev := range l.pending {
		l.apply(ev)
	}
	l.loading = false
	l.pending = nil
}

func (l *List[T]) Clear() {
	l.mu.Lock()
	l.items = nil
	l.loading = false
	l.pending = nil
	l.mu.Unlock()
}

func (l *List[T]) Get(id string) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.index(id); i >= 0 {
		return l.items[i], true
	}
	var zero T
	return zero, false
}

func (l *List[T]) index(id string) int {
	return slices.IndexFunc(l.items, func(v T) bool { return v.EntityID() == id })
}

// Apply folds ev into the list: INSERT prepends, replacing any copy with the
// same id, UPDATE replaces in place and DELETE removes.
func (l *List[T]) Apply(ev feed.Event[T]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loading {
		l.pending = append(l.pending, ev)
		return
	}
	l.apply(ev)
}

func (l *List[T]) apply(ev feed.Event[T]) {
	switch ev.Type {
	case feed.Insert:
		if ev.New == nil {
			return
		}
		if i := l.index((*ev.New).EntityID()); i >= 0 {
			l.items = slices.Delete(l.items, i, i+1)
		}
		l.items = slices.Insert(l.items, 0, *ev.New)
	case feed.Update:
		if ev.New == nil {
			return
		}
		if i := l.index((*ev.New).EntityID()); i >= 0 {
			l.items[i] = *ev.New
		}
	case feed.Delete:
		if ev.Old == nil {
			return
		}
		if i := l.index((*ev.Old).EntityID()); i >= 0 {
			l.items = slices.Delete(l.items, i, i+1)
		}
	}
}

// Put stores a record returned by a local write ahead of its change event.
func (l *List[T]) Put(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.index(v.EntityID()); i >= 0 {
		l.items[i] = v
		return
	}
	l.items = slices.Insert(l.items, 0, v)
}

func (l *List[T]) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.index(id); i >= 0 {
		l.items = slices.Delete(l.items, i, i+1)
	}
}
