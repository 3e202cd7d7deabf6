package workspace

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Registry keeps one workspace per admin session id. Workspaces idle longer
// than the idle timeout are released; the session cookie resumes them later.
type Registry struct {
	gate *Gate
	svc  Services
	log  *slog.Logger
	idle time.Duration

	mu    sync.Mutex
	items map[string]*Workspace
}

func NewRegistry(gate *Gate, svc Services, idle time.Duration, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	return &Registry{gate: gate, svc: svc, log: log, idle: idle, items: make(map[string]*Workspace)}
}

func (r *Registry) Gate() *Gate { return r.gate }

// Open returns the workspace for id, creating an anonymous one if needed.
func (r *Registry) Open(id string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.items[id]
	if !ok {
		w = New(id, r.gate, r.svc, r.log)
		r.items[id] = w
	}
	return w
}

func (r *Registry) Get(id string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.items[id]
	return w, ok
}

// Logout logs the workspace out and forgets it.
func (r *Registry) Logout(id string) {
	r.mu.Lock()
	w, ok := r.items[id]
	delete(r.items, id)
	r.mu.Unlock()
	if ok {
		w.Logout()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep releases workspaces last used before now minus the idle timeout and
// returns how many were released.
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.idle)
	var stale []*Workspace
	r.mu.Lock()
	for id, w := range r.items {
		if w.idleSince().Before(cutoff) {
			stale = append(stale, w)
			delete(r.items, id)
		}
	}
	r.mu.Unlock()

	for _, w := range stale {
		w.release()
	}
	if len(stale) > 0 {
		r.log.Debug("released idle workspaces", "count", len(stale))
	}
	return len(stale)
}

// Run sweeps on a ticker until ctx ends, then releases every workspace.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.Close()
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}

// Close releases every workspace.
func (r *Registry) Close() {
	r.mu.Lock()
	items := r.items
	r.items = make(map[string]*Workspace)
	r.mu.Unlock()
	for _, w := range items {
		w.release()
	}
}
