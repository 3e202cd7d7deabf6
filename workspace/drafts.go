package workspace

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/eringen/wealthwise/composer"
)

// ErrNoDraft is returned for an unknown or closed draft id.
var ErrNoDraft = errors.New("workspace: no such draft")

// drafts are the post bodies being edited in this session, by draft id.
type drafts struct {
	mu    sync.Mutex
	items map[string]*composer.Composer
}

func (d *drafts) put(c *composer.Composer) string {
	id := uuid.NewString()
	d.mu.Lock()
	if d.items == nil {
		d.items = make(map[string]*composer.Composer)
	}
	d.items[id] = c
	d.mu.Unlock()
	return id
}

func (d *drafts) get(id string) (*composer.Composer, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.items[id]
	return c, ok
}

func (d *drafts) remove(id string) {
	d.mu.Lock()
	delete(d.items, id)
	d.mu.Unlock()
}

func (d *drafts) clear() {
	d.mu.Lock()
	d.items = nil
	d.mu.Unlock()
}

// OpenDraft starts editing body, which may be empty or previously stored
// content in either format, and returns the draft id.
func (w *Workspace) OpenDraft(body string) (string, *composer.Composer, error) {
	if err := w.require(); err != nil {
		return "", nil, err
	}
	c, err := composer.Load(body)
	if err != nil {
		return "", nil, err
	}
	return w.drafts.put(c), c, nil
}

// Draft returns an open draft.
func (w *Workspace) Draft(id string) (*composer.Composer, error) {
	if err := w.require(); err != nil {
		return nil, err
	}
	c, ok := w.drafts.get(id)
	if !ok {
		return nil, ErrNoDraft
	}
	return c, nil
}

func (w *Workspace) CloseDraft(id string) {
	w.drafts.remove(id)
}
