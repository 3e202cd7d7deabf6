package store

import (
	"context"

	"github.com/eringen/wealthwise/content"
	"github.com/eringen/wealthwise/feed"
)

var contactColumns = []string{
	"id", "name", "email", "subject", "message", "phone", "status", "created_at", "updated_at",
}

// Contacts is the contacts table.
type Contacts struct {
	table[content.Contact]
}

func newContacts(d *DB, local bool) *Contacts {
	return &Contacts{table[content.Contact]{
		db: d, name: "contacts", columns: contactColumns,
		scan: scanContact, hub: feed.NewHub[content.Contact](), local: local,
	}}
}

func scanContact(r rowScanner) (content.Contact, error) {
	var c content.Contact
	var status string
	var created, updated scanTime
	if err := r.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.Phone,
		&status, &created, &updated); err != nil {
		return content.Contact{}, err
	}
	c.Status = content.ContactStatus(status)
	c.CreatedAt = created.Time
	c.UpdatedAt = updated.Time
	return c, nil
}

func (t *Contacts) Changes() *feed.Hub[content.Contact] { return t.hub }

func (t *Contacts) List(ctx context.Context) ([]content.Contact, error) {
	return t.query(ctx, "list contacts", "", "created_at DESC")
}

func (t *Contacts) Get(ctx context.Context, id string) (content.Contact, error) {
	return t.queryRow(ctx, "get contact", "id = ?", id)
}

// Insert stores c under a fresh id. An empty status becomes new.
func (t *Contacts) Insert(ctx context.Context, c content.Contact) (content.Contact, error) {
	if c.Status == "" {
		c.Status = content.ContactNew
	}
	if err := c.Validate(); err != nil {
		return content.Contact{}, err
	}
	ts := formatTime(now())
	return t.insert(ctx, "insert contact", []any{
		newID(), c.Name, c.Email, c.Subject, c.Message, c.Phone, string(c.Status), ts, ts,
	})
}

func (t *Contacts) Update(ctx context.Context, id string, p content.ContactPatch) (content.Contact, error) {
	if p.Status != nil && !p.Status.Valid() {
		return content.Contact{}, &content.ValidationError{Field: "status", Reason: "is not a contact status"}
	}
	var s setter
	setIf(&s, "name", p.Name)
	setIf(&s, "email", p.Email)
	setIf(&s, "subject", p.Subject)
	setIf(&s, "message", p.Message)
	setIf(&s, "phone", p.Phone)
	if p.Status != nil {
		s.set("status", string(*p.Status))
	}
	return t.update(ctx, "update contact", id, s)
}

func (t *Contacts) Delete(ctx context.Context, id string) (bool, error) {
	return t.delete(ctx, "delete contact", id)
}
