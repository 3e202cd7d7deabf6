package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/eringen/wealthwise/content"
	"github.com/eringen/wealthwise/feed"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// table holds the SQL plumbing shared by the entity tables.
type table[T any] struct {
	db      *DB
	name    string
	columns []string
	scan    func(rowScanner) (T, error)
	hub     *feed.Hub[T]
	local   bool
}

func (t *table[T]) selectList() string { return strings.Join(t.columns, ", ") }

func (t *table[T]) query(ctx context.Context, op, where, order string, args ...any) ([]T, error) {
	q := "SELECT " + t.selectList() + " FROM " + t.name
	if where != "" {
		q += " WHERE " + where
	}
	if order != "" {
		q += " ORDER BY " + order
	}
	rows, err := t.db.db.QueryContext(ctx, t.db.rebind(q), args...)
	if err != nil {
		return nil, mapErr(op, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := t.scan(rows)
		if err != nil {
			return nil, mapErr(op, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(op, err)
	}
	return out, nil
}

func (t *table[T]) queryRow(ctx context.Context, op, where string, args ...any) (T, error) {
	q := "SELECT " + t.selectList() + " FROM " + t.name + " WHERE " + where
	v, err := t.scan(t.db.db.QueryRowContext(ctx, t.db.rebind(q), args...))
	if err != nil {
		var zero T
		return zero, mapErr(op, err)
	}
	return v, nil
}

// insert writes one row. values must follow t.columns and the returned row
// is published as an INSERT event.
func (t *table[T]) insert(ctx context.Context, op string, values []any) (T, error) {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	q := "INSERT INTO " + t.name + " (" + t.selectList() + ") VALUES (" + marks + ") RETURNING " + t.selectList()
	v, err := t.scan(t.db.db.QueryRowContext(ctx, t.db.rebind(q), values...))
	if err != nil {
		var zero T
		return zero, mapErr(op, err)
	}
	if t.local {
		t.hub.Publish(feed.Inserted(v))
	}
	return v, nil
}

// setter collects the assignments of a partial update.
type setter struct {
	cols []string
	args []any
}

func (s *setter) set(col string, v any) {
	s.cols = append(s.cols, col+" = ?")
	s.args = append(s.args, v)
}

func setIf[V any](s *setter, col string, v *V) {
	if v != nil {
		s.set(col, *v)
	}
}

func (t *table[T]) update(ctx context.Context, op, id string, s setter) (T, error) {
	s.set("updated_at", formatTime(now()))
	q := "UPDATE " + t.name + " SET " + strings.Join(s.cols, ", ") + " WHERE id = ? RETURNING " + t.selectList()
	args := append(s.args, id)
	v, err := t.scan(t.db.db.QueryRowContext(ctx, t.db.rebind(q), args...))
	if err != nil {
		var zero T
		return zero, mapErr(op, err)
	}
	if t.local {
		t.hub.Publish(feed.Updated(nil, v))
	}
	return v, nil
}

// delete removes the row and reports whether it existed.
func (t *table[T]) delete(ctx context.Context, op, id string) (bool, error) {
	q := "DELETE FROM " + t.name + " WHERE id = ? RETURNING " + t.selectList()
	old, err := t.scan(t.db.db.QueryRowContext(ctx, t.db.rebind(q), id))
	if err != nil {
		// An id no row can carry, such as a malformed uuid, is just missing.
		if err = mapErr(op, err); errors.Is(err, content.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if t.local {
		t.hub.Publish(feed.Deleted(old))
	}
	return true, nil
}

func newID() string { return uuid.NewString() }
